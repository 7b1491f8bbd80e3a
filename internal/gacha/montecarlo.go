package gacha

import (
	"errors"
	"math"
	"sort"
)

// TrialGoal selects what the simulation measures per trial.
type TrialGoal string

const (
	// Pulls until the first hit at or above Target.
	GoalFirstHit TrialGoal = "first_hit"
	// Pulls until the first featured hit of exactly Target.
	GoalFirstFeatured TrialGoal = "first_featured"
	// Given a fixed budget of Pulls, count hits at or above Target.
	GoalFixedBudget TrialGoal = "fixed_budget"
)

// MaxTrialPulls bounds one trial of the open-ended goals.
const MaxTrialPulls = 100000

var ErrSimDiverged = errors.New("simulation trial exceeded MaxTrialPulls")

// SimParams describes one simulation run over a banner.
type SimParams struct {
	Banner *Banner
	Goal   TrialGoal
	Target Rarity
	// Pulls is the budget per trial for GoalFixedBudget.
	Pulls int
	// Carry seeds every trial's state, e.g. a player's current counters.
	Carry BannerState
	// Rarity and featured draws come from separate streams of Seed.
	Seed uint64
}

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	Max    int
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Max:     cp[n-1],
		Samples: xs,
	}
}

// simulateOne returns the metric of one trial for the goal.
func simulateOne(p SimParams, rarityRNG RandomSource, picker *RateUpPicker) (int, error) {
	st := p.Carry
	picker.Track(&st)
	pick := picker.Pick

	switch p.Goal {
	case GoalFirstHit, GoalFirstFeatured:
		for pulls := 1; pulls <= MaxTrialPulls; pulls++ {
			res := ApplyRoll(p.Banner, &st, rarityRNG, pick)
			if p.Goal == GoalFirstHit && res.Rarity.AtLeast(p.Target) {
				return pulls, nil
			}
			if p.Goal == GoalFirstFeatured && res.Rarity == p.Target && res.Featured {
				return pulls, nil
			}
		}
		return 0, ErrSimDiverged

	case GoalFixedBudget:
		count := 0
		for i := 0; i < p.Pulls; i++ {
			if ApplyRoll(p.Banner, &st, rarityRNG, pick).Rarity.AtLeast(p.Target) {
				count++
			}
		}
		return count, nil
	}
	return 0, errors.New("unknown simulation goal " + string(p.Goal))
}

// RunMonteCarlo repeats trials and returns summary stats. Runs with equal
// params are identical.
func RunMonteCarlo(p SimParams, trials int) (Stats, error) {
	if trials <= 0 || p.Banner == nil {
		return Stats{}, nil
	}
	rarityRNG := NewSeededStream(p.Seed, 0)
	picker := NewRateUpPicker(p.Banner, NewSeededStream(p.Seed, 1))

	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		v, err := simulateOne(p, rarityRNG, picker)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
	}
	return calcStats(samples), nil
}
