package gacha

// PityTrigger labels which pity mechanism, if any, decided a pull.
type PityTrigger string

const (
	TriggerNone    PityTrigger = ""
	TriggerHard    PityTrigger = "hard"
	TriggerSRFloor PityTrigger = "srFloor"
	TriggerSoft    PityTrigger = "soft"
)

const (
	maxDraw     = 0.999999
	drawEpsilon = 1e-8
)

// FeaturedFunc decides whether a hit of rarity r lands on a featured unit.
// It must return true whenever guaranteed is set.
type FeaturedFunc func(r Rarity, guaranteed bool) bool

// RollOutcome is the rarity decision of one pull, before counters move.
type RollOutcome struct {
	Rarity            Rarity
	Trigger           PityTrigger
	GuaranteeFeatured bool
}

// RollResult is one applied pull.
type RollResult struct {
	Rarity     Rarity       `json:"rarity" yaml:"rarity"`
	Featured   bool         `json:"featured" yaml:"featured"`
	Trigger    PityTrigger  `json:"pity,omitempty" yaml:"pity,omitempty"`
	Guaranteed bool         `json:"guaranteed,omitempty" yaml:"guaranteed,omitempty"`
	Counters   PityCounters `json:"counters" yaml:"counters"`
	// Pull is the state's total pull count including this one.
	Pull int `json:"pull" yaml:"pull"`
}

// RollOnce decides the rarity of the next pull of st. It draws at most one
// value from rng and does not modify st.
func RollOnce(b *Banner, st *BannerState, rng RandomSource) RollOutcome {
	er := ComputeEffectiveRates(b, st)
	if er.Forced {
		return RollOutcome{Rarity: er.ForcedRarity, Trigger: TriggerHard, GuaranteeFeatured: er.GuaranteeFeatured}
	}

	r := sample(er.Dist, clampDraw(rng.Float64()))
	if er.SRFloorActive && r < RaritySR {
		return RollOutcome{Rarity: RaritySR, Trigger: TriggerSRFloor}
	}
	if rule := b.Pity.Rule(r); rule.hasSoft() && st.Pity.Of(r)+1 > rule.SoftThreshold {
		return RollOutcome{Rarity: r, Trigger: TriggerSoft}
	}
	return RollOutcome{Rarity: r}
}

// ApplyRoll performs one pull: it decides the rarity, moves the counters,
// counts the pull and resolves the featured hit through pick.
func ApplyRoll(b *Banner, st *BannerState, rng RandomSource, pick FeaturedFunc) RollResult {
	out := RollOnce(b, st, rng)
	ResetCountersAfterHit(st, out.Rarity)
	st.Pulls++

	featured := out.GuaranteeFeatured
	if pick != nil {
		featured = pick(out.Rarity, out.GuaranteeFeatured)
	}
	return RollResult{
		Rarity:     out.Rarity,
		Featured:   featured,
		Trigger:    out.Trigger,
		Guaranteed: out.GuaranteeFeatured,
		Counters:   st.Pity,
		Pull:       st.Pulls,
	}
}

// RollBanner performs one pull against the banner's state in states.
func RollBanner(b *Banner, states StateMap, rng RandomSource, pick FeaturedFunc) RollResult {
	return ApplyRoll(b, states.Resolve(b), rng, pick)
}

// MultiRoll performs n sequential pulls sharing one state. A ten-pull is not
// atomic: hard pity reached mid-batch applies to the remaining pulls.
func MultiRoll(b *Banner, states StateMap, n int, rng RandomSource, pick FeaturedFunc) []RollResult {
	if n <= 0 {
		return nil
	}
	st := states.Resolve(b)
	out := make([]RollResult, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ApplyRoll(b, st, rng, pick))
	}
	return out
}

func clampDraw(u float64) float64 {
	if !(u > 0) {
		return 0
	}
	if u > maxDraw {
		return maxDraw
	}
	return u
}

// sample walks drawOrder accumulating mass until it covers u. Rarities with
// no mass are never picked.
func sample(d Distribution, u float64) Rarity {
	var acc float64
	for _, r := range drawOrder {
		p := d[r]
		if p <= 0 {
			continue
		}
		acc += p
		if acc+drawEpsilon >= u {
			return r
		}
	}
	for i := NumRarities - 1; i >= 0; i-- {
		if r := drawOrder[i]; d[r] > 0 {
			return r
		}
	}
	return RarityN
}
