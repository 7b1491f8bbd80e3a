package currency

import (
	"math"

	"github.com/shopspring/decimal"
)

// TaxPolicy prices upward conversions. The effective rate grows with the
// wallet's wealth index: min(Max, base * (1 + Alpha*wealth)).
type TaxPolicy struct {
	// PairBases[i] is the base rate for converting tier i into tier i+1.
	PairBases []float64 `yaml:"pair_bases"`
	// DefaultBase applies to every other upward pair.
	DefaultBase float64 `yaml:"default_base"`
	Alpha       float64 `yaml:"alpha"`
	Max         float64 `yaml:"max"`
	// WealthPivot is the top-tier-equivalent holding at which the wealth index saturates at 1.
	WealthPivot float64 `yaml:"wealth_pivot"`
}

// DefaultTaxPolicy returns the reference tax schedule.
func DefaultTaxPolicy() TaxPolicy {
	return TaxPolicy{
		PairBases:   []float64{0.005, 0.01, 0.015},
		DefaultBase: 0.02,
		Alpha:       2,
		Max:         0.10,
		WealthPivot: 100,
	}
}

// Base returns the untaxed-wealth rate for an upward pair.
func (p TaxPolicy) Base(from, to Tier) float64 {
	if to == from+1 && from >= 0 && int(from) < len(p.PairBases) {
		return p.PairBases[from]
	}
	return p.DefaultBase
}

// Rate returns the effective rate for the pair at the given wealth index.
// It is computed in decimal and never rounded.
func (p TaxPolicy) Rate(from, to Tier, wealth float64) decimal.Decimal {
	wealth = clamp01(wealth)
	r := exact(p.Base(from, to)).Mul(decimal.NewFromInt(1).Add(exact(p.Alpha).Mul(exact(wealth))))
	if p.Max > 0 && r.GreaterThan(exact(p.Max)) {
		r = exact(p.Max)
	}
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// exact reads a float as the shortest decimal that round-trips to it.
func exact(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// WealthIndex expresses w in top-tier units and scales it against the policy
// pivot, clipped to [0,1].
func (p TaxPolicy) WealthIndex(l *Ladder, rates RateProvider, w Wallet) float64 {
	if p.WealthPivot <= 0 {
		return 0
	}
	top := l.Top()
	var total float64
	for _, t := range l.Tiers() {
		if v := w[t]; v > 0 {
			total += rates.Convert(float64(v), t, top)
		}
	}
	return clamp01(total / p.WealthPivot)
}

// taxOn returns ceil(amount * rate).
func taxOn(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Ceil().IntPart()
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
