package gacha

import "math"

// Distribution is a probability per rarity, indexed by Rarity.
type Distribution [NumRarities]float64

// Of returns the probability of r.
func (d Distribution) Of(r Rarity) float64 { return d[r] }

// Sum returns the total mass.
func (d Distribution) Sum() float64 {
	var s float64
	for _, p := range d {
		s += p
	}
	return s
}

// EffectiveRates is the distribution for the upcoming pull of a banner state.
// When Forced is set the pull is decided by hard pity and Dist is empty.
type EffectiveRates struct {
	Dist              Distribution
	Forced            bool
	ForcedRarity      Rarity
	GuaranteeFeatured bool
	SRFloorActive     bool
}

// hardOrder is the priority in which hard pity rules are checked.
var hardOrder = [...]Rarity{RarityPrime, RarityUR, RaritySSR}

// BaseDistribution reads a banner's declared rate table. Missing, negative and
// non-finite entries count as 0.
func BaseDistribution(b *Banner) Distribution {
	var d Distribution
	for r, p := range b.BaseRates {
		if !r.Valid() || math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			continue
		}
		d[r] = p
	}
	return d
}

// SRFloorActive reports whether the upcoming pull is the one guaranteed to be
// at least SR.
func SRFloorActive(b *Banner, st *BannerState) bool {
	return b.Pity.SRFloor > 0 && st.Pity.SR >= b.Pity.SRFloor-1
}

// ComputeEffectiveRates applies hard pity, the SR floor and soft pity to the
// banner's base rates for the next pull of st. st is not modified.
func ComputeEffectiveRates(b *Banner, st *BannerState) EffectiveRates {
	floor := SRFloorActive(b, st)

	for _, r := range hardOrder {
		rule := b.Pity.Rule(r)
		if rule.hasHard() && st.Pity.Of(r)+1 >= rule.HardThreshold {
			return EffectiveRates{
				Forced:            true,
				ForcedRarity:      r,
				GuaranteeFeatured: rule.HardGuaranteeFeatured,
				SRFloorActive:     floor,
			}
		}
	}

	d := BaseDistribution(b)
	if floor {
		d[RarityN] = 0
		d[RarityR] = 0
	}

	for _, r := range hardOrder {
		rule := b.Pity.Rule(r)
		if !rule.hasSoft() {
			continue
		}
		d[r] = math.Min(1, d[r]+softBonus(rule, st.Pity.Of(r)))
	}

	total := d.Sum()
	if total > 0 {
		for i := range d {
			d[i] /= total
		}
	}
	return EffectiveRates{Dist: d, SRFloorActive: floor}
}

func softBonus(rule *PityRule, counter int) float64 {
	next := counter + 1
	if next <= rule.SoftThreshold {
		return 0
	}
	return float64(next-rule.SoftThreshold) * rule.SoftStep
}
