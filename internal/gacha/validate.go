package gacha

import (
	"math"
)

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}

// ValidateBanner checks a banner's rate table and pity rules and returns one
// message per problem.
func ValidateBanner(b *Banner) []string {
	var errs []string
	if b.ID == "" {
		errs = append(errs, "id is required")
	}
	var total float64
	for r, p := range b.BaseRates {
		if !r.Valid() {
			errs = append(errs, "base_rates has an unknown rarity")
			continue
		}
		if validateProb(p) != nil {
			errs = append(errs, "base_rates."+r.String()+" must be in [0,1]")
			continue
		}
		total += p
	}
	if math.Abs(total-1) > 1e-6 {
		errs = append(errs, "base_rates must sum to 1")
	}
	if b.Pity.SRFloor < 0 {
		errs = append(errs, "pity.sr_floor must be >= 0")
	}
	for _, r := range hardOrder {
		rule := b.Pity.Rule(r)
		if rule == nil {
			continue
		}
		name := "pity." + r.String()
		if rule.SoftThreshold < 0 || rule.HardThreshold < 0 {
			errs = append(errs, name+" thresholds must be >= 0")
		}
		if rule.SoftStep < 0 || validateProb(rule.SoftStep) != nil {
			errs = append(errs, name+".soft_step must be in [0,1]")
		}
		if rule.hasHard() && rule.hasSoft() && rule.SoftThreshold >= rule.HardThreshold {
			errs = append(errs, name+".soft_threshold must be below hard_threshold")
		}
		if !rule.hasHard() && !rule.hasSoft() {
			errs = append(errs, name+" defines neither soft nor hard pity")
		}
	}
	if b.Pity.SSR == nil && b.Pity.UR == nil && b.Pity.Prime == nil {
		errs = append(errs, "pity needs at least one of ssr, ur, prime")
	}
	for _, u := range b.Featured {
		if u.ID == "" {
			errs = append(errs, "featured entry without id")
		}
		if !u.Rarity.Valid() {
			errs = append(errs, "featured["+u.ID+"] has an unknown rarity")
		}
	}
	if b.Cost.Single <= 0 {
		errs = append(errs, "cost.single must be > 0")
	}
	if b.Cost.Ten < 0 {
		errs = append(errs, "cost.ten must be >= 0")
	}
	if b.RateUpShare < 0 || b.RateUpShare > 1 {
		errs = append(errs, "rate_up_share must be in [0,1]")
	}
	if b.MaxOffStreak < 0 {
		errs = append(errs, "max_off_streak must be >= 0")
	}
	return errs
}
