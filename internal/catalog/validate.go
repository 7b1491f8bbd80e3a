package catalog

import (
	"fmt"
	"math"
	"strings"

	gerrors "github.com/xtding233/gacha-core/internal/errors"
	"github.com/xtding233/gacha-core/internal/gacha"
)

// ValidateEconomy checks semantic constraints of a RawEconomy.
// Unset fields are not errors: BuildEconomy fills them with defaults.
func ValidateEconomy(raw RawEconomy) error {
	var errs []string

	// tiers
	if len(raw.Tiers) == 1 {
		errs = append(errs, "tiers must list at least 2 tiers")
	}
	seen := map[string]bool{}
	for i, t := range raw.Tiers {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" {
			errs = append(errs, fmt.Sprintf("tiers[%d] must not be empty", i))
			continue
		}
		if seen[key] {
			errs = append(errs, fmt.Sprintf("tiers[%d] duplicates %q", i, t))
		}
		seen[key] = true
	}

	// rates
	tiers := len(raw.Tiers)
	if tiers == 0 {
		tiers = len(defaultTierNames())
	}
	if len(raw.Rates) > 0 && len(raw.Rates) != tiers-1 {
		errs = append(errs, fmt.Sprintf("rates must have %d entries, one per adjacent tier pair", tiers-1))
	}
	for i, r := range raw.Rates {
		if !(r > 0) || math.IsInf(r, 0) {
			errs = append(errs, fmt.Sprintf("rates[%d] must be > 0", i))
		}
	}

	if raw.BatchSize < 0 {
		errs = append(errs, "batch_size must be >= 0 (0 means default)")
	}

	// tax
	if t := raw.Tax; t != nil {
		for i, b := range t.PairBases {
			if b < 0 || b > 1 {
				errs = append(errs, fmt.Sprintf("tax.pair_bases[%d] must be in [0,1]", i))
			}
		}
		if t.DefaultBase != nil && (*t.DefaultBase < 0 || *t.DefaultBase > 1) {
			errs = append(errs, "tax.default_base must be in [0,1]")
		}
		if t.Alpha != nil && *t.Alpha < 0 {
			errs = append(errs, "tax.alpha must be >= 0")
		}
		if t.Max != nil && (*t.Max <= 0 || *t.Max > 1) {
			errs = append(errs, "tax.max must be in (0,1]")
		}
		if t.WealthPivot != nil && *t.WealthPivot <= 0 {
			errs = append(errs, "tax.wealth_pivot must be > 0")
		}
	}

	// store
	if st := raw.Store; st != nil {
		if strings.TrimSpace(st.Tier) == "" {
			errs = append(errs, "store.tier is required")
		} else if len(raw.Tiers) > 0 && !seen[strings.ToLower(strings.TrimSpace(st.Tier))] {
			errs = append(errs, fmt.Sprintf("store.tier %q is not an economy tier", st.Tier))
		}
		if st.TaxRate < 0 || st.TaxRate >= 1 {
			errs = append(errs, "store.tax_rate must be in [0,1)")
		}
		ids := map[string]bool{}
		for i, p := range st.Packs {
			if p.ID == "" {
				errs = append(errs, fmt.Sprintf("store.packs[%d].id is required", i))
			} else if ids[p.ID] {
				errs = append(errs, fmt.Sprintf("store.packs[%d] duplicates id %q", i, p.ID))
			}
			ids[p.ID] = true
			if p.PriceCents <= 0 {
				errs = append(errs, fmt.Sprintf("store.packs[%d].price_cents must be > 0", i))
			}
			if p.Units <= 0 || p.BonusUnits < 0 {
				errs = append(errs, fmt.Sprintf("store.packs[%d] must grant units > 0 and bonus_units >= 0", i))
			}
		}
	}

	return joinProblems("economy", errs)
}

// ValidateBanner checks the raw fields that cannot survive conversion to a
// gacha.Banner, then the built banner itself.
func ValidateBanner(raw RawBanner, econ *Economy) error {
	var errs []string

	switch gacha.Class(raw.Class) {
	case gacha.ClassPermanent, gacha.ClassLimited, gacha.ClassRerun:
	case "":
		errs = append(errs, "class is required")
	default:
		errs = append(errs, "class must be one of: permanent, limited, rerun")
	}
	for token := range raw.Rates {
		if _, err := gacha.ParseRarity(token); err != nil {
			errs = append(errs, fmt.Sprintf("rates.%s is not a rarity", token))
		}
	}
	for i, f := range raw.Featured {
		if _, err := gacha.ParseRarity(f.Rarity); err != nil {
			errs = append(errs, fmt.Sprintf("featured[%d].rarity %q is not a rarity", i, f.Rarity))
		}
	}
	if raw.Cost == nil {
		errs = append(errs, "cost is required")
	} else if econ != nil {
		if _, ok := econ.Ladder.Lookup(raw.Cost.Currency); !ok {
			errs = append(errs, fmt.Sprintf("cost.currency %q is not an economy tier", raw.Cost.Currency))
		}
	}
	if raw.Pity == nil {
		errs = append(errs, "pity is required")
	}

	return joinProblems("banner "+raw.ID, errs)
}

func joinProblems(subject string, errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return gerrors.Configuration("%s validation failed: %s", subject, strings.Join(errs, "; "))
}
