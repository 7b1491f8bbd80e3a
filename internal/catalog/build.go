package catalog

import (
	"strings"

	"go.uber.org/zap"

	"github.com/xtding233/gacha-core/internal/currency"
	gerrors "github.com/xtding233/gacha-core/internal/errors"
	"github.com/xtding233/gacha-core/internal/gacha"
	"github.com/xtding233/gacha-core/internal/store"
)

// Economy is the validated currency setup of a catalog.
type Economy struct {
	Version   string
	Ladder    *currency.Ladder
	Rates     currency.StepRates
	Tax       currency.TaxPolicy
	BatchSize int64
	// Store is nil when the economy sells no packs.
	Store *store.Catalog
}

// defaultStepRates is the reference exchange table: ten of a tier buy one of the next.
var defaultStepRates = []float64{10, 10, 10, 10}

func defaultTierNames() []string { return currency.DefaultTierNames }

// NewConverter builds the conversion engine for this economy.
func (e *Economy) NewConverter(log *zap.Logger) *currency.Converter {
	return currency.NewConverter(e.Ladder, e.Rates,
		currency.WithTaxPolicy(e.Tax),
		currency.WithBatchSize(e.BatchSize),
		currency.WithLogger(log),
	)
}

// BuildEconomy validates raw and fills unset fields with reference values.
func BuildEconomy(raw RawEconomy) (*Economy, error) {
	if err := ValidateEconomy(raw); err != nil {
		return nil, err
	}

	names := raw.Tiers
	if len(names) == 0 {
		names = defaultTierNames()
	}
	ladder, err := currency.NewLadder(names...)
	if err != nil {
		return nil, err
	}

	rates := currency.StepRates(raw.Rates)
	if len(rates) == 0 {
		if ladder.Len()-1 > len(defaultStepRates) {
			return nil, gerrors.Configuration("economy: rates are required for a %d-tier ladder", ladder.Len())
		}
		rates = append(currency.StepRates(nil), defaultStepRates[:ladder.Len()-1]...)
	}

	batch := raw.BatchSize
	if batch == 0 {
		batch = currency.DefaultBatchSize
	}

	if raw.Store != nil {
		if _, ok := ladder.Lookup(raw.Store.Tier); !ok {
			return nil, gerrors.Configuration("economy: store.tier %q is not an economy tier", raw.Store.Tier)
		}
	}

	return &Economy{
		Store:     raw.Store,
		Version:   raw.Version,
		Ladder:    ladder,
		Rates:     rates,
		Tax:       buildTax(raw.Tax),
		BatchSize: batch,
	}, nil
}

func buildTax(raw *RawTax) currency.TaxPolicy {
	p := currency.DefaultTaxPolicy()
	if raw == nil {
		return p
	}
	if raw.PairBases != nil {
		p.PairBases = raw.PairBases
	}
	if raw.DefaultBase != nil {
		p.DefaultBase = *raw.DefaultBase
	}
	if raw.Alpha != nil {
		p.Alpha = *raw.Alpha
	}
	if raw.Max != nil {
		p.Max = *raw.Max
	}
	if raw.WealthPivot != nil {
		p.WealthPivot = *raw.WealthPivot
	}
	return p
}

// BuildBanner turns a merged RawBanner into a validated gacha.Banner.
// The cost currency is stored under its canonical ladder name.
func BuildBanner(raw RawBanner, econ *Economy) (*gacha.Banner, error) {
	if econ == nil {
		return nil, gerrors.Configuration("banner %s: no economy to price against", raw.ID)
	}
	if err := ValidateBanner(raw, econ); err != nil {
		return nil, err
	}

	b := &gacha.Banner{
		ID:        raw.ID,
		Label:     raw.Label,
		Class:     gacha.Class(raw.Class),
		BaseRates: make(map[gacha.Rarity]float64, len(raw.Rates)),
		ExpiresAt: raw.ExpiresAt,
	}
	if b.Label == "" {
		b.Label = raw.ID
	}
	for token, p := range raw.Rates {
		r, _ := gacha.ParseRarity(token)
		b.BaseRates[r] = p
	}
	if raw.RateUpShare != nil {
		b.RateUpShare = *raw.RateUpShare
	}
	if raw.MaxOffStreak != nil {
		b.MaxOffStreak = *raw.MaxOffStreak
	}

	// pity
	if raw.Pity.SRFloor != nil {
		b.Pity.SRFloor = *raw.Pity.SRFloor
	}
	b.Pity.SSR = buildRule(raw.Pity.SSR)
	b.Pity.UR = buildRule(raw.Pity.UR)
	b.Pity.Prime = buildRule(raw.Pity.Prime)

	// cost
	tier, _ := econ.Ladder.Lookup(raw.Cost.Currency)
	b.Cost.Currency = econ.Ladder.Name(tier)
	if raw.Cost.Single != nil {
		b.Cost.Single = *raw.Cost.Single
	}
	if raw.Cost.Ten != nil {
		b.Cost.Ten = *raw.Cost.Ten
	}

	for _, f := range raw.Featured {
		r, _ := gacha.ParseRarity(f.Rarity)
		b.Featured = append(b.Featured, gacha.FeaturedUnit{
			ID:       f.ID,
			Name:     f.Name,
			Rarity:   r,
			Portrait: f.Portrait,
		})
	}

	if problems := gacha.ValidateBanner(b); len(problems) > 0 {
		return nil, joinProblems("banner "+raw.ID, problems)
	}
	return b, nil
}

func buildRule(raw *RawRule) *gacha.PityRule {
	if raw == nil {
		return nil
	}
	r := &gacha.PityRule{}
	if raw.SoftThreshold != nil {
		r.SoftThreshold = *raw.SoftThreshold
	}
	if raw.SoftStep != nil {
		r.SoftStep = *raw.SoftStep
	}
	if raw.HardThreshold != nil {
		r.HardThreshold = *raw.HardThreshold
	}
	if raw.HardGuaranteeFeatured != nil {
		r.HardGuaranteeFeatured = *raw.HardGuaranteeFeatured
	}
	if raw.CarryOver != nil {
		r.CarryOver = *raw.CarryOver
	}
	return r
}

// CostTier resolves a banner's cost currency on the economy ladder.
func (e *Economy) CostTier(b *gacha.Banner) (currency.Tier, error) {
	t, ok := e.Ladder.Lookup(strings.TrimSpace(b.Cost.Currency))
	if !ok {
		return 0, gerrors.Configuration("banner %s: cost currency %q is not an economy tier", b.ID, b.Cost.Currency).
			WithContext("banner", b.ID)
	}
	return t, nil
}

// StoreTier resolves the tier store packs credit.
func (e *Economy) StoreTier() (currency.Tier, error) {
	if e.Store == nil {
		return 0, gerrors.Configuration("economy defines no store")
	}
	t, ok := e.Ladder.Lookup(e.Store.Tier)
	if !ok {
		return 0, gerrors.Configuration("store tier %q is not an economy tier", e.Store.Tier)
	}
	return t, nil
}
