package gacha

// maxRNG always draws the top of the range; the cumulative walk then lands on
// the lowest rarity with any mass.
var maxRNG = RandFunc(func() float64 { return 0.9999999 })

// minRNG lands on the highest rarity with any mass.
var minRNG = RandFunc(func() float64 { return 0 })

func constRNG(v float64) RandomSource { return RandFunc(func() float64 { return v }) }

func standardBanner() *Banner {
	return &Banner{
		ID:    "standard",
		Label: "Standard Recruitment",
		Class: ClassPermanent,
		BaseRates: map[Rarity]float64{
			RarityN:     0.78,
			RarityR:     0.15,
			RaritySR:    0.05,
			RaritySSR:   0.015,
			RarityUR:    0.004,
			RarityPrime: 0.001,
		},
		Pity: PityConfig{
			SRFloor: 10,
			SSR:     &PityRule{SoftThreshold: 74, SoftStep: 0.06, HardThreshold: 80},
		},
		Cost: Cost{Currency: "gold", Single: 160, Ten: 1600},
	}
}

func limitedBanner(id string) *Banner {
	b := standardBanner()
	b.ID = id
	b.Class = ClassLimited
	b.Pity.SSR.CarryOver = true
	b.Pity.UR = &PityRule{HardThreshold: 90, HardGuaranteeFeatured: true, CarryOver: true}
	b.Featured = []FeaturedUnit{
		{ID: "aurelia", Name: "Aurelia", Rarity: RarityUR},
		{ID: "kestrel", Name: "Kestrel", Rarity: RaritySSR},
	}
	return b
}
