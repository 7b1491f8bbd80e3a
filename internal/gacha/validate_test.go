package gacha

import (
	"strings"
	"testing"
)

func TestValidateBanner(t *testing.T) {
	if errs := ValidateBanner(limitedBanner("limited-a")); len(errs) != 0 {
		t.Fatalf("fixture must be valid: %v", errs)
	}

	b := standardBanner()
	b.ID = ""
	b.BaseRates[RarityN] = 0.5
	b.Pity.SSR.SoftThreshold = 90
	b.Cost.Single = 0
	b.Featured = []FeaturedUnit{{ID: "x", Rarity: Rarity(12)}}

	joined := strings.Join(ValidateBanner(b), "; ")
	for _, want := range []string{
		"id is required",
		"base_rates must sum to 1",
		"pity.SSR.soft_threshold must be below hard_threshold",
		"cost.single must be > 0",
		"featured[x] has an unknown rarity",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in %q", want, joined)
		}
	}
}

func TestValidateBannerNeedsPity(t *testing.T) {
	b := standardBanner()
	b.Pity.SSR = nil
	joined := strings.Join(ValidateBanner(b), "; ")
	if !strings.Contains(joined, "pity needs at least one of ssr, ur, prime") {
		t.Fatalf("got %q", joined)
	}
}
