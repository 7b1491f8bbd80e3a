package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gerrors "github.com/xtding233/gacha-core/internal/errors"
	"github.com/xtding233/gacha-core/internal/gacha"
	"github.com/xtding233/gacha-core/internal/store"
)

const testEconomy = `
version: "2026.10"
tiers: [copper, silver, gold, platinum, stellar]
rates: [10, 10, 10, 10]
batch_size: 50
tax:
  alpha: 1.5
  max: 0.08
`

const testDefaults = `
class: permanent
rates: {N: 0.78, R: 0.15, SR: 0.05, SSR: 0.015, UR: 0.004, PRIME: 0.001}
pity:
  sr_floor: 10
  ssr: {soft_threshold: 74, soft_step: 0.06, hard_threshold: 80}
cost: {currency: gold, single: 160, ten: 1600}
`

const testLimited = `
label: Aurelia Rising
class: limited
pity:
  ssr: {carry_over: true}
  ur: {hard_threshold: 90, hard_guarantee_featured: true, carry_over: true}
cost: {currency: GOLD, ten: 1440}
featured:
  - {id: aurelia, name: Aurelia, rarity: ur}
  - {id: kestrel, name: Kestrel, rarity: SSR}
max_off_streak: 1
expires_at: 2026-11-01T00:00:00Z
`

func writeCatalog(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoaderMergesDefaultsUnderBanner(t *testing.T) {
	dir := writeCatalog(t, map[string]string{
		"economy.yaml":           testEconomy,
		"banners/defaults.yaml":  testDefaults,
		"banners/aurelia.yaml":   testLimited,
		"banners/standard.yaml":  "label: Standard\n",
	})
	l := NewLoader(dir, nil)

	b, err := l.Banner("aurelia")
	if err != nil {
		t.Fatalf("Banner: %v", err)
	}
	if b.ID != "aurelia" || b.Class != gacha.ClassLimited {
		t.Fatalf("id/class = %s/%s", b.ID, b.Class)
	}
	// merged from defaults
	if b.Pity.SRFloor != 10 || b.BaseRates[gacha.RarityN] != 0.78 {
		t.Fatalf("defaults not merged: %+v", b.Pity)
	}
	// rule fields merge individually
	if b.Pity.SSR.HardThreshold != 80 || !b.Pity.SSR.CarryOver || b.Pity.SSR.SoftThreshold != 74 {
		t.Fatalf("ssr rule = %+v", *b.Pity.SSR)
	}
	if b.Pity.UR == nil || !b.Pity.UR.HardGuaranteeFeatured {
		t.Fatalf("ur rule = %+v", b.Pity.UR)
	}
	if b.Cost.Currency != "gold" || b.Cost.Single != 160 || b.Cost.Ten != 1440 {
		t.Fatalf("cost = %+v", b.Cost)
	}
	if len(b.Featured) != 2 || b.Featured[0].Rarity != gacha.RarityUR {
		t.Fatalf("featured = %+v", b.Featured)
	}
	if b.MaxOffStreak != 1 {
		t.Fatalf("max_off_streak = %d", b.MaxOffStreak)
	}
	if b.StateKey() != "carryover:limited" {
		t.Fatalf("state key = %q", b.StateKey())
	}
	if !b.Expired(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected banner to be expired at its expiry instant")
	}

	std, err := l.Banner("standard")
	if err != nil {
		t.Fatalf("Banner(standard): %v", err)
	}
	if std.StateKey() != "standard" || std.Label != "Standard" {
		t.Fatalf("standard = %+v", std)
	}
}

func TestLoaderEconomy(t *testing.T) {
	dir := writeCatalog(t, map[string]string{"economy.yaml": testEconomy})
	econ, err := NewLoader(dir, nil).Economy()
	if err != nil {
		t.Fatalf("Economy: %v", err)
	}
	if econ.BatchSize != 50 || econ.Ladder.Len() != 5 {
		t.Fatalf("economy = %+v", econ)
	}
	if econ.Tax.Alpha != 1.5 || econ.Tax.Max != 0.08 {
		t.Fatalf("tax overrides not applied: %+v", econ.Tax)
	}
	// unset tax fields keep reference values
	if econ.Tax.DefaultBase != 0.02 || len(econ.Tax.PairBases) != 3 {
		t.Fatalf("tax defaults lost: %+v", econ.Tax)
	}
	if econ.NewConverter(nil).Ladder() != econ.Ladder {
		t.Fatalf("converter not built over the economy ladder")
	}
}

func TestLoaderMissingEconomyUsesReference(t *testing.T) {
	econ, err := NewLoader(t.TempDir(), nil).Economy()
	if err != nil {
		t.Fatalf("Economy: %v", err)
	}
	if econ.Ladder.Len() != 5 || econ.BatchSize != 100 || len(econ.Rates) != 4 {
		t.Fatalf("reference economy = %+v", econ)
	}
}

func TestLoaderErrors(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]string
		id    string
		want  string
	}{
		{"missing banner", nil, "nope", "not found"},
		{"defaults id", nil, "defaults", "invalid banner id"},
		{"path escape", nil, "../economy", "invalid banner id"},
		{"bad yaml", map[string]string{"banners/x.yaml": "rates: [1,"}, "x", "read banner x"},
		{"unknown rarity", map[string]string{
			"banners/defaults.yaml": testDefaults,
			"banners/x.yaml":        "rates: {N: 0.9, LEGENDARY: 0.1}\n",
		}, "x", "rates.LEGENDARY is not a rarity"},
		{"unknown currency", map[string]string{
			"banners/defaults.yaml": testDefaults,
			"banners/x.yaml":        "cost: {currency: diamonds}\n",
		}, "x", `cost.currency "diamonds"`},
		{"rates off by one", map[string]string{
			"banners/defaults.yaml": testDefaults,
			"banners/x.yaml":        "rates: {N: 0.5, SSR: 0.1}\n",
		}, "x", "base_rates must sum to 1"},
		{"no pity", map[string]string{
			"banners/x.yaml": "class: permanent\nrates: {N: 1}\ncost: {currency: gold, single: 1}\n",
		}, "x", "pity is required"},
		{"bad economy", map[string]string{
			"economy.yaml":   "tiers: [a, b, a]\nrates: [10]\n",
			"banners/x.yaml": testDefaults,
		}, "x", "economy validation failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeCatalog(t, tc.files)
			_, err := NewLoader(dir, nil).Banner(tc.id)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !gerrors.IsKind(err, gerrors.KindConfiguration) {
				t.Fatalf("kind = %q, want configuration: %v", gerrors.KindOf(err), err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidationCollectsEveryProblem(t *testing.T) {
	err := ValidateEconomy(RawEconomy{
		Tiers:     []string{"a", ""},
		Rates:     []float64{0, 3},
		BatchSize: -1,
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"tiers[1] must not be empty", "rates must have 1 entries", "rates[0] must be > 0", "batch_size"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}

func TestBannerIDsAndBanners(t *testing.T) {
	dir := writeCatalog(t, map[string]string{
		"banners/defaults.yaml": testDefaults,
		"banners/zeta.yaml":     "label: Zeta\n",
		"banners/alpha.yaml":    "label: Alpha\n",
		"banners/broken.yaml":   "rates: {N: 2}\n",
	})
	l := NewLoader(dir, nil)
	ids, err := l.BannerIDs()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(ids, ",") != "alpha,broken,zeta" {
		t.Fatalf("ids = %v", ids)
	}
	bs, err := l.Banners()
	if err == nil || !strings.Contains(err.Error(), "banner broken") {
		t.Fatalf("expected the broken banner to be reported, got %v", err)
	}
	if len(bs) != 2 || bs[0].ID != "alpha" || bs[1].ID != "zeta" {
		t.Fatalf("banners = %d", len(bs))
	}
}

func TestInvalidateRereads(t *testing.T) {
	dir := writeCatalog(t, map[string]string{
		"banners/defaults.yaml": testDefaults,
		"banners/std.yaml":      "label: Before\n",
	})
	l := NewLoader(dir, nil)
	if b, _ := l.Banner("std"); b == nil || b.Label != "Before" {
		t.Fatalf("first load = %+v", b)
	}
	if err := os.WriteFile(filepath.Join(dir, "banners", "std.yaml"), []byte("label: After\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if b, _ := l.Banner("std"); b.Label != "Before" {
		t.Fatalf("expected cached banner, got %q", b.Label)
	}
	l.Invalidate()
	if b, _ := l.Banner("std"); b.Label != "After" {
		t.Fatalf("expected reread banner, got %q", b.Label)
	}
}

func TestWatcherPollInvalidatesOnChange(t *testing.T) {
	dir := writeCatalog(t, map[string]string{
		"banners/defaults.yaml": testDefaults,
		"banners/std.yaml":      "label: Before\n",
	})
	l := NewLoader(dir, nil)
	var seen []string
	w := NewWatcher(l, func(p string) { seen = append(seen, filepath.Base(p)) })

	if changed := w.Poll(); changed != nil {
		t.Fatalf("priming poll reported %v", changed)
	}
	if _, err := l.Banner("std"); err != nil {
		t.Fatal(err)
	}

	p := filepath.Join(dir, "banners", "std.yaml")
	if err := os.WriteFile(p, []byte("label: After\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(p, future, future); err != nil {
		t.Fatal(err)
	}

	changed := w.Poll()
	if len(changed) != 1 || len(seen) != 1 || seen[0] != "std.yaml" {
		t.Fatalf("changed = %v, seen = %v", changed, seen)
	}
	if b, _ := l.Banner("std"); b.Label != "After" {
		t.Fatalf("loader not invalidated, label = %q", b.Label)
	}
	if changed := w.Poll(); changed != nil {
		t.Fatalf("unchanged catalog reported %v", changed)
	}

	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	if changed := w.Poll(); len(changed) != 1 {
		t.Fatalf("removal not reported: %v", changed)
	}
}

func TestEconomyStore(t *testing.T) {
	dir := writeCatalog(t, map[string]string{"economy.yaml": `
store:
  tier: Platinum
  currency: CAD
  tax_rate: 0.13
  packs:
    - {id: "60", name: 60 Pack, units: 60, price_cents: 139, first_time_x2: true}
    - {id: "300", name: 300 Pack, units: 300, bonus_units: 30, price_cents: 699}
`})
	econ, err := NewLoader(dir, nil).Economy()
	if err != nil {
		t.Fatalf("Economy: %v", err)
	}
	tier, err := econ.StoreTier()
	if err != nil || econ.Ladder.Name(tier) != "platinum" {
		t.Fatalf("store tier = %v, %v", tier, err)
	}
	if len(econ.Store.Packs) != 2 || !econ.Store.Packs[0].FirstTimeX2 || econ.Store.Packs[1].BonusUnits != 30 {
		t.Fatalf("packs = %+v", econ.Store.Packs)
	}

	_, err = BuildEconomy(RawEconomy{
		Tiers: []string{"a", "b"},
		Rates: []float64{10},
		Store: &store.Catalog{Tier: "c", Packs: []store.Pack{{ID: "x"}, {ID: "x", Units: 1, PriceCents: 1}}},
	})
	if err == nil {
		t.Fatalf("expected store validation error")
	}
	for _, want := range []string{`store.tier "c"`, "price_cents must be > 0", `duplicates id "x"`} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}
