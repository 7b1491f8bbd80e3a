package currency

import (
	"math"
	"testing"

	gerrors "github.com/xtding233/gacha-core/internal/errors"
)

// Every step is worth 10 of the tier below.
func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	return NewConverter(DefaultLadder(), StepRates{10, 10, 10, 10}, opts...)
}

func TestNewLadder(t *testing.T) {
	if _, err := NewLadder("gold"); !gerrors.IsKind(err, gerrors.KindConfiguration) {
		t.Fatalf("single tier ladder must be a configuration error, got %v", err)
	}
	if _, err := NewLadder("gold", "GOLD"); err == nil {
		t.Fatalf("duplicate names must be rejected")
	}
	l, err := NewLadder("a", "b", "c", "d", "e", "f")
	if err != nil {
		t.Fatal(err)
	}
	if l.Top() != 5 || l.Name(2) != "c" {
		t.Fatalf("unexpected ladder: top=%d name=%s", l.Top(), l.Name(2))
	}
	if tier, ok := l.Lookup(" D "); !ok || tier != 3 {
		t.Fatalf("lookup failed: %d %v", tier, ok)
	}
}

func TestNormalize(t *testing.T) {
	l := DefaultLadder()
	w := l.NormalizeNamed(map[string]float64{
		"copper":  12.9,
		"silver":  -4,
		"gold":    math.NaN(),
		"stellar": math.Inf(1),
		"unknown": 99,
	})
	want := Wallet{0: 12, 1: 0, 2: 0, 3: 0, 4: 0}
	if !w.Equal(want) {
		t.Fatalf("got %v want %v", w, want)
	}
	if len(w) != l.Len() {
		t.Fatalf("every tier must be present, got %d entries", len(w))
	}
}

func TestConvertIdentity(t *testing.T) {
	c := newTestConverter(t)
	w := Wallet{0: 7, 1: 3}
	for _, tier := range c.Ladder().Tiers() {
		res := c.Convert(w, tier, tier, 42, ConvertOptions{AllowTax: true})
		if !res.OK || res.Received != 42 || res.Spent != 42 || res.Tax != 0 {
			t.Fatalf("tier %d: identity broken: %+v", tier, res)
		}
		if !res.Wallet.Equal(w) {
			t.Fatalf("tier %d: wallet changed: %v", tier, res.Wallet)
		}
	}
}

// flatTax ignores wallet wealth.
func flatTax() TaxPolicy {
	p := DefaultTaxPolicy()
	p.Alpha = 0
	return p
}

func TestConvertUpTaxed(t *testing.T) {
	c := newTestConverter(t, WithTaxPolicy(flatTax()))
	w := Wallet{0: 1000}

	res := c.Convert(w, 0, 1, 1000, ConvertOptions{AllowTax: true})
	if !res.OK {
		t.Fatalf("expected success, err=%v", res.Err)
	}
	if res.Received != 99 || res.Tax != 5 {
		t.Fatalf("received=%d tax=%d, want 99 and 5", res.Received, res.Tax)
	}
	if res.Wallet[0] != 5 || res.Wallet[1] != 99 {
		t.Fatalf("wallet=%v, want 5 copper left and 99 silver", res.Wallet)
	}
	if res.Spent != 995 {
		t.Fatalf("spent=%d want 995", res.Spent)
	}
	if w[0] != 1000 {
		t.Fatalf("input wallet mutated: %v", w)
	}
}

func TestConvertUpFailuresLeaveWalletUntouched(t *testing.T) {
	c := newTestConverter(t)
	w := Wallet{0: 1000, 1: 50, 3: 2}

	tests := []struct {
		name   string
		from   Tier
		to     Tier
		amount int64
		opts   ConvertOptions
		kind   gerrors.Kind
	}{
		{"zero amount", 0, 1, 0, ConvertOptions{AllowTax: true}, gerrors.KindValidation},
		{"negative amount", 0, 1, -5, ConvertOptions{AllowTax: true}, gerrors.KindValidation},
		{"into top tier", 3, 4, 2, ConvertOptions{AllowTax: true}, gerrors.KindValidation},
		{"off batch without tax", 0, 1, 150, ConvertOptions{}, gerrors.KindValidation},
		{"cannot buy a unit", 0, 1, 10, ConvertOptions{AllowTax: true}, gerrors.KindValidation},
		{"more than held", 1, 2, 60, ConvertOptions{AllowTax: true}, gerrors.KindAffordability},
		{"unknown tier", 0, 9, 10, ConvertOptions{AllowTax: true}, gerrors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Convert(w, tt.from, tt.to, tt.amount, tt.opts)
			if res.OK {
				t.Fatalf("expected failure: %+v", res)
			}
			if !gerrors.IsKind(res.Err, tt.kind) {
				t.Fatalf("err=%v, want kind %s", res.Err, tt.kind)
			}
			if res.Spent != 0 || res.Tax != 0 || res.Received != 0 {
				t.Fatalf("failure must report zeros: %+v", res)
			}
			if !res.Wallet.Equal(w) {
				t.Fatalf("wallet changed on failure: %v", res.Wallet)
			}
		})
	}
}

func TestConvertUpCleanBatch(t *testing.T) {
	c := newTestConverter(t, WithBatchSize(50))
	res := c.Convert(Wallet{0: 120}, 0, 1, 100, ConvertOptions{})
	if !res.OK || res.Tax != 0 || res.Received != 10 {
		t.Fatalf("clean conversion: %+v", res)
	}
	if res.Wallet[0] != 20 || res.Wallet[1] != 10 {
		t.Fatalf("wallet=%v", res.Wallet)
	}
}

func TestConvertDown(t *testing.T) {
	c := newTestConverter(t)

	res := c.Convert(Wallet{2: 3}, 2, 0, 2, ConvertOptions{})
	if !res.OK || res.Received != 200 || res.Spent != 2 {
		t.Fatalf("full down conversion: %+v", res)
	}
	if res.Wallet[2] != 1 || res.Wallet[0] != 200 {
		t.Fatalf("wallet=%v", res.Wallet)
	}

	partial := c.Convert(Wallet{2: 3}, 2, 1, 5, ConvertOptions{})
	if partial.OK {
		t.Fatalf("partial down conversion must report not ok")
	}
	if partial.Spent != 3 || partial.Received != 30 || partial.Wallet[2] != 0 || partial.Wallet[1] != 30 {
		t.Fatalf("partial transfer must still apply: %+v", partial)
	}
	if !gerrors.IsKind(partial.Err, gerrors.KindAffordability) {
		t.Fatalf("err=%v", partial.Err)
	}
}

func TestTaxScalesWithWealth(t *testing.T) {
	p := DefaultTaxPolicy()
	poor := p.Rate(0, 1, 0)
	rich := p.Rate(0, 1, 1)
	if poor.String() != "0.005" {
		t.Fatalf("poor rate=%s", poor)
	}
	if rich.String() != "0.015" {
		t.Fatalf("rich rate=%s", rich)
	}
	if got := p.Rate(3, 4, 1).String(); got != "0.06" {
		t.Fatalf("default base at full wealth=%s", got)
	}
	capped := TaxPolicy{DefaultBase: 0.08, Alpha: 2, Max: 0.10}
	if got := capped.Rate(0, 2, 1).String(); got != "0.1" {
		t.Fatalf("rate must cap at max, got %s", got)
	}
	if got := p.Rate(0, 1, 0.125).String(); got != "0.00625" {
		t.Fatalf("rate must keep full precision, got %s", got)
	}
}

func TestWealthIndex(t *testing.T) {
	c := newTestConverter(t)
	if got := c.WealthIndex(Wallet{4: 50}); got != 0.5 {
		t.Fatalf("half pivot: %v", got)
	}
	if got := c.WealthIndex(Wallet{4: 500}); got != 1 {
		t.Fatalf("clipped: %v", got)
	}
	if got := c.WealthIndex(Wallet{}); got != 0 {
		t.Fatalf("empty: %v", got)
	}
}

func TestTaxUsesUnroundedRate(t *testing.T) {
	c := newTestConverter(t)
	tests := []struct {
		name     string
		w        Wallet
		amount   int64
		tax      int64
		received int64
	}{
		// wealth 0.001, rate 0.00501
		{"small wallet", Wallet{0: 1000}, 1000, 6, 99},
		// wealth 0.1001, rate 0.006001
		{"just above a basis point", Wallet{0: 100000, 2: 1}, 100000, 601, 9939},
		// wealth 0.125, rate 0.00625
		{"half a basis point", Wallet{0: 4000, 3: 1, 4: 12}, 4000, 25, 397},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Convert(tt.w, 0, 1, tt.amount, ConvertOptions{AllowTax: true})
			if !res.OK {
				t.Fatalf("err=%v", res.Err)
			}
			if res.Tax != tt.tax || res.Received != tt.received {
				t.Fatalf("tax=%d received=%d, want %d and %d", res.Tax, res.Received, tt.tax, tt.received)
			}
			if res.Spent != tt.tax+tt.received*10 {
				t.Fatalf("spent=%d", res.Spent)
			}
		})
	}
}

func TestRichWalletPaysMoreTax(t *testing.T) {
	c := newTestConverter(t)
	rich := c.Convert(Wallet{0: 1000, 4: 100}, 0, 1, 1000, ConvertOptions{AllowTax: true})
	if !rich.OK || rich.Tax != 15 || rich.Received != 98 {
		t.Fatalf("rich conversion: %+v", rich)
	}
}
