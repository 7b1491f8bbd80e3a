package currency

import (
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	gerrors "github.com/xtding233/gacha-core/internal/errors"
	"github.com/xtding233/gacha-core/internal/logging"
)

// DefaultBatchSize is the multiple an untaxed upward conversion must be offered in.
const DefaultBatchSize = 100

// ConvertOptions tune a single conversion.
type ConvertOptions struct {
	// AllowTax enables taxed upward conversion of any amount. Without it the
	// amount must be a whole number of batches and no tax is charged.
	AllowTax bool
}

// ConversionResult reports one conversion. On failure OK is false, Err says
// why, Wallet equals the input and Tax, Received and Spent are zero. The one
// exception is a partial down-conversion, which is applied and reported with
// OK false.
type ConversionResult struct {
	OK       bool
	Wallet   Wallet
	Tax      int64
	Received int64
	Spent    int64
	// Rate is the effective tax rate applied, 0 when untaxed.
	Rate float64
	Err  error
}

// Converter moves value between the tiers of a ladder.
type Converter struct {
	ladder    *Ladder
	rates     RateProvider
	tax       TaxPolicy
	batchSize int64
	log       *zap.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithTaxPolicy replaces the default tax schedule.
func WithTaxPolicy(p TaxPolicy) Option { return func(c *Converter) { c.tax = p } }

// WithBatchSize sets the untaxed conversion batch size. Values <= 0 are ignored.
func WithBatchSize(n int64) Option {
	return func(c *Converter) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option { return func(c *Converter) { c.log = logging.OrNop(l) } }

// NewConverter creates a converter over ladder using rates as the exchange oracle.
func NewConverter(ladder *Ladder, rates RateProvider, opts ...Option) *Converter {
	c := &Converter{
		ladder:    ladder,
		rates:     rates,
		tax:       DefaultTaxPolicy(),
		batchSize: DefaultBatchSize,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Ladder returns the converter's ladder.
func (c *Converter) Ladder() *Ladder { return c.ladder }

// TaxPolicy returns the active tax schedule.
func (c *Converter) TaxPolicy() TaxPolicy { return c.tax }

// WealthIndex returns w's wealth index under the active tax policy.
func (c *Converter) WealthIndex(w Wallet) float64 {
	return c.tax.WealthIndex(c.ladder, c.rates, c.ladder.Canonical(w))
}

// Convert converts amount units of from into to. The input wallet is never
// modified; the resulting wallet is returned in the result.
func (c *Converter) Convert(w Wallet, from, to Tier, amount int64, opts ConvertOptions) ConversionResult {
	w = c.ladder.Canonical(w)

	if amount <= 0 {
		return failed(w, gerrors.Validation("conversion amount must be positive, got %d", amount))
	}
	if !c.ladder.Valid(from) || !c.ladder.Valid(to) {
		return failed(w, gerrors.Validation("unknown tier in conversion %d -> %d", from, to))
	}
	if from == to {
		return ConversionResult{OK: true, Wallet: w, Received: amount, Spent: amount}
	}
	if from > to {
		return c.down(w, from, to, amount)
	}
	return c.up(w, from, to, amount, opts)
}

func (c *Converter) up(w Wallet, from, to Tier, amount int64, opts ConvertOptions) ConversionResult {
	if to == c.ladder.Top() {
		return failed(w, gerrors.Validation("%s can only be earned, not converted into", c.ladder.Name(to)))
	}
	if !opts.AllowTax && amount%c.batchSize != 0 {
		return failed(w, gerrors.Validation("untaxed conversion must be a multiple of %d, got %d", c.batchSize, amount))
	}
	if w[from] < amount {
		return failed(w, gerrors.Affordability("%s balance %d cannot cover %d", c.ladder.Name(from), w[from], amount).
			WithContext("tier", c.ladder.Name(from)))
	}

	price := c.rates.Convert(1, to, from)
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return failed(w, gerrors.Validation("no exchange rate from %s to %s", c.ladder.Name(from), c.ladder.Name(to)))
	}
	unitPrice := decimal.NewFromFloat(price)

	rate := decimal.Zero
	if opts.AllowTax {
		rate = c.tax.Rate(from, to, c.tax.WealthIndex(c.ladder, c.rates, w))
	}
	tax := taxOn(amount, rate)
	if tax > amount {
		return failed(w, gerrors.Validation("amount %d cannot cover tax %d", amount, tax))
	}

	units := decimal.NewFromInt(amount - tax).Div(unitPrice).Floor().IntPart()
	if units < 1 {
		return failed(w, gerrors.Validation("amount %d buys no whole %s after tax %d", amount, c.ladder.Name(to), tax))
	}
	cost := decimal.NewFromInt(units).Mul(unitPrice).Ceil().IntPart()

	out := w.Clone()
	out[from] -= tax + cost
	out[to] += units

	rf, _ := rate.Float64()
	c.log.Debug("currency converted up",
		zap.String("from", c.ladder.Name(from)),
		zap.String("to", c.ladder.Name(to)),
		zap.Int64("offered", amount),
		zap.Int64("tax", tax),
		zap.Int64("units", units),
		zap.Float64("rate", rf),
	)
	return ConversionResult{OK: true, Wallet: out, Tax: tax, Received: units, Spent: tax + cost, Rate: rf}
}

func (c *Converter) down(w Wallet, from, to Tier, amount int64) ConversionResult {
	moved := min(amount, w[from])
	if moved <= 0 {
		return failed(w, gerrors.Affordability("%s balance is empty", c.ladder.Name(from)).
			WithContext("tier", c.ladder.Name(from)))
	}
	produced := floorUnits(c.rates.Convert(float64(moved), from, to))

	out := w.Clone()
	out[from] -= moved
	out[to] += produced

	c.log.Debug("currency converted down",
		zap.String("from", c.ladder.Name(from)),
		zap.String("to", c.ladder.Name(to)),
		zap.Int64("moved", moved),
		zap.Int64("produced", produced),
	)
	res := ConversionResult{OK: moved == amount, Wallet: out, Received: produced, Spent: moved}
	if !res.OK {
		res.Err = gerrors.Affordability("requested %d %s, moved %d", amount, c.ladder.Name(from), moved).
			WithContext("tier", c.ladder.Name(from))
	}
	return res
}

func failed(w Wallet, err error) ConversionResult {
	return ConversionResult{Wallet: w, Err: err}
}

func floorUnits(v float64) int64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(v))
}
