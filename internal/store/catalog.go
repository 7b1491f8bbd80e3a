// Package store plans premium-currency top-ups: which packs to buy to cover a
// shortfall, and what a budget buys.
package store

import (
	"github.com/shopspring/decimal"
)

// Pack models a purchasable SKU in the store.
type Pack struct {
	ID          string `yaml:"id"`           // SKU id, e.g., "6480"
	Name        string `yaml:"name"`         // display name, e.g., "6480 Pack"
	Units       int64  `yaml:"units"`        // base units granted
	BonusUnits  int64  `yaml:"bonus_units"`  // permanent extra units (non-first-time)
	FirstTimeX2 bool   `yaml:"first_time_x2"` // first purchase doubles Units (not BonusUnits)
	PriceCents  int64  `yaml:"price_cents"`  // price in minor units
}

// Catalog is a regional pack list. Packs credit Tier.
type Catalog struct {
	Tier     string `yaml:"tier"`     // ledger tier the packs credit
	Currency string `yaml:"currency"` // ISO code, e.g., "CAD"
	// TaxRate applies to the subtotal when prices are pre-tax; 0 for
	// tax-inclusive prices.
	TaxRate float64 `yaml:"tax_rate"`
	Packs   []Pack  `yaml:"packs"`
}

// FirstTimeState describes per-pack first-time eligibility.
type FirstTimeState map[string]bool // packID -> true if first-time x2 is still available

// Plan summarizes a purchase plan.
type Plan struct {
	Purchases  []Purchase
	SubCents   int64 // subtotal before tax
	TaxCents   int64
	TotalCents int64
	TotalUnits int64
	Currency   string
}

// Purchase is one line item in the plan.
type Purchase struct {
	PackID    string
	Name      string
	Qty       int64
	UnitPrice int64 // cents
	PackUnits int64 // units received per pack in this plan (x2/bonus applied)
	Subtotal  int64 // cents
}

// applyTax rounds tax on a subtotal half away from zero, to the cent.
func applyTax(sub int64, taxRate float64) (tax int64, total int64) {
	if taxRate <= 0 {
		return 0, sub
	}
	t := decimal.NewFromInt(sub).Mul(decimal.NewFromFloat(taxRate)).Round(0).IntPart()
	return t, sub + t
}

// Price formats cents as a decimal amount in the catalog currency, e.g. "12.99".
func Price(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
