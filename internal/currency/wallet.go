package currency

import "math"

// Wallet maps every tier of a ladder to a non-negative whole amount.
type Wallet map[Tier]int64

// Clone returns an independent copy.
func (w Wallet) Clone() Wallet {
	out := make(Wallet, len(w))
	for t, v := range w {
		out[t] = v
	}
	return out
}

// Equal reports whether both wallets hold the same amounts; a missing entry equals 0.
func (w Wallet) Equal(o Wallet) bool {
	for t, v := range w {
		if o[t] != v {
			return false
		}
	}
	for t, v := range o {
		if w[t] != v {
			return false
		}
	}
	return true
}

// Normalize converts raw, possibly fractional or negative, amounts into the
// canonical wallet: every tier present, each value max(0, trunc(v)).
// Tiers the ladder does not know are dropped.
func (l *Ladder) Normalize(raw map[Tier]float64) Wallet {
	out := make(Wallet, l.Len())
	for _, t := range l.Tiers() {
		out[t] = sanitize(raw[t])
	}
	return out
}

// NormalizeNamed is Normalize for input keyed by tier name.
func (l *Ladder) NormalizeNamed(raw map[string]float64) Wallet {
	byTier := make(map[Tier]float64, len(raw))
	for name, v := range raw {
		if t, ok := l.Lookup(name); ok {
			byTier[t] += v
		}
	}
	return l.Normalize(byTier)
}

// Canonical returns a normalised copy of w. The input is never modified.
func (l *Ladder) Canonical(w Wallet) Wallet {
	out := make(Wallet, l.Len())
	for _, t := range l.Tiers() {
		if v := w[t]; v > 0 {
			out[t] = v
		} else {
			out[t] = 0
		}
	}
	return out
}

// Named renders w keyed by tier name.
func (l *Ladder) Named(w Wallet) map[string]int64 {
	out := make(map[string]int64, l.Len())
	for _, t := range l.Tiers() {
		out[l.Name(t)] = w[t]
	}
	return out
}

func sanitize(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	v = math.Trunc(v)
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
