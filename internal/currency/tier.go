// Package currency implements the tiered wallet ledger: normalisation, taxed
// up/down conversion between tiers and the payment cascade used to fund pulls.
package currency

import (
	"fmt"
	"strings"

	gerrors "github.com/xtding233/gacha-core/internal/errors"
)

// Tier is a rank in a Ladder. Higher ranks are more valuable.
type Tier int

// DefaultTierNames is the reference five-tier ladder, lowest first.
var DefaultTierNames = []string{"copper", "silver", "gold", "platinum", "stellar"}

// Ladder is the ordered set of currency tiers recognised by a wallet.
type Ladder struct {
	names []string
	index map[string]Tier
}

// NewLadder builds a ladder from tier names, lowest rank first.
func NewLadder(names ...string) (*Ladder, error) {
	if len(names) < 2 {
		return nil, gerrors.Configuration("currency ladder needs at least 2 tiers, got %d", len(names))
	}
	l := &Ladder{
		names: make([]string, len(names)),
		index: make(map[string]Tier, len(names)),
	}
	for i, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" {
			return nil, gerrors.Configuration("currency tier %d has an empty name", i)
		}
		if _, dup := l.index[key]; dup {
			return nil, gerrors.Configuration("duplicate currency tier %q", key)
		}
		l.names[i] = key
		l.index[key] = Tier(i)
	}
	return l, nil
}

// DefaultLadder returns the reference ladder.
func DefaultLadder() *Ladder {
	l, err := NewLadder(DefaultTierNames...)
	if err != nil {
		panic(err)
	}
	return l
}

// Len returns the number of tiers.
func (l *Ladder) Len() int { return len(l.names) }

// Top returns the highest tier.
func (l *Ladder) Top() Tier { return Tier(len(l.names) - 1) }

// Valid reports whether t is a rank of this ladder.
func (l *Ladder) Valid(t Tier) bool { return t >= 0 && int(t) < len(l.names) }

// Tiers lists every tier, lowest first.
func (l *Ladder) Tiers() []Tier {
	out := make([]Tier, len(l.names))
	for i := range l.names {
		out[i] = Tier(i)
	}
	return out
}

// Name returns the tier's name, or "tier(N)" when out of range.
func (l *Ladder) Name(t Tier) string {
	if !l.Valid(t) {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return l.names[t]
}

// Lookup resolves a tier name, case-insensitively.
func (l *Ladder) Lookup(name string) (Tier, bool) {
	t, ok := l.index[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}
