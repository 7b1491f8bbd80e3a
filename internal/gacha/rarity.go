package gacha

import (
	"fmt"
	"strings"
)

// Rarity is the closed, ordered set of pull outcomes. Higher values are rarer.
type Rarity int

const (
	RarityN Rarity = iota
	RarityR
	RaritySR
	RaritySSR
	RarityUR
	RarityPrime

	NumRarities = int(RarityPrime) + 1
)

var rarityNames = [NumRarities]string{"N", "R", "SR", "SSR", "UR", "PRIME"}

// drawOrder is the order in which probability mass is accumulated when sampling.
var drawOrder = [NumRarities]Rarity{RarityPrime, RarityUR, RaritySSR, RaritySR, RarityR, RarityN}

// Rarities lists every rarity, lowest first.
func Rarities() []Rarity {
	out := make([]Rarity, NumRarities)
	for i := range out {
		out[i] = Rarity(i)
	}
	return out
}

// Valid reports whether r is a known rarity.
func (r Rarity) Valid() bool { return r >= RarityN && r <= RarityPrime }

// AtLeast reports whether r ranks at or above o.
func (r Rarity) AtLeast(o Rarity) bool { return r >= o }

func (r Rarity) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// ParseRarity resolves a rarity token such as "ssr" or "Prime".
func ParseRarity(s string) (Rarity, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range rarityNames {
		if n == key {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rarity %q", s)
}

func (r Rarity) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rarity %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(b []byte) error {
	v, err := ParseRarity(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
