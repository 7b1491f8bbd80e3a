package gacha

// PityCounters track pulls since the last hit at or above each rarity.
type PityCounters struct {
	SR    int `yaml:"sr" json:"sr"`
	SSR   int `yaml:"ssr" json:"ssr"`
	UR    int `yaml:"ur" json:"ur"`
	Prime int `yaml:"prime" json:"prime"`
}

// Of returns the counter tracking r, or 0 for N and R which have none.
func (c PityCounters) Of(r Rarity) int {
	switch r {
	case RaritySR:
		return c.SR
	case RaritySSR:
		return c.SSR
	case RarityUR:
		return c.UR
	case RarityPrime:
		return c.Prime
	}
	return 0
}

// BannerState is the roll history of one state key. It is owned by the caller
// (player save) and mutated in place by the roll functions.
type BannerState struct {
	Pulls int          `yaml:"pulls" json:"pulls"`
	Pity  PityCounters `yaml:"pity" json:"pity"`
	// OffStreak counts consecutive lost rate-up draws.
	OffStreak int `yaml:"off_streak,omitempty" json:"off_streak,omitempty"`
}

// StateMap holds every BannerState of a player, keyed by Banner.StateKey.
type StateMap map[string]*BannerState

// Resolve returns the state for b, creating it on first access. Carry-over
// banners of the same class resolve to the same *BannerState.
func (m StateMap) Resolve(b *Banner) *BannerState {
	key := b.StateKey()
	if st, ok := m[key]; ok && st != nil {
		return st
	}
	st := &BannerState{}
	m[key] = st
	return st
}

// Lookup returns the state for b without creating it.
func (m StateMap) Lookup(b *Banner) (*BannerState, bool) {
	st, ok := m[b.StateKey()]
	return st, ok && st != nil
}

// ResetCountersAfterHit advances every counter by one pull, then zeroes each
// counter whose rarity the rolled rarity meets or exceeds. A Prime hit clears
// all four; an SSR hit clears SR and SSR only.
func ResetCountersAfterHit(st *BannerState, r Rarity) {
	c := &st.Pity
	c.SR++
	c.SSR++
	c.UR++
	c.Prime++
	if r.AtLeast(RaritySR) {
		c.SR = 0
	}
	if r.AtLeast(RaritySSR) {
		c.SSR = 0
	}
	if r.AtLeast(RarityUR) {
		c.UR = 0
	}
	if r.AtLeast(RarityPrime) {
		c.Prime = 0
	}
}
