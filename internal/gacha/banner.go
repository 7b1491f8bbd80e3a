package gacha

import "time"

// Class groups banners; carry-over banners of one class share pity history.
type Class string

const (
	ClassPermanent Class = "permanent"
	ClassLimited   Class = "limited"
	ClassRerun     Class = "rerun"
)

// CarryOverKeyPrefix prefixes the shared state key of carry-over banners.
const CarryOverKeyPrefix = "carryover:"

// DefaultRateUpShare is the chance a non-guaranteed hit lands on a featured unit.
const DefaultRateUpShare = 0.5

// FeaturedUnit is a rate-up unit. Purely descriptive.
type FeaturedUnit struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Rarity   Rarity `yaml:"rarity" json:"rarity"`
	Portrait string `yaml:"portrait,omitempty" json:"portrait,omitempty"`
}

// PityRule configures soft and hard pity for one rarity.
//
// Soft pity adds SoftStep to the rarity's probability for every pull past
// SoftThreshold. Hard pity forces the rarity on the pull that brings its
// counter to HardThreshold.
type PityRule struct {
	SoftThreshold         int     `yaml:"soft_threshold" json:"soft_threshold"`
	SoftStep              float64 `yaml:"soft_step" json:"soft_step"`
	HardThreshold         int     `yaml:"hard_threshold" json:"hard_threshold"`
	HardGuaranteeFeatured bool    `yaml:"hard_guarantee_featured" json:"hard_guarantee_featured"`
	CarryOver             bool    `yaml:"carry_over" json:"carry_over"`
}

func (p *PityRule) hasSoft() bool { return p != nil && p.SoftThreshold > 0 && p.SoftStep > 0 }

func (p *PityRule) hasHard() bool { return p != nil && p.HardThreshold > 0 }

// PityConfig is a banner's pity setup. Nil rules are disabled.
type PityConfig struct {
	// SRFloor guarantees at least SR once every SRFloor pulls; 0 disables it.
	SRFloor int       `yaml:"sr_floor" json:"sr_floor"`
	SSR     *PityRule `yaml:"ssr,omitempty" json:"ssr,omitempty"`
	UR      *PityRule `yaml:"ur,omitempty" json:"ur,omitempty"`
	Prime   *PityRule `yaml:"prime,omitempty" json:"prime,omitempty"`
}

// Rule returns the rule for r; only SSR, UR and Prime carry rules.
func (c PityConfig) Rule(r Rarity) *PityRule {
	switch r {
	case RaritySSR:
		return c.SSR
	case RarityUR:
		return c.UR
	case RarityPrime:
		return c.Prime
	}
	return nil
}

// Banner is a gacha pool definition from the catalog.
type Banner struct {
	ID        string             `yaml:"id" json:"id"`
	Label     string             `yaml:"label" json:"label"`
	Class     Class              `yaml:"class" json:"class"`
	BaseRates map[Rarity]float64 `yaml:"-" json:"base_rates"`
	Pity      PityConfig         `yaml:"pity" json:"pity"`
	Cost      Cost               `yaml:"cost" json:"cost"`
	Featured  []FeaturedUnit     `yaml:"featured" json:"featured,omitempty"`
	// RateUpShare overrides DefaultRateUpShare when in (0,1].
	RateUpShare float64 `yaml:"rate_up_share" json:"rate_up_share,omitempty"`
	// MaxOffStreak makes the next featured-eligible hit featured after this
	// many consecutive lost rate-up draws. 0 disables it.
	MaxOffStreak int        `yaml:"max_off_streak" json:"max_off_streak,omitempty"`
	ExpiresAt    *time.Time `yaml:"expires_at,omitempty" json:"expires_at,omitempty"`
}

// CarriesOver reports whether any pity rule shares history across the class.
func (b *Banner) CarriesOver() bool {
	for _, r := range []*PityRule{b.Pity.SSR, b.Pity.UR, b.Pity.Prime} {
		if r != nil && r.CarryOver {
			return true
		}
	}
	return false
}

// StateKey is the BannerStateMap key this banner's history lives under.
func (b *Banner) StateKey() string {
	if b.CarriesOver() {
		return CarryOverKeyPrefix + string(b.Class)
	}
	return b.ID
}

// Expired reports whether the banner has closed at now.
func (b *Banner) Expired(now time.Time) bool {
	return b.ExpiresAt != nil && !now.Before(*b.ExpiresAt)
}

// FeaturedOf lists the featured units of rarity r.
func (b *Banner) FeaturedOf(r Rarity) []FeaturedUnit {
	var out []FeaturedUnit
	for _, u := range b.Featured {
		if u.Rarity == r {
			out = append(out, u)
		}
	}
	return out
}

func (b *Banner) rateUpShare() float64 {
	if b.RateUpShare > 0 && b.RateUpShare <= 1 {
		return b.RateUpShare
	}
	return DefaultRateUpShare
}
