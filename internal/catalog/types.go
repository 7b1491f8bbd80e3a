// Package catalog loads the static banner catalog and currency economy from
// YAML and turns them into validated core types.
package catalog

import (
	"time"

	"github.com/xtding233/gacha-core/internal/store"
)

// RawEconomy mirrors economy.yaml.
type RawEconomy struct {
	Version   string    `yaml:"version"`
	Tiers     []string  `yaml:"tiers"`
	Rates     []float64 `yaml:"rates"` // rates[i]: tier i units per tier i+1 unit
	BatchSize int64     `yaml:"batch_size"`
	Tax       *RawTax   `yaml:"tax,omitempty"`
	// Store lists the top-up packs; optional.
	Store *store.Catalog `yaml:"store,omitempty"`
}

type RawTax struct {
	PairBases   []float64 `yaml:"pair_bases"`
	DefaultBase *float64  `yaml:"default_base"`
	Alpha       *float64  `yaml:"alpha"`
	Max         *float64  `yaml:"max"`
	WealthPivot *float64  `yaml:"wealth_pivot"`
}

// RawBanner mirrors banners/<id>.yaml and banners/defaults.yaml.
type RawBanner struct {
	ID           string             `yaml:"id"`
	Label        string             `yaml:"label"`
	Class        string             `yaml:"class"`
	Rates        map[string]float64 `yaml:"rates"`
	Pity         *RawPity           `yaml:"pity,omitempty"`
	Cost         *RawCost           `yaml:"cost,omitempty"`
	Featured     []RawFeatured      `yaml:"featured,omitempty"`
	RateUpShare  *float64           `yaml:"rate_up_share,omitempty"`
	MaxOffStreak *int               `yaml:"max_off_streak,omitempty"`
	ExpiresAt    *time.Time         `yaml:"expires_at,omitempty"`
}

type RawPity struct {
	SRFloor *int     `yaml:"sr_floor"`
	SSR     *RawRule `yaml:"ssr,omitempty"`
	UR      *RawRule `yaml:"ur,omitempty"`
	Prime   *RawRule `yaml:"prime,omitempty"`
}

type RawRule struct {
	SoftThreshold         *int     `yaml:"soft_threshold"`
	SoftStep              *float64 `yaml:"soft_step"`
	HardThreshold         *int     `yaml:"hard_threshold"`
	HardGuaranteeFeatured *bool    `yaml:"hard_guarantee_featured"`
	CarryOver             *bool    `yaml:"carry_over"`
}

type RawCost struct {
	Currency string `yaml:"currency"`
	Single   *int64 `yaml:"single"`
	Ten      *int64 `yaml:"ten"`
}

type RawFeatured struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Rarity   string `yaml:"rarity"`
	Portrait string `yaml:"portrait,omitempty"`
}
