package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	gerrors "github.com/xtding233/gacha-core/internal/errors"
	"github.com/xtding233/gacha-core/internal/gacha"
	"github.com/xtding233/gacha-core/internal/logging"
)

const defaultsFile = "defaults"

// Paths helper for economy/defaults/banner files.
type Paths struct {
	BaseDir string // e.g. /opt/app/catalog
}

func (p Paths) EconomyPath() string {
	return filepath.Join(p.BaseDir, "economy.yaml")
}
func (p Paths) DefaultsPath() string {
	return filepath.Join(p.BaseDir, "banners", defaultsFile+".yaml")
}
func (p Paths) BannerPath(id string) string {
	return filepath.Join(p.BaseDir, "banners", id+".yaml")
}

// Loader reads the catalog and merges banners/defaults.yaml under every banner.
type Loader struct {
	paths Paths
	log   *zap.Logger

	mu      sync.RWMutex
	economy *Economy
	cache   map[string]*gacha.Banner
}

// NewLoader creates a catalog loader rooted at baseDir.
func NewLoader(baseDir string, log *zap.Logger) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		log:   logging.OrNop(log),
		cache: make(map[string]*gacha.Banner),
	}
}

// Economy loads economy.yaml. A missing file yields the reference economy.
func (l *Loader) Economy() (*Economy, error) {
	l.mu.RLock()
	if e := l.economy; e != nil {
		l.mu.RUnlock()
		return e, nil
	}
	l.mu.RUnlock()

	var raw RawEconomy
	found, err := readYAML(l.paths.EconomyPath(), &raw)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.KindConfiguration, "read economy", err)
	}
	econ, err := BuildEconomy(raw)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.economy = econ
	l.mu.Unlock()
	l.log.Info("economy loaded",
		zap.Bool("from_file", found),
		zap.Int("tiers", econ.Ladder.Len()),
		zap.String("version", econ.Version),
	)
	return econ, nil
}

// Banner loads, merges and validates one banner by id.
func (l *Loader) Banner(id string) (*gacha.Banner, error) {
	l.mu.RLock()
	if b, ok := l.cache[id]; ok {
		l.mu.RUnlock()
		return b, nil
	}
	l.mu.RUnlock()

	if id == "" || id == defaultsFile || strings.ContainsAny(id, `/\`) {
		return nil, gerrors.Configuration("invalid banner id %q", id)
	}
	econ, err := l.Economy()
	if err != nil {
		return nil, err
	}

	var defaults, raw RawBanner
	if _, err := readYAML(l.paths.DefaultsPath(), &defaults); err != nil {
		return nil, gerrors.Wrap(gerrors.KindConfiguration, "read banner defaults", err)
	}
	found, err := readYAML(l.paths.BannerPath(id), &raw)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.KindConfiguration, "read banner "+id, err)
	}
	if !found {
		return nil, gerrors.Configuration("banner %q not found", id).WithContext("banner", id)
	}
	if raw.ID == "" {
		raw.ID = id
	}

	b, err := BuildBanner(mergeRaw(defaults, raw), econ)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[id] = b
	l.mu.Unlock()
	l.log.Info("banner loaded",
		zap.String("banner", b.ID),
		zap.String("class", string(b.Class)),
		zap.String("state_key", b.StateKey()),
	)
	return b, nil
}

// Banners loads every banner in the catalog, sorted by id. All banners are
// attempted and their errors joined.
func (l *Loader) Banners() ([]*gacha.Banner, error) {
	ids, err := l.BannerIDs()
	if err != nil {
		return nil, err
	}
	var (
		out  []*gacha.Banner
		errs []error
	)
	for _, id := range ids {
		b, err := l.Banner(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, b)
	}
	return out, errors.Join(errs...)
}

// BannerIDs lists the banner files present, sorted.
func (l *Loader) BannerIDs() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(l.paths.BaseDir, "banners", "*.yaml"))
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, m := range matches {
		id := strings.TrimSuffix(filepath.Base(m), ".yaml")
		if id != defaultsFile {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Invalidate clears the loader's cache so the next access rereads the files.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.economy = nil
	l.cache = make(map[string]*gacha.Banner)
}

// readYAML decodes path into out. Missing files are not an error; found reports presence.
func readYAML(path string, out any) (found bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return true, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// mergeRaw performs a deep merge: b overrides a where set.
// Rates and featured lists in b replace a's wholesale.
func mergeRaw(a, b RawBanner) RawBanner {
	out := a
	if b.ID != "" {
		out.ID = b.ID
	}
	if b.Label != "" {
		out.Label = b.Label
	}
	if b.Class != "" {
		out.Class = b.Class
	}
	if len(b.Rates) > 0 {
		out.Rates = b.Rates
	}
	if b.Featured != nil {
		out.Featured = b.Featured
	}
	if b.RateUpShare != nil {
		out.RateUpShare = b.RateUpShare
	}
	if b.MaxOffStreak != nil {
		out.MaxOffStreak = b.MaxOffStreak
	}
	if b.ExpiresAt != nil {
		out.ExpiresAt = b.ExpiresAt
	}

	// cost
	switch {
	case out.Cost == nil && b.Cost != nil:
		c := *b.Cost
		out.Cost = &c
	case out.Cost != nil && b.Cost != nil:
		c := *out.Cost
		if b.Cost.Currency != "" {
			c.Currency = b.Cost.Currency
		}
		if b.Cost.Single != nil {
			c.Single = b.Cost.Single
		}
		if b.Cost.Ten != nil {
			c.Ten = b.Cost.Ten
		}
		out.Cost = &c
	}

	// pity
	switch {
	case out.Pity == nil && b.Pity != nil:
		p := *b.Pity
		out.Pity = &p
	case out.Pity != nil && b.Pity != nil:
		p := *out.Pity
		if b.Pity.SRFloor != nil {
			p.SRFloor = b.Pity.SRFloor
		}
		p.SSR = mergeRule(p.SSR, b.Pity.SSR)
		p.UR = mergeRule(p.UR, b.Pity.UR)
		p.Prime = mergeRule(p.Prime, b.Pity.Prime)
		out.Pity = &p
	}
	return out
}

func mergeRule(a, b *RawRule) *RawRule {
	if b == nil {
		return a
	}
	if a == nil {
		r := *b
		return &r
	}
	r := *a
	if b.SoftThreshold != nil {
		r.SoftThreshold = b.SoftThreshold
	}
	if b.SoftStep != nil {
		r.SoftStep = b.SoftStep
	}
	if b.HardThreshold != nil {
		r.HardThreshold = b.HardThreshold
	}
	if b.HardGuaranteeFeatured != nil {
		r.HardGuaranteeFeatured = b.HardGuaranteeFeatured
	}
	if b.CarryOver != nil {
		r.CarryOver = b.CarryOver
	}
	return &r
}
