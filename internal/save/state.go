// Package save reads and writes the player save: a wallet keyed by tier
// name and the banner states keyed by state key.
package save

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/gacha-core/internal/currency"
	"github.com/xtding233/gacha-core/internal/gacha"
)

// State is the persisted player save.
type State struct {
	Wallet    map[string]int64 `yaml:"wallet"`
	Banners   gacha.StateMap   `yaml:"banners"`
	UpdatedAt time.Time        `yaml:"updated_at,omitempty"`
}

// LoadState reads the save from a YAML file. Returns an empty save if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Wallet: map[string]int64{}, Banners: gacha.StateMap{}}, nil
		}
		return nil, err
	}
	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(filePath), err)
	}
	if st.Wallet == nil {
		st.Wallet = map[string]int64{}
	}
	if st.Banners == nil {
		st.Banners = gacha.StateMap{}
	}
	for key, bs := range st.Banners {
		if bs == nil {
			delete(st.Banners, key)
		}
	}
	return &st, nil
}

// SaveState writes the save to a YAML file, replacing it atomically.
func SaveState(filePath string, st *State) error {
	st.UpdatedAt = time.Now().UTC()
	data, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".save-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}

// LedgerWallet returns the saved wallet on l's tiers. Unknown tier names are
// dropped and negative balances clamp to 0.
func (s *State) LedgerWallet(l *currency.Ladder) currency.Wallet {
	w := make(currency.Wallet, len(s.Wallet))
	for name, v := range s.Wallet {
		if t, ok := l.Lookup(name); ok {
			w[t] += v
		}
	}
	return l.Canonical(w)
}

// SetWallet stores w under l's tier names.
func (s *State) SetWallet(l *currency.Ladder, w currency.Wallet) {
	s.Wallet = l.Named(w)
}
