package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xtding233/gacha-core/internal/audit"
	"github.com/xtding233/gacha-core/internal/catalog"
	"github.com/xtding233/gacha-core/internal/currency"
	gerrors "github.com/xtding233/gacha-core/internal/errors"
	"github.com/xtding233/gacha-core/internal/logging"
	"github.com/xtding233/gacha-core/internal/random"
	"github.com/xtding233/gacha-core/internal/save"
)

// runtime is what a command needs: the catalog, its economy and the save.
type runtime struct {
	loader *catalog.Loader
	econ   *catalog.Economy
	conv   *currency.Converter
	state  *save.State
}

func openRuntime() (*runtime, error) {
	loader := catalog.NewLoader(cfg.CatalogDir, logging.Logger)
	econ, err := loader.Economy()
	if err != nil {
		return nil, err
	}
	st, err := save.LoadState(cfg.SaveFile)
	if err != nil {
		return nil, fmt.Errorf("load save: %w", err)
	}
	return &runtime{
		loader: loader,
		econ:   econ,
		conv:   econ.NewConverter(logging.Logger),
		state:  st,
	}, nil
}

func (rt *runtime) ladder() *currency.Ladder { return rt.econ.Ladder }

func (rt *runtime) wallet() currency.Wallet { return rt.state.LedgerWallet(rt.ladder()) }

// commit stores w and writes the save.
func (rt *runtime) commit(w currency.Wallet) error {
	rt.state.SetWallet(rt.ladder(), w)
	if err := save.SaveState(cfg.SaveFile, rt.state); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

func (rt *runtime) tier(name string) (currency.Tier, error) {
	t, ok := rt.ladder().Lookup(name)
	if !ok {
		return 0, gerrors.Validation("unknown tier %q (have %s)", name, strings.Join(rt.tierNames(), ", "))
	}
	return t, nil
}

func (rt *runtime) tierNames() []string {
	var out []string
	for _, t := range rt.ladder().Tiers() {
		out = append(out, rt.ladder().Name(t))
	}
	return out
}

func openRecorder() (audit.Recorder, error) {
	if cfg.AuditDB == "" {
		return audit.NewNoopRecorder(), nil
	}
	return audit.NewSQLiteRecorder(cfg.AuditDB, logging.Logger)
}

func resolveSeed() (uint64, error) {
	s, err := random.Resolve(cfg.Seed)
	if err != nil {
		return 0, err
	}
	logging.Debug("seed resolved", zap.Uint64("seed", s))
	return s, nil
}

func printer() *message.Printer { return message.NewPrinter(language.English) }

// printWallet writes one line per tier, lowest first.
func printWallet(out io.Writer, l *currency.Ladder, w currency.Wallet) {
	p := printer()
	for _, t := range l.Tiers() {
		p.Fprintf(out, "  %-10s %14d\n", l.Name(t), w[t])
	}
}

func parseAmount(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 10, 64)
	if err != nil {
		return 0, gerrors.Validation("invalid amount %q", s)
	}
	return v, nil
}
