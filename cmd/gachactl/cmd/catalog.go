package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xtding233/gacha-core/internal/catalog"
	"github.com/xtding233/gacha-core/internal/logging"
)

var (
	catalogWatch    bool
	catalogInterval time.Duration
)

// catalogCmd groups catalog maintenance commands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the banner catalog",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// catalogCheckCmd validates every banner in the catalog
var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the economy and every banner",
	Long: `Load and validate economy.yaml and every banners/<id>.yaml merged over
banners/defaults.yaml. With --watch, check again whenever a file changes.

Examples:
  gachactl catalog check
  gachactl catalog check --watch --interval 5s`,
	Args: cobra.NoArgs,
	RunE: runCatalogCheck,
}

func init() {
	catalogCheckCmd.Flags().BoolVar(&catalogWatch, "watch", false, "re-check on every change until interrupted")
	catalogCheckCmd.Flags().DurationVar(&catalogInterval, "interval", 2*time.Second, "poll interval for --watch")
	catalogCmd.AddCommand(catalogCheckCmd)
}

func runCatalogCheck(cmd *cobra.Command, _ []string) error {
	loader := catalog.NewLoader(cfg.CatalogDir, logging.Logger)
	err := checkCatalog(cmd, loader)
	if !catalogWatch {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	changed := make(chan struct{}, 1)
	w := catalog.NewWatcher(loader, func(path string) {
		fmt.Fprintf(cmd.OutOrStdout(), "changed: %s\n", path)
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err := w.Start(catalogInterval); err != nil {
		return err
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			if err := checkCatalog(cmd, loader); err != nil {
				logging.Warn("catalog invalid", zap.Error(err))
			}
		}
	}
}

func checkCatalog(cmd *cobra.Command, loader *catalog.Loader) error {
	out := cmd.OutOrStdout()
	econ, err := loader.Economy()
	if err != nil {
		fmt.Fprintf(out, "economy: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "economy %q: %d tiers, batch size %d\n", econ.Version, econ.Ladder.Len(), econ.BatchSize)

	banners, err := loader.Banners()
	for _, b := range banners {
		fmt.Fprintf(out, "  ok  %-24s %-9s history %q\n", b.ID, b.Class, b.StateKey())
	}
	if err != nil {
		fmt.Fprintf(out, "  invalid: %v\n", err)
	}
	return err
}
