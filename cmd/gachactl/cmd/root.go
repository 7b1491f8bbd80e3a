// Package cmd provides the CLI commands for gachactl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xtding233/gacha-core/internal/config"
	"github.com/xtding233/gacha-core/internal/logging"
)

var (
	envFile    string
	catalogDir string
	saveFile   string
	auditDB    string
	seed       uint64
	verbose    bool

	cfg config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gachactl",
	Short: "Operate a gacha wallet and banner history from the command line",
	Long: `gachactl drives the currency ledger and the roll engine against a YAML
catalog and a local save file.

Settings come from GACHA_* environment variables (optionally loaded from a
.env file); flags override them.

Examples:
  gachactl wallet --grant gold=3200
  gachactl pull aurelia-rising -n 10
  gachactl convert copper silver 1000 --tax
  gachactl simulate standard --goal first_hit --target SSR --trials 20000`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading GACHA_* variables")
	pf.StringVar(&catalogDir, "catalog", "", "catalog directory (overrides GACHA_CATALOG_DIR)")
	pf.StringVar(&saveFile, "save", "", "save file (overrides GACHA_SAVE_FILE)")
	pf.StringVar(&auditDB, "audit-db", "", "SQLite audit database (overrides GACHA_AUDIT_DB)")
	pf.Uint64Var(&seed, "seed", 0, "seed for reproducible rolls (overrides GACHA_SEED)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(topupCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("catalog") {
		loaded.CatalogDir = catalogDir
	}
	if flags.Changed("save") {
		loaded.SaveFile = saveFile
	}
	if flags.Changed("audit-db") {
		loaded.AuditDB = auditDB
	}
	if flags.Changed("seed") {
		loaded.Seed = seed
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}
	cfg = loaded

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	return nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "gachactl version 0.1.0")
	},
}
