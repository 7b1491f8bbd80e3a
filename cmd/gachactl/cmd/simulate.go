package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	gerrors "github.com/xtding233/gacha-core/internal/errors"
	"github.com/xtding233/gacha-core/internal/gacha"
)

var (
	simGoal     string
	simTarget   string
	simPulls    int
	simTrials   int
	simFromSave bool
)

// simulateCmd runs Monte Carlo trials over a banner
var simulateCmd = &cobra.Command{
	Use:   "simulate <banner>",
	Short: "Estimate pulls needed on a banner by Monte Carlo simulation",
	Long: `Run repeated independent trials over a banner and summarize them.

Goals:
  first_hit       pulls until the first hit at or above --target
  first_featured  pulls until the first featured --target
  fixed_budget    hits at or above --target within --pulls pulls

Examples:
  gachactl simulate standard --target SSR
  gachactl simulate aurelia-rising --goal first_featured --target UR --from-save
  gachactl simulate standard --goal fixed_budget --pulls 160 --target SSR`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simGoal, "goal", string(gacha.GoalFirstHit), "first_hit, first_featured or fixed_budget")
	f.StringVar(&simTarget, "target", "SSR", "target rarity")
	f.IntVar(&simPulls, "pulls", 100, "pull budget per trial for fixed_budget")
	f.IntVar(&simTrials, "trials", 10000, "number of trials")
	f.BoolVar(&simFromSave, "from-save", false, "start every trial from the saved pity history")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	b, err := rt.loader.Banner(args[0])
	if err != nil {
		return err
	}
	target, err := gacha.ParseRarity(simTarget)
	if err != nil {
		return gerrors.Wrap(gerrors.KindValidation, "invalid --target", err)
	}
	s, err := resolveSeed()
	if err != nil {
		return err
	}

	params := gacha.SimParams{
		Banner: b,
		Goal:   gacha.TrialGoal(simGoal),
		Target: target,
		Pulls:  simPulls,
		Seed:   s,
	}
	if st, ok := rt.state.Banners.Lookup(b); ok && simFromSave {
		params.Carry = *st
	}
	stats, err := gacha.RunMonteCarlo(params, simTrials)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := printer()
	fmt.Fprintf(out, "%s: %s %s over %d trials (seed %d)\n", b.Label, simGoal, target, simTrials, s)
	p.Fprintf(out, "  mean   %10.2f\n  stddev %10.2f\n", stats.Mean, stats.StdDev)
	p.Fprintf(out, "  p50    %10.0f\n  p90    %10.0f\n  p99    %10.0f\n  max    %10d\n", stats.P50, stats.P90, stats.P99, stats.Max)
	if params.Goal != gacha.GoalFixedBudget {
		p.Fprintf(out, "  cost at p90: %d %s\n", b.Cost.ForPulls(int(stats.P90)), b.Cost.Currency)
	}
	return nil
}
