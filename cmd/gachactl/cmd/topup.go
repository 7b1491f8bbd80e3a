package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xtding233/gacha-core/internal/store"
)

var (
	topupCount   int
	topupFirst   []string
	topupBudget  int64
	topupTopTier bool
)

// topupCmd plans a store purchase
var topupCmd = &cobra.Command{
	Use:   "topup <banner>",
	Short: "Plan the cheapest store purchase that pays for pulls on a banner",
	Long: `Work out how many store-tier units the saved wallet is short of to pay for
--count pulls on the banner, and the cheapest pack combination covering it.
With --budget, show instead the most units a budget in cents buys.

Examples:
  gachactl topup aurelia-rising -n 10
  gachactl topup aurelia-rising -n 90 --first 300 --first 980
  gachactl topup standard --budget 4999`,
	Args: cobra.ExactArgs(1),
	RunE: runTopup,
}

func init() {
	f := topupCmd.Flags()
	f.IntVarP(&topupCount, "count", "n", 10, "number of pulls to pay for")
	f.StringArrayVar(&topupFirst, "first", nil, "pack id whose first-time bonus is still available (repeatable)")
	f.Int64Var(&topupBudget, "budget", 0, "budget in cents; plans the most units instead")
	f.BoolVar(&topupTopTier, "top-tier", false, "allow breaking down the top tier to pay")
}

func runTopup(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	packTier, err := rt.econ.StoreTier()
	if err != nil {
		return err
	}
	first := store.FirstTimeState{}
	for _, id := range topupFirst {
		first[id] = true
	}
	cat := *rt.econ.Store
	out := cmd.OutOrStdout()

	if topupBudget > 0 {
		printPlan(cmd, store.MaxUnitsUnderBudget(cat, topupBudget, first), rt.ladder().Name(packTier))
		return nil
	}

	b, err := rt.loader.Banner(args[0])
	if err != nil {
		return err
	}
	target, err := rt.econ.CostTier(b)
	if err != nil {
		return err
	}
	cost := b.Cost.ForPulls(topupCount)
	need, err := store.UnitsNeeded(rt.conv, rt.wallet(), target, packTier, cost, payOptions(topupTopTier))
	if err != nil {
		return err
	}

	p := printer()
	p.Fprintf(out, "%d pulls on %s cost %d %s\n", topupCount, b.Label, cost, b.Cost.Currency)
	if need == 0 {
		fmt.Fprintln(out, "The wallet already covers it.")
		return nil
	}
	p.Fprintf(out, "Short by %d %s\n", need, rt.ladder().Name(packTier))
	printPlan(cmd, store.MinCostAtLeast(cat, need, first), rt.ladder().Name(packTier))
	return nil
}

func printPlan(cmd *cobra.Command, plan store.Plan, unitName string) {
	out := cmd.OutOrStdout()
	p := printer()
	if len(plan.Purchases) == 0 {
		fmt.Fprintln(out, "No purchase possible.")
		return
	}
	for _, it := range plan.Purchases {
		p.Fprintf(out, "  %3d x %-20s %8s %s  (+%d %s each)\n",
			it.Qty, it.Name, store.Price(it.UnitPrice), plan.Currency, it.PackUnits, unitName)
	}
	p.Fprintf(out, "Subtotal %s, tax %s, total %s %s for %d %s\n",
		store.Price(plan.SubCents), store.Price(plan.TaxCents), store.Price(plan.TotalCents), plan.Currency,
		plan.TotalUnits, unitName)
}
