package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xtding233/gacha-core/internal/currency"
)

var (
	payTopTier   bool
	payNoCascade bool
	payDryRun    bool
)

// payCmd charges a cost through the payment cascade
var payCmd = &cobra.Command{
	Use:   "pay <tier> <cost>",
	Short: "Charge a cost in one tier, breaking down higher tiers when short",
	Long: `Pay cost units of a tier. When the balance is short, higher tiers are
broken down one step at a time, nearest tier first. The payment is
all-or-nothing.

Examples:
  gachactl pay gold 1600
  gachactl pay gold 1600 --top-tier
  gachactl pay gold 160 --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: runPay,
}

func init() {
	payCmd.Flags().BoolVar(&payTopTier, "top-tier", false, "allow breaking down the top tier")
	payCmd.Flags().BoolVar(&payNoCascade, "no-cascade", false, "only pay from the tier itself")
	payCmd.Flags().BoolVar(&payDryRun, "dry-run", false, "report the payment without saving it")
}

func runPay(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	target, err := rt.tier(args[0])
	if err != nil {
		return err
	}
	cost, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	res := rt.conv.PayForRoll(rt.wallet(), target, cost, currency.PayOptions{
		AllowTopTier:        payTopTier,
		AllowDownFromHigher: !payNoCascade,
	})
	if !res.OK {
		return res.Err
	}
	if !payDryRun {
		if err := rt.commit(res.Wallet); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	printPayment(out, rt.ladder(), res.Detail)
	printWallet(out, rt.ladder(), res.Wallet)
	return nil
}

// printPayment describes how a cost was covered.
func printPayment(out io.Writer, l *currency.Ladder, d currency.PaymentDetail) {
	p := printer()
	p.Fprintf(out, "Paid %d %s: %d direct, %d from higher tiers\n", d.Cost, l.Name(d.Currency), d.PaidDirect, d.FromHigher)
	for _, h := range d.Hops {
		p.Fprintf(out, "  broke %d %s into %d %s\n", h.Units, l.Name(h.From), h.Produced, l.Name(h.To))
	}
	fmt.Fprintln(out, "Wallet:")
}

func payOptions(topTier bool) currency.PayOptions {
	return currency.PayOptions{AllowTopTier: topTier, AllowDownFromHigher: true}
}
