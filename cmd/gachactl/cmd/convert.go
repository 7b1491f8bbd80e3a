package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xtding233/gacha-core/internal/currency"
)

var convertTax bool

// convertCmd converts currency between tiers
var convertCmd = &cobra.Command{
	Use:   "convert <from> <to> <amount>",
	Short: "Convert currency between two tiers of the saved wallet",
	Long: `Convert amount units of one tier into another.

Upward conversions without --tax must be a whole number of batches and are
untaxed; with --tax any amount converts at the wealth-scaled rate. Downward
conversions are never taxed and move at most the available balance.

Examples:
  gachactl convert copper silver 1000 --tax
  gachactl convert silver gold 200
  gachactl convert platinum gold 3`,
	Args: cobra.ExactArgs(3),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertTax, "tax", false, "allow taxed conversion of any amount")
}

func runConvert(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	from, err := rt.tier(args[0])
	if err != nil {
		return err
	}
	to, err := rt.tier(args[1])
	if err != nil {
		return err
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return err
	}

	before := rt.wallet()
	res := rt.conv.Convert(before, from, to, amount, currency.ConvertOptions{AllowTax: convertTax})
	if !res.Wallet.Equal(before) {
		if err := rt.commit(res.Wallet); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	p := printer()
	p.Fprintf(out, "Spent %d %s, received %d %s", res.Spent, args[0], res.Received, args[1])
	if res.Tax > 0 {
		p.Fprintf(out, " (tax %d at %.2f%%)", res.Tax, res.Rate*100)
	}
	fmt.Fprintln(out)
	printWallet(out, rt.ladder(), res.Wallet)
	if !res.OK {
		return res.Err
	}
	return nil
}
