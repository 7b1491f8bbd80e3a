package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	gerrors "github.com/xtding233/gacha-core/internal/errors"
)

var walletGrants []string

// walletCmd shows the saved wallet and applies direct awards
var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Show the wallet, optionally granting currency first",
	Long: `Show the saved wallet. --grant credits a tier directly, the way rewards
and top-ups do; it is the only way to obtain the top tier besides breaking it
down from above.

Examples:
  gachactl wallet
  gachactl wallet --grant gold=1600 --grant stellar=2`,
	Args: cobra.NoArgs,
	RunE: runWallet,
}

func init() {
	walletCmd.Flags().StringArrayVar(&walletGrants, "grant", nil, "credit tier=amount (repeatable)")
}

func runWallet(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	w := rt.wallet()

	if len(walletGrants) > 0 {
		for _, g := range walletGrants {
			name, amount, ok := strings.Cut(g, "=")
			if !ok {
				return gerrors.Validation("grant %q must look like tier=amount", g)
			}
			t, err := rt.tier(name)
			if err != nil {
				return err
			}
			n, err := parseAmount(amount)
			if err != nil {
				return err
			}
			if n < 0 {
				return gerrors.Validation("grant amount must not be negative, got %d", n)
			}
			w[t] += n
		}
		if err := rt.commit(w); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Wallet:")
	printWallet(out, rt.ladder(), w)
	printer().Fprintf(out, "Wealth index: %.4f\n", rt.conv.WealthIndex(w))
	return nil
}
