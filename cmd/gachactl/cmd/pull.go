package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xtding233/gacha-core/internal/gacha"
	"github.com/xtding233/gacha-core/internal/logging"
	"github.com/xtding233/gacha-core/internal/pull"
)

var (
	pullCount   int
	pullTopTier bool
)

// pullCmd buys and performs pulls on a banner
var pullCmd = &cobra.Command{
	Use:   "pull <banner>",
	Short: "Pay for and perform pulls on a banner",
	Long: `Charge the banner's price to the saved wallet and perform the pulls.
Ten pulls are charged at the ten-pull price. Nothing is pulled when the
wallet cannot cover the price.

Examples:
  gachactl pull standard
  gachactl pull aurelia-rising -n 10 --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: runPull,
}

func init() {
	pullCmd.Flags().IntVarP(&pullCount, "count", "n", 1, "number of pulls")
	pullCmd.Flags().BoolVar(&pullTopTier, "top-tier", false, "allow breaking down the top tier to pay")
}

func runPull(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	b, err := rt.loader.Banner(args[0])
	if err != nil {
		return err
	}
	s, err := resolveSeed()
	if err != nil {
		return err
	}
	rec, err := openRecorder()
	if err != nil {
		return err
	}
	defer rec.Close()

	svc := pull.NewService(rt.conv,
		pull.WithRecorder(rec),
		pull.WithLogger(logging.Logger),
		pull.WithPayOptions(payOptions(pullTopTier)),
	)
	res, err := svc.Pull(rt.wallet(), rt.state.Banners, pull.Request{
		Banner:   b,
		Count:    pullCount,
		Rarity:   gacha.NewSeededStream(s, 0),
		Featured: gacha.NewSeededStream(s, 1),
	})
	if err != nil {
		return err
	}
	if err := rt.commit(res.Wallet); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (seed %d)\n", b.Label, s)
	for i, p := range res.Pulls {
		line := fmt.Sprintf("  #%-3d %-5s", i+1, p.Rarity)
		if p.Featured {
			line += " featured"
			if p.Unit != nil {
				line += " " + p.Unit.Name
			}
		}
		if p.Trigger != gacha.TriggerNone {
			line += fmt.Sprintf(" [%s pity]", p.Trigger)
		}
		fmt.Fprintln(out, line)
	}
	st := rt.state.Banners[b.StateKey()]
	fmt.Fprintf(out, "History %q: %d pulls, counters SR=%d SSR=%d UR=%d PRIME=%d\n",
		b.StateKey(), st.Pulls, st.Pity.SR, st.Pity.SSR, st.Pity.UR, st.Pity.Prime)
	printPayment(out, rt.ladder(), res.Payment.Detail)
	printWallet(out, rt.ladder(), res.Wallet)
	return nil
}
