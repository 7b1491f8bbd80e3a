package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xtding233/gacha-core/internal/gacha"
)

// ratesCmd shows a banner's effective rates for the next pull
var ratesCmd = &cobra.Command{
	Use:   "rates <banner>",
	Short: "Show the effective rates of a banner's next pull",
	Long: `Show the base and effective rates of the next pull on a banner, given the
pity history in the save file.

Examples:
  gachactl rates standard`,
	Args: cobra.ExactArgs(1),
	RunE: runRates,
}

func runRates(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	b, err := rt.loader.Banner(args[0])
	if err != nil {
		return err
	}
	st, ok := rt.state.Banners.Lookup(b)
	if !ok {
		st = &gacha.BannerState{}
	}

	out := cmd.OutOrStdout()
	p := printer()
	fmt.Fprintf(out, "%s [%s], history %q after %d pulls\n", b.Label, b.Class, b.StateKey(), st.Pulls)

	er := gacha.ComputeEffectiveRates(b, st)
	if er.Forced {
		fmt.Fprintf(out, "Next pull is forced: %s", er.ForcedRarity)
		if er.GuaranteeFeatured {
			fmt.Fprint(out, " (featured guaranteed)")
		}
		fmt.Fprintln(out)
		return nil
	}

	base := gacha.BaseDistribution(b)
	fmt.Fprintf(out, "  %-6s %9s %9s %8s\n", "rarity", "base", "next", "counter")
	for _, r := range gacha.Rarities() {
		p.Fprintf(out, "  %-6s %8.3f%% %8.3f%% %8d\n", r, base.Of(r)*100, er.Dist.Of(r)*100, st.Pity.Of(r))
	}
	if er.SRFloorActive {
		fmt.Fprintln(out, "SR floor active: the next pull is at least SR")
	}
	return nil
}
