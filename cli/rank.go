package cli

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/fplkit/pkg/dsl"
	"github.com/rushteam/fplkit/predict"
)

func newRankCmd(f *rootFlags) *cobra.Command {
	var (
		where   string
		top     int
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "rank [NAME...]",
		Short: "Rank players by predicted points (all known players when no names are given)",
		Example: `  fplkit rank --top 10
  fplkit rank --where 'player.points >= 6 && stats[0] > 1800.0'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(f.output); err != nil {
				return err
			}
			filter, err := dsl.Compile(where)
			if err != nil {
				return err
			}
			e, err := f.setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.shutdown()

			ests, err := e.predictor.Rank(cmd.Context(), predict.RankRequest{
				Names:  args,
				Filter: filter,
				TopN:   top,
			})
			if err != nil {
				return err
			}
			return writeEstimates(cmd.OutOrStdout(), f.output, ests, true, verbose)
		},
	}
	cmd.Flags().StringVarP(&where, "where", "w", "", "CEL filter over player.name, player.points, player.raw and stats")
	cmd.Flags().IntVarP(&top, "top", "n", 0, "keep only the top N players (0 keeps all)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print the raw linear output and stats")
	return cmd
}
