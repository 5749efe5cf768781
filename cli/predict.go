package cli

import (
	"github.com/spf13/cobra"
)

func newPredictCmd(f *rootFlags) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "predict NAME...",
		Short: "Predict points for one or more players",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(f.output); err != nil {
				return err
			}
			e, err := f.setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.shutdown()

			ests, err := e.predictor.PredictMany(cmd.Context(), args)
			if err != nil {
				return err
			}
			return writeEstimates(cmd.OutOrStdout(), f.output, ests, false, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print the raw linear output and stats")
	return cmd
}
