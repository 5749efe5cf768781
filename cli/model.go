package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/fplkit/model"
)

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Model artifact utilities",
	}
	cmd.AddCommand(newModelWriteCmd(), newModelConvertCmd())
	return cmd
}

func newModelWriteCmd() *cobra.Command {
	var (
		intercept float64
		weights   []float64
		features  []string
		out       string
	)
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write a model artifact from explicit parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := model.NewLinearModel(weights, intercept, features...)
			if err != nil {
				return err
			}
			if err := m.Save(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s to %s\n", m, out)
			return nil
		},
	}
	cmd.Flags().Float64Var(&intercept, "intercept", 0, "model intercept")
	cmd.Flags().Float64SliceVar(&weights, "weights", nil, "comma separated coefficients")
	cmd.Flags().StringSliceVar(&features, "features", nil, "comma separated feature names, one per weight")
	cmd.Flags().StringVar(&out, "out", "", "output path (.json, .yaml or .yml)")
	_ = cmd.MarkFlagRequired("weights")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newModelConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Re-encode a model artifact, format chosen by file extension",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.LoadLinearModel(args[0])
			if err != nil {
				return err
			}
			if err := m.Save(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s to %s\n", m, args[1])
			return nil
		},
	}
}
