package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newParamsCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the model intercept and coefficients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(f.output); err != nil {
				return err
			}
			e, err := f.setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.shutdown()

			intercept, coef := e.model.Params()
			out := cmd.OutOrStdout()
			if f.output != formatText {
				return encode(out, f.output, paramsView{
					Model:        e.model.String(),
					Intercept:    intercept,
					Coefficients: coef,
					Features:     e.model.Features(),
				})
			}

			fmt.Fprintln(out, e.model.String())
			fmt.Fprintln(out, "Intercept:", intercept)
			fmt.Fprintln(out, "Coefficients:", coef)
			if names := e.model.Features(); names != nil {
				fmt.Fprintln(out, "Features:", names)
			}
			return nil
		},
	}
}
