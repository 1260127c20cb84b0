package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-bcd/pkg/app"
	"github.com/deploymenttheory/go-bcd/pkg/app/codes"
)

var verifyCodes bool

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List BCD object and element type codes",
	Long: `List every well-known object type and element type with the fields it is
built from, the computed code and the documented value.

Examples:
  # Show the catalog
  bcdgen codes

  # Fail with a non-zero exit status if any code does not match
  bcdgen codes --verify -q`,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCodes(cmd)
	},
}

func init() {
	rootCmd.AddCommand(codesCmd)

	codesCmd.Flags().BoolVar(&verifyCodes, "verify", false, "exit with an error when the self-check fails")
}

func runCodes(cmd *cobra.Command) error {
	ctx := newContext(cmd)

	resp, err := codes.Handle(ctx, &codes.Request{Verify: verifyCodes})
	if err != nil {
		return err
	}
	if ctx.Quiet {
		return nil
	}
	if err := codes.FormatOutput(ctx.Out, resp, ctx.OutputFormat); err != nil {
		return app.NewError(app.ErrCodeOutput, "failed to format output", err)
	}
	return nil
}
