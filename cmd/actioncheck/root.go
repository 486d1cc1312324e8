package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "actioncheck",
		Short:         "Actioncheck statically validates GitHub Actions workflow files",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	persistent := cmd.PersistentFlags()
	persistent.String("format", "", "output format (pretty|json)")
	persistent.String("annotations", "", "CI annotation output (auto|on|off)")
	persistent.BoolP("verbose", "v", false, "show full job lists in the report")

	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
