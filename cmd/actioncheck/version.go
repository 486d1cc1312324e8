package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgricker/actioncheck/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the actioncheck version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "actioncheck", version.String())
			return err
		},
	}
}
