package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgricker/actioncheck/internal/contract"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema governing the output contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), string(contract.Schema()))
			return err
		},
	}
}
