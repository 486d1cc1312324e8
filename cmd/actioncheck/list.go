package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgricker/actioncheck/internal/config"
	"github.com/bgricker/actioncheck/internal/discovery"
	"github.com/bgricker/actioncheck/internal/output"
	"github.com/bgricker/actioncheck/internal/validate"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [path|pattern ...]",
		Short: "List the structure of workflow files without failing on errors",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.Workflows
	}

	paths, err := discovery.Resolve(root, inputs)
	if err != nil {
		return err
	}

	validator := validate.New(cfg.Lint.Rules())
	batch := validator.ValidateBatch(paths)

	if strings.ToLower(cfg.Format) == config.FormatJSON {
		return output.NewJSON(cmd.OutOrStdout()).RenderBatch(batch)
	}

	out := cmd.OutOrStdout()
	for _, entry := range batch.Files {
		fmt.Fprintf(out, "Workflow %s\n", entry.Path)
		s := entry.Result.Structure
		if s == nil {
			fmt.Fprintln(out, "  (did not parse)")
			continue
		}
		if len(s.Triggers) > 0 {
			fmt.Fprintf(out, "  triggers: %s\n", strings.Join(s.Triggers, ", "))
		}
		for _, job := range s.Jobs {
			fmt.Fprintf(out, "  Job %s\n", job)
		}
	}
	return nil
}
