package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgricker/actioncheck/internal/config"
	"github.com/bgricker/actioncheck/internal/discovery"
	"github.com/bgricker/actioncheck/internal/output"
	"github.com/bgricker/actioncheck/internal/validate"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [path|pattern ...]",
		Short: "Validate workflow files and report errors and warnings",
		RunE:  runValidate,
	}
	cmd.Flags().Bool("batch", false, "always emit the batch output shape")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	forceBatch, err := cmd.Flags().GetBool("batch")
	if err != nil {
		return fmt.Errorf("parse --batch: %w", err)
	}

	mode, err := annotationMode(cfg.Annotations)
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.Workflows
	}

	validator := validate.New(cfg.Lint.Rules())

	paths, err := discovery.Resolve(root, inputs)
	if err != nil {
		if errors.Is(err, discovery.ErrNoMatches) {
			return renderNoMatches(cmd, cfg, validator)
		}
		return err
	}

	batch := validator.ValidateBatch(paths)

	single := len(paths) == 1 && !forceBatch
	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		renderer := output.NewReport(cmd.OutOrStdout(), cfg.Verbose)
		if err := renderer.RenderBatch(batch); err != nil {
			return err
		}
	case config.FormatJSON:
		renderer := output.NewJSON(cmd.OutOrStdout())
		if single {
			res, _ := batch.Lookup(paths[0])
			if err := renderer.RenderFile(res); err != nil {
				return err
			}
		} else if err := renderer.RenderBatch(batch); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	if mode.Active(runningInCI()) {
		output.NewAnnotations(cmd.ErrOrStderr()).WriteBatch(batch)
	}

	if !batch.OverallValid {
		return fmt.Errorf("one or more workflow files are invalid")
	}
	return nil
}

// renderNoMatches emits the zero-match batch shape so machine consumers
// still receive well-formed output, then fails the run.
func renderNoMatches(cmd *cobra.Command, cfg config.Config, validator *validate.Validator) error {
	batch := validator.ValidateBatch(nil)
	switch strings.ToLower(cfg.Format) {
	case config.FormatJSON:
		if err := output.NewJSON(cmd.OutOrStdout()).RenderBatch(batch); err != nil {
			return err
		}
	default:
		if err := output.NewReport(cmd.OutOrStdout(), cfg.Verbose).RenderBatch(batch); err != nil {
			return err
		}
	}
	return discovery.ErrNoMatches
}
