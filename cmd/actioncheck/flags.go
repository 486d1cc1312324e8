package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bgricker/actioncheck/internal/config"
	"github.com/bgricker/actioncheck/internal/output"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	if flags.Changed("format") {
		v, err := flags.GetString("format")
		if err != nil {
			return values, fmt.Errorf("parse --format: %w", err)
		}
		values.Format = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("annotations") {
		v, err := flags.GetString("annotations")
		if err != nil {
			return values, fmt.Errorf("parse --annotations: %w", err)
		}
		values.Annotations = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return values, fmt.Errorf("parse --verbose: %w", err)
		}
		values.Verbose = config.BoolFlag{Value: v, Set: true}
	}

	return values, nil
}

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)

	return cfg, root, nil
}

func annotationMode(value string) (output.AnnotationMode, error) {
	switch value {
	case config.AnnotationsAuto:
		return output.AnnotationsAuto, nil
	case config.AnnotationsOn:
		return output.AnnotationsOn, nil
	case config.AnnotationsOff:
		return output.AnnotationsOff, nil
	default:
		return output.AnnotationsOff, fmt.Errorf("unsupported annotations mode %q", value)
	}
}

// runningInCI is the single place ambient CI state is read; the engine and
// formatters receive it as an explicit flag.
func runningInCI() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}
