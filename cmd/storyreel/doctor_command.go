package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"storyreel/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that inputs, directories and ffprobe are in place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cfg)
			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, res := range results {
					fmt.Fprintln(out, renderCheck(res, colorize))
				}
			}
			if blocking := preflight.Blocking(results); len(blocking) > 0 {
				return errors.New(pluralChecks(len(blocking)) + " failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}

func renderCheck(res preflight.Result, colorize bool) string {
	label, color := "OK", ansiGreen
	switch {
	case res.Passed:
	case res.Optional:
		label, color = "WARN", ansiYellow
	default:
		label, color = "ERROR", ansiRed
	}
	line := renderField(res.Name, fmt.Sprintf("[%s] %s", label, res.Detail))
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func pluralChecks(n int) string {
	if n == 1 {
		return "1 check"
	}
	return fmt.Sprintf("%d checks", n)
}
