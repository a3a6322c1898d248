package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storyreel/internal/captions"
	"storyreel/internal/history"
	"storyreel/internal/recompute"
)

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute the caption timeline once and write timeline.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.commandLogger(nil)
			if err != nil {
				return err
			}

			var opts []recompute.Option
			if !dryRun {
				store, err := history.Open(cfg.HistoryPath())
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer store.Close()
				opts = append(opts, recompute.WithHistory(store), recompute.WithTimelineFile(cfg.TimelinePath()))
			}

			engine := recompute.New(cfg, logger, opts...)
			snap, err := engine.Recompute(cmd.Context())
			if err != nil {
				return fmt.Errorf("schedule: %w", err)
			}

			if jsonOutput {
				if err := writeJSON(cmd, snap); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				printSnapshot(out, snap, shouldColorize(out))
				if !dryRun {
					fmt.Fprintln(out, renderField("Written", cfg.TimelinePath()))
				}
			}

			if !snap.Renderable() {
				return fmt.Errorf("schedule failed: %s", snap.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the snapshot as JSON")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute without writing timeline.json or recording history")
	return cmd
}

func printSnapshot(out io.Writer, snap recompute.Snapshot, colorize bool) {
	tl := snap.Timeline
	fmt.Fprintf(out, "%s %s\n", renderStatus(snap.Status, colorize), snap.Title)
	fmt.Fprintln(out, renderField("Generation", strconv.FormatUint(snap.Generation, 10)))
	if snap.RunID != "" {
		fmt.Fprintln(out, renderField("Run", snap.RunID))
	}
	fmt.Fprintln(out, renderField("Composition", fmt.Sprintf("%d frames @ %d fps", snap.DurationInFrames, snap.FPS)))
	fmt.Fprintln(out, renderField("Title card", fmt.Sprintf("%d frames", tl.TitleCard.DurationInFrames)))
	fmt.Fprintln(out, renderField("Window", fmt.Sprintf("%d-%d (%d frames)", tl.Window.StartFrame, tl.Window.EndFrame, tl.Window.Frames())))
	fmt.Fprintln(out, renderField("Captions", yesNo(tl.CaptionsAvailable)))
	if snap.SkippedTokens > 0 {
		fmt.Fprintln(out, renderField("Skipped", fmt.Sprintf("%d tokens", snap.SkippedTokens)))
	}
	if snap.Error != "" {
		fmt.Fprintln(out, renderField("Error", snap.Error))
	}
	for _, warning := range snap.Warnings {
		fmt.Fprintln(out, renderField("Warning", warning))
	}
	if len(tl.Entries) > 0 {
		fmt.Fprintln(out, renderEntries(tl.Entries, snap.FPS))
	}
}

func renderEntries(entries []captions.Entry, fps int) string {
	rows := make([][]string, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(entry.FromFrame),
			strconv.Itoa(entry.DurationInFrames),
			formatSeconds(entry.FromFrame, fps),
			strings.TrimSpace(entry.Text),
		})
	}
	return renderTable("Captions", []column{
		{header: "#", right: true},
		{header: "From", right: true},
		{header: "Frames", right: true},
		{header: "At", right: true},
		{header: "Text", maxWidth: 48},
	}, rows)
}

func formatSeconds(frame, fps int) string {
	if fps <= 0 {
		return "-"
	}
	return strconv.FormatFloat(float64(frame)/float64(fps), 'f', 2, 64) + "s"
}
