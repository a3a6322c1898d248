package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storyreel/internal/api"
	"storyreel/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded schedule runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, api.FromHistoryRuns(runs))
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderRuns(runs))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run with its caption entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				tl, err := run.Timeline()
				if err != nil {
					return err
				}
				if jsonOutput {
					dto := api.FromHistoryRun(run)
					dto.Timeline = &tl
					return writeJSON(cmd, dto)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %s\n", renderRunStatus(run.Status, shouldColorize(out)), run.Title)
				fmt.Fprintln(out, renderField("Run", run.RunID))
				fmt.Fprintln(out, renderField("Generation", strconv.FormatUint(run.Generation, 10)))
				fmt.Fprintln(out, renderField("Created", run.CreatedAt.Local().Format("2006-01-02 15:04:05")))
				fmt.Fprintln(out, renderField("Title card", fmt.Sprintf("%d frames", tl.TitleCard.DurationInFrames)))
				fmt.Fprintln(out, renderField("Window", fmt.Sprintf("%d-%d", tl.Window.StartFrame, tl.Window.EndFrame)))
				if run.ErrorMessage != "" {
					fmt.Fprintln(out, renderField("Error", run.ErrorMessage))
				}
				if len(tl.Entries) > 0 {
					fps := ctx.configValue().Render.FPS
					fmt.Fprintln(out, renderEntries(tl.Entries, fps))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run as JSON")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	}
}

func renderRuns(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.RunID,
			strconv.FormatUint(run.Generation, 10),
			run.Status,
			run.Title,
			strconv.Itoa(run.TitleFrames),
			fmt.Sprintf("%d-%d", run.WindowStart, run.WindowEnd),
			strconv.Itoa(run.EntryCount),
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	return renderTable("", []column{
		{header: "Run"},
		{header: "Gen", right: true},
		{header: "Status"},
		{header: "Title", maxWidth: 40},
		{header: "Title frames", right: true},
		{header: "Window"},
		{header: "Captions", right: true},
		{header: "Created"},
	}, rows)
}
