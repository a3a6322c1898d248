package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storyreel/internal/captions"
	"storyreel/internal/media/ffprobe"
	"storyreel/internal/story"
)

type windowReport struct {
	Title  string                `json:"title"`
	Seed   float64               `json:"seed"`
	Config captions.RenderConfig `json:"config"`
	Window captions.VideoWindow  `json:"window"`
	Short  bool                  `json:"shortFootage"`
}

func newWindowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var targetFrames int
	var footageSeconds float64

	cmd := &cobra.Command{
		Use:   "window [title]",
		Short: "Show the background crop window chosen for a title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			title := ""
			if len(args) == 1 {
				title = args[0]
			} else {
				st, err := story.Load(cfg.Paths.StoryFile)
				if err != nil {
					return err
				}
				title = st.Title
			}
			if strings.TrimSpace(title) == "" {
				return errors.New("window: title is empty")
			}

			if targetFrames <= 0 {
				targetFrames = cfg.Render.TargetDurationFrames
			}
			if targetFrames <= 0 {
				return errors.New("window: set --frames or render.target_duration_frames")
			}
			if footageSeconds <= 0 {
				footageSeconds = cfg.Render.BackgroundVideoSeconds
			}
			if footageSeconds <= 0 {
				footage, err := ffprobe.Probe(cmd.Context(), cfg.Paths.BackgroundVideo)
				if err != nil {
					return fmt.Errorf("window: %w", err)
				}
				footageSeconds = footage.DurationSeconds
			}

			report := windowReport{
				Title: title,
				Seed:  captions.TitleSeed(title),
				Config: captions.RenderConfig{
					FPS:                            cfg.Render.FPS,
					TargetDurationInFrames:         targetFrames,
					BackgroundVideoLengthInSeconds: footageSeconds,
				},
			}
			window, err := captions.SelectWindow(title, report.Config)
			switch {
			case errors.Is(err, captions.ErrInsufficientFootage):
				report.Short = true
			case err != nil:
				return fmt.Errorf("window: %w", err)
			}
			report.Window = window

			if jsonOutput {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderField("Title", report.Title))
			fmt.Fprintln(out, renderField("Seed", strconv.FormatFloat(report.Seed, 'f', -1, 64)))
			fmt.Fprintln(out, renderField("Window", fmt.Sprintf("%d-%d (%d frames)", window.StartFrame, window.EndFrame, window.Frames())))
			fmt.Fprintln(out, renderField("Starts at", formatSeconds(window.StartFrame, report.Config.FPS)))
			if report.Short {
				fmt.Fprintln(out, renderField("Warning", err.Error()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the window as JSON")
	cmd.Flags().IntVar(&targetFrames, "frames", 0, "Composition length in frames (defaults to render.target_duration_frames)")
	cmd.Flags().Float64Var(&footageSeconds, "footage-seconds", 0, "Background video length (defaults to config, then ffprobe)")
	return cmd
}
