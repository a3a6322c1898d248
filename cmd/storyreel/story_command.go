package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"storyreel/internal/fileutil"
	"storyreel/internal/story"
	"storyreel/internal/textutil"
)

func newStoryCommand(ctx *commandContext) *cobra.Command {
	var narration bool
	var write bool

	cmd := &cobra.Command{
		Use:   "story",
		Short: "Print the post text (title and hashtags) for the current story",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := story.Load(cfg.Paths.StoryFile)
			if err != nil {
				return err
			}

			text := st.PublishText()
			if narration {
				text = st.NarrationText()
			}
			out := cmd.OutOrStdout()
			if !write {
				fmt.Fprintln(out, text)
				return nil
			}

			suffix := ".post.txt"
			if narration {
				suffix = ".narration.txt"
			}
			target := filepath.Join(cfg.Paths.OutputDir, textutil.SanitizeFileName(st.Title)+suffix)
			if err := fileutil.WriteFileAtomic(target, []byte(text+"\n"), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			fmt.Fprintf(out, "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&narration, "narration", false, "Print the text sent to speech synthesis instead")
	cmd.Flags().BoolVar(&write, "write", false, "Write the text to the output directory instead of stdout")
	return cmd
}
