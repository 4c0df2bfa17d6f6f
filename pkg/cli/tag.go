package cli

import (
	"fmt"

	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag <video>",
	Short: "Tag a video from the source directory",
	Long: `Run the full pipeline on one video from the source directory and write the
tagged copy to the ready directory. The run and its team assignments are
saved to the database.`,
	Args: cobra.ExactArgs(1),
	RunE: runTag,
}

func init() {
	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.tagger.Tag(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("tagging '%s' failed: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	counts := summary.Result.Counts()
	fmt.Fprintf(out, "Run: %s\n", summary.RunID)
	fmt.Fprintf(out, "Frames: %d (%s)\n", summary.Result.Frames, summary.Result.Phase)
	fmt.Fprintf(out, "Teams: %s=%d %s=%d %s=%d\n",
		teams.TeamA, counts[teams.TeamA], teams.TeamB, counts[teams.TeamB], teams.Unknown, counts[teams.Unknown])
	fmt.Fprintf(out, "Video: %s\n", summary.Output)
	if summary.Report != "" {
		fmt.Fprintf(out, "Report: %s\n", summary.Report)
	}

	return nil
}
