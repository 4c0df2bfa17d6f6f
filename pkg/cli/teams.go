package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/chenBenjamin97/pitch-teams/pkg/store"
	"github.com/spf13/cobra"
)

var teamsJSON bool

var teamsCmd = &cobra.Command{
	Use:   "teams <video>",
	Short: "Show the team of every player from the latest run of a video",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeams,
}

func init() {
	teamsCmd.Flags().BoolVar(&teamsJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(teamsCmd)
}

func runTeams(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	run, err := a.store.LatestRun(ctx, args[0])
	if err != nil {
		return fmt.Errorf("no finished run of '%s': %w", args[0], err)
	}

	tracks, err := a.store.TrackTeams(ctx, run.ID)
	if err != nil {
		return err
	}

	if teamsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Run    *store.Run        `json:"run"`
			Tracks []store.TrackTeam `json:"tracks"`
		}{run, tracks})
	}

	return printTracks(cmd.OutOrStdout(), run, tracks)
}

func printTracks(w io.Writer, run *store.Run, tracks []store.TrackTeam) error {
	fmt.Fprintf(w, "Run: %s (%s, %d frames, %s)\n\n", run.ID, run.Status, run.Frames, run.Phase)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TRACK\tTEAM\tCOLOR (BGR)\tSAMPLES")
	for _, tt := range tracks {
		color := "-"
		if tt.HasColor {
			color = fmt.Sprintf("%.0f,%.0f,%.0f", tt.Color[0], tt.Color[1], tt.Color[2])
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", tt.Track, tt.Team, color, tt.Samples)
	}

	return tw.Flush()
}
