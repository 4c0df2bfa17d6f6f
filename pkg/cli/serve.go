package cli

import (
	"github.com/chenBenjamin97/pitch-teams/pkg/api"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and client",
	Long: `Serve the web client and the /api routes. Uploaded videos are tagged in the
background; their teams are available from /api/Teams once the run finishes
and from /api/Live while it is running.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	gin.SetMode(gin.ReleaseMode)

	srv := api.NewServer(a.cfg, a.store, a.sessions, a.tagger, a.log)
	defer srv.Close()

	return srv.Run(cmd.Context())
}
