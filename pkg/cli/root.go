// Package cli holds the pitch-teams commands: serve, tag and teams.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/chenBenjamin97/pitch-teams/pkg/config"
	"github.com/chenBenjamin97/pitch-teams/pkg/logging"
	"github.com/chenBenjamin97/pitch-teams/pkg/store"
	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/chenBenjamin97/pitch-teams/pkg/video"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pitch-teams",
	Short: "Tag football videos with each player's team",
	Long: `pitch-teams runs a detector and tracker over a match video, learns the two
team colors from the players' jerseys and writes a tagged copy of the video
with every player labeled TeamA, TeamB or Unknown.`,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
}

// app is everything a command needs, built from the configuration
type app struct {
	cfg      *config.Config
	log      *logging.Logger
	store    *store.Store
	sessions *teams.Registry
	tagger   *video.Tagger
}

func newApp() (*app, error) {
	//.env is optional, values already in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.Directory.EnsureDirectories(); err != nil {
		return nil, err
	}

	log, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Close()
		return nil, err
	}

	sessions := teams.NewRegistry()

	return &app{
		cfg:      cfg,
		log:      log,
		store:    st,
		sessions: sessions,
		tagger:   video.NewTagger(cfg, st, sessions, log),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("failed to close store", "error", err)
	}
	a.log.Close()
}
