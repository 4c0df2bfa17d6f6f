// Package config loads the pitch-teams configuration from config.yaml, the
// environment (PITCH_ prefix) and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. PITCH_HTTP_PORT.
const EnvPrefix = "PITCH"

// Config represents the complete pitch-teams configuration
type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Frontend  FrontendConfig  `mapstructure:"frontend"`
	Video     VideoConfig     `mapstructure:"video"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	Grass     GrassConfig     `mapstructure:"grass"`
	Teams     TeamsConfig     `mapstructure:"teams"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Report    ReportConfig    `mapstructure:"report"`
}

// HTTPConfig controls the API server
type HTTPConfig struct {
	Port string `mapstructure:"port"`
}

// DirectoryConfig lists the working directories. Root is created first, then the others.
type DirectoryConfig struct {
	Root    string `mapstructure:"root"`
	Source  string `mapstructure:"source"`  // uploaded videos
	Ready   string `mapstructure:"ready"`   // tagged videos
	Temp    string `mapstructure:"temp"`    // intermediate avi files
	Reports string `mapstructure:"reports"` // cluster reports
}

// FrontendConfig points at the static client files
type FrontendConfig struct {
	StaticFilesPath string `mapstructure:"static_files_path"`
}

// VideoConfig controls the output video
type VideoConfig struct {
	// ProdFormat is the extension of the final video (default: mp4)
	ProdFormat string `mapstructure:"prod_format"`
	// Codec is the fourcc of the intermediate avi (default: XVID)
	Codec string `mapstructure:"codec"`
	// FFmpeg is the ffmpeg binary used to convert the avi to ProdFormat. Empty disables conversion.
	FFmpeg string `mapstructure:"ffmpeg"`
}

// TrackerConfig controls the external detector/tracker process
type TrackerConfig struct {
	Python     string  `mapstructure:"python"`
	Script     string  `mapstructure:"script"`
	Weights    string  `mapstructure:"weights"`
	Confidence float64 `mapstructure:"confidence"`
}

// GrassConfig holds the HSV bounds of the pitch color. Hue uses the 0-179 scale.
type GrassConfig struct {
	HueMin       float64 `mapstructure:"hue_min"`
	HueMax       float64 `mapstructure:"hue_max"`
	SatMin       float64 `mapstructure:"sat_min"`
	ValMin       float64 `mapstructure:"val_min"`
	HueHalfWidth float64 `mapstructure:"hue_half_width"`
}

// TeamsConfig controls sampling and team clustering
type TeamsConfig struct {
	// MinBoxArea is the smallest player box (px^2) a jersey color is sampled from
	MinBoxArea int `mapstructure:"min_box_area"`
	// MinReadyFrames is how many frames are processed before the team model may be fit
	MinReadyFrames int `mapstructure:"min_ready_frames"`
	// MinFitTracks is how many sampled tracks are needed to fit the team model
	MinFitTracks int `mapstructure:"min_fit_tracks"`
	// MinTrackSamples is how many samples a late track needs before it's classified
	MinTrackSamples int    `mapstructure:"min_track_samples"`
	Seed            uint64 `mapstructure:"seed"`
	Restarts        int    `mapstructure:"restarts"`
	MaxIterations   int    `mapstructure:"max_iterations"`
	// EnforceMinSamplesAtFit keeps tracks with fewer than MinTrackSamples out of the fit
	EnforceMinSamplesAtFit bool `mapstructure:"enforce_min_samples_at_fit"`
	// RetryDegenerateFit retries the fit later instead of giving up when too few tracks qualify
	RetryDegenerateFit bool `mapstructure:"retry_degenerate_fit"`
}

// DatabaseConfig controls the run store
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// Dir is where debug.log is written. Empty logs to stderr.
	Dir string `mapstructure:"dir"`
}

// ReportConfig controls cluster report generation
type ReportConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Default returns the default configuration
func Default() *Config {
	p := teams.DefaultParams()

	return &Config{
		HTTP: HTTPConfig{Port: "8080"},
		Directory: DirectoryConfig{
			Root:    "./data",
			Source:  "./data/source",
			Ready:   "./data/ready",
			Temp:    "./data/temp",
			Reports: "./data/reports",
		},
		Frontend: FrontendConfig{StaticFilesPath: "./client/"},
		Video: VideoConfig{
			ProdFormat: "mp4",
			Codec:      "XVID",
			FFmpeg:     "ffmpeg",
		},
		Tracker: TrackerConfig{
			Python:     "python3",
			Script:     "./tracker/track.py",
			Weights:    "./weights/last.pt",
			Confidence: 0.5,
		},
		Grass: GrassConfig{
			HueMin:       30,
			HueMax:       80,
			SatMin:       40,
			ValMin:       40,
			HueHalfWidth: 10,
		},
		Teams: TeamsConfig{
			MinBoxArea:      500,
			MinReadyFrames:  p.MinReadyFrames,
			MinFitTracks:    p.MinFitTracks,
			MinTrackSamples: p.MinTrackSamples,
			Seed:            p.Seed,
			Restarts:        p.Restarts,
			MaxIterations:   p.MaxIterations,
		},
		Database: DatabaseConfig{Path: "./data/pitch-teams.db"},
		Logging:  LoggingConfig{Level: "info"},
		Report:   ReportConfig{Enabled: true},
	}
}

// SetDefaults registers every default on v so that env overrides work for keys missing from the file
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("http.port", d.HTTP.Port)

	v.SetDefault("directory.root", d.Directory.Root)
	v.SetDefault("directory.source", d.Directory.Source)
	v.SetDefault("directory.ready", d.Directory.Ready)
	v.SetDefault("directory.temp", d.Directory.Temp)
	v.SetDefault("directory.reports", d.Directory.Reports)

	v.SetDefault("frontend.static_files_path", d.Frontend.StaticFilesPath)

	v.SetDefault("video.prod_format", d.Video.ProdFormat)
	v.SetDefault("video.codec", d.Video.Codec)
	v.SetDefault("video.ffmpeg", d.Video.FFmpeg)

	v.SetDefault("tracker.python", d.Tracker.Python)
	v.SetDefault("tracker.script", d.Tracker.Script)
	v.SetDefault("tracker.weights", d.Tracker.Weights)
	v.SetDefault("tracker.confidence", d.Tracker.Confidence)

	v.SetDefault("grass.hue_min", d.Grass.HueMin)
	v.SetDefault("grass.hue_max", d.Grass.HueMax)
	v.SetDefault("grass.sat_min", d.Grass.SatMin)
	v.SetDefault("grass.val_min", d.Grass.ValMin)
	v.SetDefault("grass.hue_half_width", d.Grass.HueHalfWidth)

	v.SetDefault("teams.min_box_area", d.Teams.MinBoxArea)
	v.SetDefault("teams.min_ready_frames", d.Teams.MinReadyFrames)
	v.SetDefault("teams.min_fit_tracks", d.Teams.MinFitTracks)
	v.SetDefault("teams.min_track_samples", d.Teams.MinTrackSamples)
	v.SetDefault("teams.seed", d.Teams.Seed)
	v.SetDefault("teams.restarts", d.Teams.Restarts)
	v.SetDefault("teams.max_iterations", d.Teams.MaxIterations)
	v.SetDefault("teams.enforce_min_samples_at_fit", d.Teams.EnforceMinSamplesAtFit)
	v.SetDefault("teams.retry_degenerate_fit", d.Teams.RetryDegenerateFit)

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.dir", d.Logging.Dir)

	v.SetDefault("report.enabled", d.Report.Enabled)
}

// Load reads the configuration. With an empty configFile it looks for config.yaml in the working
// directory and falls back to defaults when there is none; an explicit file must exist.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// TeamParams converts the teams section to clustering parameters
func (c *Config) TeamParams() teams.Params {
	return teams.Params{
		MinReadyFrames:         c.Teams.MinReadyFrames,
		MinFitTracks:           c.Teams.MinFitTracks,
		MinTrackSamples:        c.Teams.MinTrackSamples,
		Seed:                   c.Teams.Seed,
		Restarts:               c.Teams.Restarts,
		MaxIterations:          c.Teams.MaxIterations,
		EnforceMinSamplesAtFit: c.Teams.EnforceMinSamplesAtFit,
		RetryDegenerateFit:     c.Teams.RetryDegenerateFit,
	}
}

// EnsureDirectories creates the working directories that don't exist yet
func (d *DirectoryConfig) EnsureDirectories() error {
	for _, dir := range []string{d.Root, d.Source, d.Ready, d.Temp, d.Reports} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	}

	return nil
}
