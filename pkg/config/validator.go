package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for values the pipeline can't work with.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Video.ProdFormat == "" {
		errs = append(errs, errors.New("video.prod_format must be set"))
	}
	if c.Video.Codec == "" || len(c.Video.Codec) != 4 {
		errs = append(errs, fmt.Errorf("video.codec must be a fourcc, got '%s'", c.Video.Codec))
	}
	if c.Tracker.Script == "" {
		errs = append(errs, errors.New("tracker.script must be set"))
	}
	if c.Tracker.Confidence < 0 || c.Tracker.Confidence > 1 {
		errs = append(errs, fmt.Errorf("tracker.confidence must be within [0, 1], got %v", c.Tracker.Confidence))
	}

	if c.Grass.HueMin < 0 || c.Grass.HueMax > 179 || c.Grass.HueMin >= c.Grass.HueMax {
		errs = append(errs, fmt.Errorf("grass hue range [%v, %v] must be increasing and within [0, 179]", c.Grass.HueMin, c.Grass.HueMax))
	}
	if c.Grass.SatMin < 0 || c.Grass.SatMin > 255 {
		errs = append(errs, fmt.Errorf("grass.sat_min must be within [0, 255], got %v", c.Grass.SatMin))
	}
	if c.Grass.ValMin < 0 || c.Grass.ValMin > 255 {
		errs = append(errs, fmt.Errorf("grass.val_min must be within [0, 255], got %v", c.Grass.ValMin))
	}
	if c.Grass.HueHalfWidth <= 0 {
		errs = append(errs, fmt.Errorf("grass.hue_half_width must be positive, got %v", c.Grass.HueHalfWidth))
	}

	if c.Teams.MinBoxArea < 0 {
		errs = append(errs, fmt.Errorf("teams.min_box_area must not be negative, got %d", c.Teams.MinBoxArea))
	}
	if c.Teams.MinReadyFrames < 1 {
		errs = append(errs, fmt.Errorf("teams.min_ready_frames must be at least 1, got %d", c.Teams.MinReadyFrames))
	}
	if c.Teams.MinFitTracks < 2 {
		errs = append(errs, fmt.Errorf("teams.min_fit_tracks must be at least 2, got %d", c.Teams.MinFitTracks))
	}
	if c.Teams.MinTrackSamples < 1 {
		errs = append(errs, fmt.Errorf("teams.min_track_samples must be at least 1, got %d", c.Teams.MinTrackSamples))
	}
	if c.Teams.Restarts < 1 {
		errs = append(errs, fmt.Errorf("teams.restarts must be at least 1, got %d", c.Teams.Restarts))
	}
	if c.Teams.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("teams.max_iterations must be at least 1, got %d", c.Teams.MaxIterations))
	}

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path must be set"))
	}

	return errors.Join(errs...)
}
