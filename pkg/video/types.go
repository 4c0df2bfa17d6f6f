package video

import (
	"errors"

	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
)

var (
	ErrVideoNotFound   = errors.New("video not found")
	ErrWeightsNotFound = errors.New("tracker weights not found")
)

// Summary describes a finished tagging run
type Summary struct {
	RunID  string
	Video  string
	Output string //tagged video under the ready directory
	Report string //cluster report, empty when disabled or not written
	Result teams.Result
}
