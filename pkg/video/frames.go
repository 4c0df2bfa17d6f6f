package video

import (
	"github.com/chenBenjamin97/pitch-teams/pkg/detect"
	"github.com/chenBenjamin97/pitch-teams/pkg/jersey"
	"github.com/chenBenjamin97/pitch-teams/pkg/logging"
	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"gocv.io/x/gocv"
)

// frameLoop holds what the per-frame work needs between frames. The grass color is estimated on the
// first frame that shows enough pitch; until then no jersey colors are sampled.
type frameLoop struct {
	session    *teams.Session
	thresholds jersey.Thresholds
	minBoxArea int
	extractor  *jersey.Extractor
	log        *logging.Logger
}

// process feeds one decoded frame and its detections to the session, then draws every box on the frame
func (fl *frameLoop) process(frameMat *gocv.Mat, frame *detect.Frame) teams.FrameResult {
	if fl.extractor == nil {
		if grass, ok := jersey.EstimateGrass(*frameMat, fl.thresholds); ok {
			fl.extractor = jersey.NewExtractor(grass, fl.thresholds)
			fl.log.Info("grass color estimated", "frame", frame.Number, "hue", fl.extractor.Grass().Hue, "bgr", fl.extractor.Grass().BGR)
		}
	}

	width, height := frameMat.Cols(), frameMat.Rows()
	for _, d := range frame.Detections {
		d.Clamp(width, height)
	}

	res := fl.session.ObserveFrame(fl.observe(*frameMat, frame))
	if res.Fitted {
		fl.log.Info("team model fitted", "frame", frame.Number, "phase", res.Phase, "labeled", len(res.Resolved))
	} else {
		for id, team := range res.Resolved {
			fl.log.Debug("late track labeled", "frame", frame.Number, "track", id, "team", team, "samples", fl.session.SampleCount(id))
		}
	}

	for _, d := range frame.Detections {
		team := teams.Unknown
		if id, ok := d.TrackID(); ok && d.IsTrackedPlayer() {
			team = fl.session.Label(id)
		}
		drawDetection(frameMat, d, team)
	}

	return res
}

// observe builds one observation per tracked player. Players are always reported so that late tracks get
// resolved, but a color is only attached when the box is big enough and the crop shows jersey pixels.
func (fl *frameLoop) observe(frameMat gocv.Mat, frame *detect.Frame) []teams.Observation {
	observations := make([]teams.Observation, 0, len(frame.Detections))

	for _, d := range frame.Detections {
		if !d.IsTrackedPlayer() {
			continue
		}
		id, _ := d.TrackID()
		obs := teams.Observation{Track: id}

		if fl.extractor != nil && d.Sampleable(fl.minBoxArea) {
			crop := frameMat.Region(d.Rect())
			obs.Color, obs.Sampled = fl.extractor.Extract(crop)
			crop.Close()
		}

		observations = append(observations, obs)
	}

	return observations
}
