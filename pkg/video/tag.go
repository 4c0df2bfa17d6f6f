package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chenBenjamin97/pitch-teams/pkg/config"
	"github.com/chenBenjamin97/pitch-teams/pkg/detect"
	"github.com/chenBenjamin97/pitch-teams/pkg/jersey"
	"github.com/chenBenjamin97/pitch-teams/pkg/logging"
	"github.com/chenBenjamin97/pitch-teams/pkg/report"
	"github.com/chenBenjamin97/pitch-teams/pkg/store"
	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/chenBenjamin97/pitch-teams/pkg/utils"
	"gocv.io/x/gocv"
)

const defaultFPS = 25.0

// Tagger runs the whole pipeline for one video: tracker, jersey colors, team clustering, overlay, persistence
type Tagger struct {
	cfg      *config.Config
	store    *store.Store
	sessions *teams.Registry
	log      *logging.Logger
}

func NewTagger(cfg *config.Config, st *store.Store, sessions *teams.Registry, log *logging.Logger) *Tagger {
	return &Tagger{cfg: cfg, store: st, sessions: sessions, log: log}
}

// Tag reads a video from the source directory, tags every frame with the tracker's boxes and each player's team,
// and saves the result in the ready directory with the configured production format.
// srcVideoName should include the file's extension ('.mp4', etc.)
// The run is recorded in the store; on any error it's marked failed and the error is returned.
func (t *Tagger) Tag(ctx context.Context, srcVideoName string) (*Summary, error) {
	run, err := t.store.CreateRun(ctx, srcVideoName)
	if err != nil {
		return nil, err
	}

	log := t.log.WithRun(run.ID).WithVideo(srcVideoName)
	log.Info("tagging started")

	session := t.sessions.Start(run.ID, t.cfg.TeamParams())
	defer t.sessions.Finish(run.ID)

	summary, err := t.tag(ctx, run.ID, srcVideoName, session, log)
	if err != nil {
		log.Error("tagging failed", "error", err)
		if ferr := t.store.FailRun(context.WithoutCancel(ctx), run.ID, err); ferr != nil {
			log.Error("could not mark run failed", "error", ferr)
		}
		return nil, err
	}

	counts := summary.Result.Counts()
	log.Info("tagging finished",
		"frames", summary.Result.Frames,
		"phase", summary.Result.Phase,
		"team_a", counts[teams.TeamA],
		"team_b", counts[teams.TeamB],
		"unknown", counts[teams.Unknown],
		"output", summary.Output,
	)

	return summary, nil
}

func (t *Tagger) tag(ctx context.Context, runID, srcVideoName string, session *teams.Session, log *logging.Logger) (*Summary, error) {
	srcVideoPath := filepath.Join(t.cfg.Directory.Source, srcVideoName)
	if _, err := os.Stat(srcVideoPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, srcVideoPath)
	}
	if _, err := os.Stat(t.cfg.Tracker.Weights); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeightsNotFound, t.cfg.Tracker.Weights)
	}

	baseName := utils.TrimExt(srcVideoName)
	tmpVideoPath := filepath.Join(t.cfg.Directory.Temp, runID+".avi")
	outputVideoPath := filepath.Join(t.cfg.Directory.Ready, baseName+"."+t.cfg.Video.ProdFormat)
	defer os.Remove(tmpVideoPath) //remove '.avi' temp file at the end of this function

	if err := t.render(ctx, srcVideoPath, tmpVideoPath, session, log); err != nil {
		return nil, err
	}

	if err := t.convert(ctx, tmpVideoPath, outputVideoPath); err != nil {
		return nil, err
	}

	res := session.Snapshot()
	if err := t.store.FinishRun(ctx, runID, res); err != nil {
		return nil, err
	}

	summary := &Summary{RunID: runID, Video: srcVideoName, Output: outputVideoPath, Result: res}
	if t.cfg.Report.Enabled {
		reportPath := filepath.Join(t.cfg.Directory.Reports, runID+".png")
		if err := report.WritePNG(report.FromResult(srcVideoName, res), reportPath); err != nil {
			log.Warn("could not write cluster report", "error", err)
		} else {
			summary.Report = reportPath
		}
	}

	return summary, nil
}

// render runs the tracker next to the frame decoder and writes every tagged frame to tmpVideoPath
func (t *Tagger) render(ctx context.Context, srcVideoPath, tmpVideoPath string, session *teams.Session, log *logging.Logger) error {
	capture, err := gocv.VideoCaptureFile(srcVideoPath)
	if err != nil {
		return fmt.Errorf("%w: opening '%s': %v", ErrVideoNotFound, srcVideoPath, err)
	}
	defer capture.Close()

	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		fps = defaultFPS
	}
	width, height := int(capture.Get(gocv.VideoCaptureFrameWidth)), int(capture.Get(gocv.VideoCaptureFrameHeight))

	writer, err := gocv.VideoWriterFile(tmpVideoPath, t.cfg.Video.Codec, fps, width, height, true)
	if err != nil {
		return fmt.Errorf("failed to open video writer '%s': %w", tmpVideoPath, err)
	}
	defer writer.Close()

	trackerCtx, stopTracker := context.WithCancel(ctx)
	defer stopTracker()

	framesC := make(chan *detect.Frame, 16)
	trackerErrC := make(chan error, 1)
	go func() {
		trackerErrC <- RunTracker(trackerCtx, t.cfg.Tracker, srcVideoPath, framesC, log)
	}()

	frameMat := gocv.NewMat()
	defer frameMat.Close()

	fl := &frameLoop{
		session:    session,
		thresholds: grassThresholds(t.cfg.Grass),
		minBoxArea: t.cfg.Teams.MinBoxArea,
		log:        log,
	}

	//read counts decoded video frames, tracker frame N is drawn on the N-th of them
	read := 0
	readFrame := func() bool {
		if !capture.Read(&frameMat) || frameMat.Empty() { //finished to read all video's frames
			return false
		}
		read++
		return true
	}

	videoEnded := false
loop:
	for frame := range framesC {
		if frame.Number <= read {
			log.Warn("skipping out of order tracker frame", "frame", frame.Number, "read", read)
			continue
		}

		//frames the tracker never reported are written untagged
		for read < frame.Number-1 {
			if !readFrame() {
				videoEnded = true
				break loop
			}
			if err := writer.Write(frameMat); err != nil {
				return fmt.Errorf("failed to write frame %d: %w", read, err)
			}
		}

		if !readFrame() {
			log.Warn("tracker reported more frames than the video has", "frame", frame.Number)
			videoEnded = true
			break
		}

		fl.process(&frameMat, frame)

		if err := writer.Write(frameMat); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", frame.Number, err)
		}
	}

	stopTracker()
	for range framesC { //let RunTracker finish and close the channel
	}

	if err := <-trackerErrC; err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !(videoEnded && errors.Is(err, context.Canceled)) {
			return err
		}
	}

	return nil
}

// convert converts the intermediate avi to the production format. example: ffmpeg -i run.avi match.mp4
// Without an ffmpeg binary configured the avi is moved as is.
func (t *Tagger) convert(ctx context.Context, tmpVideoPath, outputVideoPath string) error {
	if t.cfg.Video.FFmpeg == "" {
		if err := os.Rename(tmpVideoPath, outputVideoPath); err != nil {
			return fmt.Errorf("failed to move tagged video: %w", err)
		}
		return nil
	}

	cmd := exec.CommandContext(ctx, t.cfg.Video.FFmpeg, "-y", "-loglevel", "error", "-i", tmpVideoPath, outputVideoPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	return nil
}

func grassThresholds(g config.GrassConfig) jersey.Thresholds {
	return jersey.Thresholds{
		HueMin:       g.HueMin,
		HueMax:       g.HueMax,
		SatMin:       g.SatMin,
		ValMin:       g.ValMin,
		HueHalfWidth: g.HueHalfWidth,
	}
}
