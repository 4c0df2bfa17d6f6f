package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/chenBenjamin97/pitch-teams/pkg/config"
	"github.com/chenBenjamin97/pitch-teams/pkg/detect"
	"github.com/chenBenjamin97/pitch-teams/pkg/logging"
)

const trackerWaitDelay = 5 * time.Second

// RunTracker executes the python detector + tracker on videoPath and sends every parsed frame through framesC.
// Because this function is the only one who writes to framesC, it closes it before returning.
// Cancelling ctx kills the python process.
func RunTracker(ctx context.Context, cfg config.TrackerConfig, videoPath string, framesC chan<- *detect.Frame, log *logging.Logger) error {
	defer close(framesC)

	cmd := exec.CommandContext(ctx, cfg.Python, cfg.Script,
		"--video", videoPath,
		"--weights", cfg.Weights,
		"--conf", strconv.FormatFloat(cfg.Confidence, 'f', -1, 64),
	)

	//python's children may keep stderr open after it's killed
	cmd.WaitDelay = trackerWaitDelay

	stderr := &lineLogger{log: log}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("RunTracker: getting python's standard output: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("RunTracker: starting tracker: %w", err)
	}

	parseErr := detect.ParseStream(ctx, stdout, framesC, func(line string, err error) {
		log.Warn("skipping tracker line", "line", line, "error", err)
	})
	if parseErr != nil {
		//stop python before waiting on it, nobody reads its output anymore
		_ = cmd.Process.Kill()
	} else {
		//anything printed after EOF must still be read or python blocks on a full pipe
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if parseErr != nil {
		return parseErr
	}
	if waitErr != nil {
		return fmt.Errorf("RunTracker: tracker exited: %w (%s)", waitErr, stderr.Last())
	}

	return nil
}

// lineLogger forwards the tracker's stderr to the debug log line by line and remembers the last line for error messages
type lineLogger struct {
	mu   sync.Mutex
	log  *logging.Logger
	buf  []byte
	last string
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := string(bytes.TrimSpace(w.buf[:i]))
		w.buf = w.buf[i+1:]
		if line == "" {
			continue
		}
		w.last = line
		w.log.Debug("tracker stderr", "line", line)
	}

	return len(p), nil
}

func (w *lineLogger) Last() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if rest := string(bytes.TrimSpace(w.buf)); rest != "" {
		return rest
	}

	return w.last
}
