package detect

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	frameMarker     = "Frame #:"
	endMarker       = "EOF"
	fpsMarker       = "FPS: "
	detectionPrefix = "{\"Class\":"
)

// ParseStream reads the tracker's standard output and sends every frame on out once it's complete.
// The format is line oriented:
//
//	Frame #: 12
//	{"Class":0,"ID":7,"Confidence":0.81,"Xmin":10,"Ymin":20,"Xmax":40,"Ymax":90}
//	FPS: 23.1
//	EOF
//
// Detections before the first frame marker and malformed lines are skipped and reported through onBadLine (may be nil).
// A frame marker with an unreadable number still starts a frame, numbered one after the previous frame.
// ParseStream does not close out.
func ParseStream(ctx context.Context, r io.Reader, out chan<- *Frame, onBadLine func(line string, err error)) error {
	if onBadLine == nil {
		onBadLine = func(string, error) {}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var current *Frame
	last := 0
	flush := func() error {
		if current == nil {
			return nil
		}
		select {
		case out <- current:
		case <-ctx.Done():
			return ctx.Err()
		}
		current = nil
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == endMarker: //finished reading all frames
			return flush()

		case strings.HasPrefix(line, frameMarker):
			if err := flush(); err != nil {
				return err
			}
			num, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, frameMarker)))
			if err != nil {
				//still a frame, numbering continues so the stream stays aligned with the video
				onBadLine(line, err)
				num = last + 1
			}
			current = NewFrame(num)
			last = num

		case strings.HasPrefix(line, fpsMarker): //log print, skip it
			continue

		case strings.HasPrefix(line, detectionPrefix):
			if current == nil {
				onBadLine(line, fmt.Errorf("detection before first frame marker"))
				continue
			}
			d := Detection{}
			if err := json.Unmarshal([]byte(line), &d); err != nil {
				onBadLine(line, err)
				continue
			}
			current.Detections = append(current.Detections, &d)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ParseStream: reading tracker output: %w", err)
	}

	return flush()
}
