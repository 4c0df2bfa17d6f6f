package teams

import (
	"slices"
)

// Aggregator accumulates jersey color samples per track. Samples are only ever appended,
// representative colors are computed on demand from the full history.
type Aggregator struct {
	samples map[TrackID][]Color
}

func NewAggregator() *Aggregator {
	return &Aggregator{samples: make(map[TrackID][]Color)}
}

// AddSample appends c to the samples of given track. Samples with a NaN/Inf channel are rejected and false is returned.
func (a *Aggregator) AddSample(id TrackID, c Color) bool {
	if !c.Valid() {
		return false
	}

	a.samples[id] = append(a.samples[id], c)
	return true
}

// Count returns how many samples were recorded for given track
func (a *Aggregator) Count(id TrackID) int {
	return len(a.samples[id])
}

// TrackCount returns the number of tracks that have at least one sample
func (a *Aggregator) TrackCount() int {
	return len(a.samples)
}

// Tracks returns the ids of all tracks with samples, ascending
func (a *Aggregator) Tracks() []TrackID {
	ids := make([]TrackID, 0, len(a.samples))
	for id := range a.samples {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// Representative returns the per-channel median of the track's samples.
// ok is false when the track has no samples.
func (a *Aggregator) Representative(id TrackID) (c Color, ok bool) {
	samples := a.samples[id]
	if len(samples) == 0 {
		return Color{}, false
	}

	channel := make([]float64, len(samples))
	for ch := 0; ch < len(c); ch++ {
		for i, s := range samples {
			channel[i] = s[ch]
		}
		c[ch] = median(channel)
	}

	return c, true
}

// RepresentativeAll returns the representative color of every track that has samples
func (a *Aggregator) RepresentativeAll() map[TrackID]Color {
	res := make(map[TrackID]Color, len(a.samples))
	for id := range a.samples {
		if c, ok := a.Representative(id); ok {
			res[id] = c
		}
	}

	return res
}

// median sorts values in place. For an even count it returns the mean of the two middle values.
func median(values []float64) float64 {
	slices.Sort(values)
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}

	return (values[n/2-1] + values[n/2]) / 2
}
