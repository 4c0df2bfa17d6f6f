package teams

import "slices"

// Params holds the tunables of the team clustering engine
type Params struct {
	//MinReadyFrames is how many frames must be processed before a fit may happen
	MinReadyFrames int
	//MinFitTracks is the minimum number of tracks with samples (and with valid colors at fit time)
	MinFitTracks int
	//MinTrackSamples is how many samples a track needs before it's classified against the frozen model
	MinTrackSamples int

	Seed          uint64
	Restarts      int
	MaxIterations int

	//EnforceMinSamplesAtFit drops tracks with fewer than MinTrackSamples samples from the fit input.
	//They get classified later, once they have enough samples.
	EnforceMinSamplesAtFit bool
	//RetryDegenerateFit keeps the session unfit (instead of exhausted) when a fit attempt finds too few valid tracks
	RetryDegenerateFit bool
}

func DefaultParams() Params {
	return Params{
		MinReadyFrames:  30,
		MinFitTracks:    2,
		MinTrackSamples: 3,
		Seed:            42,
		Restarts:        10,
		MaxIterations:   300,
	}
}

func (p Params) kmeansOptions() KMeansOptions {
	return KMeansOptions{Seed: p.Seed, Restarts: p.Restarts, MaxIterations: p.MaxIterations}
}

// minFitTracks never goes below 2, a two cluster model needs at least two points
func (p Params) minFitTracks() int {
	return max(p.MinFitTracks, 2)
}

// Fit clusters the given representative colors into two teams.
// Tracks with an invalid color are labeled Unknown. With fewer valid tracks than needed every track is Unknown
// and no model is returned. Tracks are clustered in ascending id order so the result only depends on the input.
func Fit(colors map[TrackID]Color, p Params) (map[TrackID]Team, *Model) {
	labels := make(map[TrackID]Team, len(colors))

	ids := make([]TrackID, 0, len(colors))
	for id, c := range colors {
		if c.Valid() {
			ids = append(ids, id)
		} else {
			labels[id] = Unknown
		}
	}
	slices.Sort(ids)

	if len(ids) < p.minFitTracks() {
		for id := range colors {
			labels[id] = Unknown
		}
		return labels, nil
	}

	points := make([]Color, len(ids))
	for i, id := range ids {
		points[i] = colors[id]
	}

	model := KMeans(points, 2, p.kmeansOptions())
	for i, id := range ids {
		labels[id] = TeamForCluster(model.Predict(points[i]))
	}

	return labels, &model
}

// Classify labels a single color against a frozen model. No model or an invalid color gives Unknown.
func Classify(c Color, m *Model) Team {
	if m == nil || len(m.Centroids) == 0 || !c.Valid() {
		return Unknown
	}

	return TeamForCluster(m.Predict(c))
}
