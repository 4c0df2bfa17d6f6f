package teams

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// KMeansOptions controls the k-means search. Every restart gets its own generator seeded from Seed,
// so the same input always produces the same model.
type KMeansOptions struct {
	Seed          uint64
	Restarts      int
	MaxIterations int
}

// Model is a fitted k-means partition. Centroid index i is cluster i.
type Model struct {
	Centroids []Color
	Inertia   float64
}

// Predict returns the index of the centroid nearest to c (lowest index on ties)
func (m *Model) Predict(c Color) int {
	return nearest(c, m.Centroids)
}

// KMeans clusters points into k groups with k-means++ seeding and Lloyd iterations.
// It runs opts.Restarts times and keeps the solution with the lowest inertia (sum of squared distances).
func KMeans(points []Color, k int, opts KMeansOptions) Model {
	if len(points) == 0 || k <= 0 {
		return Model{}
	}

	restarts := max(opts.Restarts, 1)
	maxIter := max(opts.MaxIterations, 1)

	best := Model{Inertia: math.Inf(1)}
	for r := 0; r < restarts; r++ {
		rng := rand.New(rand.NewPCG(opts.Seed, uint64(r)))
		centroids := seedCentroids(points, k, rng)
		inertia := lloyd(points, centroids, maxIter)
		if inertia < best.Inertia {
			best = Model{Centroids: centroids, Inertia: inertia}
		}
	}

	return best
}

// seedCentroids picks k initial centroids: the first uniformly, the rest with probability proportional to
// the squared distance from the nearest centroid already chosen
func seedCentroids(points []Color, k int, rng *rand.Rand) []Color {
	centroids := make([]Color, 0, k)
	centroids = append(centroids, points[rng.IntN(len(points))])

	d2 := make([]float64, len(points))
	cum := make([]float64, len(points))
	for len(centroids) < k {
		for i, p := range points {
			d := distance(p, centroids[nearest(p, centroids)])
			d2[i] = d * d
		}

		total := floats.Sum(d2)
		if total == 0 { //every point sits on a centroid already
			centroids = append(centroids, points[rng.IntN(len(points))])
			continue
		}

		floats.CumSum(cum, d2)
		target := rng.Float64() * total
		chosen := -1
		for i, c := range cum {
			if c > target {
				chosen = i
				break
			}
		}
		if chosen == -1 { //rounding at the top end
			chosen = floats.MaxIdx(d2)
		}
		centroids = append(centroids, points[chosen])
	}

	return centroids
}

// lloyd refines centroids in place and returns the final inertia
func lloyd(points []Color, centroids []Color, maxIter int) float64 {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			if c := nearest(p, centroids); c != labels[i] {
				labels[i] = c
				changed = true
			}
		}

		if !changed {
			break
		}

		updateCentroids(points, labels, centroids)
	}

	inertia := 0.0
	for _, p := range points {
		d := distance(p, centroids[nearest(p, centroids)])
		inertia += d * d
	}

	return inertia
}

// updateCentroids moves every centroid to the mean of its members. A cluster that lost all members keeps its centroid.
func updateCentroids(points []Color, labels []int, centroids []Color) {
	sums := make([][]float64, len(centroids))
	counts := make([]float64, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, len(Color{}))
	}

	for i, p := range points {
		floats.Add(sums[labels[i]], p[:])
		counts[labels[i]]++
	}

	for i := range centroids {
		if counts[i] == 0 {
			continue
		}
		floats.Scale(1/counts[i], sums[i])
		copy(centroids[i][:], sums[i])
	}
}

func nearest(c Color, centroids []Color) int {
	best, bestDist := 0, math.Inf(1)
	for i := range centroids {
		if d := distance(c, centroids[i]); d < bestDist {
			best, bestDist = i, d
		}
	}

	return best
}

func distance(a, b Color) float64 {
	return floats.Distance(a[:], b[:], 2)
}
