// Package sizecluster groups particles by size and shape with a seeded
// k-means and summarizes the clusters designated as small particles.
package sizecluster

import (
	"math"
	"sort"

	"qualitea/internal/particle"
)

// Params controls the clustering.
type Params struct {
	Clusters   int     // number of k-means groups
	Seed       int64   // random seed; fixed for reproducible assignments
	Restarts   int     // k-means++ attempts, most compact wins
	MaxIter    int     // iterations per attempt
	Tolerance  float64 // center shift that counts as converged
	SmallRanks []int   // 0-based ranks by mean area treated as small particles
}

// DefaultParams returns the clustering used for the tea variant features:
// seven groups, seed 42, with ranks 1-3 as small particles. Rank 0 holds
// fragments and noise.
func DefaultParams() Params {
	return Params{
		Clusters:   7,
		Seed:       42,
		Restarts:   10,
		MaxIter:    300,
		Tolerance:  1e-4,
		SmallRanks: []int{1, 2, 3},
	}
}

// WithSeed returns a copy of params using a different seed.
func (p Params) WithSeed(seed int64) Params {
	p.Seed = seed
	return p
}

// WithSmallRanks returns a copy of params with a different small-cluster
// selection.
func (p Params) WithSmallRanks(ranks ...int) Params {
	p.SmallRanks = append([]int(nil), ranks...)
	return p
}

// Assignment is the outcome of clustering a feature set.
type Assignment struct {
	Labels    []int        // cluster id per input, in input order
	MeanAreas []float64    // mean area per cluster id; +Inf for empty clusters
	Small     map[int]bool // cluster ids designated small
}

// IsSmall reports whether input i fell into a small-particle cluster.
func (a Assignment) IsSmall(i int) bool {
	return a.Small[a.Labels[i]]
}

// Cluster assigns every feature vector to one of p.Clusters groups and marks
// the small-particle groups. With fewer inputs than clusters, all inputs get
// label 0 and no group is small.
func Cluster(features []particle.Features, p Params) Assignment {
	a := Assignment{
		Labels: make([]int, len(features)),
		Small:  map[int]bool{},
	}
	if len(features) < p.Clusters || p.Clusters < 1 {
		return a
	}

	a.Labels = kmeans(features, p)

	sums := make([]float64, p.Clusters)
	counts := make([]int, p.Clusters)
	for i, l := range a.Labels {
		sums[l] += features[i].Area
		counts[l]++
	}
	a.MeanAreas = make([]float64, p.Clusters)
	order := make([]int, p.Clusters)
	for c := range a.MeanAreas {
		order[c] = c
		if counts[c] == 0 {
			a.MeanAreas[c] = math.Inf(1)
			continue
		}
		a.MeanAreas[c] = sums[c] / float64(counts[c])
	}
	sort.SliceStable(order, func(i, j int) bool {
		return a.MeanAreas[order[i]] < a.MeanAreas[order[j]]
	})
	for _, rank := range p.SmallRanks {
		if rank >= 0 && rank < len(order) {
			a.Small[order[rank]] = true
		}
	}
	return a
}
