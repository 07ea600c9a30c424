package systems

import (
	"math"
	"math/rand"
	"sort"
)

// EnergyNode is a stationary, pulsing node of the energy network.
// Links holds indices of the nearest earlier nodes, nearest first.
type EnergyNode struct {
	X, Y   float32
	Radius float32
	Phase  float32
	Links  []int
}

// NodeCount returns base + floor(w/perNode).
func NodeCount(w float64, base int, perNode float64) int {
	if w <= 0 || perNode <= 0 {
		return base
	}
	return base + int(math.Floor(w/perNode))
}

// NodeParams controls node placement.
type NodeParams struct {
	RadiusMin   float32
	RadiusRange float32
	MaxLinks    int
}

// BuildNodes places n nodes uniformly in [0,w)x[0,h) and links each one to the
// MaxLinks nearest nodes created before it. Links never change after creation.
func BuildNodes(n int, w, h float32, rng *rand.Rand, params NodeParams) []EnergyNode {
	nodes := make([]EnergyNode, n)

	type candidate struct {
		idx    int
		distSq float32
	}
	candidates := make([]candidate, 0, n)

	for i := range nodes {
		nodes[i] = EnergyNode{
			X:      rng.Float32() * w,
			Y:      rng.Float32() * h,
			Radius: params.RadiusMin + rng.Float32()*params.RadiusRange,
			Phase:  rng.Float32() * 2 * math.Pi,
		}

		candidates = candidates[:0]
		for j := 0; j < i; j++ {
			dx := nodes[j].X - nodes[i].X
			dy := nodes[j].Y - nodes[i].Y
			candidates = append(candidates, candidate{idx: j, distSq: dx*dx + dy*dy})
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].distSq < candidates[b].distSq
		})

		k := min(params.MaxLinks, len(candidates))
		if k <= 0 {
			continue
		}
		links := make([]int, k)
		for c := 0; c < k; c++ {
			links[c] = candidates[c].idx
		}
		nodes[i].Links = links
	}

	return nodes
}
