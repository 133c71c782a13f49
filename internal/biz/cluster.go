package biz

import (
	"slices"

	"github.com/kamstrup/intmap"
)

// Cluster is a maximal 4-connected group of cells holding Anchor or the wildcard.
type Cluster struct {
	Anchor  Symbol
	Indices []int // discovery order
}

func (c Cluster) Size() int { return len(c.Indices) }

// FindCluster grows the cluster seeded at start with a depth-first walk over
// an explicit frontier. Every member is added to visited. A wildcard seed
// yields an empty cluster.
func FindCluster(g *Grid, start int, wild Symbol, visited *intmap.Set[int]) Cluster {
	seed := g.At(start)
	if seed == wild || visited.Has(start) {
		return Cluster{}
	}
	cluster := Cluster{Anchor: seed}
	stack := []int{start}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Has(idx) {
			continue
		}
		if v := g.At(idx); v != seed && v != wild {
			continue
		}
		visited.Add(idx)
		cluster.Indices = append(cluster.Indices, idx)
		for _, nb := range g.Neighbours(idx) {
			if !visited.Has(nb) {
				stack = append(stack, nb)
			}
		}
	}
	return cluster
}

// FindClusters partitions the non-wildcard-seeded cells of g into clusters,
// scanning seeds in ascending index order. A wildcard belongs to the first
// cluster that reaches it; wildcards no cluster reaches belong to none.
func FindClusters(g *Grid, wild Symbol) []Cluster {
	visited := intmap.NewSet[int](g.Len())
	var clusters []Cluster
	for i := 0; i < g.Len(); i++ {
		if visited.Has(i) || g.At(i) == wild {
			continue
		}
		clusters = append(clusters, FindCluster(g, i, wild, visited))
	}
	return clusters
}

// sortedIndices returns a sorted copy of the cluster members.
func (c Cluster) sortedIndices() []int {
	out := slices.Clone(c.Indices)
	slices.Sort(out)
	return out
}
