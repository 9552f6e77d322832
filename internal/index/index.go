// Package index holds the in-memory vector index: exact k-nearest-neighbour
// search under squared Euclidean distance over the corpus embeddings. The
// index is built once at startup from the store's vectors and never mutated,
// so any number of requests may search it concurrently without locking.
package index

import (
	"fmt"
	"sort"
)

// Hit is one nearest neighbour: the corpus position of the vector and its
// squared L2 distance from the query.
type Hit struct {
	Pos  int
	Dist float32
}

// Flat is a brute-force flat index, the exact-search baseline. Corpus sizes
// here are a few thousand vectors, where a scan beats any ANN structure.
type Flat struct {
	dim     int
	vectors [][]float32
}

// New builds a flat index over the given vectors. All vectors must share one
// dimension; position in the slice is the vector's identity.
func New(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no vectors to index")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero-dimension vectors")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, index dimension is %d", i, len(v), dim)
		}
	}
	return &Flat{dim: dim, vectors: vectors}, nil
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int { return len(f.vectors) }

// Dimension returns the vector dimension the index was built with.
func (f *Flat) Dimension() int { return f.dim }

// Search returns the k nearest vectors to q, ascending by squared L2
// distance, ties broken by position. k larger than the index is clamped.
func (f *Flat) Search(q []float32, k int) ([]Hit, error) {
	if len(q) != f.dim {
		return nil, fmt.Errorf("query dimension %d, index dimension %d", len(q), f.dim)
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	hits := make([]Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = Hit{Pos: i, Dist: sqDist(q, v)}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Dist != hits[j].Dist {
			return hits[i].Dist < hits[j].Dist
		}
		return hits[i].Pos < hits[j].Pos
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func sqDist(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
