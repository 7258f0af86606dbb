// Package cluster groups keyword phrases by average-linkage agglomerative
// clustering over TF-IDF cosine distances, stopping at a distance threshold.
package cluster

import (
	"fmt"
	"math"
	"sort"

	"github.com/cognicore/kwscout/pkg/kwscout/ingest"
	"github.com/cognicore/kwscout/pkg/kwscout/internalerr"
	"github.com/cognicore/kwscout/pkg/kwscout/stoplist"
	"github.com/cognicore/kwscout/pkg/kwscout/tfidf"
)

// mergeTolerance absorbs floating point noise so identical vectors merge
// at threshold 0.
const mergeTolerance = 1e-9

// Map is cluster id -> member phrases in input order. Ids are 0-based and
// only meaningful within one run.
type Map map[int][]string

// Group is one entry of a Map.
type Group struct {
	ID      int      `json:"id"`
	Phrases []string `json:"phrases"`
}

// Sorted returns the groups ordered by id.
func (m Map) Sorted() []Group {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	groups := make([]Group, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, Group{ID: id, Phrases: m[id]})
	}
	return groups
}

// Size returns the total number of phrases across clusters.
func (m Map) Size() int {
	n := 0
	for _, members := range m {
		n += len(members)
	}
	return n
}

// Clusterer partitions phrases. It is safe for concurrent use as long as
// its tokenizer is not mutated.
type Clusterer struct {
	vectorizer *tfidf.Vectorizer
}

// New creates a clusterer whose vectors are built from tok's terms.
func New(tok tfidf.Tokenizer) *Clusterer {
	return &Clusterer{vectorizer: tfidf.NewVectorizer(tok)}
}

// Default creates a clusterer that drops the embedded English stop words.
func Default() *Clusterer {
	return New(ingest.NewTokenizer(stoplist.English().All()))
}

// Cluster partitions phrases into groups whose average pairwise cosine
// distance stays within threshold.
//
// Merging always takes the cheapest pair of clusters and stops once that
// cost exceeds threshold. Equal costs are broken by the lowest slot pair,
// a slot being the smallest input index among a cluster's members. When the
// batch has fewer than two distinct terms every phrase lands in one cluster.
func (c *Clusterer) Cluster(phrases []string, threshold float64) (Map, error) {
	if math.IsNaN(threshold) || threshold < 0 {
		return nil, fmt.Errorf("%w: distance threshold %v", internalerr.ErrInvalidInput, threshold)
	}

	switch len(phrases) {
	case 0:
		return Map{}, nil
	case 1:
		return Map{0: {phrases[0]}}, nil
	}

	matrix := c.vectorizer.FitTransform(phrases)
	if len(matrix.Vocabulary) < 2 {
		return Map{0: append([]string(nil), phrases...)}, nil
	}

	labels := agglomerate(distances(matrix.Rows), threshold)
	return collect(phrases, labels), nil
}

// distances returns the full symmetric cosine distance matrix.
func distances(rows []tfidf.Vector) [][]float64 {
	n := len(rows)
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist := tfidf.CosineDistance(rows[i], rows[j])
			d[i][j] = dist
			d[j][i] = dist
		}
	}
	return d
}

// agglomerate runs average linkage on d (consumed in place) and returns,
// for every point, the slot of the cluster it ended in.
func agglomerate(d [][]float64, threshold float64) []int {
	n := len(d)
	size := make([]int, n)
	owner := make([]int, n)
	active := make([]bool, n)
	for i := range owner {
		size[i] = 1
		owner[i] = i
		active[i] = true
	}

	for {
		bestA, bestB := -1, -1
		best := math.Inf(1)
		for a := 0; a < n; a++ {
			if !active[a] {
				continue
			}
			for b := a + 1; b < n; b++ {
				if active[b] && d[a][b] < best {
					best, bestA, bestB = d[a][b], a, b
				}
			}
		}
		if bestA < 0 || best > threshold+mergeTolerance {
			break
		}

		// Lance-Williams update for average linkage; bestA keeps the lower slot.
		sa, sb := float64(size[bestA]), float64(size[bestB])
		for k := 0; k < n; k++ {
			if !active[k] || k == bestA || k == bestB {
				continue
			}
			merged := (sa*d[bestA][k] + sb*d[bestB][k]) / (sa + sb)
			d[bestA][k] = merged
			d[k][bestA] = merged
		}
		size[bestA] += size[bestB]
		active[bestB] = false
		for i := range owner {
			if owner[i] == bestB {
				owner[i] = bestA
			}
		}
	}
	return owner
}

// collect numbers clusters by first appearance and lists members in input order.
func collect(phrases []string, owner []int) Map {
	ids := make(map[int]int)
	out := make(Map)
	for i, slot := range owner {
		id, ok := ids[slot]
		if !ok {
			id = len(ids)
			ids[slot] = id
		}
		out[id] = append(out[id], phrases[i])
	}
	return out
}
