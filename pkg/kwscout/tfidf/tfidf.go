// Package tfidf turns a batch of short phrases into L2-normalized
// term-frequency/inverse-document-frequency vectors.
package tfidf

import (
	"math"
	"sort"
)

// Tokenizer splits a phrase into terms.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Vector is a sparse vector keyed by vocabulary index, sorted by index.
type Vector struct {
	Indices []int
	Values  []float64
}

// IsZero reports whether the vector has no non-zero weight.
func (v Vector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Matrix is the result of fitting one batch.
type Matrix struct {
	Vocabulary []string // sorted terms; position = vector index
	IDF        []float64
	Rows       []Vector
}

// Vectorizer fits a vocabulary per call, so no state is shared between batches.
type Vectorizer struct {
	tokenizer Tokenizer
}

// NewVectorizer creates a vectorizer using tok for term extraction.
func NewVectorizer(tok Tokenizer) *Vectorizer {
	return &Vectorizer{tokenizer: tok}
}

// FitTransform builds the vocabulary of docs and returns one vector per doc.
//
// Term weights are raw counts times the smoothed idf
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// and each row is scaled to unit length (zero rows stay zero).
func (v *Vectorizer) FitTransform(docs []string) Matrix {
	n := len(docs)
	counts := make([]map[string]int, n)
	df := make(map[string]int)

	for i, doc := range docs {
		tf := make(map[string]int)
		for _, tok := range v.tokenizer.Tokenize(doc) {
			tf[tok]++
		}
		for tok := range tf {
			df[tok]++
		}
		counts[i] = tf
	}

	vocab := make([]string, 0, len(df))
	for tok := range df {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	for i, tok := range vocab {
		index[tok] = i
		idf[i] = math.Log(float64(1+n)/float64(1+df[tok])) + 1
	}

	rows := make([]Vector, n)
	for i, tf := range counts {
		vec := Vector{
			Indices: make([]int, 0, len(tf)),
			Values:  make([]float64, 0, len(tf)),
		}
		for tok := range tf {
			vec.Indices = append(vec.Indices, index[tok])
		}
		sort.Ints(vec.Indices)

		var norm float64
		for _, idx := range vec.Indices {
			w := float64(tf[vocab[idx]]) * idf[idx]
			vec.Values = append(vec.Values, w)
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k := range vec.Values {
				vec.Values[k] /= norm
			}
		}
		rows[i] = vec
	}

	return Matrix{Vocabulary: vocab, IDF: idf, Rows: rows}
}

// Dot returns the inner product of two sparse vectors.
func Dot(a, b Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// CosineDistance returns 1 - cos(a, b). Two zero vectors are at distance 0,
// a zero and a non-zero vector at distance 1.
func CosineDistance(a, b Vector) float64 {
	za, zb := a.IsZero(), b.IsZero()
	if za && zb {
		return 0
	}
	if za || zb {
		return 1
	}
	na := math.Sqrt(Dot(a, a))
	nb := math.Sqrt(Dot(b, b))
	d := 1 - Dot(a, b)/(na*nb)
	if d < 0 {
		return 0
	}
	return d
}
