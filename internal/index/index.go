// Package index builds a per-document flat nearest-neighbor index over
// chunk embeddings and answers exact k-NN queries against it.
package index

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"document-qa/internal/models"
)

// ErrNoChunks is returned when there is nothing to index.
var ErrNoChunks = errors.New("no chunks to embed")

// Embedder is the external embedding capability: text in, fixed-dimension
// vector out. Satisfied by langchaingo's embeddings.Embedder.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Index is an exhaustive squared-L2 index over one document's chunks,
// with a metadata table positionally aligned to the vector rows. It is
// built once per document session and read-only afterwards.
type Index struct {
	embedder Embedder
	vectors  [][]float32
	meta     []models.IndexEntry
	dim      int
}

// Build embeds every chunk and assembles the index. The embedder is
// retained so queries are encoded with the same capability.
func Build(ctx context.Context, embedder Embedder, chunks []models.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	idx := &Index{embedder: embedder}
	for _, chunk := range chunks {
		vec, err := embedder.EmbedQuery(ctx, chunk.Text)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk: %w", err)
		}
		if idx.dim == 0 {
			idx.dim = len(vec)
		} else if len(vec) != idx.dim {
			return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vec), idx.dim)
		}
		idx.vectors = append(idx.vectors, vec)
		idx.meta = append(idx.meta, models.IndexEntry{
			Text: chunk.Text,
			Page: chunk.Page,
			Type: chunk.Type,
		})
	}

	log.Debug().Int("chunks", len(idx.vectors)).Int("dim", idx.dim).Msg("Built search index")
	return idx, nil
}

// Size returns the number of indexed chunks.
func (idx *Index) Size() int { return len(idx.vectors) }

// Search encodes the query and returns up to k results ordered by
// ascending distance. Results at or beyond threshold are dropped, but if
// that drops everything the minResults nearest are returned regardless,
// so a non-empty index never yields an empty result.
func (idx *Index) Search(ctx context.Context, query string, k int, threshold float32, minResults int) ([]models.SearchResult, error) {
	queryVec, err := idx.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	order := make([]int, len(idx.vectors))
	dists := make([]float32, len(idx.vectors))
	for i, vec := range idx.vectors {
		order[i] = i
		dists[i] = sqDistance(queryVec, vec)
	}
	// stable sort keeps original chunk order on equal distances
	sort.SliceStable(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })

	if k > len(order) {
		k = len(order)
	}
	nearest := order[:k]

	var results []models.SearchResult
	for _, i := range nearest {
		if dists[i] < threshold {
			results = append(results, toResult(idx.meta[i], dists[i]))
		}
	}
	if len(results) == 0 {
		n := min(minResults, len(nearest))
		for _, i := range nearest[:n] {
			results = append(results, toResult(idx.meta[i], dists[i]))
		}
	}
	return results, nil
}

func toResult(entry models.IndexEntry, dist float32) models.SearchResult {
	return models.SearchResult{
		Text:  entry.Text,
		Page:  entry.Page,
		Type:  entry.Type,
		Score: dist,
	}
}

func sqDistance(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
