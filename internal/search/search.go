// Package search indexes documented entities for full-text lookup, both for
// the search command and for the search.json file themes load client-side.
package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"git.home.luguber.info/inful/sassdoc-theme/internal/docmodel"
	"git.home.luguber.info/inful/sassdoc-theme/internal/markdown"
)

// Document is the indexed view of an entity.
type Document struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Groups      []string `json:"groups"`
	Access      string   `json:"access"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Hit is a scored search result.
type Hit struct {
	Document
	Score float64 `json:"score"`
}

// Documents converts entities, deduplicating IDs by suffixing a counter.
func Documents(entities []docmodel.Entity) []Document {
	docs := make([]Document, 0, len(entities))
	seen := map[string]int{}
	for _, e := range entities {
		id := e.Anchor()
		if n := seen[id]; n > 0 {
			seen[id] = n + 1
			id = fmt.Sprintf("%s-%d", id, n+1)
		} else {
			seen[id] = 1
		}

		desc := e.String("description")
		if html := e.String("htmlDescription"); html != "" {
			desc = markdown.PlainText(html)
		}
		docs = append(docs, Document{
			ID:          id,
			Name:        e.Name(),
			Type:        e.Type(),
			Groups:      e.Groups(),
			Access:      e.Access(),
			Summary:     e.String("summary"),
			Description: desc,
		})
	}
	return docs
}

// JSON encodes documents for search.json.
func JSON(docs []Document) ([]byte, error) {
	return json.MarshalIndent(docs, "", "  ")
}

// Index is an in-memory bleve index over documents.
type Index struct {
	index bleve.Index
	docs  map[string]Document
}

// NewIndex indexes docs.
func NewIndex(docs []Document) (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}

	batch := idx.NewBatch()
	byID := make(map[string]Document, len(docs))
	for _, d := range docs {
		if err := batch.Index(d.ID, d); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index %s: %w", d.ID, err)
		}
		byID[d.ID] = d
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("index batch: %w", err)
	}
	return &Index{index: idx, docs: byID}, nil
}

// Search runs a match query across all fields, boosted by a name prefix
// match so partial identifiers still hit.
func (i *Index) Search(q string, limit int) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	match := bleve.NewMatchQuery(q)
	prefix := bleve.NewPrefixQuery(strings.ToLower(q))
	prefix.SetField("name")
	prefix.SetBoost(2)

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(match, prefix))
	req.Size = limit
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		if d, ok := i.docs[h.ID]; ok {
			hits = append(hits, Hit{Document: d, Score: h.Score})
		}
	}
	return hits, nil
}

// Count is the number of indexed documents.
func (i *Index) Count() int { return len(i.docs) }

// Close releases the index.
func (i *Index) Close() error { return i.index.Close() }
