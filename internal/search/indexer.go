// Package search keeps the listing title index used for autocomplete
package search

import (
	"context"
	"strings"

	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/pkg/elasticsearch"
)

const suggestField = "title_suggest"

// Indexer maintains public listings in the suggestion index
type Indexer interface {
	Index(ctx context.Context, listing *domain.Listing) error
	Remove(ctx context.Context, listingID string) error
	Suggest(ctx context.Context, prefix string, size int) ([]string, error)
}

// ListingDocument indexed shape of a public listing
type ListingDocument struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	TitleSuggest []string `json:"title_suggest"`
	City         string   `json:"city"`
	Locality     string   `json:"locality"`
	PropertyType string   `json:"property_type"`
	ListingType  string   `json:"listing_type"`
	Price        float64  `json:"price"`
}

// NewDocument builds the document for l. Inputs include the title and its city-qualified form.
func NewDocument(l *domain.Listing) ListingDocument {
	inputs := []string{l.Title}
	if l.City != "" {
		inputs = append(inputs, l.Title+" "+l.City)
	}
	return ListingDocument{
		ID:           l.ID,
		Title:        l.Title,
		TitleSuggest: inputs,
		City:         l.City,
		Locality:     l.Locality,
		PropertyType: string(l.PropertyType),
		ListingType:  string(l.ListingType),
		Price:        l.Price,
	}
}

// IndexMapping mapping created at startup
func IndexMapping() map[string]interface{} {
	return map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":            map[string]interface{}{"type": "keyword"},
				"title":         map[string]interface{}{"type": "text"},
				suggestField:    map[string]interface{}{"type": "completion"},
				"city":          map[string]interface{}{"type": "keyword"},
				"locality":      map[string]interface{}{"type": "keyword"},
				"property_type": map[string]interface{}{"type": "keyword"},
				"listing_type":  map[string]interface{}{"type": "keyword"},
				"price":         map[string]interface{}{"type": "scaled_float", "scaling_factor": 100},
			},
		},
	}
}

// ESIndexer Elasticsearch-backed index
type ESIndexer struct {
	client *elasticsearch.Client
	index  string
}

// NewESIndexer creates the index if needed
func NewESIndexer(ctx context.Context, client *elasticsearch.Client, index string) (*ESIndexer, error) {
	if err := client.CreateIndex(ctx, index, IndexMapping()); err != nil {
		return nil, err
	}
	return &ESIndexer{client: client, index: index}, nil
}

// Index upserts a public listing and removes a non-public one
func (i *ESIndexer) Index(ctx context.Context, l *domain.Listing) error {
	if !l.IsPublic() {
		return i.Remove(ctx, l.ID)
	}
	return i.client.IndexDocument(ctx, i.index, l.ID, NewDocument(l))
}

func (i *ESIndexer) Remove(ctx context.Context, listingID string) error {
	return i.client.DeleteDocument(ctx, i.index, listingID)
}

func (i *ESIndexer) Suggest(ctx context.Context, prefix string, size int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}
	return i.client.Suggest(ctx, i.index, suggestField, prefix, size)
}

// Nop used when Elasticsearch is disabled; suggestions are always empty
type Nop struct{}

func (Nop) Index(context.Context, *domain.Listing) error { return nil }
func (Nop) Remove(context.Context, string) error { return nil }
func (Nop) Suggest(context.Context, string, int) ([]string, error) {
	return []string{}, nil
}
