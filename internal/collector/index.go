package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"indexapi/internal/model"
)

// IndexDocumentFetcher mirrors the externally-published index document.
type IndexDocumentFetcher struct {
	URL    string
	Client *http.Client
}

// NewIndexDocumentFetcher creates a fetcher for the given source URL.
func NewIndexDocumentFetcher(url string, timeout time.Duration) *IndexDocumentFetcher {
	return &IndexDocumentFetcher{URL: url, Client: newClient(timeout)}
}

func (f *IndexDocumentFetcher) FetchIndex(ctx context.Context) (*model.IndexDocument, error) {
	body, err := getJSON(ctx, f.Client, f.URL)
	if err != nil {
		return nil, err
	}
	var doc model.IndexDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode index document: %w", err)
	}
	if doc.UpdatedAt == "" {
		return nil, fmt.Errorf("index document missing updatedAt")
	}
	// The source never embeds market quotes; they are merged locally.
	doc.Markets = nil
	return &doc, nil
}
