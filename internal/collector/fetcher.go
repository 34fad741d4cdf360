package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"indexapi/internal/model"
)

// IndexFetcher retrieves the published composite index document.
type IndexFetcher interface {
	FetchIndex(ctx context.Context) (*model.IndexDocument, error)
}

// QuoteFetcher retrieves a live quote for a single asset. A provider that
// omits a field returns it as nil; a transport error or non-2xx status is a
// hard failure for the tick.
type QuoteFetcher interface {
	Fetch(ctx context.Context) (model.Quote, error)
	Asset() string
}

func newClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// getJSON performs a GET and returns the response body, treating any non-2xx
// status as an error.
func getJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}
	return body, nil
}
