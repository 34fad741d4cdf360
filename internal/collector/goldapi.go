package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"indexapi/internal/model"
)

const goldAPIURL = "https://api.gold-api.com/price/XAU"

// GoldAPIFetcher fetches the spot gold price from gold-api.com.
type GoldAPIFetcher struct {
	URL    string
	Client *http.Client
}

func NewGoldAPIFetcher(timeout time.Duration) *GoldAPIFetcher {
	return &GoldAPIFetcher{URL: goldAPIURL, Client: newClient(timeout)}
}

func (f *GoldAPIFetcher) Asset() string { return model.AssetGold }

// goldPrice is the gold-api.com response. The API reports a per-ounce price
// and no market cap.
type goldPrice struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

func (f *GoldAPIFetcher) Fetch(ctx context.Context) (model.Quote, error) {
	body, err := getJSON(ctx, f.Client, f.URL)
	if err != nil {
		return model.Quote{}, err
	}
	var p goldPrice
	if err := json.Unmarshal(body, &p); err != nil {
		return model.Quote{}, fmt.Errorf("gold-api decode: %w", err)
	}
	return model.Quote{Price: p.Price, Partial: p.Price == nil}, nil
}
