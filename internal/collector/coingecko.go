package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"indexapi/internal/model"
)

const coingeckoURL = "https://api.coingecko.com/api/v3/coins/markets?vs_currency=usd&ids=bitcoin"

// CoinGeckoFetcher fetches the BTC quote from the CoinGecko markets API.
type CoinGeckoFetcher struct {
	URL    string
	Client *http.Client
}

func NewCoinGeckoFetcher(timeout time.Duration) *CoinGeckoFetcher {
	return &CoinGeckoFetcher{URL: coingeckoURL, Client: newClient(timeout)}
}

func (f *CoinGeckoFetcher) Asset() string { return model.AssetBTC }

// coingeckoCoin is one entry of the CoinGecko markets response. Prices can be
// null for delisted or unsynced coins, hence the pointer fields.
type coingeckoCoin struct {
	ID           string   `json:"id"`
	CurrentPrice *float64 `json:"current_price"`
	MarketCap    *float64 `json:"market_cap"`
}

func (f *CoinGeckoFetcher) Fetch(ctx context.Context) (model.Quote, error) {
	body, err := getJSON(ctx, f.Client, f.URL)
	if err != nil {
		return model.Quote{}, err
	}
	var coins []coingeckoCoin
	if err := json.Unmarshal(body, &coins); err != nil {
		return model.Quote{}, fmt.Errorf("coingecko decode: %w", err)
	}
	if len(coins) == 0 {
		// Empty result is a shape problem, not an outage: serve nulls.
		return model.Quote{Partial: true}, nil
	}
	q := model.Quote{Price: coins[0].CurrentPrice, MarketCap: coins[0].MarketCap}
	q.Partial = q.Price == nil || q.MarketCap == nil
	return q, nil
}
