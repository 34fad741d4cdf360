package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"indexapi/internal/model"
)

const yahooQuoteURL = "https://query1.finance.yahoo.com/v8/finance/chart/SPY?interval=1d&range=1d"

// YahooFetcher fetches the SPY close as the S&P 500 proxy quote.
type YahooFetcher struct {
	URL    string
	Client *http.Client
}

func NewYahooFetcher(timeout time.Duration) *YahooFetcher {
	return &YahooFetcher{URL: yahooQuoteURL, Client: newClient(timeout)}
}

func (f *YahooFetcher) Asset() string { return model.AssetSP500 }

// yahooChart is the subset of the Yahoo Finance chart response used here.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) Fetch(ctx context.Context) (model.Quote, error) {
	body, err := getJSON(ctx, f.Client, f.URL)
	if err != nil {
		return model.Quote{}, err
	}
	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return model.Quote{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return model.Quote{}, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return model.Quote{Partial: true}, nil
	}
	price := chart.Chart.Result[0].Meta.RegularMarketPrice
	return model.Quote{Price: price, Partial: price == nil}, nil
}
