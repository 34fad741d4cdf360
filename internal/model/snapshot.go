package model

import (
	"encoding/json"
	"time"
)

// Asset identifiers used as keys of IndexDocument.Markets.
const (
	AssetBTC   = "btc"
	AssetGold  = "gold"
	AssetSP500 = "sp500"
)

// ScorePoint is a single historical index value.
type ScorePoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// Quote is a normalized market quote from one provider. Fields the provider
// did not return are nil, never zero.
type Quote struct {
	Price     *float64 `json:"price"`
	MarketCap *float64 `json:"marketCap"`
	Partial   bool     `json:"partial"`
}

// Markets maps an asset identifier to its latest quote.
type Markets map[string]Quote

// IndexDocument is the composite index document mirrored from the published
// source and enriched with live market quotes. History, dcaHistory, drivers
// and dca are passed through to clients as-is.
type IndexDocument struct {
	Score      float64            `json:"score"`
	UpdatedAt  string             `json:"updatedAt"`
	History    []ScorePoint       `json:"history"`
	DCAHistory json.RawMessage    `json:"dcaHistory,omitempty"`
	Drivers    map[string]float64 `json:"drivers,omitempty"`
	DCA        json.RawMessage    `json:"dca,omitempty"`
	Markets    Markets            `json:"markets,omitempty"`
}

// Snapshot is a point-in-time copy of the cached document together with the
// two freshness timestamps, which are tracked outside the document itself.
type Snapshot struct {
	Doc              IndexDocument
	BaseUpdatedAt    time.Time
	MarketsUpdatedAt time.Time
}
