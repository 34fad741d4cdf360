package dto

import (
	"encoding/json"
	"time"

	"indexapi/internal/model"
	"indexapi/internal/signal"
)

// IndexResponse is the authenticated index projection.
type IndexResponse struct {
	Score            float64        `json:"score"`
	UpdatedAt        string         `json:"updatedAt"`
	Signal           signal.Band    `json:"signal"`
	Changes          signal.Changes `json:"changes"`
	BaseUpdatedAt    time.Time      `json:"baseUpdatedAt"`
	MarketsUpdatedAt *time.Time     `json:"marketsUpdatedAt,omitempty"`
}

// PublicIndexResponse is the unauthenticated snapshot: the full document plus
// the derived signal and freshness timestamps.
type PublicIndexResponse struct {
	model.IndexDocument
	Signal           signal.Band `json:"signal"`
	BaseUpdatedAt    time.Time   `json:"baseUpdatedAt"`
	MarketsUpdatedAt *time.Time  `json:"marketsUpdatedAt,omitempty"`
}

// HistoryResponse carries the score and DCA history passthrough.
type HistoryResponse struct {
	History    []model.ScorePoint `json:"history"`
	DCAHistory json.RawMessage    `json:"dcaHistory,omitempty"`
}

// MarketsResponse carries the merged market quotes.
type MarketsResponse struct {
	Markets          model.Markets `json:"markets"`
	MarketsUpdatedAt *time.Time    `json:"marketsUpdatedAt,omitempty"`
}

// DriversResponse carries the driver breakdown passthrough.
type DriversResponse struct {
	Drivers       map[string]float64 `json:"drivers"`
	BaseUpdatedAt time.Time          `json:"baseUpdatedAt"`
}
