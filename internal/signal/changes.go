package signal

import (
	"indexapi/internal/model"
)

// Changes summarizes notable movement since the last recorded history point.
// It is recomputed on every read; nothing here is cached.
type Changes struct {
	PreviousScore *float64 `json:"previousScore,omitempty"`
	ScoreDelta    *float64 `json:"scoreDelta,omitempty"`
	PreviousBand  Band     `json:"previousBand,omitempty"`
	BandChanged   bool     `json:"bandChanged"`
	TopDriver     string   `json:"topDriver,omitempty"`
	QuotedAssets  []string `json:"quotedAssets,omitempty"`
}

// WhatChanged diffs the current score against the most recent history point
// and reports which drivers and market quotes are carrying the move.
func WhatChanged(snap model.Snapshot) Changes {
	var ch Changes

	if ref, ok := referencePoint(snap.Doc); ok {
		prev := ref.Score
		delta := snap.Doc.Score - prev
		ch.PreviousScore = &prev
		ch.ScoreDelta = &delta
		ch.PreviousBand = FromScore(prev)
		ch.BandChanged = ch.PreviousBand != FromScore(snap.Doc.Score)
	}

	ch.TopDriver = topDriver(snap.Doc.Drivers)

	for _, asset := range []string{model.AssetBTC, model.AssetGold, model.AssetSP500} {
		if q, ok := snap.Doc.Markets[asset]; ok && q.Price != nil {
			ch.QuotedAssets = append(ch.QuotedAssets, asset)
		}
	}
	return ch
}

// referencePoint picks the newest history entry that is not the current
// reading itself.
func referencePoint(doc model.IndexDocument) (model.ScorePoint, bool) {
	for i := len(doc.History) - 1; i >= 0; i-- {
		p := doc.History[i]
		if p.Date != doc.UpdatedAt || p.Score != doc.Score {
			return p, true
		}
	}
	return model.ScorePoint{}, false
}

func topDriver(drivers map[string]float64) string {
	var name string
	var best float64
	for k, v := range drivers {
		abs := v
		if abs < 0 {
			abs = -abs
		}
		if name == "" || abs > best {
			name, best = k, abs
		}
	}
	return name
}
