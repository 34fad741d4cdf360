package handler

import (
	"net/http"
	"time"

	"indexapi/internal/api/respond"
	"indexapi/internal/api/v1/dto"
	"indexapi/internal/cache"
	"indexapi/internal/model"
	"indexapi/internal/signal"

	"github.com/rs/zerolog"
)

// IndexHandler serves snapshot projections. Every endpoint reads the shared
// cache; none of them ever triggers a fetch.
type IndexHandler struct {
	cache  *cache.SnapshotCache
	logger zerolog.Logger
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(c *cache.SnapshotCache, logger zerolog.Logger) *IndexHandler {
	return &IndexHandler{cache: c, logger: logger}
}

// RegisterPublicRoutes registers the unauthenticated endpoints on the root mux.
func (h *IndexHandler) RegisterPublicRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /public/index", h.PublicIndex)
}

// RegisterRoutes registers the authenticated snapshot projections.
func (h *IndexHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("GET /index", authMiddleware(http.HandlerFunc(h.Index)))
	mux.Handle("GET /history", authMiddleware(http.HandlerFunc(h.History)))
	mux.Handle("GET /markets", authMiddleware(http.HandlerFunc(h.Markets)))
	mux.Handle("GET /drivers", authMiddleware(http.HandlerFunc(h.Drivers)))
}

func (h *IndexHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// snapshot loads the cached snapshot or writes the 503 not-ready response.
func (h *IndexHandler) snapshot(w http.ResponseWriter) (model.Snapshot, bool) {
	snap, ok := h.cache.Read()
	if !ok {
		respond.Error(w, http.StatusServiceUnavailable, "Index not ready")
		return model.Snapshot{}, false
	}
	return snap, true
}

func marketsStamp(snap model.Snapshot) *time.Time {
	if snap.MarketsUpdatedAt.IsZero() {
		return nil
	}
	t := snap.MarketsUpdatedAt
	return &t
}

func (h *IndexHandler) PublicIndex(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, dto.PublicIndexResponse{
		IndexDocument:    snap.Doc,
		Signal:           signal.FromScore(snap.Doc.Score),
		BaseUpdatedAt:    snap.BaseUpdatedAt,
		MarketsUpdatedAt: marketsStamp(snap),
	})
}

func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, dto.IndexResponse{
		Score:            snap.Doc.Score,
		UpdatedAt:        snap.Doc.UpdatedAt,
		Signal:           signal.FromScore(snap.Doc.Score),
		Changes:          signal.WhatChanged(snap),
		BaseUpdatedAt:    snap.BaseUpdatedAt,
		MarketsUpdatedAt: marketsStamp(snap),
	})
}

func (h *IndexHandler) History(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, dto.HistoryResponse{
		History:    snap.Doc.History,
		DCAHistory: snap.Doc.DCAHistory,
	})
}

func (h *IndexHandler) Markets(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, dto.MarketsResponse{
		Markets:          snap.Doc.Markets,
		MarketsUpdatedAt: marketsStamp(snap),
	})
}

func (h *IndexHandler) Drivers(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, dto.DriversResponse{
		Drivers:       snap.Doc.Drivers,
		BaseUpdatedAt: snap.BaseUpdatedAt,
	})
}
