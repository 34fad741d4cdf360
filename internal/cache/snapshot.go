package cache

import (
	"sync"
	"time"

	"indexapi/internal/model"
)

// SnapshotCache holds the last-known-good composite document. It is written
// only by the refresh scheduler; HTTP handlers only read it. The document is
// always replaced wholesale, never edited in place, so readers can take a
// cheap struct copy under the read lock.
type SnapshotCache struct {
	mu               sync.RWMutex
	doc              *model.IndexDocument
	baseUpdatedAt    time.Time
	marketsUpdatedAt time.Time
}

// New returns an empty cache. Reads report not ready until the first
// successful WriteBase.
func New() *SnapshotCache {
	return &SnapshotCache{}
}

// Read returns a copy of the current snapshot, or ok=false if no base
// document has been stored yet.
func (c *SnapshotCache) Read() (model.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.doc == nil {
		return model.Snapshot{}, false
	}
	return model.Snapshot{
		Doc:              *c.doc,
		BaseUpdatedAt:    c.baseUpdatedAt,
		MarketsUpdatedAt: c.marketsUpdatedAt,
	}, true
}

// WriteBase atomically replaces the entire document and stamps
// baseUpdatedAt. Market data carried by the previous document is preserved
// so a base refresh never knocks out fresher quotes.
func (c *SnapshotCache) WriteBase(doc *model.IndexDocument) {
	if doc == nil {
		return
	}
	next := *doc
	c.mu.Lock()
	if c.doc != nil && next.Markets == nil {
		next.Markets = c.doc.Markets
	}
	c.doc = &next
	c.baseUpdatedAt = time.Now().UTC()
	c.mu.Unlock()
}

// MergeMarkets overwrites only the markets field of the current document and
// stamps marketsUpdatedAt. It is a no-op before the first WriteBase. The
// document pointer is swapped, not mutated, so concurrent readers never see
// a torn update.
func (c *SnapshotCache) MergeMarkets(m model.Markets) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc == nil {
		return false
	}
	next := *c.doc
	next.Markets = m
	c.doc = &next
	c.marketsUpdatedAt = time.Now().UTC()
	return true
}
