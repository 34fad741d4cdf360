package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"indexapi/internal/cache"
	"indexapi/internal/collector"
	"indexapi/internal/model"
	"indexapi/internal/signal"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndexFetcher struct {
	doc *model.IndexDocument
	err error
}

func (f *fakeIndexFetcher) FetchIndex(context.Context) (*model.IndexDocument, error) {
	return f.doc, f.err
}

type fakeQuoteFetcher struct {
	asset string
	quote model.Quote
	err   error
	calls int
}

func (f *fakeQuoteFetcher) Asset() string { return f.asset }

func (f *fakeQuoteFetcher) Fetch(context.Context) (model.Quote, error) {
	f.calls++
	return f.quote, f.err
}

func fptr(v float64) *float64 { return &v }

func quoteFetchers(fs ...*fakeQuoteFetcher) []collector.QuoteFetcher {
	out := make([]collector.QuoteFetcher, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

func TestBaseTaskPopulatesCache(t *testing.T) {
	c := cache.New()
	s := New(context.Background(), c, &fakeIndexFetcher{doc: &model.IndexDocument{Score: 70, UpdatedAt: "2026-08-30"}},
		nil, nil, nil, nil, zerolog.Nop())

	s.baseTask()

	snap, ok := c.Read()
	require.True(t, ok)
	assert.Equal(t, 70.0, snap.Doc.Score)
}

func TestBaseTaskFailureRetainsSnapshot(t *testing.T) {
	c := cache.New()
	fetcher := &fakeIndexFetcher{doc: &model.IndexDocument{Score: 70, UpdatedAt: "2026-08-30"}}
	s := New(context.Background(), c, fetcher, nil, nil, nil, nil, zerolog.Nop())

	s.baseTask()
	fetcher.doc, fetcher.err = nil, errors.New("upstream down")
	s.baseTask()

	snap, ok := c.Read()
	require.True(t, ok, "cache must never go not-ready once ready")
	assert.Equal(t, 70.0, snap.Doc.Score)
}

func TestMarketTaskSkipsBeforeBase(t *testing.T) {
	c := cache.New()
	q := &fakeQuoteFetcher{asset: model.AssetBTC, quote: model.Quote{Price: fptr(60000)}}
	s := New(context.Background(), c, &fakeIndexFetcher{err: errors.New("down")},
		quoteFetchers(q), nil, nil, nil, zerolog.Nop())

	s.marketTask()

	assert.Zero(t, q.calls, "market fetchers must not run before the first base snapshot")
	_, ok := c.Read()
	assert.False(t, ok)
}

func TestMarketTaskMergesAllQuotes(t *testing.T) {
	c := cache.New()
	c.WriteBase(&model.IndexDocument{Score: 50})
	btc := &fakeQuoteFetcher{asset: model.AssetBTC, quote: model.Quote{Price: fptr(60000)}}
	gold := &fakeQuoteFetcher{asset: model.AssetGold, quote: model.Quote{Price: fptr(2400)}}
	spx := &fakeQuoteFetcher{asset: model.AssetSP500, quote: model.Quote{Price: fptr(550)}}
	s := New(context.Background(), c, &fakeIndexFetcher{}, quoteFetchers(btc, gold, spx),
		nil, nil, nil, zerolog.Nop())

	s.marketTask()

	snap, ok := c.Read()
	require.True(t, ok)
	require.Len(t, snap.Doc.Markets, 3)
	assert.Equal(t, 60000.0, *snap.Doc.Markets[model.AssetBTC].Price)
	assert.Equal(t, 2400.0, *snap.Doc.Markets[model.AssetGold].Price)
	assert.Equal(t, 550.0, *snap.Doc.Markets[model.AssetSP500].Price)
	assert.False(t, snap.MarketsUpdatedAt.IsZero())
}

func TestMarketTaskIsAllOrNothing(t *testing.T) {
	c := cache.New()
	c.WriteBase(&model.IndexDocument{Score: 50})
	btc := &fakeQuoteFetcher{asset: model.AssetBTC, quote: model.Quote{Price: fptr(60000)}}
	gold := &fakeQuoteFetcher{asset: model.AssetGold, quote: model.Quote{Price: fptr(2400)}}
	spx := &fakeQuoteFetcher{asset: model.AssetSP500, err: errors.New("provider down")}
	s := New(context.Background(), c, &fakeIndexFetcher{}, quoteFetchers(btc, gold, spx),
		nil, nil, nil, zerolog.Nop())

	before, _ := c.Read()
	s.marketTask()
	after, ok := c.Read()

	require.True(t, ok)
	assert.Equal(t, before.Doc.Markets, after.Doc.Markets, "one failed provider must abandon the whole tick")
	assert.Equal(t, before.MarketsUpdatedAt, after.MarketsUpdatedAt)
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) SendWithRetry(_ context.Context, chatID, text string, _ int) error {
	n.messages = append(n.messages, chatID+": "+text)
	return nil
}

type fakeAlertRepo struct {
	chatIDs []string
}

func (f *fakeAlertRepo) Insert(context.Context, *model.AlertSubscription) error { return nil }

func (f *fakeAlertRepo) ListTelegramChatIDs(context.Context) ([]string, error) {
	return f.chatIDs, nil
}

func TestConcurrentBaseRefreshesAreSerialized(t *testing.T) {
	c := cache.New()
	fetcher := &fakeIndexFetcher{doc: &model.IndexDocument{Score: 40, UpdatedAt: "2026-08-30"}}
	notif := &recordingNotifier{}
	s := New(context.Background(), c, fetcher, nil, nil,
		&fakeAlertRepo{chatIDs: []string{"chat-1"}}, notif, zerolog.Nop())

	// Warm-up and cron ticks can overlap at startup.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.baseTask()
		}()
	}
	wg.Wait()

	_, ok := c.Read()
	require.True(t, ok)
	assert.Empty(t, notif.messages, "same score on every refresh must not alert")
	assert.Equal(t, signal.BandFear, s.lastBand)
}

func TestBandChangeNotifiesSubscribers(t *testing.T) {
	c := cache.New()
	fetcher := &fakeIndexFetcher{doc: &model.IndexDocument{Score: 40, UpdatedAt: "2026-08-29"}}
	notif := &recordingNotifier{}
	s := New(context.Background(), c, fetcher, nil, nil,
		&fakeAlertRepo{chatIDs: []string{"chat-1"}}, notif, zerolog.Nop())

	s.baseTask() // fear; first reading never notifies
	assert.Empty(t, notif.messages)

	fetcher.doc = &model.IndexDocument{Score: 41, UpdatedAt: "2026-08-30"}
	s.baseTask() // still fear
	assert.Empty(t, notif.messages)

	fetcher.doc = &model.IndexDocument{Score: 80, UpdatedAt: "2026-08-31"}
	s.baseTask() // extreme greed
	require.Len(t, notif.messages, 1)
	assert.Contains(t, notif.messages[0], "chat-1")
}
