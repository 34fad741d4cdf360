package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"indexapi/internal/cache"
	"indexapi/internal/collector"
	"indexapi/internal/model"
	"indexapi/internal/repository"
	"indexapi/internal/signal"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Notifier pushes signal change alerts to a Telegram chat.
type Notifier interface {
	SendWithRetry(ctx context.Context, chatID, text string, maxRetries int) error
}

// Scheduler owns the two periodic refresh tasks. The base refresh mirrors the
// published index document on a slow schedule; the market refresh merges live
// quotes on a fast one. Each task has isolated failure handling: a failed
// tick logs, retains the prior snapshot and waits for the next schedule.
type Scheduler struct {
	cron   *cron.Cron
	cache  *cache.SnapshotCache
	index  collector.IndexFetcher
	quotes []collector.QuoteFetcher
	scores repository.SnapshotRepository // optional
	alerts repository.AlertRepository   // optional
	notif  Notifier                     // optional
	logger zerolog.Logger
	ctx    context.Context

	// Serializes base refreshes: the startup warm-up runs concurrently with
	// the cron schedule, and lastBand must see them in order.
	baseMu   sync.Mutex
	lastBand signal.Band
}

// New creates a Scheduler. scores, alerts and notif may be nil; the
// corresponding side channels are then skipped.
func New(ctx context.Context, c *cache.SnapshotCache, index collector.IndexFetcher, quotes []collector.QuoteFetcher,
	scores repository.SnapshotRepository, alerts repository.AlertRepository, notif Notifier, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		cache:  c,
		index:  index,
		quotes: quotes,
		scores: scores,
		alerts: alerts,
		notif:  notif,
		logger: logger.With().Str("service", "Scheduler").Logger(),
		ctx:    ctx,
	}
}

// Register installs the two refresh tasks on their independent schedules.
func (s *Scheduler) Register(baseSpec, marketSpec string) error {
	if _, err := s.cron.AddFunc(baseSpec, s.baseTask); err != nil {
		return fmt.Errorf("register base refresh: %w", err)
	}
	if _, err := s.cron.AddFunc(marketSpec, s.marketTask); err != nil {
		return fmt.Errorf("register market refresh: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("Refresh scheduler started")
}

// Stop stops the cron scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Refresh scheduler stopped")
}

// RunBaseNow executes the base refresh immediately, used to warm the cache at
// process start instead of waiting for the first tick.
func (s *Scheduler) RunBaseNow() {
	s.baseTask()
}

func (s *Scheduler) baseTask() {
	s.baseMu.Lock()
	defer s.baseMu.Unlock()

	ctx, cancel := context.WithTimeout(s.ctx, time.Minute)
	defer cancel()

	doc, err := s.index.FetchIndex(ctx)
	if err != nil {
		// Prior snapshot stays in place; the next tick retries.
		s.logger.Error().Err(err).Msg("Base refresh failed, retaining prior snapshot")
		return
	}
	s.cache.WriteBase(doc)
	s.logger.Info().Float64("score", doc.Score).Str("updated_at", doc.UpdatedAt).Msg("Base snapshot refreshed")

	if s.scores != nil {
		if err := s.scores.RecordScore(ctx, doc.Score, doc.UpdatedAt, time.Now().UTC()); err != nil {
			s.logger.Error().Err(err).Msg("Failed to record index score")
		}
	}

	band := signal.FromScore(doc.Score)
	if s.lastBand != "" && band != s.lastBand {
		s.notifyBandChange(ctx, s.lastBand, band, doc.Score)
	}
	s.lastBand = band
}

func (s *Scheduler) marketTask() {
	if _, ok := s.cache.Read(); !ok {
		s.logger.Debug().Msg("Skipping market refresh, no base snapshot yet")
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()

	// Fan out one fetch per provider and join before writing: either all
	// three quotes land in this tick's merge or none do.
	results := make([]model.Quote, len(s.quotes))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range s.quotes {
		g.Go(func() error {
			q, err := f.Fetch(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Asset(), err)
			}
			results[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Market refresh failed, retaining prior quotes")
		return
	}

	markets := make(model.Markets, len(s.quotes))
	for i, f := range s.quotes {
		markets[f.Asset()] = results[i]
	}
	s.cache.MergeMarkets(markets)
}

func (s *Scheduler) notifyBandChange(ctx context.Context, from, to signal.Band, score float64) {
	if s.alerts == nil || s.notif == nil {
		return
	}
	chatIDs, err := s.alerts.ListTelegramChatIDs(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list alert subscribers")
		return
	}
	text := fmt.Sprintf("📊 <b>Index signal changed</b>: %s → %s (score %.1f)", from, to, score)
	for _, chatID := range chatIDs {
		if err := s.notif.SendWithRetry(ctx, chatID, text, 2); err != nil {
			s.logger.Error().Err(err).Str("chat_id", chatID).Msg("Failed to send signal alert")
		}
	}
}
