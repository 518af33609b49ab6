// Package engine gathers market signals for stored items, prices them with
// the pricing cascade and persists the decisions.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/vinyl-pricer/internal/discogs"
	"github.com/donaldgifford/vinyl-pricer/internal/ebay"
	"github.com/donaldgifford/vinyl-pricer/internal/metrics"
	"github.com/donaldgifford/vinyl-pricer/internal/musicbrainz"
	"github.com/donaldgifford/vinyl-pricer/internal/notify"
	"github.com/donaldgifford/vinyl-pricer/internal/store"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

const instrumentationName = "github.com/donaldgifford/vinyl-pricer/internal/engine"

// Job names recorded in job_runs and used as metric labels.
const (
	JobPricePending = "price_pending"
	JobRefreshStale = "refresh_stale"
	JobSyncQuota    = "sync_quota"
)

const (
	defaultBatchSize    = 25
	defaultRefreshAfter = 7 * 24 * time.Hour
)

// ListingSource finds active competing listings for a record.
type ListingSource interface {
	ActiveListings(ctx context.Context, q ebay.CompsQuery) ([]pricing.Listing, error)
}

// QuotaSource reports the marketplace API quota.
type QuotaSource interface {
	GetBrowseQuota(ctx context.Context) (*ebay.QuotaState, error)
}

// Engine orchestrates signal gathering, pricing and persistence.
type Engine struct {
	store    store.Store
	pricer   *pricing.Engine
	discogs  discogs.Client
	mb       musicbrainz.Client
	listings ListingSource
	quota    QuotaSource
	notifier notify.Notifier
	log      *slog.Logger

	batchSize    int
	refreshAfter time.Duration

	tracer    trace.Tracer
	decisions metric.Int64Counter
}

// NewEngine creates a new Engine. Discogs, listing and quota sources are
// optional; a missing source leaves its signals absent.
func NewEngine(s store.Store, p *pricing.Engine, opts ...EngineOption) *Engine {
	eng := &Engine{
		store:        s,
		pricer:       p,
		log:          slog.Default(),
		batchSize:    defaultBatchSize,
		refreshAfter: defaultRefreshAfter,
		tracer:       otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.pricer == nil {
		eng.pricer = pricing.New(pricing.DefaultConfig())
	}
	if eng.notifier == nil {
		eng.notifier = notify.NewNoOpNotifier(eng.log)
	}
	if eng.batchSize <= 0 {
		eng.batchSize = defaultBatchSize
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"vpr.pricing.decisions",
		metric.WithDescription("Pricing decisions by strategy code."),
	)
	if err != nil {
		eng.log.Warn("creating decision counter", "error", err)
	}
	eng.decisions = counter

	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithDiscogs sets the catalog client.
func WithDiscogs(c discogs.Client) EngineOption {
	return func(e *Engine) {
		e.discogs = c
	}
}

// WithMusicBrainz sets the release search consulted before the Discogs
// search when an item has no Discogs release yet.
func WithMusicBrainz(c musicbrainz.Client) EngineOption {
	return func(e *Engine) {
		e.mb = c
	}
}

// WithListings sets the active listing source.
func WithListings(src ListingSource) EngineOption {
	return func(e *Engine) {
		e.listings = src
	}
}

// WithQuota sets the marketplace quota source.
func WithQuota(q QuotaSource) EngineOption {
	return func(e *Engine) {
		e.quota = q
	}
}

// WithNotifier sets the run report notifier.
func WithNotifier(n notify.Notifier) EngineOption {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithBatchSize sets how many items one batch run prices.
func WithBatchSize(n int) EngineOption {
	return func(e *Engine) {
		e.batchSize = n
	}
}

// WithRefreshAfter sets the age at which a priced item is re-priced.
func WithRefreshAfter(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.refreshAfter = d
	}
}

// Store returns the underlying store.
func (eng *Engine) Store() store.Store {
	return eng.store
}

// Quote prices in without touching the store.
func (eng *Engine) Quote(ctx context.Context, in *pricing.Input) pricing.Result {
	res := eng.pricer.Compute(in)
	eng.observe(ctx, res)
	return res
}

// Gather builds the pricing input for item from its own fields and every
// configured signal source. Source failures are logged and leave the
// corresponding signal absent.
func (eng *Engine) Gather(ctx context.Context, item *domain.Item) pricing.Input {
	in := item.BaseInput()

	if eng.discogs != nil {
		eng.gatherDiscogs(ctx, item, &in)
	}

	if eng.listings != nil {
		active, err := eng.listings.ActiveListings(ctx, ebay.CompsQuery{
			Artist:  item.Artist,
			Title:   item.Title,
			Catalog: item.Catalog,
		})
		if err != nil {
			eng.log.Warn("active listing search failed",
				"item", item.ID,
				"partial", len(active),
				"error", err,
			)
		}
		in.Active = active
	}

	return in
}

func (eng *Engine) gatherDiscogs(ctx context.Context, item *domain.Item, in *pricing.Input) {
	ctx, span := eng.tracer.Start(ctx, "engine.gatherDiscogs")
	defer span.End()

	releaseID, ok := eng.resolveRelease(ctx, item)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("discogs.release_id", releaseID))

	stats, err := eng.discogs.MarketplaceStats(ctx, releaseID)
	if err != nil {
		eng.log.Warn("discogs stats failed", "item", item.ID, "release", releaseID, "error", err)
	} else {
		stats.Apply(in)
	}

	suggestions, err := eng.discogs.PriceSuggestions(ctx, releaseID)
	if err != nil {
		eng.log.Debug("discogs suggestions unavailable", "item", item.ID, "release", releaseID, "error", err)
		return
	}
	in.DiscogsSuggested = discogs.PickSuggestion(item.MediaCondition, suggestions)
}

// resolveRelease returns the item's Discogs release. An unknown release is
// looked up through MusicBrainz URL relations first, then the Discogs
// search, and cached on the item.
func (eng *Engine) resolveRelease(ctx context.Context, item *domain.Item) (int, bool) {
	if item.DiscogsReleaseID != nil && *item.DiscogsReleaseID > 0 {
		return *item.DiscogsReleaseID, true
	}

	id, ok := eng.releaseFromMusicBrainz(ctx, item)
	if !ok {
		rel, err := eng.discogs.SearchRelease(ctx, discogs.SearchRequest{
			Artist:  item.Artist,
			Title:   item.Title,
			Country: item.Country,
			Catalog: item.Catalog,
			Year:    item.Year,
		})
		if err != nil {
			if errors.Is(err, discogs.ErrNotFound) {
				eng.log.Info("no discogs release", "item", item.ID, "query", item.SearchQuery())
			} else {
				eng.log.Warn("discogs search failed", "item", item.ID, "error", err)
			}
			return 0, false
		}
		id = rel.ID
	}

	item.DiscogsReleaseID = &id
	if err := eng.store.SetDiscogsRelease(ctx, item.ID, id); err != nil {
		eng.log.Warn("caching discogs release failed", "item", item.ID, "release", id, "error", err)
	}
	return id, true
}

// releaseFromMusicBrainz finds the item on MusicBrainz and follows the
// chosen release's Discogs link. Any failure falls back to the Discogs
// search.
func (eng *Engine) releaseFromMusicBrainz(ctx context.Context, item *domain.Item) (int, bool) {
	if eng.mb == nil {
		return 0, false
	}

	ctx, span := eng.tracer.Start(ctx, "engine.releaseFromMusicBrainz")
	defer span.End()

	req := musicbrainz.SearchRequest{
		Artist:  item.Artist,
		Title:   item.Title,
		Catalog: item.Catalog,
		Label:   item.Label,
		Country: item.Country,
		Year:    item.Year,
		Format:  item.Format,
	}
	candidates, err := eng.mb.SearchReleases(ctx, req)
	if err != nil {
		if !errors.Is(err, musicbrainz.ErrNotFound) {
			eng.log.Warn("musicbrainz search failed", "item", item.ID, "error", err)
		}
		return 0, false
	}

	match := musicbrainz.Pick(candidates, req)
	if match == nil {
		return 0, false
	}
	span.SetAttributes(attribute.String("musicbrainz.release_id", match.ID))

	rel, err := eng.mb.LookupRelease(ctx, match.ID)
	if err != nil {
		eng.log.Warn("musicbrainz lookup failed", "item", item.ID, "mbid", match.ID, "error", err)
		return 0, false
	}

	id, ok := rel.DiscogsReleaseID()
	if !ok {
		eng.log.Debug("musicbrainz release has no discogs link", "item", item.ID, "mbid", match.ID)
		return 0, false
	}
	eng.log.Info("discogs release from musicbrainz", "item", item.ID, "mbid", match.ID, "release", id)
	return id, true
}

// PriceItem gathers signals for item, prices it and stores the decision.
// The only error is a persistence failure, after which the item is marked
// failed.
func (eng *Engine) PriceItem(ctx context.Context, item *domain.Item) (*domain.PricingRecord, error) {
	ctx, span := eng.tracer.Start(ctx, "engine.PriceItem",
		trace.WithAttributes(attribute.String("item.id", item.ID)),
	)
	defer span.End()

	in := eng.Gather(ctx, item)
	res := eng.pricer.Compute(&in)
	eng.observe(ctx, res)

	span.SetAttributes(
		attribute.String("pricing.strategy", string(res.Strategy)),
		attribute.Float64("pricing.final_price", res.FinalPrice),
	)

	signals, err := json.Marshal(in)
	if err != nil {
		eng.log.Warn("encoding signals failed", "item", item.ID, "error", err)
		signals = nil
	}

	rec := &domain.PricingRecord{
		ItemID:     item.ID,
		FinalPrice: res.FinalPrice,
		Strategy:   res.Strategy,
		Notes:      res.Notes,
		Signals:    signals,
	}

	if err := eng.store.SavePricing(ctx, rec); err != nil {
		metrics.PricingItemErrorsTotal.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "saving pricing")
		if markErr := eng.store.MarkItemFailed(ctx, item.ID); markErr != nil {
			eng.log.Error("marking item failed", "item", item.ID, "error", markErr)
		}
		return nil, fmt.Errorf("saving pricing for item %s: %w", item.ID, err)
	}

	eng.log.Info("item priced",
		"item", item.ID,
		"artist", item.Artist,
		"title", item.Title,
		"price", res.FinalPrice,
		"strategy", res.Strategy,
	)
	return rec, nil
}

func (eng *Engine) observe(ctx context.Context, res pricing.Result) {
	metrics.PricingDecisionsTotal.WithLabelValues(string(res.Strategy)).Inc()
	metrics.PricingFinalPrice.Observe(res.FinalPrice)
	if res.Overridden() {
		metrics.PricingReferenceOverridesTotal.Inc()
	}
	if eng.decisions != nil {
		eng.decisions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("strategy", string(res.Strategy)),
		))
	}
}

// RunPending prices the next batch of never-priced items and returns how
// many were priced.
func (eng *Engine) RunPending(ctx context.Context) (int, error) {
	return eng.runJob(ctx, JobPricePending, func(ctx context.Context) ([]domain.Item, error) {
		return eng.store.ListPendingItems(ctx, eng.batchSize)
	})
}

// RunRefresh re-prices the next batch of items whose latest pricing is older
// than the refresh age.
func (eng *Engine) RunRefresh(ctx context.Context) (int, error) {
	return eng.runJob(ctx, JobRefreshStale, func(ctx context.Context) ([]domain.Item, error) {
		return eng.store.ListStaleItems(ctx, eng.refreshAfter, eng.batchSize)
	})
}

// SyncQuota refreshes the marketplace quota gauges.
func (eng *Engine) SyncQuota(ctx context.Context) error {
	if eng.quota == nil {
		return nil
	}
	q, err := eng.quota.GetBrowseQuota(ctx)
	if err != nil {
		return fmt.Errorf("fetching browse quota: %w", err)
	}
	ebay.RecordQuota(q)
	return nil
}

// RecoverStaleRuns marks job runs left running by a crashed process.
func (eng *Engine) RecoverStaleRuns(ctx context.Context, olderThan time.Duration) {
	n, err := eng.store.RecoverStaleJobRuns(ctx, olderThan)
	if err != nil {
		eng.log.Error("recovering stale job runs", "error", err)
		return
	}
	if n > 0 {
		eng.log.Warn("marked stale job runs as crashed", "count", n)
	}
}

func (eng *Engine) runJob(
	ctx context.Context,
	job string,
	load func(context.Context) ([]domain.Item, error),
) (int, error) {
	runID, err := eng.store.InsertJobRun(ctx, job)
	if err != nil {
		eng.log.Warn("recording job start failed", "job", job, "error", err)
	}

	priced, runErr := eng.runBatch(ctx, job, load)

	if runID != "" {
		status, errText := "succeeded", ""
		if runErr != nil {
			status, errText = "failed", runErr.Error()
		}
		// The job context may already be canceled.
		if err := eng.store.CompleteJobRun(context.WithoutCancel(ctx), runID, status, errText, priced); err != nil {
			eng.log.Warn("recording job completion failed", "job", job, "error", err)
		}
	}

	return priced, runErr
}

func (eng *Engine) runBatch(
	ctx context.Context,
	job string,
	load func(context.Context) ([]domain.Item, error),
) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RepriceDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
	}()

	items, err := load(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading items: %w", err)
	}
	if len(items) == 0 {
		eng.log.Debug("no items to price", "job", job)
		return 0, nil
	}

	report := &notify.RunReport{Job: job}

	for i := range items {
		if ctx.Err() != nil {
			return report.Priced, ctx.Err()
		}

		item := &items[i]
		rec, err := eng.PriceItem(ctx, item)
		if err != nil {
			eng.log.Error("pricing item failed", "job", job, "item", item.ID, "error", err)
			report.Failed++
			continue
		}

		report.Priced++
		report.Lines = append(report.Lines, notify.PricedLine{
			Artist:   item.Artist,
			Title:    item.Title,
			Price:    rec.FinalPrice,
			Strategy: rec.Strategy,
		})
	}

	metrics.RepriceItemsTotal.WithLabelValues(job).Add(float64(report.Priced))
	report.Duration = time.Since(start)

	eng.log.Info("batch complete",
		"job", job,
		"priced", report.Priced,
		"failed", report.Failed,
		"duration", report.Duration,
	)

	summary, err := eng.store.Summary(ctx)
	if err != nil {
		eng.log.Warn("building run summary failed", "job", job, "error", err)
	} else {
		report.Summary = summary
	}

	if err := eng.notifier.SendRunReport(ctx, report); err != nil {
		eng.log.Error("sending run report failed", "job", job, "error", err)
	}

	return report.Priced, nil
}
