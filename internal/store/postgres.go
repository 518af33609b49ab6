package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if !strings.Contains(connString, "pool_max_conns") {
		cfg.MaxConns = defaultPoolSize
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

func itemArgs(item *domain.Item) pgx.NamedArgs {
	comps := item.SoldComps
	if comps == nil {
		comps = []pricing.Listing{}
	}
	return pgx.NamedArgs{
		"id":                 item.ID,
		"artist":             item.Artist,
		"title":              item.Title,
		"label":              item.Label,
		"catalog":            item.Catalog,
		"country":            item.Country,
		"year":               item.Year,
		"format":             item.Format,
		"media_condition":    item.MediaCondition,
		"sleeve_condition":   item.SleeveCondition,
		"reference_price":    item.ReferencePrice,
		"comparable_price":   item.ComparablePrice,
		"discogs_release_id": item.DiscogsReleaseID,
		"sold_comps":         comps,
	}
}

// CreateItem inserts a new pending item and fills in its generated fields.
func (s *PostgresStore) CreateItem(ctx context.Context, item *domain.Item) error {
	err := s.pool.QueryRow(ctx, queryInsertItem, itemArgs(item)).Scan(
		&item.ID, &item.Status, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	return nil
}

// GetItem returns a single item by ID.
func (s *PostgresStore) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	row := s.pool.QueryRow(ctx, queryGetItem, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns a filtered page of items and the total matching count.
func (s *PostgresStore) ListItems(
	ctx context.Context,
	q *ItemQuery,
) ([]domain.Item, int, error) {
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting items: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateItem replaces an item's descriptive fields and returns it to pending.
func (s *PostgresStore) UpdateItem(ctx context.Context, item *domain.Item) error {
	err := s.pool.QueryRow(ctx, queryUpdateItem, itemArgs(item)).Scan(
		&item.Status, &item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("item %s: %w", item.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes an item and its pricing history.
func (s *PostgresStore) DeleteItem(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteItem, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListPendingItems returns the oldest items that have never been priced.
func (s *PostgresStore) ListPendingItems(ctx context.Context, limit int) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx, queryListPendingItems, limit)
	if err != nil {
		return nil, fmt.Errorf("querying pending items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListStaleItems returns priced or failed items last priced before now-olderThan.
func (s *PostgresStore) ListStaleItems(
	ctx context.Context,
	olderThan time.Duration,
	limit int,
) ([]domain.Item, error) {
	cutoff := time.Now().Add(-olderThan)

	rows, err := s.pool.Query(ctx, queryListStaleItems, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("querying stale items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// SetDiscogsRelease caches a resolved Discogs release on the item.
func (s *PostgresStore) SetDiscogsRelease(ctx context.Context, itemID string, releaseID int) error {
	if _, err := s.pool.Exec(ctx, querySetDiscogsRelease, itemID, releaseID); err != nil {
		return fmt.Errorf("setting discogs release: %w", err)
	}
	return nil
}

// MarkItemFailed flags an item whose pricing could not be stored.
func (s *PostgresStore) MarkItemFailed(ctx context.Context, itemID string) error {
	if _, err := s.pool.Exec(ctx, queryMarkItemFailed, itemID); err != nil {
		return fmt.Errorf("marking item failed: %w", err)
	}
	return nil
}

// SavePricing inserts a pricing record and marks its item priced in one
// transaction.
func (s *PostgresStore) SavePricing(ctx context.Context, rec *domain.PricingRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	signals := rec.Signals
	if len(signals) == 0 {
		signals = []byte("{}")
	}

	err = tx.QueryRow(ctx, queryInsertPricing, pgx.NamedArgs{
		"item_id":     rec.ItemID,
		"final_price": rec.FinalPrice,
		"strategy":    string(rec.Strategy),
		"notes":       rec.Notes,
		"signals":     string(signals),
	}).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting pricing: %w", err)
	}

	tag, err := tx.Exec(ctx, queryMarkItemPriced, pgx.NamedArgs{
		"item_id":    rec.ItemID,
		"pricing_id": rec.ID,
		"priced_at":  rec.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marking item priced: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", rec.ItemID, ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing pricing: %w", err)
	}
	return nil
}

// GetPricing returns a single pricing record by ID.
func (s *PostgresStore) GetPricing(ctx context.Context, id string) (*domain.PricingRecord, error) {
	rec, err := scanPricing(s.pool.QueryRow(ctx, queryGetPricing, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("pricing %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting pricing: %w", err)
	}
	return rec, nil
}

// ListPricings returns a filtered page of pricing history and the total count.
func (s *PostgresStore) ListPricings(
	ctx context.Context,
	q *PricingQuery,
) ([]domain.PricingRecord, int, error) {
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting pricings: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying pricings: %w", err)
	}
	defer rows.Close()

	var recs []domain.PricingRecord
	for rows.Next() {
		rec, err := scanPricing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning pricing: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating pricings: %w", err)
	}
	return recs, total, nil
}

// Summary counts items by status and totals the latest pricing of every item
// that has one. The final and reference totals cover the same items, so an
// item repriced to pending or failed still counts on both sides.
func (s *PostgresStore) Summary(ctx context.Context) (*domain.PricingSummary, error) {
	sum := &domain.PricingSummary{ByStrategy: make(map[pricing.Strategy]int)}

	err := s.pool.QueryRow(ctx, querySummaryCounts).Scan(
		&sum.TotalItems, &sum.PricedItems, &sum.PendingItems, &sum.FailedItems,
	)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}

	rows, err := s.pool.Query(ctx, querySummaryLatest)
	if err != nil {
		return nil, fmt.Errorf("querying strategy totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			strategy  string
			count     int
			final     float64
			reference float64
		)
		if err := rows.Scan(&strategy, &count, &final, &reference); err != nil {
			return nil, fmt.Errorf("scanning strategy total: %w", err)
		}
		sum.ByStrategy[pricing.Strategy(strategy)] = count
		sum.TotalFinalPrice += final
		sum.TotalReferencePrice += reference
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating strategy totals: %w", err)
	}

	sum.Difference = sum.TotalFinalPrice - sum.TotalReferencePrice
	return sum, nil
}

// InsertJobRun records the start of a scheduled job and returns its UUID.
func (s *PostgresStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertJobRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}
	return id, nil
}

// CompleteJobRun marks a job run as finished with the given status and metadata.
func (s *PostgresStore) CompleteJobRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	rowsAffected int,
) error {
	_, err := s.pool.Exec(ctx, queryCompleteJobRun, id, status, errText, rowsAffected)
	if err != nil {
		return fmt.Errorf("completing job run: %w", err)
	}
	return nil
}

// ListJobRuns returns the most recent runs for a specific job, newest first.
func (s *PostgresStore) ListJobRuns(
	ctx context.Context,
	jobName string,
	limit int,
) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListJobRuns, jobName, limit)
	if err != nil {
		return nil, fmt.Errorf("querying job runs: %w", err)
	}
	defer rows.Close()

	return scanJobRuns(rows)
}

// ListLatestJobRuns returns the single most recent run for each distinct job name.
func (s *PostgresStore) ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListLatestJobRuns)
	if err != nil {
		return nil, fmt.Errorf("querying latest job runs: %w", err)
	}
	defer rows.Close()

	return scanJobRuns(rows)
}

// RecoverStaleJobRuns marks any 'running' job rows older than olderThan as 'crashed',
// then deletes all rows older than 30 days. Returns the number of rows marked as crashed.
func (s *PostgresStore) RecoverStaleJobRuns(
	ctx context.Context,
	olderThan time.Duration,
) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	tag, err := s.pool.Exec(ctx, queryMarkStaleJobRunsCrashed, cutoff)
	if err != nil {
		return 0, fmt.Errorf("marking stale job runs crashed: %w", err)
	}
	affected := int(tag.RowsAffected())

	if _, err := s.pool.Exec(ctx, queryDeleteOldJobRuns); err != nil {
		return affected, fmt.Errorf("deleting old job runs: %w", err)
	}

	return affected, nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var (
		item   domain.Item
		status string
	)
	err := row.Scan(
		&item.ID, &item.Artist, &item.Title, &item.Label, &item.Catalog,
		&item.Country, &item.Year, &item.Format,
		&item.MediaCondition, &item.SleeveCondition,
		&item.ReferencePrice, &item.ComparablePrice,
		&item.DiscogsReleaseID, &item.SoldComps, &status, &item.LastPricedAt,
		&item.LastPricingID, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Status = domain.ItemStatus(status)
	return &item, nil
}

func scanItems(rows pgx.Rows) ([]domain.Item, error) {
	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanPricing(row pgx.Row) (*domain.PricingRecord, error) {
	var (
		rec      domain.PricingRecord
		strategy string
		signals  []byte
	)
	if err := row.Scan(
		&rec.ID, &rec.ItemID, &rec.FinalPrice, &strategy, &rec.Notes,
		&signals, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	rec.Strategy = pricing.Strategy(strategy)
	rec.Signals = signals
	return &rec, nil
}

func scanJobRuns(rows pgx.Rows) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	for rows.Next() {
		var r domain.JobRun
		if err := rows.Scan(
			&r.ID, &r.JobName, &r.StartedAt, &r.CompletedAt,
			&r.Status, &r.ErrorText, &r.RowsAffected,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
