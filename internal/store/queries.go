package store

// SQL query constants for PostgresStore.
const (
	// Items.
	queryInsertItem = `
		INSERT INTO items (
			artist, title, label, catalog, country, year, format,
			media_condition, sleeve_condition, reference_price, comparable_price,
			discogs_release_id, sold_comps
		) VALUES (
			@artist, @title, @label, @catalog, @country, @year, @format,
			@media_condition, @sleeve_condition, @reference_price, @comparable_price,
			@discogs_release_id, @sold_comps
		)
		RETURNING id, status, created_at, updated_at`

	queryGetItem = baseItemsSelect + `
		WHERE id = $1`

	queryUpdateItem = `
		UPDATE items SET
			artist             = @artist,
			title              = @title,
			label              = @label,
			catalog            = @catalog,
			country            = @country,
			year               = @year,
			format             = @format,
			media_condition    = @media_condition,
			sleeve_condition   = @sleeve_condition,
			reference_price    = @reference_price,
			comparable_price   = @comparable_price,
			discogs_release_id = @discogs_release_id,
			sold_comps         = @sold_comps,
			status             = 'pending',
			updated_at         = now()
		WHERE id = @id
		RETURNING status, updated_at`

	queryDeleteItem = `DELETE FROM items WHERE id = $1`

	queryListPendingItems = baseItemsSelect + `
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1`

	queryListStaleItems = baseItemsSelect + `
		WHERE status <> 'pending'
		  AND (last_priced_at IS NULL OR last_priced_at < $1)
		ORDER BY last_priced_at ASC NULLS FIRST
		LIMIT $2`

	querySetDiscogsRelease = `
		UPDATE items SET discogs_release_id = $2, updated_at = now()
		WHERE id = $1`

	queryMarkItemFailed = `
		UPDATE items SET status = 'failed', updated_at = now()
		WHERE id = $1`

	// Pricings.
	queryInsertPricing = `
		INSERT INTO pricings (item_id, final_price, strategy, notes, signals)
		VALUES (@item_id, @final_price, @strategy, @notes, @signals)
		RETURNING id, created_at`

	queryMarkItemPriced = `
		UPDATE items SET
			status          = 'priced',
			last_priced_at  = @priced_at,
			last_pricing_id = @pricing_id,
			updated_at      = now()
		WHERE id = @item_id`

	queryGetPricing = basePricingsSelect + `
		WHERE id = $1`

	querySummaryCounts = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'priced'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM items`

	// Both totals range over the same rows: items with a latest pricing.
	querySummaryLatest = `
		SELECT
			p.strategy,
			COUNT(*),
			COALESCE(SUM(p.final_price), 0)::float8,
			COALESCE(SUM(i.reference_price), 0)::float8
		FROM items i
		JOIN pricings p ON p.id = i.last_pricing_id
		GROUP BY p.strategy`

	// Job runs.
	queryInsertJobRun = `
		INSERT INTO job_runs (job_name)
		VALUES ($1)
		RETURNING id`

	queryCompleteJobRun = `
		UPDATE job_runs SET
			completed_at  = now(),
			status        = $2,
			error_text    = $3,
			rows_affected = $4
		WHERE id = $1`

	queryListJobRuns = `
		SELECT id, job_name, started_at, completed_at, status,
			COALESCE(error_text, ''), rows_affected
		FROM job_runs
		WHERE job_name = $1
		ORDER BY started_at DESC
		LIMIT $2`

	queryListLatestJobRuns = `
		SELECT DISTINCT ON (job_name)
			id, job_name, started_at, completed_at, status,
			COALESCE(error_text, ''), rows_affected
		FROM job_runs
		ORDER BY job_name, started_at DESC`

	queryMarkStaleJobRunsCrashed = `
		UPDATE job_runs SET
			status       = 'crashed',
			completed_at = now()
		WHERE status = 'running' AND started_at < $1`

	queryDeleteOldJobRuns = `
		DELETE FROM job_runs WHERE started_at < now() - interval '30 days'`
)
