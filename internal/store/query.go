package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

const baseItemsSelect = `SELECT id, artist, title, label, catalog, country, year, format,
	media_condition, sleeve_condition, reference_price::float8, comparable_price::float8,
	discogs_release_id, sold_comps, status, last_priced_at,
	COALESCE(last_pricing_id::text, ''), created_at, updated_at
FROM items`

const countItemsSelect = "SELECT COUNT(*) FROM items"

const basePricingsSelect = `SELECT id, item_id, final_price::float8, strategy, notes, signals, created_at
FROM pricings`

const countPricingsSelect = "SELECT COUNT(*) FROM pricings"

// ToSQL builds the data and count queries for an item listing along with
// their positional parameters.
func (q *ItemQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", paramIdx))
		args = append(args, string(q.Status))
		paramIdx++
	}

	if s := strings.TrimSpace(q.Search); s != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(artist ILIKE $%d OR title ILIKE $%d OR catalog ILIKE $%d)",
			paramIdx, paramIdx, paramIdx,
		))
		args = append(args, "%"+s+"%")
	}

	whereClause := where(conditions)
	limit, offset := page(q.Limit, q.Offset)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		baseItemsSelect, whereClause, limit, offset,
	)
	countSQL = countItemsSelect + whereClause

	return dataSQL, countSQL, args
}

// ToSQL builds the data and count queries for pricing history along with
// their positional parameters.
func (q *PricingQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.ItemID != "" {
		conditions = append(conditions, fmt.Sprintf("item_id = $%d", paramIdx))
		args = append(args, q.ItemID)
		paramIdx++
	}

	if q.Strategy != "" {
		conditions = append(conditions, fmt.Sprintf("strategy = $%d", paramIdx))
		args = append(args, string(q.Strategy))
	}

	whereClause := where(conditions)
	limit, offset := page(q.Limit, q.Offset)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		basePricingsSelect, whereClause, limit, offset,
	)
	countSQL = countPricingsSelect + whereClause

	return dataSQL, countSQL, args
}

func where(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

// page clamps limit into (0, maxLimit] and offset to non-negative.
func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, max(offset, 0)
}
