// Package domain defines the core business types for the vinyl pricer.
package domain

import (
	"encoding/json"
	"time"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

// ItemStatus tracks where an item is in the pricing pipeline.
type ItemStatus string

// Item status constants.
const (
	ItemPending ItemStatus = "pending"
	ItemPriced  ItemStatus = "priced"
	ItemFailed  ItemStatus = "failed"
)

// Item is one record awaiting a storefront price, typically a row from the
// inventory spreadsheet.
type Item struct {
	ID      string `json:"id"                db:"id"`
	Artist  string `json:"artist"            db:"artist"`
	Title   string `json:"title"             db:"title"`
	Label   string `json:"label,omitempty"   db:"label"`
	Catalog string `json:"catalog,omitempty" db:"catalog"`
	Country string `json:"country,omitempty" db:"country"`
	Year    int    `json:"year,omitempty"    db:"year"`
	Format  string `json:"format,omitempty"  db:"format"`

	MediaCondition  string `json:"media_condition,omitempty"  db:"media_condition"`
	SleeveCondition string `json:"sleeve_condition,omitempty" db:"sleeve_condition"`

	ReferencePrice  *float64 `json:"reference_price,omitempty"  db:"reference_price"`
	ComparablePrice *float64 `json:"comparable_price,omitempty" db:"comparable_price"`

	DiscogsReleaseID *int              `json:"discogs_release_id,omitempty" db:"discogs_release_id"`
	SoldComps        []pricing.Listing `json:"sold_comps,omitempty"         db:"sold_comps"`

	Status        ItemStatus `json:"status"                    db:"status"`
	LastPricedAt  *time.Time `json:"last_priced_at,omitempty"  db:"last_priced_at"`
	LastPricingID string     `json:"last_pricing_id,omitempty" db:"last_pricing_id"`
	CreatedAt     time.Time  `json:"created_at"                db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"                db:"updated_at"`
}

// SearchQuery returns the free-text query used against catalog and
// marketplace search when no release ID is known.
func (i *Item) SearchQuery() string {
	q := i.Artist
	if i.Title != "" {
		if q != "" {
			q += " "
		}
		q += i.Title
	}
	return q
}

// BaseInput returns the pricing input carried by the item itself, before
// any external signals are attached.
func (i *Item) BaseInput() pricing.Input {
	return pricing.Input{
		FormatType:      i.Format,
		MediaCondition:  i.MediaCondition,
		ReferencePrice:  i.ReferencePrice,
		ComparablePrice: i.ComparablePrice,
		Sold:            i.SoldComps,
	}
}

// PricingRecord is one stored pricing decision and the signals it was
// made from.
type PricingRecord struct {
	ID         string           `json:"id"            db:"id"`
	ItemID     string           `json:"item_id"       db:"item_id"`
	FinalPrice float64          `json:"final_price"   db:"final_price"`
	Strategy   pricing.Strategy `json:"strategy_code" db:"strategy"`
	Notes      string           `json:"notes"         db:"notes"`
	Signals    json.RawMessage  `json:"signals"       db:"signals"`
	CreatedAt  time.Time        `json:"created_at"    db:"created_at"`
}

// JobRun records a single execution of a scheduled job.
type JobRun struct {
	ID           string     `json:"id"                      db:"id"`
	JobName      string     `json:"job_name"                db:"job_name"`
	StartedAt    time.Time  `json:"started_at"              db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"  db:"completed_at"`
	Status       string     `json:"status"                  db:"status"`
	ErrorText    string     `json:"error_text,omitempty"    db:"error_text"`
	RowsAffected *int       `json:"rows_affected,omitempty" db:"rows_affected"`
}

// PricingSummary aggregates the latest pricing of every item.
type PricingSummary struct {
	TotalItems          int                      `json:"total_items"`
	PricedItems         int                      `json:"priced_items"`
	PendingItems        int                      `json:"pending_items"`
	FailedItems         int                      `json:"failed_items"`
	TotalFinalPrice     float64                  `json:"total_final_price"`
	TotalReferencePrice float64                  `json:"total_reference_price"`
	Difference          float64                  `json:"difference"`
	ByStrategy          map[pricing.Strategy]int `json:"by_strategy"`
}
