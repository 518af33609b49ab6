package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

// ItemRequest contains the fields the API accepts for create and update.
type ItemRequest struct {
	Artist          string            `json:"artist,omitempty"             yaml:"artist"`
	Title           string            `json:"title,omitempty"              yaml:"title"`
	Label           string            `json:"label,omitempty"              yaml:"label"`
	Catalog         string            `json:"catalog,omitempty"            yaml:"catalog"`
	Country         string            `json:"country,omitempty"            yaml:"country"`
	Year            int               `json:"year,omitempty"               yaml:"year"`
	Format          string            `json:"format,omitempty"             yaml:"format"`
	MediaCondition  string            `json:"media_condition,omitempty"    yaml:"media_condition"`
	SleeveCondition string            `json:"sleeve_condition,omitempty"   yaml:"sleeve_condition"`
	ReferencePrice  *float64          `json:"reference_price,omitempty"    yaml:"reference_price"`
	ComparablePrice *float64          `json:"comparable_price,omitempty"   yaml:"comparable_price"`
	ReleaseID       *int              `json:"discogs_release_id,omitempty" yaml:"discogs_release_id"`
	SoldComps       []pricing.Listing `json:"sold_comps,omitempty"         yaml:"sold_comps"`
}

// ListItemsParams filters ListItems.
type ListItemsParams struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// ItemsResponse is a page of items.
type ItemsResponse struct {
	Items  []domain.Item `json:"items"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// CreateItem stores a new pending item.
func (c *Client) CreateItem(ctx context.Context, req *ItemRequest) (*domain.Item, error) {
	var item domain.Item
	if err := c.post(ctx, "/api/v1/items", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItem returns a single item by ID.
func (c *Client) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	var item domain.Item
	if err := c.get(ctx, "/api/v1/items/"+url.PathEscape(id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns a filtered page of items.
func (c *Client) ListItems(ctx context.Context, p *ListItemsParams) (*ItemsResponse, error) {
	q := url.Values{}
	if p != nil {
		if p.Status != "" {
			q.Set("status", p.Status)
		}
		if p.Search != "" {
			q.Set("q", p.Search)
		}
		if p.Limit > 0 {
			q.Set("limit", strconv.Itoa(p.Limit))
		}
		if p.Offset > 0 {
			q.Set("offset", strconv.Itoa(p.Offset))
		}
	}

	path := "/api/v1/items"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ItemsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateItem replaces an item's fields.
func (c *Client) UpdateItem(ctx context.Context, id string, req *ItemRequest) (*domain.Item, error) {
	var item domain.Item
	if err := c.put(ctx, "/api/v1/items/"+url.PathEscape(id), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/items/"+url.PathEscape(id), nil)
}

// PriceItem prices an item now and returns the stored decision.
func (c *Client) PriceItem(ctx context.Context, id string) (*domain.PricingRecord, error) {
	var rec domain.PricingRecord
	if err := c.post(ctx, "/api/v1/items/"+url.PathEscape(id)+"/price", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
