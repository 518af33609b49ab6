package ebay

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	defaultMaxPages = 3
)

// Paginator walks eBay search result pages.
type Paginator struct {
	client   Searcher
	logger   *slog.Logger
	pageSize int
	maxPages int
}

// PaginatorOption configures the Paginator.
type PaginatorOption func(*Paginator)

// WithPageSize overrides the default page size.
func WithPageSize(size int) PaginatorOption {
	return func(p *Paginator) {
		p.pageSize = size
	}
}

// WithMaxPages overrides the default max pages.
func WithMaxPages(n int) PaginatorOption {
	return func(p *Paginator) {
		p.maxPages = n
	}
}

// WithPaginatorLogger sets the logger.
func WithPaginatorLogger(l *slog.Logger) PaginatorOption {
	return func(p *Paginator) {
		p.logger = l
	}
}

// NewPaginator creates a new Paginator.
func NewPaginator(client Searcher, opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		client:   client,
		logger:   slog.Default(),
		pageSize: defaultPageSize,
		maxPages: defaultMaxPages,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.pageSize <= 0 {
		p.pageSize = defaultPageSize
	}
	if p.maxPages <= 0 {
		p.maxPages = defaultMaxPages
	}
	return p
}

// CollectResult holds the items gathered by Collect.
type CollectResult struct {
	Items     []ItemSummary
	PagesUsed int
	StoppedAt string // "limit", "max_pages", "no_more_results"
}

// Collect fetches pages for req until limit items are gathered, eBay has no
// more results, or the page cap is reached. A limit <= 0 means no item cap.
// An error on a later page returns the items already gathered with it.
func (p *Paginator) Collect(ctx context.Context, req SearchRequest, limit int) (*CollectResult, error) {
	req.Limit = p.pageSize
	result := &CollectResult{}

	for page := range p.maxPages {
		req.Offset = page * p.pageSize

		resp, err := p.client.Search(ctx, req)
		if err != nil {
			return result, fmt.Errorf("searching page %d: %w", page, err)
		}
		result.PagesUsed++

		for i := range resp.Items {
			result.Items = append(result.Items, resp.Items[i])
			if limit > 0 && len(result.Items) >= limit {
				result.StoppedAt = "limit"
				return result, nil
			}
		}

		if len(resp.Items) == 0 || !resp.HasMore {
			result.StoppedAt = "no_more_results"
			return result, nil
		}
	}

	p.logger.Debug("search stopped at page cap",
		"query", req.Query, "pages", result.PagesUsed, "items", len(result.Items))
	result.StoppedAt = "max_pages"
	return result, nil
}
