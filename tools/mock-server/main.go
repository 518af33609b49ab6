// Package main implements a mock eBay and Discogs API server for local
// development. It serves vinyl fixtures for the eBay Browse, OAuth and
// Analytics endpoints and the Discogs search and marketplace endpoints, so
// the pricing cascade can run end to end without real credentials.
package main

import (
	"embed"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/donaldgifford/vinyl-pricer/internal/discogs"
	"github.com/donaldgifford/vinyl-pricer/internal/ebay"
)

//go:embed testdata/*.json
var fixtures embed.FS

const dailyLimit = 5000

type browseAPIResponse struct {
	ItemSummaries []ebay.ItemSummary `json:"itemSummaries"`
	Total         int                `json:"total"`
	Offset        int                `json:"offset"`
	Limit         int                `json:"limit"`
	Next          string             `json:"next,omitempty"`
}

// discogsFixture is one catalog entry. Stats or suggestions may be absent.
type discogsFixture struct {
	Release     discogs.Release           `json:"release"`
	Stats       *discogs.MarketplaceStats `json:"stats,omitempty"`
	Suggestions discogs.PriceSuggestions  `json:"suggestions,omitempty"`
}

type server struct {
	logger   *slog.Logger
	listings *browseAPIResponse
	releases []discogsFixture
	start    time.Time

	// searches counts Browse calls so the Analytics endpoint reports a
	// consistent remaining quota.
	searches atomic.Int64
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	ebayFile := flag.String("ebay-fixture", "", "override the eBay search fixture")
	discogsFile := flag.String("discogs-fixture", "", "override the Discogs release fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	srv, err := newServer(logger, *ebayFile, *discogsFile)
	if err != nil {
		logger.Error("failed to load fixtures", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixtures",
		"listings", len(srv.listings.ItemSummaries),
		"releases", len(srv.releases),
	)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock market server", "addr", addr)

	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, srv.routes()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newServer(logger *slog.Logger, ebayFile, discogsFile string) (*server, error) {
	var listings browseAPIResponse
	if err := loadFixture(ebayFile, "testdata/ebay_search.json", &listings); err != nil {
		return nil, err
	}
	var releases []discogsFixture
	if err := loadFixture(discogsFile, "testdata/discogs_releases.json", &releases); err != nil {
		return nil, err
	}
	return &server{
		logger:   logger,
		listings: &listings,
		releases: releases,
		start:    time.Now(),
	}, nil
}

// loadFixture decodes override when set, otherwise the embedded fallback.
func loadFixture(override, fallback string, out any) error {
	var (
		data []byte
		err  error
	)
	if override != "" {
		data, err = os.ReadFile(override) //nolint:gosec // fixture path from trusted CLI flag
	} else {
		data, err = fixtures.ReadFile(fallback)
	}
	if err != nil {
		return fmt.Errorf("reading fixture: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing fixture: %w", err)
	}
	return nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /identity/v1/oauth2/token", s.token)
	mux.HandleFunc("GET /buy/browse/v1/item_summary/search", s.browseSearch)
	mux.HandleFunc("GET /developer/analytics/v1_beta/rate_limit/", s.rateLimit)
	mux.HandleFunc("GET /database/search", s.discogsSearch)
	mux.HandleFunc("GET /marketplace/stats/{id}", s.discogsStats)
	mux.HandleFunc("GET /marketplace/price_suggestions/{id}", s.discogsSuggestions)
	return mux
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func (s *server) token(w http.ResponseWriter, r *http.Request) {
	// Basic Auth must be present; credentials are not checked.
	if _, _, ok := r.BasicAuth(); !ok {
		s.logger.Warn("token request missing Basic Auth header")
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":             "invalid_client",
			"error_description": "client authentication failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": "mock-token-v1-" + strconv.FormatInt(int64(os.Getpid()), 16),
		"expires_in":   7200,
		"token_type":   "Application Access Token",
	})
	s.logger.Info("issued mock token")
}

func queryInt(r *http.Request, key string, def, lowest int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && v >= lowest {
		return v
	}
	return def
}

// matches reports whether every whitespace separated term of q appears in
// text. An empty query matches everything.
func matches(text, q string) bool {
	text = strings.ToLower(text)
	for _, term := range strings.Fields(strings.ToLower(q)) {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

func (s *server) browseSearch(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
		return
	}
	used := s.searches.Add(1)
	if used > dailyLimit {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "daily call limit exceeded"})
		return
	}

	q := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 50, 1)
	offset := queryInt(r, "offset", 0, 0)

	var matched []ebay.ItemSummary
	for _, item := range s.listings.ItemSummaries {
		if matches(item.Title, q) {
			matched = append(matched, item)
		}
	}
	total := len(matched)

	if offset >= len(matched) {
		matched = []ebay.ItemSummary{}
	} else {
		matched = matched[offset:min(offset+limit, len(matched))]
	}

	next := ""
	if offset+limit < total {
		next = fmt.Sprintf("/buy/browse/v1/item_summary/search?q=%s&offset=%d&limit=%d",
			q, offset+limit, limit)
	}

	writeJSON(w, http.StatusOK, browseAPIResponse{
		ItemSummaries: matched,
		Total:         total,
		Offset:        offset,
		Limit:         limit,
		Next:          next,
	})
	s.logger.Info("browse search", "query", q, "matched", total, "returned", len(matched))
}

func (s *server) rateLimit(w http.ResponseWriter, _ *http.Request) {
	used := min(s.searches.Load(), dailyLimit)
	reset := s.start.Add(24 * time.Hour).UTC().Format(time.RFC3339)

	writeJSON(w, http.StatusOK, map[string]any{
		"rateLimits": []map[string]any{{
			"apiContext": "buy",
			"apiName":    "Browse",
			"apiVersion": "v1",
			"resources": []map[string]any{{
				"name": "buy.browse",
				"rates": []map[string]any{{
					"count":      used,
					"limit":      dailyLimit,
					"remaining":  dailyLimit - used,
					"reset":      reset,
					"timeWindow": 86400,
				}},
			}},
		}},
	})
}

func (s *server) discogsSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	catno := r.URL.Query().Get("catno")

	results := []discogs.Release{}
	for _, f := range s.releases {
		if !matches(f.Release.Title, q) {
			continue
		}
		if catno != "" && !strings.EqualFold(f.Release.CatNo, catno) {
			continue
		}
		results = append(results, f.Release)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pagination": map[string]int{"page": 1, "pages": 1, "items": len(results)},
		"results":    results,
	})
	s.logger.Info("discogs search", "query", q, "catno", catno, "matched", len(results))
}

func (s *server) release(w http.ResponseWriter, r *http.Request) (*discogsFixture, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Release not found."})
		return nil, false
	}
	for i := range s.releases {
		if s.releases[i].Release.ID == id {
			return &s.releases[i], true
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Release not found."})
	return nil, false
}

func (s *server) discogsStats(w http.ResponseWriter, r *http.Request) {
	f, ok := s.release(w, r)
	if !ok {
		return
	}
	stats := f.Stats
	if stats == nil {
		stats = &discogs.MarketplaceStats{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *server) discogsSuggestions(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Discogs token=") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"message": "You must authenticate to access this resource.",
		})
		return
	}
	f, ok := s.release(w, r)
	if !ok {
		return
	}
	suggestions := f.Suggestions
	if suggestions == nil {
		suggestions = discogs.PriceSuggestions{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}
