package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printResult(w io.Writer, res *pricing.Result) error {
	tw := newTabWriter(w)
	tw.writef("Price:\t$%s\n", pricing.FormatPrice(res.FinalPrice))
	tw.writef("Strategy:\t%s\n", res.Strategy)
	tw.writef("Notes:\t%s\n", res.Notes)
	return tw.finish()
}

func printItemTable(w io.Writer, items []domain.Item) error {
	tw := newTabWriter(w)
	tw.writef("ID\tARTIST\tTITLE\tMEDIA\tREF\tSTATUS\n")
	for i := range items {
		it := &items[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ID,
			truncate(it.Artist, 24),
			truncate(it.Title, 32),
			dash(it.MediaCondition),
			optPrice(it.ReferencePrice),
			it.Status,
		)
	}
	return tw.finish()
}

func printItemDetail(w io.Writer, it *domain.Item) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", it.ID)
	tw.writef("Artist:\t%s\n", it.Artist)
	tw.writef("Title:\t%s\n", it.Title)
	tw.writef("Label:\t%s\n", dash(it.Label))
	tw.writef("Catalog:\t%s\n", dash(it.Catalog))
	tw.writef("Format:\t%s\n", dash(it.Format))
	tw.writef("Media:\t%s\n", dash(it.MediaCondition))
	tw.writef("Sleeve:\t%s\n", dash(it.SleeveCondition))
	tw.writef("Reference:\t%s\n", optPrice(it.ReferencePrice))
	tw.writef("Comparable:\t%s\n", optPrice(it.ComparablePrice))
	if it.DiscogsReleaseID != nil {
		tw.writef("Discogs Release:\t%d\n", *it.DiscogsReleaseID)
	}
	tw.writef("Status:\t%s\n", it.Status)
	if it.LastPricedAt != nil {
		tw.writef("Last Priced:\t%s\n", it.LastPricedAt.Format(timeLayout))
	}
	return tw.finish()
}

func printPricingTable(w io.Writer, recs []domain.PricingRecord) error {
	tw := newTabWriter(w)
	tw.writef("ID\tITEM\tPRICE\tSTRATEGY\tCREATED\tNOTES\n")
	for i := range recs {
		r := &recs[i]
		tw.writef("%s\t%s\t$%s\t%s\t%s\t%s\n",
			r.ID,
			r.ItemID,
			pricing.FormatPrice(r.FinalPrice),
			r.Strategy,
			r.CreatedAt.Format(timeLayout),
			truncate(r.Notes, 60),
		)
	}
	return tw.finish()
}

func printPricingDetail(w io.Writer, r *domain.PricingRecord) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", r.ID)
	tw.writef("Item:\t%s\n", r.ItemID)
	tw.writef("Price:\t$%s\n", pricing.FormatPrice(r.FinalPrice))
	tw.writef("Strategy:\t%s\n", r.Strategy)
	tw.writef("Notes:\t%s\n", r.Notes)
	tw.writef("Created:\t%s\n", r.CreatedAt.Format(timeLayout))
	tw.writef("Signals:\t%s\n", string(r.Signals))
	return tw.finish()
}

func printSummary(w io.Writer, s *domain.PricingSummary) error {
	tw := newTabWriter(w)
	tw.writef("Items:\t%d\n", s.TotalItems)
	tw.writef("Priced:\t%d\n", s.PricedItems)
	tw.writef("Pending:\t%d\n", s.PendingItems)
	tw.writef("Failed:\t%d\n", s.FailedItems)
	tw.writef("Total Price:\t$%s\n", pricing.FormatPrice(s.TotalFinalPrice))
	tw.writef("Reference Total:\t$%s\n", pricing.FormatPrice(s.TotalReferencePrice))
	tw.writef("Difference:\t$%s\n", pricing.FormatPrice(s.Difference))

	codes := make([]string, 0, len(s.ByStrategy))
	for code := range s.ByStrategy {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)
	for _, code := range codes {
		tw.writef("  %s:\t%d\n", code, s.ByStrategy[pricing.Strategy(code)])
	}
	return tw.finish()
}

func printJobRunsTable(w io.Writer, runs []domain.JobRun) error {
	tw := newTabWriter(w)
	tw.writef("JOB\tSTATUS\tSTARTED\tCOMPLETED\tROWS\tERROR\n")
	for i := range runs {
		r := &runs[i]
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format(timeLayout)
		}
		rows := "-"
		if r.RowsAffected != nil {
			rows = fmt.Sprintf("%d", *r.RowsAffected)
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			r.JobName,
			r.Status,
			r.StartedAt.Format(timeLayout),
			completed,
			rows,
			truncate(r.ErrorText, 40),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return "$" + pricing.FormatPrice(*p)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
