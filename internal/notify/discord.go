package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/donaldgifford/vinyl-pricer/internal/metrics"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

const (
	colorGreen  = 0x2ECC71 // no failures
	colorYellow = 0xF1C40F // some failures
	colorOrange = 0xE67E22 // nothing priced

	maxReportLines = 10
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendRunReport sends a run report as a single Discord embed.
func (d *DiscordNotifier) SendRunReport(ctx context.Context, report *RunReport) error {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	}()

	payload := discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(report)},
	}
	if err := d.post(ctx, payload); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return err
	}
	return nil
}

func buildEmbed(report *RunReport) discordEmbed {
	embed := discordEmbed{
		Title: fmt.Sprintf("Pricing run: %s", report.Job),
		Color: reportColor(report),
		Fields: []discordEmbedField{
			{Name: "Priced", Value: fmt.Sprintf("%d", report.Priced), Inline: true},
			{Name: "Failed", Value: fmt.Sprintf("%d", report.Failed), Inline: true},
			{Name: "Duration", Value: report.Duration.Round(time.Millisecond).String(), Inline: true},
		},
	}

	if s := report.Summary; s != nil {
		embed.Fields = append(embed.Fields,
			discordEmbedField{Name: "Total Price", Value: pricing.FormatPrice(s.TotalFinalPrice), Inline: true},
			discordEmbedField{Name: "Reference Total", Value: pricing.FormatPrice(s.TotalReferencePrice), Inline: true},
			discordEmbedField{Name: "Difference", Value: pricing.FormatPrice(s.Difference), Inline: true},
		)
	}

	embed.Description = describeLines(report.Lines)
	return embed
}

func describeLines(lines []PricedLine) string {
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	limit := min(len(lines), maxReportLines)
	for i := range limit {
		l := lines[i]
		fmt.Fprintf(&b, "`%s` $%s %s - %s\n",
			l.Strategy, pricing.FormatPrice(l.Price), l.Artist, l.Title)
	}
	if len(lines) > maxReportLines {
		fmt.Fprintf(&b, "... and %d more", len(lines)-maxReportLines)
	}
	return strings.TrimRight(b.String(), "\n")
}

func reportColor(report *RunReport) int {
	switch {
	case report.Priced == 0 && report.Failed > 0:
		return colorOrange
	case report.Failed > 0:
		return colorYellow
	default:
		return colorGreen
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
