package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded reports. It is used
// when Discord (or another notification backend) is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards reports with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendRunReport logs and discards a run report.
func (n *NoOpNotifier) SendRunReport(_ context.Context, report *RunReport) error {
	n.log.Debug("notification discarded (no backend configured)",
		"job", report.Job,
		"priced", report.Priced,
		"failed", report.Failed,
	)
	return nil
}
