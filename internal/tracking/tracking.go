// Package tracking reports unexpected errors to Sentry.
package tracking

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// Tracker sends errors to Sentry. A Tracker built without a DSN does nothing.
type Tracker struct {
	initialized bool
}

// New initializes Sentry for dsn. An empty dsn disables tracking.
func New(dsn, environment string) *Tracker {
	if dsn == "" {
		slog.Info("SENTRY_DSN not set, error tracking disabled")
		return &Tracker{}
	}
	if environment == "" {
		environment = "development"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		slog.Warn("sentry initialization failed", "error", err)
		return &Tracker{}
	}

	slog.Info("sentry initialized", "environment", environment)
	return &Tracker{initialized: true}
}

// Enabled reports whether events are forwarded to Sentry.
func (t *Tracker) Enabled() bool {
	return t != nil && t.initialized
}

// CaptureException sends err to Sentry together with optional tags.
func (t *Tracker) CaptureException(err error, tags map[string]string) {
	if !t.Enabled() || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Flush waits up to timeout for buffered events to be delivered.
func (t *Tracker) Flush(timeout time.Duration) bool {
	if !t.Enabled() {
		return true
	}
	return sentry.Flush(timeout)
}

// Close flushes pending events.
func (t *Tracker) Close() {
	t.Flush(2 * time.Second)
}
