package telemetry

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
)

var sentryEnabled atomic.Bool

// InitSentry configures the Sentry client. An empty dsn leaves reporting off.
// The returned func flushes buffered events and should run at shutdown.
func InitSentry(dsn, environment string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
	if err != nil {
		return func() {}, fmt.Errorf("sentry init: %w", err)
	}
	sentryEnabled.Store(true)
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureError reports err with optional string tags.
func CaptureError(err error, tags map[string]string) {
	if err == nil || !sentryEnabled.Load() {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}
