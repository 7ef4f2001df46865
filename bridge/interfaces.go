package bridge

import (
	"context"
	"time"

	"github.com/john/elegoo_hub/printer"
	"github.com/john/elegoo_hub/publish"
)

// Fetcher returns a printer's status, or nil when it could not be read.
type Fetcher interface {
	Fetch(ctx context.Context, cfg printer.Config) *printer.Status
}

// Publisher delivers one batch to the aggregation service.
type Publisher interface {
	Publish(ctx context.Context, batch printer.Batch) (*publish.Result, error)
}

// Clock abstracts wall time and the inter-cycle sleep.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// realClock implements Clock using the real time package.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
