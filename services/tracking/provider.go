package tracking

import (
	"context"
	"time"

	"courier-booking/models/shipment"
)

// HistoryProvider resolves the tracking history of a shipment.
// Recorded and synthesized histories sit behind the same contract so either can be swapped out.
type HistoryProvider interface {
	History(ctx context.Context, s shipment.Shipment) ([]Step, error)
}

// ProviderFunc adapts a plain function to HistoryProvider
type ProviderFunc func(ctx context.Context, s shipment.Shipment) ([]Step, error)

func (f ProviderFunc) History(ctx context.Context, s shipment.Shipment) ([]Step, error) {
	return f(ctx, s)
}

// Synthesized serves demo histories built by Synthesize
type Synthesized struct {
	Now func() time.Time
}

func (p Synthesized) History(ctx context.Context, s shipment.Shipment) ([]Step, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return Synthesize(s.Stage, s.BookingDate, now()), nil
}

type fallbackProvider struct {
	primary  HistoryProvider
	fallback HistoryProvider
}

// WithFallback asks primary first and only consults fallback when primary succeeds with no steps.
// Errors from primary are returned as is.
func WithFallback(primary, fallback HistoryProvider) HistoryProvider {
	return &fallbackProvider{primary: primary, fallback: fallback}
}

func (p *fallbackProvider) History(ctx context.Context, s shipment.Shipment) ([]Step, error) {
	steps, err := p.primary.History(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(steps) > 0 || p.fallback == nil {
		return steps, nil
	}
	return p.fallback.History(ctx, s)
}
