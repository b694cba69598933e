package triage

import (
	"context"
	"fmt"
	"time"

	"log/slog"
)

// Config holds the polling settings of the triage session.
type Config struct {
	// PollInterval is how often the full record set is re-fetched. There is
	// no push channel; staleness up to one interval is expected.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PageSize     int           `mapstructure:"page_size"`
}

// Poller re-fetches the session's record set on a fixed interval. A failed
// fetch keeps the last-known set and the next tick retries.
type Poller struct {
	session  *Session
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewPoller(session *Session, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		session:  session,
		interval: interval,
	}
}

// Start starts the worker
func (p *Poller) Start(ctx context.Context) error {
	if p.ctx != nil && p.cancel != nil {
		return fmt.Errorf("poller already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	go p.worker(p.ctx)
	return nil
}

// Stop stops the worker gracefully
func (p *Poller) Stop() error {
	if p.cancel == nil {
		return fmt.Errorf("poller already stopped or not started")
	}

	p.cancel()
	p.cancel = nil
	return nil
}

func (p *Poller) worker(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.session.Refresh(ctx); err != nil {
				slog.Default().ErrorContext(ctx, "can't refresh enquiries",
					slog.String("err", err.Error()),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}
