package view

import (
	"context"
	"log/slog"
	"time"
)

// Reaper periodically sweeps idle instances out of a Registry.
type Reaper struct {
	reg      *Registry
	interval time.Duration
	logger   *slog.Logger
}

// NewReaper creates a Reaper for reg.
// If interval is <= 0, it defaults to one minute.
func NewReaper(reg *Registry, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reaper{
		reg:      reg,
		interval: interval,
		logger:   reg.opts.Logger,
	}
}

// Run sweeps every interval until ctx is cancelled.
func (p *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := p.reg.Sweep(p.reg.Now()); n > 0 {
				p.logger.Info("reaped idle views", "count", n)
			}
		}
	}
}
