package inventory

import (
	"context"
	"time"

	"github.com/petitchef/petit-chef/telemetry"
)

// RunSweeper removes expired lots on a fixed interval until ctx is cancelled.
// It is meant to run in its own goroutine for the lifetime of the server.
func (l *Ledger) RunSweeper(ctx context.Context, interval time.Duration) {
	telemetry.Infof("sweeper: removing expired lots every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			telemetry.Infof("sweeper: stopped")
			return
		case <-ticker.C:
			removed, err := l.SweepExpired()
			if err != nil {
				telemetry.Warnf("sweeper: %v", err)
				continue
			}
			if removed > 0 {
				telemetry.Infof("sweeper: removed %d expired lot(s)", removed)
			}
		}
	}
}
