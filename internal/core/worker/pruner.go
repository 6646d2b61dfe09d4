package worker

import (
	"context"
	"log/slog"
	"time"
)

// SpentPruner deletes outputs spent before a cutoff.
type SpentPruner interface {
	DeleteSpentBefore(ctx context.Context, before time.Time) (int64, error)
}

// Pruner deletes spent outputs from the UTXO index based on retention policy.
type Pruner struct {
	retention time.Duration
	repo      SpentPruner
	log       *slog.Logger
}

// NewPruner creates a new Pruner worker.
func NewPruner(retention time.Duration, repo SpentPruner) *Pruner {
	return &Pruner{
		retention: retention,
		repo:      repo,
		log:       slog.Default().With("component", "pruner"),
	}
}

// Start runs the pruner loop until ctx is done.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	// 10% of the retention period, clamped to [1m, 1h]
	interval := min(p.retention/10, 1*time.Hour)
	interval = max(interval, 1*time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	before := time.Now().Add(-p.retention)

	n, err := p.repo.DeleteSpentBefore(ctx, before)
	if err != nil {
		p.log.Error("failed to prune spent outputs", "error", err)
		return
	}
	if n > 0 {
		p.log.Info("pruned spent outputs", "count", n, "before", before.Format(time.RFC3339))
	}
}
