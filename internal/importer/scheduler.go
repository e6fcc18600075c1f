package importer

import (
	"context"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"github.com/spritesoftware/node-gtfs/internal/config"
	"go.uber.org/zap"
)

// Scheduler repeats full imports of the agency list on a jittered interval.
type Scheduler struct {
	queue    *Queue
	agencies []config.Agency
	interval time.Duration
	jitter   time.Duration
}

func NewScheduler(queue *Queue, agencies []config.Agency, interval time.Duration) *Scheduler {
	return &Scheduler{
		queue:    queue,
		agencies: agencies,
		interval: interval,
		jitter:   interval / 20,
	}
}

// Run imports once immediately and then on every tick until ctx is done.
// onPass, when set, receives the summary of each pass.
func (s *Scheduler) Run(ctx context.Context, onPass func(Summary)) {
	pass := func() {
		summary := s.queue.Run(ctx, s.agencies)
		if onPass != nil {
			onPass(summary)
		}
	}

	pass()

	ticker := jitterbug.New(s.interval, &jitterbug.Norm{Stdev: s.jitter, Mean: 0})
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.S().Named("scheduler").Info("scheduler stopped")
			return
		case <-ticker.C:
		}

		zap.S().Named("scheduler").Infow("starting scheduled import", "agencies", len(s.agencies))
		pass()
	}
}
