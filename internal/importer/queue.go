package importer

import (
	"context"

	"github.com/spritesoftware/node-gtfs/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runner imports a single agency.
type Runner interface {
	Run(ctx context.Context, agency config.Agency) Result
}

// Summary is the outcome of one pass over the agency list.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	Results   []Result
}

// Queue runs agencies in list order with at most maxConcurrent imports in
// flight. A failed agency never prevents the next one from running.
type Queue struct {
	runner        Runner
	maxConcurrent int
}

func NewQueue(runner Runner, maxConcurrent int) *Queue {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Queue{runner: runner, maxConcurrent: maxConcurrent}
}

// Run attempts every agency. Agencies not yet started when ctx is done are
// left out of the summary.
func (q *Queue) Run(ctx context.Context, agencies []config.Agency) Summary {
	results := make([]*Result, len(agencies))

	g := new(errgroup.Group)
	g.SetLimit(q.maxConcurrent)

	for i, agency := range agencies {
		if ctx.Err() != nil {
			break
		}
		i, agency := i, agency
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res := q.runner.Run(ctx, agency)
			results[i] = &res
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{Results: make([]Result, 0, len(agencies))}
	for _, res := range results {
		if res == nil {
			continue
		}
		summary.Attempted++
		if res.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, *res)
	}

	zap.S().Named("queue").Infow("all agencies completed",
		"total", summary.Attempted, "succeeded", summary.Succeeded, "failed", summary.Failed)
	return summary
}
