package jobs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sevigo/review-bench/internal/core"
)

type prFunc func(ctx context.Context, pr core.PullRequest) ([]core.ReviewComment, error)

// PROutcome is the result of processing one pull request.
type PROutcome struct {
	PR       core.PullRequest
	Comments []core.ReviewComment
	Err      error
}

type prTask struct {
	index int
	pr    core.PullRequest
}

// prPool fans pull requests out to a fixed set of workers. Results are
// returned in input order regardless of completion order.
type prPool struct {
	process    prFunc
	maxWorkers int
	logger     *slog.Logger
}

// newPRPool returns a pool of maxWorkers workers, defaulting to 1.
func newPRPool(process prFunc, maxWorkers int, logger *slog.Logger) *prPool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &prPool{process: process, maxWorkers: maxWorkers, logger: logger}
}

// Run processes every PR and blocks until all workers have finished. Once
// ctx is cancelled, queued PRs are recorded with the context error instead
// of being processed.
func (p *prPool) Run(ctx context.Context, prs []core.PullRequest) []PROutcome {
	outcomes := make([]PROutcome, len(prs))
	queue := make(chan prTask)

	var wg sync.WaitGroup
	for i := range min(p.maxWorkers, max(len(prs), 1)) {
		wg.Add(1)
		go p.worker(ctx, i, queue, outcomes, &wg)
	}

	for i, pr := range prs {
		queue <- prTask{index: i, pr: pr}
	}
	close(queue)
	wg.Wait()
	return outcomes
}

// worker writes only to the outcome slots of the tasks it receives.
func (p *prPool) worker(ctx context.Context, id int, queue <-chan prTask, outcomes []PROutcome, wg *sync.WaitGroup) {
	defer wg.Done()
	for task := range queue {
		out := PROutcome{PR: task.pr}
		if err := ctx.Err(); err != nil {
			out.Err = err
		} else {
			p.logger.Info("processing PR", "worker_id", id, "pr", task.pr.Number)
			out.Comments, out.Err = p.process(ctx, task.pr)
		}
		outcomes[task.index] = out
	}
}
