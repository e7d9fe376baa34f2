package dynamo

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Job is one independent solve.
type Job struct {
	Name string
	Run  func() (*Solution, error)
}

// Outcome is the result of a Job. Skipped is set when the job never started
// because an earlier job failed or the context was canceled.
type Outcome struct {
	Name     string
	Solution *Solution
	Elapsed  time.Duration
	Err      error
	Skipped  bool
}

// Ensemble runs independent jobs on a bounded number of goroutines.
type Ensemble struct {
	workers int
}

func NewEnsemble(workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{workers: workers}
}

// Run executes jobs and returns their outcomes in job order. The first job
// error is returned and prevents jobs that have not started from running.
func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	outcomes := make([]Outcome, len(jobs))
	for i, job := range jobs {
		outcomes[i] = Outcome{Name: job.Name, Skipped: true}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}

			start := time.Now()
			sol, err := job.Run()
			outcomes[i] = Outcome{
				Name:     job.Name,
				Solution: sol,
				Elapsed:  time.Since(start),
				Err:      err,
			}
			return err
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return outcomes, err
}
