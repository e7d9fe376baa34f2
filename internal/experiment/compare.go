package experiment

import (
	"context"

	kitlog "github.com/go-kit/kit/log"

	"github.com/san-kum/simfoundry/internal/config"
	"github.com/san-kum/simfoundry/internal/dynamo"
)

// Compare runs cfg once per integrator name on an ensemble of workers.
// Outcomes come back in the order of names. The first failing run cancels
// runs that have not started yet.
func Compare(ctx context.Context, reg *Registry, cfg *config.Config, names []string, workers int, logger kitlog.Logger) ([]dynamo.Outcome, error) {
	jobs := make([]dynamo.Job, len(names))
	for i, name := range names {
		c := cfg.Clone()
		c.Integrator = name
		jobs[i] = dynamo.Job{
			Name: name,
			Run: func() (*dynamo.Solution, error) {
				exp := New(c, logger)
				if err := exp.Setup(reg); err != nil {
					return nil, err
				}
				res, err := exp.Run(ctx)
				if res == nil {
					return nil, err
				}
				return res.Solution, err
			},
		}
	}

	return dynamo.NewEnsemble(workers).Run(ctx, jobs)
}
