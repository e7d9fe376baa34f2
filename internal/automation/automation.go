// Package automation runs batches of experiments: scripted scenarios,
// parameter sweeps and Monte Carlo perturbations of the initial state.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/simfoundry/internal/config"
	"github.com/san-kum/simfoundry/internal/dynamo"
	"github.com/san-kum/simfoundry/internal/experiment"
	"github.com/san-kum/simfoundry/internal/storage"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Fields left out of the YAML take the values of
// config.DefaultConfig.
type ScenarioStep struct {
	config.Config `yaml:",inline"`
	Label         string `yaml:"label"`
}

func (s *ScenarioStep) UnmarshalYAML(value *yaml.Node) error {
	type plain ScenarioStep
	p := plain{Config: *config.DefaultConfig()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = ScenarioStep(p)
	return nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps: %w", path, dynamo.ErrInvalidArgument)
	}
	return &scenario, nil
}

// StepOutcome is a finished scenario step. Err is set, and Result holds the
// valid prefix, when the trajectory diverged.
type StepOutcome struct {
	Label    string
	Result   *experiment.Result
	Metadata storage.RunMetadata
	Err      error
}

// RunScenario executes the steps in order. A diverging step is recorded and
// the scenario continues; any other failure stops it and returns the
// outcomes so far.
func RunScenario(ctx context.Context, scenario *Scenario, reg *experiment.Registry, logger kitlog.Logger) ([]StepOutcome, error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	outcomes := make([]StepOutcome, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		label := step.Label
		if label == "" {
			label = fmt.Sprintf("%s/%s", step.Model, step.Integrator)
		}
		level.Info(logger).Log("msg", "scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "label", label)

		exp := experiment.New(&step.Config, logger)
		if err := exp.Setup(reg); err != nil {
			return outcomes, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		res, err := exp.Run(ctx)
		if err != nil && !diverged(err) {
			return outcomes, fmt.Errorf("step %d run: %w", i+1, err)
		}

		outcomes = append(outcomes, StepOutcome{
			Label:    label,
			Result:   res,
			Metadata: exp.Metadata(res, err),
			Err:      err,
		})
	}

	return outcomes, nil
}

func diverged(err error) bool {
	var stepErr *dynamo.StepError
	return errors.As(err, &stepErr)
}
