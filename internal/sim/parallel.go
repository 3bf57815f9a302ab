package sim

import (
	"context"
	"sync"

	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/integrators"
)

// Ensemble runs the same system and initial state under several
// integrators at once.
type Ensemble struct {
	sys         dynamo.System
	integrators []string
	metrics     func() []dynamo.Metric
}

// NewEnsemble prepares an ensemble. metrics is called once per member so
// that no metric is shared between goroutines; it may be nil.
func NewEnsemble(sys dynamo.System, integratorNames []string, metrics func() []dynamo.Metric) *Ensemble {
	return &Ensemble{sys: sys, integrators: integratorNames, metrics: metrics}
}

// Run returns one result per integrator, in the order they were given.
func (e *Ensemble) Run(ctx context.Context, x0 dynamo.State, cfg Config) ([]*Result, error) {
	members := make([]dynamo.Integrator, len(e.integrators))
	for i, name := range e.integrators {
		integ, err := integrators.New(name)
		if err != nil {
			return nil, err
		}
		members[i] = integ
	}

	results := make([]*Result, len(members))
	errs := make([]error, len(members))

	var wg sync.WaitGroup
	for i, integ := range members {
		wg.Add(1)
		go func(idx int, integ dynamo.Integrator) {
			defer wg.Done()

			s := New(e.sys, integ)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, x0, cfg)
		}(i, integ)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
