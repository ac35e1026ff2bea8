package sim

import (
	"context"
	"sync"

	"github.com/san-kum/autodrive/internal/command"
)

// Trial builds a fresh simulator and command for one ensemble member. The
// seed drives the sensor noise of the robot it builds.
type Trial func(seed int64) (*Simulator, command.Command, error)

// Ensemble repeats a routine under different noise seeds.
type Ensemble struct {
	trial     Trial
	numRuns   int
	seedStart int64
}

func NewEnsemble(trial Trial, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{trial: trial, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s, cmd, err := e.trial(cfgCopy.Seed)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx, cmd, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
