package mcml

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// workerSeed derives an independent stream per worker.
func workerSeed(seed int64, wid int) int64 {
	return seed ^ int64(uint64(wid)*0x9e3779b97f4a7c15)
}

// RunParallel splits p.NumTrials across workers, each with a private
// Simulation, and sums their grids in worker order. For a fixed non-zero
// p.Seed and worker count the output is reproducible.
func RunParallel(ctx context.Context, p Params, workers int) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > p.NumTrials {
		workers = p.NumTrials
	}
	if workers < 1 {
		workers = 1
	}
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	total := p.NumTrials
	var counter int64
	nextPrint := int64(1)
	if total >= progressStep {
		nextPrint = int64(total / progressStep) // ~1%
	}
	progress := func() {
		fired := atomic.AddInt64(&counter, 1)
		if fired%nextPrint == 0 {
			Log.Infof("[PROGRESS] %.2f%%", Real(fired)*100/Real(total))
		}
	}

	Log.WithFields(logrus.Fields{
		"trials":  total,
		"workers": workers,
		"seed":    seed,
	}).Info("starting parallel run")

	start := time.Now()
	per, rem := total/workers, total%workers
	results := make([]*Result, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		wp := p
		wp.NumTrials = per
		if w < rem {
			wp.NumTrials++
		}
		wp.Seed = workerSeed(seed, w)
		go func(wid int, wp Params) {
			defer wg.Done()
			sim, err := NewSimulation(wp, nil)
			if err != nil {
				errs[wid] = err
				return
			}
			results[wid], errs[wid] = sim.run(ctx, progress)
		}(w, wp)
	}
	wg.Wait()

	var out *Result
	var firstErr error
	for w := 0; w < workers; w++ {
		if errs[w] != nil && firstErr == nil {
			firstErr = errs[w]
		}
		if results[w] == nil {
			continue
		}
		if out == nil {
			out = results[w]
			continue
		}
		if err := out.Add(results[w]); err != nil {
			return nil, err
		}
	}
	if out == nil {
		return nil, firstErr
	}
	out.Params.Seed = p.Seed
	out.Elapsed = time.Since(start)
	DebugLog("Parallel run: %d photons, time: %s", out.Params.NumTrials, out.Elapsed)
	return out, firstErr
}
