package analysis

import (
	"context"
	"runtime"
	"sync"

	"github.com/san-kum/spinsim/internal/physics"
)

// scanParallel fills sig by evaluating contiguous chunks of the frequency
// grid on one goroutine per CPU. Each worker checks the context between
// points; the first error wins.
func scanParallel(ctx context.Context, sys *physics.System, cfg ScanConfig, sig *Signal) error {
	workers := runtime.NumCPU()
	if workers > cfg.Points {
		workers = cfg.Points
	}
	if workers < 1 {
		workers = 1
	}
	chunkSize := (cfg.Points + workers - 1) / workers
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start := worker * chunkSize
			end := start + chunkSize
			if end > cfg.Points {
				end = cfg.Points
			}

			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					errs[worker] = ctx.Err()
					return
				default:
				}

				coh, err := Coherence(sys, sig.Freqs[i], cfg.Harmonic, cfg.F, cfg.ScanTime)
				if err != nil {
					errs[worker] = err
					return
				}
				sig.Coherence[i] = coh
			}
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
