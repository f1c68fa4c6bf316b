package enrich

import (
	"context"
	"fmt"
	"sync"
)

// forEach runs fn for indexes 0..n-1 with at most workers goroutines in
// flight. Each task's error or panic is captured into errs at its own
// index, so one failing record never takes down the rest of the batch.
// Submission stops once ctx is cancelled; unstarted tasks record the
// context error.
func forEach(ctx context.Context, workers, n int, errs []error, fn func(ctx context.Context, i int) error) {
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			for j := i; j < n; j++ {
				if errs[j] == nil {
					errs[j] = err
				}
			}
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("record worker panic: %v", r)
				}
			}()
			errs[i] = fn(ctx, i)
		}(i)
	}
	wg.Wait()
}
