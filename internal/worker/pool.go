package worker

import (
	"context"
	"sync"
)

// CheckFunc performs one URL check and returns its result.
type CheckFunc[T any] func(ctx context.Context, url string) T

// CheckAll runs fn over every URL with at most workers in flight and returns
// results positionally aligned with urls. Per-host pacing stays inside fn
// (via HostLimiter), so parallelism only helps across distinct hosts.
func CheckAll[T any](ctx context.Context, urls []string, workers int, fn CheckFunc[T]) []T {
	if workers <= 1 || len(urls) <= 1 {
		results := make([]T, len(urls))
		for i, u := range urls {
			if ctx.Err() != nil {
				break
			}
			results[i] = fn(ctx, u)
		}
		return results
	}

	results := make([]T, len(urls))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, u := range urls {
		select {
		case <-ctx.Done():
			wg.Wait()
			return results
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, target string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = fn(ctx, target)
		}(i, u)
	}

	wg.Wait()
	return results
}
