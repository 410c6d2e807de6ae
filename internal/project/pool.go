package project

import (
	"context"
	"sync"
)

// smallBatchSize is the threshold below which entity construction runs
// synchronously; goroutine overhead dominates for tiny scans.
const smallBatchSize = 5

// mapOrdered builds one result per item with at most workers constructions in
// flight. Results land at their input index, so the output order always
// equals the input order regardless of completion order. Every entity's read
// set is its own directory subtree, so no synchronization beyond result
// collection is needed.
//
// Construction errors are collected per index and the first one in input
// order is returned, matching what a sequential run would have surfaced.
func mapOrdered[E, T any](ctx context.Context, workers int, items []E, fn func(context.Context, E) (T, error)) ([]T, error) {
	results := make([]T, len(items))

	if workers <= 1 || len(items) <= smallBatchSize {
		for i, item := range items {
			value, err := fn(ctx, item)
			if err != nil {
				return nil, err
			}
			results[i] = value
		}

		return results, nil
	}

	errs := make([]error, len(items))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = fn(ctx, items[i])
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
