// Package worker runs independent jobs concurrently with ordered results.
package worker

import "sync"

// Result pairs one job's output with its input index.
type Result[O any] struct {
	Index int
	Value O
	Err   error
}

// Map processes every item on up to workers goroutines and returns results
// in input order. Item failures are per-result; Map itself never fails.
func Map[I, O any](items []I, workers int, process func(index int, item I) (O, error)) []Result[O] {
	if len(items) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	results := make([]Result[O], len(items))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				value, err := process(i, items[i])
				results[i] = Result[O]{Index: i, Value: value, Err: err}
			}
		}()
	}
	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
