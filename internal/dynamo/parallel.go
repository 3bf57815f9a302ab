package dynamo

import (
	"runtime"
	"sync"
)

// ParallelFor calls fn on contiguous sub-ranges of [0, n), one goroutine per
// range, and waits for all of them. No more ranges are made than minChunk
// fits into n; when that is one, fn runs once on the caller.
//
// fn must only write to indices inside its own range.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	workers := min(runtime.GOMAXPROCS(0), n/max(minChunk, 1))
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(start, end)
		}()
	}
	wg.Wait()
}
