// Package runtime selects between serial and bounded-concurrency
// execution for row-set scheduling, mirroring the LIGHT_PARALLEL
// environment toggle: off by default, so a single query or flush runs on
// the calling goroutine, unless a caller opts into a bounded worker pool.
package runtime

import (
	"os"
	"sync"
)

// Parallel reports whether LIGHT_PARALLEL=1 is set in the environment.
// Checked once per call rather than cached, so tests can flip it with
// t.Setenv.
func Parallel() bool {
	return os.Getenv("LIGHT_PARALLEL") == "1"
}

// RunBounded runs fn(i) for i in [0, n). When Parallel() is false, it runs
// serially on the calling goroutine. When true, it runs across a worker
// pool bounded to maxWorkers goroutines (maxWorkers <= 0 means
// unbounded), collecting the first error encountered; the remaining
// in-flight calls still complete before RunBounded returns, but their
// errors are discarded once one has been recorded.
func RunBounded(n, maxWorkers int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	if !Parallel() {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	if maxWorkers <= 0 || maxWorkers > n {
		maxWorkers = n
	}
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(i); err != nil {
				once.Do(func() { firstErr = err })
			}
		}()
	}
	wg.Wait()
	return firstErr
}
