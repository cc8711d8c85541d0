// Package parallel contains the bounded ForEach used by the loaders and the outcome hasher.
package parallel

import "sync"

// ForEach executes body for every integer in [0, length) with at most limit goroutines.
// The first error returned by any body is reported after all started bodies finish.
func ForEach(length, limit int, body func(i int) error) error {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return nil
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	var once sync.Once
	var first error

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := body(i); err != nil {
				once.Do(func() { first = err })
			}
		}(i)
	}

	wg.Wait()
	return first
}
