package match

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/vibe-pgx/internal/genotype"
)

// WorkItem holds a genotype entry ready for matching.
type WorkItem struct {
	Seq   int
	Entry *genotype.Entry
}

// WorkResult holds the matches for a single entry.
type WorkResult struct {
	Seq     int
	Matches []MatchedVariant
}

// ParallelMatch matches entries using a pool of workers and returns the same
// sequence Match would. Entries are independent, so they are partitioned
// one per work item; results are re-sequenced by OrderedCollect.
// If workers is 0, runtime.NumCPU() is used.
//
// idx must be safe for concurrent Lookup calls.
func (m *Matcher) ParallelMatch(store EntrySource, idx AnnotationLookup, workers int) []MatchedVariant {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	entries := store.Entries()
	items := make(chan WorkItem, 2*workers)
	go func() {
		defer close(items)
		for i, e := range entries {
			items <- WorkItem{Seq: i, Entry: e}
		}
	}()

	results := matchWorkers(items, idx, workers)

	var matches []MatchedVariant
	// The callback never fails.
	_ = OrderedCollect(results, func(r WorkResult) error {
		matches = append(matches, r.Matches...)
		return nil
	})

	m.logger.Debug("matched variants",
		zap.Int("entries", len(entries)),
		zap.Int("workers", workers),
		zap.Int("matches", len(matches)))
	return matches
}

// matchWorkers starts workers reading from items. Results are sent to the
// returned channel in arrival order (not sequence order).
func matchWorkers(items <-chan WorkItem, idx AnnotationLookup, workers int) <-chan WorkResult {
	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- WorkResult{
					Seq:     item.Seq,
					Matches: matchEntry(item.Entry, idx),
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
