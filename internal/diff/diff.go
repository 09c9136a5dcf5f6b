package diff

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/docpack/docpack/internal/archive"
)

// Verdict classifies one page path across two archives.
type Verdict string

const (
	VerdictChanged Verdict = "changed"
	VerdictOnlyInA Verdict = "only-in-a"
	VerdictOnlyInB Verdict = "only-in-b"
)

// Difference is one page that does not match between archives.
type Difference struct {
	Path    string
	Verdict Verdict
}

// Report is the outcome of comparing two archives. An empty Differences
// slice means the archives render identically.
type Report struct {
	Differences []Difference
}

// Identical reports whether no page differed.
func (r *Report) Identical() bool {
	return len(r.Differences) == 0
}

// DefaultWorkers bounds the comparison goroutines when the caller passes a
// non-positive worker count.
const DefaultWorkers = 8

// Compare walks the union of two archives' manifests and deep-compares the
// normalized render JSON of every shared page. Pages are independent, so each
// is decoded and compared on its own goroutine, bounded by workers; verdicts
// merge under a mutex. Both archives are read-only throughout.
func Compare(ctx context.Context, a, b *archive.Archive, workers int) (*Report, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	bPaths := map[string]bool{}
	for _, p := range b.Paths() {
		bPaths[p] = true
	}

	var (
		mu     sync.Mutex
		report Report
	)
	record := func(path string, verdict Verdict) {
		mu.Lock()
		report.Differences = append(report.Differences, Difference{Path: path, Verdict: verdict})
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range a.Paths() {
		if !bPaths[path] {
			record(path, VerdictOnlyInA)
			continue
		}
		delete(bPaths, path)

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			// Hash equality is definitive: identical blobs decode identically.
			hashA, _ := a.Hash(path)
			hashB, _ := b.Hash(path)
			if hashA == hashB {
				return nil
			}

			same, err := pagesEqual(a, b, path)
			if err != nil {
				return err
			}
			if !same {
				record(path, VerdictChanged)
			}
			return nil
		})
	}
	for path := range bPaths {
		record(path, VerdictOnlyInB)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Differences, func(i, j int) bool {
		return report.Differences[i].Path < report.Differences[j].Path
	})
	return &report, nil
}

// pagesEqual decodes both copies of a page into neutral JSON values and
// deep-compares them, so formatting and key order never register as drift.
func pagesEqual(a, b *archive.Archive, path string) (bool, error) {
	rawA, err := a.PageJSON(path)
	if err != nil {
		return false, fmt.Errorf("comparing %s: %w", path, err)
	}
	rawB, err := b.PageJSON(path)
	if err != nil {
		return false, fmt.Errorf("comparing %s: %w", path, err)
	}

	var valA, valB interface{}
	if err := json.Unmarshal(rawA, &valA); err != nil {
		return false, fmt.Errorf("decoding %s from first archive: %w", path, err)
	}
	if err := json.Unmarshal(rawB, &valB); err != nil {
		return false, fmt.Errorf("decoding %s from second archive: %w", path, err)
	}
	return reflect.DeepEqual(valA, valB), nil
}
