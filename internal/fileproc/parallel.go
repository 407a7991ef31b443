// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// Unwrap returns nil (ProcessingErrors doesn't wrap a single error).
func (e *ProcessingErrors) Unwrap() error {
	return nil
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// Parsing is mostly file I/O, so workers outnumber cores.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each file is processed.
type ProgressFunc func()

// Workers returns n, or 2x NumCPU when n is not positive.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU() * DefaultWorkerMultiplier
}

// MapFiles processes files in parallel with the default worker count.
// See MapFilesN.
func MapFiles[T any](ctx context.Context, files []string, fn func(string) (T, error)) ([]T, *ProcessingErrors) {
	return MapFilesN(ctx, files, 0, fn, nil)
}

// MapFilesN processes files with a bounded pool. The result slice has one
// slot per input file in input order; a file that failed, or was not
// started before ctx was cancelled, leaves its zero value and an entry in
// the returned errors. The returned errors are nil when every file
// succeeded.
func MapFilesN[T any](ctx context.Context, files []string, maxWorkers int, fn func(string) (T, error), onProgress ProgressFunc) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	results := make([]T, len(files))
	errs := &ProcessingErrors{}

	p := pool.New().WithMaxGoroutines(Workers(maxWorkers)).WithContext(ctx)
	for i, path := range files {
		p.Go(func(ctx context.Context) error {
			if onProgress != nil {
				defer onProgress()
			}

			select {
			case <-ctx.Done():
				errs.Add(path, ctx.Err())
				return ctx.Err()
			default:
			}

			result, err := fn(path)
			if err != nil {
				errs.Add(path, err)
				return nil // Don't stop pool on individual file errors
			}
			results[i] = result
			return nil
		})
	}
	_ = p.Wait() // Context errors are already captured in errs

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}
