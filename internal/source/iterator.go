// Package source supplies candidate files to the validation runner:
// a recursive local directory walk and an S3 listing that stages
// objects to local scratch space before validation.
package source

import "github.com/hadproc/cmorval/cmorval"

// Iterator provides sequential access to candidate files.
//
//   - Ordering is implementation-defined
//   - Next() must return false after exhaustion or after Close()
//   - Close() must be idempotent
//   - Err() may be called after exhaustion or close
type Iterator interface {
	// Next advances to the next candidate.
	Next() bool

	// Candidate returns the current candidate.
	// Only valid after Next() returns true.
	Candidate() cmorval.Candidate

	// Err returns any error encountered while iterating.
	Err() error

	// Close releases resources held by the iterator.
	Close() error
}

// SliceIterator iterates over an in-memory candidate list.
type SliceIterator struct {
	candidates []cmorval.Candidate
	index      int
	current    cmorval.Candidate
	closed     bool
}

// NewSliceIterator creates an iterator over the given candidates. The
// iterator takes ownership of the slice and will not modify it.
func NewSliceIterator(candidates []cmorval.Candidate) *SliceIterator {
	return &SliceIterator{candidates: candidates, index: -1}
}

// Next advances to the next candidate.
// Returns false if exhausted or if Close() has been called.
func (it *SliceIterator) Next() bool {
	if it.closed {
		return false
	}
	it.index++
	if it.index >= len(it.candidates) {
		return false
	}
	it.current = it.candidates[it.index]
	return true
}

// Candidate returns the current candidate.
func (it *SliceIterator) Candidate() cmorval.Candidate {
	return it.current
}

// Err returns nil; slice iteration cannot fail.
func (it *SliceIterator) Err() error {
	return nil
}

// Close releases the candidate list. Idempotent.
func (it *SliceIterator) Close() error {
	it.closed = true
	it.candidates = nil
	return nil
}

var _ Iterator = (*SliceIterator)(nil)

// EmptyIterator yields no candidates.
type EmptyIterator struct{}

// NewEmptyIterator creates an iterator that yields nothing.
func NewEmptyIterator() *EmptyIterator { return &EmptyIterator{} }

// Next always returns false.
func (*EmptyIterator) Next() bool { return false }

// Candidate returns a zero Candidate.
func (*EmptyIterator) Candidate() cmorval.Candidate { return cmorval.Candidate{} }

// Err returns nil.
func (*EmptyIterator) Err() error { return nil }

// Close is a no-op. Idempotent.
func (*EmptyIterator) Close() error { return nil }

var _ Iterator = (*EmptyIterator)(nil)
