package ingest

// Source yields rows one at a time, scanner-style, independent of the
// on-disk format producing them. Err reports the first source-level failure
// once Next returns false; row-level problems belong to the merger.
type Source[T any] interface {
	Next() bool
	Row() T
	Err() error
}

// SliceSource adapts an in-memory batch to a Source. Used by tests and by
// callers that already hold the rows.
type SliceSource[T any] struct {
	rows []T
	pos  int
}

func NewSliceSource[T any](rows []T) *SliceSource[T] {
	return &SliceSource[T]{rows: rows}
}

func (s *SliceSource[T]) Next() bool {
	if s.pos >= len(s.rows) {
		return false
	}
	s.pos++
	return true
}

func (s *SliceSource[T]) Row() T {
	return s.rows[s.pos-1]
}

func (s *SliceSource[T]) Err() error {
	return nil
}
