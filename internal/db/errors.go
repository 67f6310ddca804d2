package db

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// DataFetchError reports a failed read against the store. Op names the
// operation that issued the read.
type DataFetchError struct {
	Op  string
	Err error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("%s: failed to fetch data: %v", e.Op, e.Err)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}

// FetchError wraps err as a *DataFetchError for op. A nil err stays nil.
func FetchError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataFetchError{Op: op, Err: err}
}
