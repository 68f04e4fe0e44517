package sample

import (
	"errors"
	"strings"
)

var (
	ErrSampleNotFound   = errors.New("sample not found")
	ErrParentNotFound   = errors.New("parent sample not found for derivation")
	ErrDuplicateBarcode = errors.New("barcode already in use by another sample")
)

// ValidationError reports every violation of a submission at once so the
// caller can surface all of them in a single round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
