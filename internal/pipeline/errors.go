package pipeline

import "errors"

// Failure classes for document processing. Stage errors wrap one of these
// around the underlying cause so handlers and logs can route on the class
// while keeping the detail.
var (
	ErrInputNotFound      = errors.New("input not found")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrTooLarge           = errors.New("file too large")
	ErrExtraction         = errors.New("extraction failed")
	ErrStructureDetection = errors.New("structure detection failed")
	ErrUnitConstruction   = errors.New("unit construction failed")
)
