// Package errs classifies failures by how the pipeline recovers from them.
package errs

import "errors"

type Category string

const (
	// CategoryContainerFormat covers truncated headers and out-of-bounds lengths. Never fatal.
	CategoryContainerFormat Category = "container_format"
	// CategoryCryptoDecode covers decrypt or inflate failures on one frame. Never fatal.
	CategoryCryptoDecode Category = "crypto_decode"
	// CategoryEntryParse covers malformed JSON inside a tokenized entry. Fatal only in strict mode.
	CategoryEntryParse Category = "entry_parse"
	// CategoryIOFatal covers unopenable input or unwritable output. Always fatal.
	CategoryIOFatal Category = "io_fatal"
)

type classifiedError struct {
	category Category
	cause    error
}

func (e *classifiedError) Error() string {
	if e.cause == nil {
		return "unknown error"
	}
	return e.cause.Error()
}

func (e *classifiedError) Unwrap() error {
	return e.cause
}

func (e *classifiedError) Category() Category {
	return e.category
}

// Wrap tags cause with a category. A nil cause stays nil.
func Wrap(cause error, category Category) error {
	if cause == nil {
		return nil
	}
	return &classifiedError{category: category, cause: cause}
}

// CategoryOf returns the innermost-wrapping category, or "" when err is unclassified.
func CategoryOf(err error) Category {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.category
	}
	return ""
}

// IsFatal reports whether err must abort the whole parse.
func IsFatal(err error) bool {
	switch CategoryOf(err) {
	case CategoryIOFatal, CategoryEntryParse:
		return true
	default:
		return false
	}
}
