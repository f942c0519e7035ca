package valueobject

import (
	"fmt"
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// DocumentNumber – immutable value object
// ---------------------------------------------------------------------------

var (
	nationalIDRe = regexp.MustCompile(`^[0-9]{8,10}$`)
	passportRe   = regexp.MustCompile(`^[A-Z]{2}[0-9]{6,8}$`)
)

// DocumentNumber is a normalized national identity document: either an
// 8-10 digit numeric id or a passport id of 2 letters followed by 6-8 digits.
// The value is stored trimmed and upper-cased; two DocumentNumbers are equal
// iff their normalized values are equal.
type DocumentNumber struct {
	value string
}

// NewDocumentNumber normalizes and validates a raw document string.
func NewDocumentNumber(raw string) (DocumentNumber, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return DocumentNumber{}, fmt.Errorf("%w: document number is empty", ErrInvalidInput)
	}
	if !nationalIDRe.MatchString(normalized) && !passportRe.MatchString(normalized) {
		return DocumentNumber{}, fmt.Errorf("%w: document number %q matches neither national id nor passport format",
			ErrInvalidInput, normalized)
	}
	return DocumentNumber{value: normalized}, nil
}

// MustDocumentNumber creates a DocumentNumber and panics on error. Test fixtures only.
func MustDocumentNumber(raw string) DocumentNumber {
	d, err := NewDocumentNumber(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// Value returns the normalized document string.
func (d DocumentNumber) Value() string { return d.value }

// IsZero returns true if the document has not been initialised.
func (d DocumentNumber) IsZero() bool { return d.value == "" }

// Equal reports equality of normalized values.
func (d DocumentNumber) Equal(other DocumentNumber) bool { return d.value == other.value }

// String returns the normalized document string.
func (d DocumentNumber) String() string { return d.value }
