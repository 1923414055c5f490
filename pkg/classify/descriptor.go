package classify

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/gowebpki/jcs"
)

// ErrorType names the class of anomaly a descriptor summarizes.
type ErrorType string

const (
	ErrorTypeHeader  ErrorType = "GDSP_Header"
	ErrorTypeData    ErrorType = "GDSP_Data"
	ErrorTypeFuture  ErrorType = "MkTime_1h_new"
	ErrorTypeBacklog ErrorType = "MkTime_1m_old"
)

// ErrorDescriptor summarizes one class of detected anomaly. It is a
// comparable value: two descriptors are equal when every field is.
type ErrorDescriptor struct {
	Type      string    `json:"type,omitempty"`
	Code      string    `json:"code,omitempty"`
	ErrorType ErrorType `json:"error_type"`
}

func (d ErrorDescriptor) compare(o ErrorDescriptor) int {
	return cmp.Or(
		cmp.Compare(d.ErrorType, o.ErrorType),
		cmp.Compare(d.Type, o.Type),
		cmp.Compare(d.Code, o.Code),
	)
}

// ErrorSet is a set of descriptors; adding a duplicate is a no-op.
type ErrorSet struct {
	members map[ErrorDescriptor]struct{}
}

// NewErrorSet creates an empty set.
func NewErrorSet() *ErrorSet {
	return &ErrorSet{members: make(map[ErrorDescriptor]struct{})}
}

// Add inserts d and reports whether it was new.
func (s *ErrorSet) Add(d ErrorDescriptor) bool {
	if _, ok := s.members[d]; ok {
		return false
	}
	s.members[d] = struct{}{}
	return true
}

// Contains reports whether d is a member.
func (s *ErrorSet) Contains(d ErrorDescriptor) bool {
	_, ok := s.members[d]
	return ok
}

// Len returns the number of distinct descriptors.
func (s *ErrorSet) Len() int {
	return len(s.members)
}

// Descriptors returns the members in a stable order.
func (s *ErrorSet) Descriptors() []ErrorDescriptor {
	out := make([]ErrorDescriptor, 0, len(s.members))
	for d := range s.members {
		out = append(out, d)
	}
	slices.SortFunc(out, ErrorDescriptor.compare)
	return out
}

// MarshalJSON encodes the set as a JSON array. Captured messages are kept
// verbatim: <, > and & are not escaped.
func (s *ErrorSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.Descriptors()); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Canonical returns the RFC 8785 (JCS) canonical form of the set.
func (s *ErrorSet) Canonical() ([]byte, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return jcs.Transform(raw)
}

// Digest returns a sha256 hex digest of the canonical form. Two reports
// with the same findings share a digest regardless of discovery order.
func (s *ErrorSet) Digest() (string, error) {
	canonical, err := s.Canonical()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
