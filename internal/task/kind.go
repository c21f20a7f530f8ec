package task

import (
	"fmt"
	"strings"

	"github.com/aryankumar/taskpool/internal/util"
)

// Kind labels what a task does. It does not change how the task is scheduled.
type Kind int

const (
	// KindUnknown is the zero value and marks an unset kind
	KindUnknown Kind = iota
	// KindRead marks a read task
	KindRead
	// KindWrite marks a write task
	KindWrite
)

// Kinds lists every valid kind
var Kinds = []Kind{KindRead, KindWrite}

// String returns the upper-case kind name
func (k Kind) String() string {
	switch k {
	case KindRead:
		return "READ"
	case KindWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether k is one of the declared kinds
func (k Kind) Valid() bool {
	return k == KindRead || k == KindWrite
}

// MarshalText encodes the kind by name for JSON and YAML output
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a kind name, case-insensitively
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "READ":
		return KindRead, nil
	case "WRITE":
		return KindWrite, nil
	default:
		return KindUnknown, fmt.Errorf("unknown task kind %q: %w", s, util.ErrInvalidArgument)
	}
}

// ParseKinds parses a list of kind names
func ParseKinds(names []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
