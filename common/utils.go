package common

import "github.com/google/uuid"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// NewUUID returns a fresh upper-case RFC 4122 identifier, the form scene documents use for descriptor ids.
//
// Returns:
//   - string: the generated identifier
func NewUUID() string {
	return uuidUpper(uuid.NewString())
}

// IsUUID reports whether s parses as an RFC 4122 identifier.
//
// Parameters:
//   - s: the candidate string
//
// Returns:
//   - bool: true if s is UUID-shaped
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func uuidUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'f' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
