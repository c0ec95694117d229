package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a missing dataset source. Fatal at startup: there
// is no transient cause to retry against.
var ErrNotFound = errors.New("dataset not found")

// MalformedInputError reports a dataset that is not valid JSON or not
// shaped as an array of required-field objects. Detail names the
// offending element and key so the user can fix the file.
type MalformedInputError struct {
	Source string
	Detail string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed dataset %s: %s", e.Source, e.Detail)
}

// IsNotFound reports whether err stems from a missing source.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformed reports whether err stems from an unusable dataset shape.
func IsMalformed(err error) bool {
	var m *MalformedInputError
	return errors.As(err, &m)
}
