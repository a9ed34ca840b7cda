package asset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

var ErrMalformedDataURI = errors.New("asset: malformed data uri")

const dataScheme = "data:"

// IsDataURI reports whether b starts with the data: scheme.
func IsDataURI(b []byte) bool {
	return len(b) >= len(dataScheme) && strings.EqualFold(string(b[:len(dataScheme)]), dataScheme)
}

// ParseDataURI splits a data URI into its media type and decoded payload.
// Both base64 and percent-encoded payloads are accepted.
func ParseDataURI(b []byte) (string, []byte, error) {
	if !IsDataURI(b) {
		return "", nil, fmt.Errorf("%w: missing scheme", ErrMalformedDataURI)
	}

	du, err := dataurl.DecodeString(dataScheme + string(b[len(dataScheme):]))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedDataURI, err)
	}
	return strings.ToLower(du.ContentType()), du.Data, nil
}
