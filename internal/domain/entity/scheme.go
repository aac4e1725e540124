package entity

import (
	"strings"

	"github.com/google/uuid"
)

// SchemeID identifies a registered protocol handler. The class id is the
// registry key; Name is the URL scheme token the handler serves.
type SchemeID struct {
	Class uuid.UUID
	Name  string
}

// Well-known scheme identifiers.
var (
	SchemeAbout = SchemeID{
		Class: uuid.MustParse("3050f406-98b5-11cf-bb82-00aa00bdce0b"),
		Name:  "about",
	}
	SchemeRes = SchemeID{
		Class: uuid.MustParse("3050f3bc-98b5-11cf-bb82-00aa00bdce0b"),
		Name:  "res",
	}
)

// KnownSchemes returns every scheme the process ships a handler for.
func KnownSchemes() []SchemeID {
	return []SchemeID{SchemeAbout, SchemeRes}
}

// String returns the scheme name, or the class id when the name is empty.
func (s SchemeID) String() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Class.String()
}

// SchemeOf extracts the lower-cased scheme token of a raw URL.
// Returns "" when the URL has no scheme separator.
func SchemeOf(rawURL string) string {
	idx := strings.IndexByte(rawURL, ':')
	if idx <= 0 {
		return ""
	}
	scheme := rawURL[:idx]
	for i := 0; i < len(scheme); i++ {
		c := scheme[i]
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isOther := (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'
		if !isAlpha && (i == 0 || !isOther) {
			return ""
		}
	}
	return strings.ToLower(scheme)
}
