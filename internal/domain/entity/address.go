package entity

import (
	"strconv"
	"strings"
)

// TextAddress is the payload of an about: URL. HasContent is false for
// about:blank.
type TextAddress struct {
	Content    string
	HasContent bool
}

// ResourceRef addresses a resource inside a module image.
type ResourceRef struct {
	Module   string
	TypeHint ResourceID
	Name     string
}

// RTHTML is the numeric resource type of embedded HTML documents.
const RTHTML uint16 = 23

// ResourceID names a resource or resource type either by string or by a
// 16-bit integer id.
type ResourceID struct {
	Name string
	ID   uint16
	IsID bool
}

// DefaultResourceType is the type searched when a res: URL carries no type.
var DefaultResourceType = IntResource(RTHTML)

// IntResource returns a numeric ResourceID.
func IntResource(id uint16) ResourceID {
	return ResourceID{ID: id, IsID: true}
}

// NamedResource returns a string ResourceID.
func NamedResource(name string) ResourceID {
	return ResourceID{Name: name}
}

// ParseResourceID interprets "#123" as the numeric id 123 and anything else
// as a name.
func ParseResourceID(s string) ResourceID {
	if strings.HasPrefix(s, "#") {
		if id, err := strconv.ParseUint(s[1:], 10, 16); err == nil {
			return IntResource(uint16(id))
		}
	}
	return NamedResource(s)
}

// ParseTypeHint parses a resource type given on the command line. Plain
// decimal numbers select a numeric type in addition to the "#123" notation.
// res: URLs use ParseResourceID, where plain digits are a name.
func ParseTypeHint(s string) ResourceID {
	if id, err := strconv.ParseUint(s, 10, 16); err == nil {
		return IntResource(uint16(id))
	}
	return ParseResourceID(s)
}

// Matches compares two identifiers the way module resource tables do:
// ids by value, names case-insensitively.
func (r ResourceID) Matches(other ResourceID) bool {
	if r.IsID != other.IsID {
		return false
	}
	if r.IsID {
		return r.ID == other.ID
	}
	return strings.EqualFold(r.Name, other.Name)
}

func (r ResourceID) String() string {
	if r.IsID {
		return "#" + strconv.Itoa(int(r.ID))
	}
	return r.Name
}
