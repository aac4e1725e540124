// Package urlcanon implements the host's default URL encoding pass.
package urlcanon

import "strings"

// Canonicalizer decodes percent escapes the way hosts do before handing a
// URL to a scheme handler. Malformed escapes are kept as written.
type Canonicalizer struct{}

// New creates a Canonicalizer.
func New() *Canonicalizer {
	return &Canonicalizer{}
}

// Encode returns rawURL with every valid %XX escape decoded.
func (c *Canonicalizer) Encode(rawURL string) (string, error) {
	return Unescape(rawURL), nil
}

// Unescape decodes %XX sequences in s. Anything else, including a '%' not
// followed by two hex digits, is copied unchanged.
func Unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
