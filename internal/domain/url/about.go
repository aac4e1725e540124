// Package url decomposes and validates the about: and res: URL grammars.
package url

import (
	"strings"

	"github.com/bnema/dumberproto/internal/domain/entity"
)

const (
	aboutPrefix = "about:"
	aboutBlank  = "blank"
)

// ParseAbout extracts the document text of an about: URL.
//
//	"about:blank"  -> no content
//	"about:hello"  -> "hello"
//	"hello"        -> "hello" (URLs without the prefix are accepted whole)
func ParseAbout(rawURL string) entity.TextAddress {
	text, ok := strings.CutPrefix(rawURL, aboutPrefix)
	if !ok {
		return entity.TextAddress{Content: rawURL, HasContent: true}
	}
	if text == aboutBlank {
		return entity.TextAddress{}
	}
	return entity.TextAddress{Content: text, HasContent: true}
}
