// Package mimesniff derives MIME types from file name hints.
package mimesniff

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// ErrUnknownType is returned when no MIME type is known for a name.
var ErrUnknownType = errors.New("unknown mime type")

// preferredTypes pins the types resource documents are served with. The
// stdlib table depends on the system MIME database.
var preferredTypes = map[string]string{
	".htm":  "text/html",
	".html": "text/html",
	".htt":  "text/webviewhtml",
	".css":  "text/css",
	".js":   "application/x-javascript",
	".txt":  "text/plain",
	".xml":  "text/xml",
	".gif":  "image/gif",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".ico":  "image/x-icon",
	".svg":  "image/svg+xml",
}

// Sniffer maps file name extensions to MIME types. The zero value is ready
// to use.
type Sniffer struct {
	// Fallback is returned for unknown names when non-empty.
	Fallback string
}

// New creates a Sniffer without a fallback type.
func New() *Sniffer {
	return &Sniffer{}
}

// SniffMIME returns the MIME type for filename. sample is not inspected.
func (s *Sniffer) SniffMIME(filename string, sample []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" {
		if mt, ok := preferredTypes[ext]; ok {
			return mt, nil
		}
		if mt := mime.TypeByExtension(ext); mt != "" {
			if mediaType, _, err := mime.ParseMediaType(mt); err == nil {
				return mediaType, nil
			}
		}
	}

	if s.Fallback != "" {
		return s.Fallback, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, filename)
}
