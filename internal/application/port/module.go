package port

import "github.com/bnema/dumberproto/internal/domain/entity"

// ModuleLoader maps named module images as data, without executing them.
type ModuleLoader interface {
	Load(name string) (ModuleImage, error)
}

// ModuleImage is a loaded module. Close unloads it; entries returned by
// FindResource must not be used afterwards.
type ModuleImage interface {
	FindResource(name, typ entity.ResourceID) (ResourceEntry, error)
	Close() error
}

// ResourceEntry is a located resource inside a loaded module image.
type ResourceEntry interface {
	// Size is the declared length of the resource.
	Size() int
	// Bytes returns a view into the mapped image.
	Bytes() ([]byte, error)
}

// PathSearcher resolves a file name on the standard module search path to an
// absolute path.
type PathSearcher interface {
	Search(name string) (string, error)
}

// MimeSniffer determines a MIME type from a filename hint and an optional
// sample of the content.
type MimeSniffer interface {
	SniffMIME(filename string, sample []byte) (string, error)
}

// URLCanonicalizer is the host's URL encoding service.
type URLCanonicalizer interface {
	Encode(rawURL string) (string, error)
}
