package peimage

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/domain/entity"
	"github.com/bnema/dumberproto/internal/logging"
)

// Loader maps module images found by a Searcher.
type Loader struct {
	searcher *Searcher
	useMmap  bool
	logger   zerolog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithMmap selects memory-mapping (the default) or plain reads.
func WithMmap(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.useMmap = enabled
	}
}

// NewLoader creates a Loader resolving names with searcher.
func NewLoader(ctx context.Context, searcher *Searcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		searcher: searcher,
		useMmap:  true,
		logger:   logging.FromContext(ctx).With().Str("component", "peimage").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements port.ModuleLoader.
func (l *Loader) Load(name string) (port.ModuleImage, error) {
	img, err := l.Open(name)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Open maps the named module and parses its resource table. Errors are
// *entity.ModuleError values of kind ErrModuleNotFound when no file matches
// and ErrModuleLoadFailed when the file is not a readable image.
func (l *Loader) Open(name string) (*Image, error) {
	path, err := l.searcher.Resolve(name)
	if err != nil {
		return nil, &entity.ModuleError{Module: name, Kind: entity.ErrModuleNotFound, Cause: err}
	}

	data, unmap, err := mapFile(path, l.useMmap)
	if err != nil {
		return nil, &entity.ModuleError{Module: name, Kind: entity.ErrModuleLoadFailed, Cause: err}
	}

	img, err := parseImage(path, data, unmap)
	if err != nil {
		if unmap != nil {
			err = errors.Join(err, unmap())
		}
		return nil, &entity.ModuleError{Module: name, Kind: entity.ErrModuleLoadFailed, Cause: err}
	}

	l.logger.Debug().
		Str("module", name).
		Str("path", path).
		Int("resources", len(img.resources)).
		Bool("mmap", unmap != nil).
		Msg("module image mapped")
	return img, nil
}
