package protocol

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/domain/entity"
	"github.com/bnema/dumberproto/internal/domain/url"
	"github.com/bnema/dumberproto/internal/logging"
)

// Resolver turns res: addresses into resource bytes.
type Resolver struct {
	loader port.ModuleLoader
	logger zerolog.Logger
}

// NewResolver creates a Resolver loading images through loader.
func NewResolver(ctx context.Context, loader port.ModuleLoader) *Resolver {
	return &Resolver{
		loader: loader,
		logger: logging.FromContext(ctx).With().Str("component", "resolver").Logger(),
	}
}

// Locate decomposes an encoded res: URL and loads its module. The module path
// is first loaded as given; when that fails its last segment is taken as the
// type hint and the remainder is loaded instead. The caller owns the returned
// image.
func (r *Resolver) Locate(encoded string) (entity.ResourceRef, port.ModuleImage, error) {
	modulePath, name, err := url.SplitResURL(encoded)
	if err != nil {
		return entity.ResourceRef{}, nil, err
	}

	img, err := r.loader.Load(modulePath)
	if err == nil {
		ref := entity.ResourceRef{Module: modulePath, TypeHint: entity.DefaultResourceType, Name: name}
		r.logger.Trace().Str("module", modulePath).Str("name", name).Msg("module loaded")
		return ref, img, nil
	}

	module, typeHint, ok := url.SplitModuleType(modulePath)
	if !ok {
		return entity.ResourceRef{}, nil, &entity.ModuleError{Module: modulePath, Kind: entity.ErrModuleNotFound, Cause: err}
	}

	r.logger.Trace().Err(err).Str("module", module).Str("type", typeHint).Msg("retrying with type segment")
	img, err = r.loader.Load(module)
	if err != nil {
		return entity.ResourceRef{}, nil, &entity.ModuleError{Module: module, Kind: entity.ErrModuleNotFound, Cause: err}
	}

	ref := entity.ResourceRef{Module: module, TypeHint: entity.ParseResourceID(typeHint), Name: name}
	return ref, img, nil
}

// Resolve loads ref.Module and extracts the referenced resource.
func (r *Resolver) Resolve(ref entity.ResourceRef) ([]byte, error) {
	img, err := r.loader.Load(ref.Module)
	if err != nil {
		var modErr *entity.ModuleError
		if errors.As(err, &modErr) {
			return nil, err
		}
		return nil, &entity.ModuleError{Module: ref.Module, Kind: entity.ErrModuleLoadFailed, Cause: err}
	}
	return r.Extract(img, ref)
}

// Extract copies the resource named by ref out of img and closes img. The
// (name, type hint) lookup is tried first; a name that reads entirely as a
// decimal id is then retried as that id under the default type.
func (r *Resolver) Extract(img port.ModuleImage, ref entity.ResourceRef) ([]byte, error) {
	defer func() {
		if err := img.Close(); err != nil {
			r.logger.Warn().Err(err).Str("module", ref.Module).Msg("failed to unload module")
		}
	}()

	typ := ref.TypeHint
	entry, err := img.FindResource(entity.ParseResourceID(ref.Name), typ)
	if err != nil {
		id, ok := decimalID(ref.Name)
		if !ok {
			return nil, &entity.ResourceError{Module: ref.Module, Name: ref.Name, Type: typ, Cause: err}
		}

		typ = entity.DefaultResourceType
		entry, err = img.FindResource(entity.IntResource(id), typ)
		if err != nil {
			return nil, &entity.ResourceError{Module: ref.Module, Name: ref.Name, Type: typ, Cause: err}
		}
	}

	raw, err := entry.Bytes()
	if err != nil {
		return nil, &entity.ResourceError{Module: ref.Module, Name: ref.Name, Type: typ, Cause: err}
	}

	data := make([]byte, entry.Size())
	copy(data, raw)

	r.logger.Debug().
		Str("module", ref.Module).
		Str("name", ref.Name).
		Stringer("type", typ).
		Int("size", len(data)).
		Msg("resource extracted")
	return data, nil
}

// decimalID reads name as a base-10 integer resource id. Leading white space
// and a sign are accepted and the digits must run to the end of name. An
// empty name reads as id 0. Values outside the 16-bit id range are rejected.
func decimalID(name string) (uint16, bool) {
	s := strings.TrimLeftFunc(name, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return 0, name == ""
	}

	id, err := strconv.ParseUint(s, 10, 16)
	if err != nil || (neg && id != 0) {
		return 0, false
	}
	return uint16(id), true
}
