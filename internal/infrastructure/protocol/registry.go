package protocol

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/domain/entity"
	"github.com/bnema/dumberproto/internal/logging"
)

// FactoryFunc adapts a function to port.ProtocolFactory.
type FactoryFunc func(ctx context.Context) (port.Protocol, error)

// CreateInstance calls f(ctx).
func (f FactoryFunc) CreateInstance(ctx context.Context) (port.Protocol, error) {
	return f(ctx)
}

// Entry pairs a scheme's info object with its session factory.
type Entry struct {
	Scheme  entity.SchemeID
	Info    port.ProtocolInfo
	Factory port.ProtocolFactory
}

// Deps are the collaborators shared by every registered handler.
type Deps struct {
	Res     ResDeps
	Metrics *Metrics
}

// Registry maps scheme identifiers to their handlers. It is built once and
// never mutated, so lookups are safe from any goroutine.
type Registry struct {
	byClass map[uuid.UUID]Entry
	byName  map[string]Entry
	logger  zerolog.Logger
}

// NewRegistry registers the about: and res: handlers.
func NewRegistry(ctx context.Context, deps Deps) *Registry {
	entries := []Entry{
		{
			Scheme: entity.SchemeAbout,
			Info:   NewAboutInfo(ctx),
			Factory: FactoryFunc(func(ctx context.Context) (port.Protocol, error) {
				return NewAboutProtocol(ctx, deps.Metrics), nil
			}),
		},
		{
			Scheme: entity.SchemeRes,
			Info:   NewResInfo(ctx, deps.Res.Searcher),
			Factory: FactoryFunc(func(ctx context.Context) (port.Protocol, error) {
				if deps.Res.Loader == nil {
					return nil, fmt.Errorf("res handler has no module loader: %w", entity.ErrUnsupported)
				}
				return NewResProtocol(ctx, deps.Res, deps.Metrics), nil
			}),
		},
	}

	r := &Registry{
		byClass: make(map[uuid.UUID]Entry, len(entries)),
		byName:  make(map[string]Entry, len(entries)),
		logger:  logging.FromContext(ctx).With().Str("component", "registry").Logger(),
	}
	for _, e := range entries {
		r.byClass[e.Scheme.Class] = e
		r.byName[e.Scheme.Name] = e
	}
	return r
}

// Lookup returns the entry registered under class.
func (r *Registry) Lookup(class uuid.UUID) (Entry, error) {
	e, ok := r.byClass[class]
	if !ok {
		r.logger.Debug().Stringer("class", class).Msg("unknown scheme class")
		return Entry{}, fmt.Errorf("%w: %s", entity.ErrUnknownScheme, class)
	}
	return e, nil
}

// Create returns the part of the entry selected by iface: the whole Entry for
// InterfaceUnknown, the port.ProtocolInfo or the port.ProtocolFactory.
func (r *Registry) Create(class uuid.UUID, iface entity.Interface) (any, error) {
	e, err := r.Lookup(class)
	if err != nil {
		return nil, err
	}
	switch iface {
	case entity.InterfaceUnknown:
		return e, nil
	case entity.InterfaceProtocolInfo:
		return e.Info, nil
	case entity.InterfaceClassFactory:
		return e.Factory, nil
	default:
		return nil, fmt.Errorf("%w: interface %d", entity.ErrUnsupported, iface)
	}
}

// ForScheme returns the entry serving the scheme token name.
func (r *Registry) ForScheme(name string) (Entry, error) {
	e, ok := r.byName[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", entity.ErrUnknownScheme, name)
	}
	return e, nil
}

// ForURL returns the entry serving rawURL's scheme.
func (r *Registry) ForURL(rawURL string) (Entry, error) {
	scheme := entity.SchemeOf(rawURL)
	if scheme == "" {
		return Entry{}, fmt.Errorf("%w: %q has no scheme", entity.ErrInvalidScheme, rawURL)
	}
	return r.ForScheme(scheme)
}

// Schemes returns the registered scheme identifiers.
func (r *Registry) Schemes() []entity.SchemeID {
	out := make([]entity.SchemeID, 0, len(r.byClass))
	for _, s := range entity.KnownSchemes() {
		if _, ok := r.byClass[s.Class]; ok {
			out = append(out, s)
		}
	}
	return out
}
