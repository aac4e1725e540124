// Package schemehost drives protocol sessions the way a document host does:
// resolve a handler, start a session, collect its notifications and drain
// it through the pull loop.
package schemehost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/domain/entity"
	"github.com/bnema/dumberproto/internal/infrastructure/protocol"
	"github.com/bnema/dumberproto/internal/logging"
)

const (
	defaultReadChunk   = 4096
	defaultContentType = "text/html"
)

// SchemeRequest represents a request to a registered scheme.
type SchemeRequest struct {
	URI    string
	Scheme string
}

// SchemeResponse is the outcome of a request.
type SchemeResponse struct {
	Data        []byte
	ContentType string
	StatusCode  int
	Result      entity.ResultCode
	Err         error
	Events      []Event
}

// Host serves requests through a protocol registry. It is safe for
// concurrent use; every request gets its own session.
type Host struct {
	registry  *protocol.Registry
	readChunk int
	bindFlags entity.BindFlags
	logger    zerolog.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithReadChunk sets the buffer size of each Read in the pull loop.
func WithReadChunk(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.readChunk = n
		}
	}
}

// WithBindFlags sets the flags handed to sessions during bind.
func WithBindFlags(flags entity.BindFlags) Option {
	return func(h *Host) {
		h.bindFlags = flags
	}
}

// NewHost creates a Host dispatching through registry.
func NewHost(ctx context.Context, registry *protocol.Registry, opts ...Option) *Host {
	ctx = logging.WithComponent(ctx, "scheme-host")

	h := &Host{
		registry:  registry,
		readChunk: defaultReadChunk,
		logger:    *logging.FromContext(ctx),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleRequest resolves the handler for uri, runs a session to completion
// and returns the drained content. Failures are reported in the response.
func (h *Host) HandleRequest(ctx context.Context, uri string) *SchemeResponse {
	req := &SchemeRequest{URI: uri, Scheme: entity.SchemeOf(uri)}
	h.logger.Debug().Str("uri", req.URI).Str("scheme", req.Scheme).Msg("handling scheme request")

	entry, err := h.registry.ForURL(req.URI)
	if err != nil {
		return h.failure(req, err, nil)
	}

	sessionCtx := logging.WithScheme(logging.WithURL(ctx, req.URI), entry.Scheme.Name)
	p, err := entry.Factory.CreateInstance(sessionCtx)
	if err != nil {
		return h.failure(req, err, nil)
	}
	defer p.Release()

	sink := &Collector{}
	if err := p.Start(sessionCtx, req.URI, sink, staticBind{flags: h.bindFlags}); err != nil {
		return h.failure(req, err, sink.Events())
	}
	defer func() {
		if err := p.Terminate(); err != nil {
			h.logger.Warn().Err(err).Msg("terminate failed")
		}
	}()

	data, err := h.drain(p)
	if err != nil {
		return h.failure(req, err, sink.Events())
	}
	if announced, ok := sink.Announced(); ok && announced != uint64(len(data)) {
		h.logger.Warn().
			Uint64("announced", announced).
			Int("read", len(data)).
			Msg("data length differs from announcement")
	}

	contentType := sink.MIMEType()
	if contentType == "" {
		contentType = defaultContentType
	}

	h.logger.Debug().
		Str("uri", req.URI).
		Str("content_type", contentType).
		Int("size", len(data)).
		Msg("scheme request served")

	return &SchemeResponse{
		Data:        data,
		ContentType: contentType,
		StatusCode:  http.StatusOK,
		Result:      entity.ResultOK,
		Events:      sink.Events(),
	}
}

func (h *Host) drain(p port.Protocol) ([]byte, error) {
	var out bytes.Buffer
	buf := make([]byte, h.readChunk)
	for {
		n, err := p.Read(buf)
		out.Write(buf[:n])
		switch {
		case errors.Is(err, io.EOF):
			return out.Bytes(), nil
		case err != nil:
			return nil, fmt.Errorf("read: %w", err)
		case n == 0:
			return nil, fmt.Errorf("read: %w", io.ErrNoProgress)
		}
	}
}

func (h *Host) failure(req *SchemeRequest, err error, events []Event) *SchemeResponse {
	code := entity.StatusCode(err)
	h.logger.Debug().Err(err).Str("uri", req.URI).Stringer("code", code).Msg("scheme request failed")
	return &SchemeResponse{
		ContentType: "text/plain",
		StatusCode:  httpStatus(err),
		Result:      code,
		Err:         err,
		Events:      events,
	}
}

func httpStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, entity.ErrModuleNotFound), errors.Is(err, entity.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidScheme), errors.Is(err, entity.ErrSyntax):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUnknownScheme):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ToUTF8 converts a UTF-16LE document carrying a byte order mark to UTF-8
// without the mark. Other content is returned unchanged.
func ToUTF8(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, []byte{0xff, 0xfe}) {
		return data, nil
	}
	return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
}

type staticBind struct {
	flags entity.BindFlags
}

func (b staticBind) GetBindInfo() (entity.BindFlags, port.BindInfo, error) {
	return b.flags, bindRecord{}, nil
}

type bindRecord struct{}

func (bindRecord) Info() entity.BindInfo { return entity.BindInfo{Verb: 0} }
func (bindRecord) Release()              {}
