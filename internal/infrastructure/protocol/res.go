package protocol

import (
	"context"
	"fmt"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/domain/entity"
)

// ResDeps are the collaborators of the res: handler. Canonicalizer and
// Sniffer are optional.
type ResDeps struct {
	Loader        port.ModuleLoader
	Searcher      port.PathSearcher
	Canonicalizer port.URLCanonicalizer
	Sniffer       port.MimeSniffer
}

// ResProtocol serves res: URLs from resources embedded in module images.
type ResProtocol struct {
	session
	resolver *Resolver
	canon    port.URLCanonicalizer
	sniffer  port.MimeSniffer
}

var _ port.Protocol = (*ResProtocol)(nil)

// NewResProtocol creates a res: session holding one reference.
func NewResProtocol(ctx context.Context, deps ResDeps, metrics *Metrics) *ResProtocol {
	p := &ResProtocol{
		resolver: NewResolver(ctx, deps.Loader),
		canon:    deps.Canonicalizer,
		sniffer:  deps.Sniffer,
	}
	p.setup(ctx, entity.SchemeRes, "protocol-res", metrics)
	return p
}

// Start extracts the addressed resource and notifies sink: MIME type when it
// can be determined, then data, then result. On failure only the result is
// reported and the error is returned.
func (p *ResProtocol) Start(ctx context.Context, rawURL string, sink port.ProtocolSink, bind port.BindInfoProvider) error {
	p.begin(rawURL)
	p.retrieveBindInfo(bind)

	encoded := rawURL
	if p.canon != nil {
		var err error
		encoded, err = p.canon.Encode(rawURL)
		if err != nil {
			return p.fail(sink, rawURL, fmt.Errorf("%w: encode %q: %w", entity.ErrSyntax, rawURL, err))
		}
	}

	ref, img, err := p.resolver.Locate(encoded)
	if err != nil {
		return p.fail(sink, rawURL, err)
	}

	data, err := p.resolver.Extract(img, ref)
	if err != nil {
		return p.fail(sink, rawURL, err)
	}

	if p.sniffer != nil {
		mime, err := p.sniffer.SniffMIME(ref.Name, nil)
		switch {
		case err != nil:
			p.logger.Debug().Err(err).Str("name", ref.Name).Msg("no mime type")
		case sink != nil:
			sink.ReportProgress(entity.BindStatusMIMETypeAvailable, mime)
		}
	}

	p.complete(sink, data)
	return nil
}
