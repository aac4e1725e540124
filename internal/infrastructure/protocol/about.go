package protocol

import (
	"context"

	"golang.org/x/text/encoding/unicode"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/domain/entity"
	"github.com/bnema/dumberproto/internal/domain/url"
)

const (
	documentPrefix = "\ufeff<HTML>"
	documentSuffix = "</HTML>"
)

var wideEncoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// AboutProtocol serves about: URLs with a document built from the URL text.
type AboutProtocol struct {
	session
}

var _ port.Protocol = (*AboutProtocol)(nil)

// NewAboutProtocol creates an about: session holding one reference.
func NewAboutProtocol(ctx context.Context, metrics *Metrics) *AboutProtocol {
	p := &AboutProtocol{}
	p.setup(ctx, entity.SchemeAbout, "protocol-about", metrics)
	return p
}

// Start synthesizes the document and notifies sink. No MIME type is reported.
func (p *AboutProtocol) Start(ctx context.Context, rawURL string, sink port.ProtocolSink, bind port.BindInfoProvider) error {
	p.begin(rawURL)
	p.retrieveBindInfo(bind)

	doc, err := AboutDocument(url.ParseAbout(rawURL))
	if err != nil {
		return p.fail(sink, rawURL, err)
	}

	p.logger.Debug().Str("url", rawURL).Int("size", len(doc)).Msg("about document synthesized")
	p.complete(sink, doc)
	return nil
}

// AboutDocument renders BOM + "<HTML>" + text + "</HTML>" as UTF-16LE. The
// text is inserted verbatim.
func AboutDocument(addr entity.TextAddress) ([]byte, error) {
	doc := documentPrefix
	if addr.HasContent {
		doc += addr.Content
	}
	doc += documentSuffix
	return wideEncoding.NewEncoder().Bytes([]byte(doc))
}
