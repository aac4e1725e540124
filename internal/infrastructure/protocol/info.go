package protocol

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/domain/entity"
	"github.com/bnema/dumberproto/internal/domain/url"
	"github.com/bnema/dumberproto/internal/logging"
)

// queryAnswerSize is the byte size of a QueryInfo answer.
const queryAnswerSize = 4

// AboutInfo answers URL questions for the about: scheme.
type AboutInfo struct {
	logger zerolog.Logger
}

var _ port.ProtocolInfo = (*AboutInfo)(nil)

// NewAboutInfo creates the about: info object.
func NewAboutInfo(ctx context.Context) *AboutInfo {
	return &AboutInfo{
		logger: logging.FromContext(ctx).With().Str("component", "info-about").Logger(),
	}
}

// ParseURL returns the URL itself as its security URL. Domains are not
// applicable; every other action is left to the host.
func (i *AboutInfo) ParseURL(rawURL string, action entity.ParseAction, capacity int) (string, error) {
	switch action {
	case entity.ParseSecurityURL:
		return url.CopyURL(rawURL, capacity)
	case entity.ParseDomain:
		return "", url.DomainSize(rawURL)
	default:
		i.logger.Trace().Int("action", int(action)).Msg("parse action left to host")
		return "", entity.ErrDefaultAction
	}
}

func (i *AboutInfo) CombineURL(baseURL, relativeURL string) (string, error) {
	return "", entity.ErrUnsupported
}

func (i *AboutInfo) CompareURL(url1, url2 string) error {
	i.logger.Warn().Str("url1", url1).Str("url2", url2).Msg("compare url not implemented")
	return entity.ErrNotImplemented
}

func (i *AboutInfo) QueryInfo(rawURL string, option entity.QueryOption, bufLen int) (uint32, error) {
	return queryInfo(i.logger, option, bufLen)
}

// ResInfo answers URL questions for the res: scheme.
type ResInfo struct {
	searcher port.PathSearcher
	logger   zerolog.Logger
}

var _ port.ProtocolInfo = (*ResInfo)(nil)

// NewResInfo creates the res: info object. searcher resolves module names
// for security URLs.
func NewResInfo(ctx context.Context, searcher port.PathSearcher) *ResInfo {
	return &ResInfo{
		searcher: searcher,
		logger:   logging.FromContext(ctx).With().Str("component", "info-res").Logger(),
	}
}

// ParseURL rewrites res://module/... as file://<module path> for
// ParseSecurityURL and reports the required size for ParseDomain. Every other
// action is left to the host.
func (i *ResInfo) ParseURL(rawURL string, action entity.ParseAction, capacity int) (string, error) {
	switch action {
	case entity.ParseSecurityURL:
		out, err := url.SecurityURL(rawURL, capacity, i.search)
		if err != nil {
			i.logger.Debug().Err(err).Str("url", rawURL).Msg("security url failed")
		}
		return out, err
	case entity.ParseDomain:
		return "", url.DomainSize(rawURL)
	default:
		i.logger.Trace().Int("action", int(action)).Msg("parse action left to host")
		return "", entity.ErrDefaultAction
	}
}

func (i *ResInfo) search(name string) (string, error) {
	if i.searcher == nil {
		return "", fmt.Errorf("no search path: %w", fs.ErrNotExist)
	}
	return i.searcher.Search(name)
}

func (i *ResInfo) CombineURL(baseURL, relativeURL string) (string, error) {
	return "", entity.ErrUnsupported
}

func (i *ResInfo) CompareURL(url1, url2 string) error {
	i.logger.Warn().Str("url1", url1).Str("url2", url2).Msg("compare url not implemented")
	return entity.ErrNotImplemented
}

func (i *ResInfo) QueryInfo(rawURL string, option entity.QueryOption, bufLen int) (uint32, error) {
	return queryInfo(i.logger, option, bufLen)
}

// queryInfo answers UsesNetwork with false. Every other option is
// ErrUnsupported and the host applies its default.
func queryInfo(logger zerolog.Logger, option entity.QueryOption, bufLen int) (uint32, error) {
	if option != entity.QueryUsesNetwork {
		logger.Trace().Int("option", int(option)).Msg("query option left to host")
		return 0, entity.ErrUnsupported
	}
	if bufLen < queryAnswerSize {
		return 0, &entity.SizeError{Required: queryAnswerSize, Kind: entity.ErrBufferTooSmall}
	}
	return 0, nil
}
