package port

import (
	"context"

	"github.com/bnema/dumberproto/internal/domain/entity"
)

// ProtocolSink receives the notifications of a fetch. It is owned by the host.
type ProtocolSink interface {
	// ReportProgress delivers a progress notification such as the MIME type.
	ReportProgress(status entity.BindStatus, text string)

	// ReportData announces that progress of max bytes are available for Read.
	ReportData(flags entity.DataFlags, progress, max uint64)

	// ReportResult delivers the terminal outcome. A nil err means success.
	ReportResult(err error, code entity.ResultCode, redirectURL string)
}

// BindInfoProvider supplies the host's bind options for a fetch.
type BindInfoProvider interface {
	GetBindInfo() (entity.BindFlags, BindInfo, error)
}

// BindInfo is a bind record that must be released once consumed.
type BindInfo interface {
	Info() entity.BindInfo
	Release()
}

// Protocol is a per-fetch session of a scheme handler.
type Protocol interface {
	// Start materializes the content for rawURL and notifies sink before
	// returning. It never completes asynchronously.
	Start(ctx context.Context, rawURL string, sink ProtocolSink, bind BindInfoProvider) error
	Continue(data []byte) error
	Abort(reason error) error
	Terminate() error
	Suspend() error
	Resume() error

	// Read copies buffered content into p. It returns io.EOF once the buffer
	// is drained and entity.ErrNoData when Start produced no buffer.
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	LockRequest() error
	UnlockRequest() error

	// AddRef and Release adjust the shared reference count. The session's
	// buffer is released when the count reaches zero.
	AddRef() int32
	Release() int32
}

// ProtocolInfo answers per-scheme URL questions without a live session.
type ProtocolInfo interface {
	// ParseURL performs action on rawURL. capacity is the caller's buffer size
	// in characters.
	ParseURL(rawURL string, action entity.ParseAction, capacity int) (string, error)
	CombineURL(baseURL, relativeURL string) (string, error)
	CompareURL(url1, url2 string) error
	// QueryInfo answers option for rawURL into a buffer of bufLen bytes.
	QueryInfo(rawURL string, option entity.QueryOption, bufLen int) (uint32, error)
}

// ProtocolFactory creates sessions of one scheme.
type ProtocolFactory interface {
	CreateInstance(ctx context.Context) (Protocol, error)
}
