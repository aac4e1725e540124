package protocol

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/domain/entity"
	"github.com/bnema/dumberproto/internal/logging"
)

// session is the per-fetch state shared by both scheme handlers: a buffer
// populated once by Start, a read cursor into it, and an atomically counted
// handle. Read is not safe for concurrent use on the same session.
type session struct {
	ref     atomic.Int32
	state   entity.SessionState
	data    []byte
	cur     int
	scheme  entity.SchemeID
	logger  zerolog.Logger
	metrics *Metrics
	started time.Time
}

// setup initializes the session in place with a single reference held by the
// creator.
func (s *session) setup(ctx context.Context, scheme entity.SchemeID, component string, metrics *Metrics) {
	s.scheme = scheme
	s.logger = logging.FromContext(ctx).With().Str("component", component).Logger()
	s.metrics = metrics
	s.ref.Store(1)
	metrics.sessionCreated(scheme)
}

// begin moves the session into Started, discarding any earlier buffer.
func (s *session) begin(rawURL string) {
	if s.data != nil {
		s.logger.Warn().
			Str("url", rawURL).
			Int("discarded", len(s.data)).
			Msg("data already loaded")
	}
	s.data = nil
	s.cur = 0
	s.state = entity.SessionStarted
	s.started = time.Now()
}

// retrieveBindInfo performs the bind-info handshake. The values are not
// used, so a failing provider only gets logged.
func (s *session) retrieveBindInfo(bind port.BindInfoProvider) {
	if bind == nil {
		return
	}
	flags, info, err := bind.GetBindInfo()
	if info != nil {
		info.Release()
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("bind info unavailable")
		return
	}
	s.logger.Trace().Uint32("bindf", uint32(flags)).Msg("bind info retrieved")
}

// complete installs data and delivers the data and success notifications.
func (s *session) complete(sink port.ProtocolSink, data []byte) {
	s.data = data
	s.cur = 0
	s.state = entity.SessionReadable
	s.metrics.recordStart(s.scheme, nil, len(data), time.Since(s.started))

	if sink == nil {
		return
	}
	size := uint64(len(data))
	sink.ReportData(entity.DataFirstNotification|entity.DataLastNotification|entity.DataFullyAvailable, size, size)
	sink.ReportResult(nil, entity.ResultOK, "")
}

// fail delivers the failure notification and returns err.
func (s *session) fail(sink port.ProtocolSink, rawURL string, err error) error {
	s.data = nil
	s.cur = 0
	s.state = entity.SessionFailed
	s.metrics.recordStart(s.scheme, err, 0, time.Since(s.started))

	code := entity.StatusCode(err)
	s.logger.Warn().Err(err).Str("url", rawURL).Stringer("code", code).Msg("start failed")
	if sink != nil {
		sink.ReportResult(err, code, "")
	}
	return err
}

// State returns the lifecycle state.
func (s *session) State() entity.SessionState {
	return s.state
}

func (s *session) Read(p []byte) (int, error) {
	if s.data == nil || !s.state.HasData() {
		return 0, entity.ErrNoData
	}
	if len(p) == 0 {
		return 0, nil
	}
	if s.cur >= len(s.data) {
		return 0, io.EOF
	}

	n := copy(p, s.data[s.cur:])
	s.cur += n
	s.metrics.recordRead(s.scheme, n)
	s.logger.Trace().Int("read", n).Int("remaining", len(s.data)-s.cur).Msg("read")
	return n, nil
}

func (s *session) Terminate() error {
	s.logger.Trace().Stringer("state", s.state).Msg("terminate")
	if s.state == entity.SessionReadable {
		s.state = entity.SessionTerminated
	}
	return nil
}

func (s *session) LockRequest() error {
	return nil
}

func (s *session) UnlockRequest() error {
	return nil
}

func (s *session) Continue(data []byte) error {
	return s.unsupported("continue")
}

func (s *session) Abort(reason error) error {
	s.logger.Warn().AnErr("reason", reason).Msg("abort is not supported")
	return entity.ErrNotImplemented
}

func (s *session) Suspend() error {
	return s.unsupported("suspend")
}

func (s *session) Resume() error {
	return s.unsupported("resume")
}

func (s *session) Seek(offset int64, whence int) (int64, error) {
	return 0, s.unsupported("seek")
}

func (s *session) unsupported(op string) error {
	s.logger.Warn().Str("op", op).Msg("operation not implemented")
	return entity.ErrNotImplemented
}

func (s *session) AddRef() int32 {
	return s.ref.Add(1)
}

// Release drops one reference. The buffer is freed when the count reaches
// zero; the session must not be used afterwards.
func (s *session) Release() int32 {
	n := s.ref.Add(-1)
	switch {
	case n == 0:
		s.data = nil
		s.cur = 0
		s.metrics.sessionReleased(s.scheme)
		s.logger.Trace().Msg("session released")
	case n < 0:
		s.logger.Error().Int32("refs", n).Msg("session released too many times")
	}
	return n
}
