package protocol

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/application/port/mocks"
	"github.com/bnema/dumberproto/internal/domain/entity"
)

func wide(t *testing.T, s string) []byte {
	t.Helper()
	b, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func drain(t *testing.T, p interface{ Read([]byte) (int, error) }, chunk int) []byte {
	t.Helper()
	var out []byte
	buf := make([]byte, chunk)
	for i := 0; ; i++ {
		require.Less(t, i, 10000, "read loop did not terminate")
		n, err := p.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
	}
}

func TestAboutStart(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "text", url: "about:hello", want: "\ufeff<HTML>hello</HTML>"},
		{name: "blank", url: "about:blank", want: "\ufeff<HTML></HTML>"},
		{name: "empty", url: "about:", want: "\ufeff<HTML></HTML>"},
		{name: "no prefix", url: "hello", want: "\ufeff<HTML>hello</HTML>"},
		{name: "markup is verbatim", url: "about:<b>x</b>", want: "\ufeff<HTML><b>x</b></HTML>"},
		{name: "blank is exact", url: "about:blankety", want: "\ufeff<HTML>blankety</HTML>"},
		{name: "non ascii", url: "about:héllo", want: "\ufeff<HTML>héllo</HTML>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := wide(t, tt.want)
			size := uint64(len(want))

			sink := mocks.NewMockProtocolSink(t)
			mock.InOrder(
				sink.EXPECT().ReportData(entity.DataFirstNotification|entity.DataLastNotification|entity.DataFullyAvailable, size, size).Once(),
				sink.EXPECT().ReportResult(nil, entity.ResultOK, "").Once(),
			)

			p := NewAboutProtocol(context.Background(), nil)
			require.NoError(t, p.Start(context.Background(), tt.url, sink, nil))
			assert.Equal(t, entity.SessionReadable, p.State())
			assert.Equal(t, want, drain(t, p, 7))
		})
	}
}

func TestAboutDocumentStartsWithBOM(t *testing.T) {
	doc, err := AboutDocument(entity.TextAddress{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(doc), 2)
	assert.Equal(t, []byte{0xff, 0xfe}, doc[:2])
	assert.Equal(t, []byte{'<', 0, 'H', 0}, doc[2:6])
}

func TestStartRetrievesAndReleasesBindInfo(t *testing.T) {
	info := &fakeBindInfo{}
	bind := mocks.NewMockBindInfoProvider(t)
	bind.EXPECT().GetBindInfo().Return(entity.BindFlags(0x40), info, nil).Once()

	p := NewAboutProtocol(context.Background(), nil)
	require.NoError(t, p.Start(context.Background(), "about:x", nil, bind))
	assert.Equal(t, 1, info.released)
}

type statefulProtocol interface {
	port.Protocol
	State() entity.SessionState
}

func TestStartServesDespiteBindInfoFailure(t *testing.T) {
	bindErr := errors.New("no bind info")

	tests := []struct {
		name  string
		url   string
		start func(t *testing.T) statefulProtocol
		want  []byte
	}{
		{
			name: "about",
			url:  "about:x",
			start: func(t *testing.T) statefulProtocol {
				return NewAboutProtocol(context.Background(), nil)
			},
			want: wide(t, "\ufeff<HTML>x</HTML>"),
		},
		{
			name: "res",
			url:  "res://mod.dll/a.htm",
			start: func(t *testing.T) statefulProtocol {
				loader := mocks.NewMockModuleLoader(t)
				loader.EXPECT().Load("mod.dll").Return(newFakeImage(map[string][]byte{"#23/a.htm": []byte("A")}), nil).Once()
				return NewResProtocol(context.Background(), ResDeps{Loader: loader}, nil)
			},
			want: []byte("A"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &fakeBindInfo{}
			bind := mocks.NewMockBindInfoProvider(t)
			bind.EXPECT().GetBindInfo().Return(entity.BindFlags(0), info, bindErr).Once()

			size := uint64(len(tt.want))
			sink := mocks.NewMockProtocolSink(t)
			mock.InOrder(
				sink.EXPECT().ReportData(allData, size, size).Once(),
				sink.EXPECT().ReportResult(nil, entity.ResultOK, "").Once(),
			)

			p := tt.start(t)
			require.NoError(t, p.Start(context.Background(), tt.url, sink, bind))
			assert.Equal(t, entity.SessionReadable, p.State())
			assert.Equal(t, 1, info.released)
			assert.Equal(t, tt.want, drain(t, p, 4))
		})
	}
}

func TestSessionReadBoundaries(t *testing.T) {
	p := NewAboutProtocol(context.Background(), nil)

	n, err := p.Read(make([]byte, 4))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, entity.ErrNoData)

	require.NoError(t, p.Start(context.Background(), "about:abc", nil, nil))
	total := len(wide(t, "\ufeff<HTML>abc</HTML>"))

	n, err = p.Read(nil)
	assert.Equal(t, 0, n)
	assert.NoError(t, err)
	assert.Equal(t, 0, p.cur)

	buf := make([]byte, 5)
	n, err = p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	rest := drain(t, p, 5)
	assert.Len(t, rest, total-5)

	n, err = p.Read(buf)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, total, p.cur)

	n, err = p.Read(buf)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLargerThanRemaining(t *testing.T) {
	p := NewAboutProtocol(context.Background(), nil)
	require.NoError(t, p.Start(context.Background(), "about:", nil, nil))

	buf := make([]byte, 1024)
	n, err := p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, wide(t, "\ufeff<HTML></HTML>"), buf[:n])
}

func TestTerminateKeepsDataReadable(t *testing.T) {
	p := NewAboutProtocol(context.Background(), nil)
	require.NoError(t, p.Terminate())
	assert.Equal(t, entity.SessionCreated, p.State())

	require.NoError(t, p.Start(context.Background(), "about:x", nil, nil))
	require.NoError(t, p.Terminate())
	assert.Equal(t, entity.SessionTerminated, p.State())
	assert.Equal(t, wide(t, "\ufeff<HTML>x</HTML>"), drain(t, p, 3))
}

func TestRestartReplacesBuffer(t *testing.T) {
	p := NewAboutProtocol(context.Background(), nil)
	require.NoError(t, p.Start(context.Background(), "about:first", nil, nil))
	_, err := p.Read(make([]byte, 4))
	require.NoError(t, err)

	require.NoError(t, p.Start(context.Background(), "about:second", nil, nil))
	assert.Equal(t, wide(t, "\ufeff<HTML>second</HTML>"), drain(t, p, 64))
}

func TestUnsupportedOperations(t *testing.T) {
	p := NewAboutProtocol(context.Background(), nil)

	assert.ErrorIs(t, p.Continue([]byte("x")), entity.ErrNotImplemented)
	assert.ErrorIs(t, p.Abort(errors.New("stop")), entity.ErrNotImplemented)
	assert.ErrorIs(t, p.Suspend(), entity.ErrNotImplemented)
	assert.ErrorIs(t, p.Resume(), entity.ErrNotImplemented)
	_, err := p.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, entity.ErrNotImplemented)

	assert.NoError(t, p.LockRequest())
	assert.NoError(t, p.UnlockRequest())
	assert.NoError(t, p.Terminate())
}

func TestReferenceCounting(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	p := NewAboutProtocol(context.Background(), metrics)
	require.NoError(t, p.Start(context.Background(), "about:x", nil, nil))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.liveSessions.WithLabelValues("about")))

	assert.Equal(t, int32(2), p.AddRef())
	assert.Equal(t, int32(1), p.Release())

	n, err := p.Read(make([]byte, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, int32(0), p.Release())
	_, err = p.Read(make([]byte, 2))
	assert.ErrorIs(t, err, entity.ErrNoData)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.liveSessions.WithLabelValues("about")))
}

func TestReferenceCountingAcrossGoroutines(t *testing.T) {
	p := NewAboutProtocol(context.Background(), nil)

	const holders = 32
	done := make(chan struct{})
	for i := 0; i < holders; i++ {
		p.AddRef()
	}
	for i := 0; i < holders; i++ {
		go func() {
			p.Release()
			done <- struct{}{}
		}()
	}
	for i := 0; i < holders; i++ {
		<-done
	}
	assert.Equal(t, int32(0), p.Release())
}

func TestMetricsRecordStartsAndReads(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	p := NewAboutProtocol(context.Background(), metrics)
	require.NoError(t, p.Start(context.Background(), "about:abc", nil, nil))
	doc := drain(t, p, 8)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.starts.WithLabelValues("about", "ok")))
	assert.Equal(t, float64(len(doc)), testutil.ToFloat64(metrics.bytesLoaded.WithLabelValues("about")))
	assert.Equal(t, float64(len(doc)), testutil.ToFloat64(metrics.bytesRead.WithLabelValues("about")))

	r := NewResProtocol(context.Background(), ResDeps{Loader: mocks.NewMockModuleLoader(t)}, metrics)
	require.Error(t, r.Start(context.Background(), "about:abc", nil, nil))
	code := entity.ResultInvalidArg.String()
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.starts.WithLabelValues("res", code)))

	count, err := testutil.GatherAndCount(reg, "dumberproto_session_starts_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
