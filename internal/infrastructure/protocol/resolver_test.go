package protocol

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumberproto/internal/application/port/mocks"
	"github.com/bnema/dumberproto/internal/domain/entity"
	"github.com/bnema/dumberproto/internal/infrastructure/peimage"
)

func TestLocateTriesFullModulePathFirst(t *testing.T) {
	img := newFakeImage(nil)
	loader := mocks.NewMockModuleLoader(t)
	mock.InOrder(
		loader.EXPECT().Load("shdoclc.dll/html").Return(nil, errors.New("not a file")).Once(),
		loader.EXPECT().Load("shdoclc.dll").Return(img, nil).Once(),
	)

	ref, got, err := NewResolver(context.Background(), loader).Locate("res://shdoclc.dll/html/topic.htm")
	require.NoError(t, err)
	assert.Same(t, img, got)
	assert.Equal(t, entity.ResourceRef{
		Module:   "shdoclc.dll",
		TypeHint: entity.NamedResource("html"),
		Name:     "topic.htm",
	}, ref)
}

func TestLocateKeepsModulePathWhenItLoads(t *testing.T) {
	img := newFakeImage(nil)
	loader := mocks.NewMockModuleLoader(t)
	loader.EXPECT().Load("dir/mod.dll").Return(img, nil).Once()

	ref, _, err := NewResolver(context.Background(), loader).Locate("res://dir/mod.dll/page.htm")
	require.NoError(t, err)
	assert.Equal(t, "dir/mod.dll", ref.Module)
	assert.Equal(t, entity.DefaultResourceType, ref.TypeHint)
}

func TestLocateTypeSegment(t *testing.T) {
	tests := []struct {
		segment string
		want    entity.ResourceID
	}{
		{segment: "#2110", want: entity.IntResource(2110)},
		{segment: "2110", want: entity.NamedResource("2110")},
		{segment: "html", want: entity.NamedResource("html")},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			loader := mocks.NewMockModuleLoader(t)
			loader.EXPECT().Load("mod.dll/"+tt.segment).Return(nil, errors.New("not a file")).Once()
			loader.EXPECT().Load("mod.dll").Return(newFakeImage(nil), nil).Once()

			ref, _, err := NewResolver(context.Background(), loader).Locate("res://mod.dll/" + tt.segment + "/1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.TypeHint)
		})
	}
}

func TestLocateErrors(t *testing.T) {
	loadErr := errors.New("no such file")

	t.Run("single segment module", func(t *testing.T) {
		loader := mocks.NewMockModuleLoader(t)
		loader.EXPECT().Load("mod.dll").Return(nil, loadErr).Once()

		_, _, err := NewResolver(context.Background(), loader).Locate("res://mod.dll/page.htm")
		assert.ErrorIs(t, err, entity.ErrModuleNotFound)
		assert.ErrorIs(t, err, loadErr)
	})

	t.Run("both stages fail", func(t *testing.T) {
		loader := mocks.NewMockModuleLoader(t)
		loader.EXPECT().Load("mod.dll/html").Return(nil, errors.New("first")).Once()
		loader.EXPECT().Load("mod.dll").Return(nil, loadErr).Once()

		_, _, err := NewResolver(context.Background(), loader).Locate("res://mod.dll/html/page.htm")
		assert.ErrorIs(t, err, entity.ErrModuleNotFound)
		assert.ErrorIs(t, err, loadErr)
	})

	t.Run("not res", func(t *testing.T) {
		_, _, err := NewResolver(context.Background(), mocks.NewMockModuleLoader(t)).Locate("file:///x/y")
		assert.ErrorIs(t, err, entity.ErrInvalidScheme)
	})
}

func TestExtractNumericFallback(t *testing.T) {
	img := newFakeImage(map[string][]byte{"#23/#101": []byte("numbered")})

	data, err := NewResolver(context.Background(), nil).Extract(img, entity.ResourceRef{
		Module:   "mod.dll",
		TypeHint: entity.NamedResource("html"),
		Name:     "101",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("numbered"), data)
	assert.Equal(t, []string{"html/101", "#23/#101"}, img.lookups)
	assert.Equal(t, 1, img.closed)
}

func TestExtractTypeHintWinsOverNumericFallback(t *testing.T) {
	img := newFakeImage(map[string][]byte{
		"#23/101":  []byte("by name"),
		"#23/#101": []byte("by id"),
	})

	data, err := NewResolver(context.Background(), nil).Extract(img, entity.ResourceRef{
		Module:   "mod.dll",
		TypeHint: entity.DefaultResourceType,
		Name:     "101",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("by name"), data)
	assert.Equal(t, []string{"#23/101"}, img.lookups)
}

func TestExtractMisses(t *testing.T) {
	tests := []struct {
		name    string
		resName string
		lookups []string
	}{
		{name: "non numeric", resName: "topic.htm", lookups: []string{"#23/topic.htm"}},
		{name: "partly numeric", resName: "12ab", lookups: []string{"#23/12ab"}},
		{name: "numeric", resName: "7", lookups: []string{"#23/7", "#23/#7"}},
		{name: "out of range", resName: "70000", lookups: []string{"#23/70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newFakeImage(nil)
			_, err := NewResolver(context.Background(), nil).Extract(img, entity.ResourceRef{
				Module:   "mod.dll",
				TypeHint: entity.DefaultResourceType,
				Name:     tt.resName,
			})
			require.ErrorIs(t, err, entity.ErrResourceNotFound)
			assert.NotErrorIs(t, err, entity.ErrSyntax)
			assert.ErrorIs(t, err, errNotInImage)
			assert.Equal(t, tt.lookups, img.lookups)
			assert.Equal(t, 1, img.closed)
		})
	}
}

func TestExtractNumericFallbackParsing(t *testing.T) {
	tests := []struct {
		resName string
		lookups []string
	}{
		{resName: "7", lookups: []string{"#23/7", "#23/#7"}},
		{resName: " 7", lookups: []string{"#23/ 7", "#23/#7"}},
		{resName: "+7", lookups: []string{"#23/+7", "#23/#7"}},
		{resName: "007", lookups: []string{"#23/007", "#23/#7"}},
		{resName: "-0", lookups: []string{"#23/-0", "#23/#0"}},
		{resName: "", lookups: []string{"#23/", "#23/#0"}},
		{resName: "-7", lookups: []string{"#23/-7"}},
		{resName: "7 ", lookups: []string{"#23/7 "}},
		{resName: "+", lookups: []string{"#23/+"}},
		{resName: "12ab", lookups: []string{"#23/12ab"}},
		{resName: "70000", lookups: []string{"#23/70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.resName, func(t *testing.T) {
			img := newFakeImage(nil)
			_, err := NewResolver(context.Background(), nil).Extract(img, entity.ResourceRef{
				Module:   "mod.dll",
				TypeHint: entity.DefaultResourceType,
				Name:     tt.resName,
			})
			require.ErrorIs(t, err, entity.ErrResourceNotFound)
			assert.Equal(t, tt.lookups, img.lookups)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("plain load error", func(t *testing.T) {
		loader := mocks.NewMockModuleLoader(t)
		loader.EXPECT().Load("mod.dll").Return(nil, errors.New("mapping failed")).Once()

		_, err := NewResolver(context.Background(), loader).Resolve(entity.ResourceRef{Module: "mod.dll", Name: "a"})
		assert.ErrorIs(t, err, entity.ErrModuleLoadFailed)
	})

	t.Run("classified load error", func(t *testing.T) {
		loadErr := &entity.ModuleError{Module: "mod.dll", Kind: entity.ErrModuleNotFound}
		loader := mocks.NewMockModuleLoader(t)
		loader.EXPECT().Load("mod.dll").Return(nil, loadErr).Once()

		_, err := NewResolver(context.Background(), loader).Resolve(entity.ResourceRef{Module: "mod.dll", Name: "a"})
		assert.ErrorIs(t, err, entity.ErrModuleNotFound)
		assert.NotErrorIs(t, err, entity.ErrModuleLoadFailed)
	})

	t.Run("found", func(t *testing.T) {
		img := newFakeImage(map[string][]byte{"#23/a": []byte("A")})
		loader := mocks.NewMockModuleLoader(t)
		loader.EXPECT().Load("mod.dll").Return(img, nil).Once()

		data, err := NewResolver(context.Background(), loader).Resolve(entity.ResourceRef{
			Module:   "mod.dll",
			TypeHint: entity.DefaultResourceType,
			Name:     "a",
		})
		require.NoError(t, err)
		assert.Equal(t, []byte("A"), data)
		assert.Equal(t, 1, img.closed)
	})
}

func buildModule(t *testing.T, dir, name string, b *peimage.Builder) string {
	t.Helper()
	data, err := b.Bytes()
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestResProtocolWithModuleImages(t *testing.T) {
	dir := t.TempDir()
	buildModule(t, dir, "shdoclc.dll", peimage.NewBuilder().
		Add(entity.NamedResource("HTML"), entity.NamedResource("topic.htm"), []byte("<p>typed</p>")).
		Add(entity.DefaultResourceType, entity.NamedResource("blank.htm"), []byte("<p>blank</p>")).
		Add(entity.DefaultResourceType, entity.IntResource(7), []byte("<p>seven</p>")))

	loader := peimage.NewLoader(context.Background(), peimage.NewSearcher([]string{dir}, ".dll"))

	tests := []struct {
		url    string
		want   string
		target error
	}{
		{url: "res://shdoclc.dll/html/topic.htm", want: "<p>typed</p>"},
		{url: "res://shdoclc.dll/BLANK.HTM", want: "<p>blank</p>"},
		{url: "res://shdoclc.dll/7", want: "<p>seven</p>"},
		{url: "res://shdoclc.dll/#7", want: "<p>seven</p>"},
		{url: "res://shdoclc.dll/23/7", want: "<p>seven</p>"},
		{url: "res://shdoclc.dll/+7", want: "<p>seven</p>"},
		{url: "res://shdoclc/blank.htm", want: "<p>blank</p>"},
		{url: "res://shdoclc.dll/topic.htm", target: entity.ErrResourceNotFound},
		{url: "res://shdoclc.dll/html/7", want: "<p>seven</p>"},
		{url: "res://shdoclc.dll/html/8", target: entity.ErrResourceNotFound},
		{url: "res://other.dll/blank.htm", target: entity.ErrModuleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			p := NewResProtocol(context.Background(), ResDeps{Loader: loader}, nil)
			err := p.Start(context.Background(), tt.url, nil, nil)
			if tt.target != nil {
				require.ErrorIs(t, err, tt.target)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(drain(t, p, 5)))
		})
	}
}
