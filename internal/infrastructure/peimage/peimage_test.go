package peimage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumberproto/internal/domain/entity"
)

func writeImage(t *testing.T, dir, name string, b *Builder) string {
	t.Helper()
	data, err := b.Bytes()
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func sampleBuilder() *Builder {
	return NewBuilder().
		Add(entity.DefaultResourceType, entity.NamedResource("blank.htm"), []byte("<html>blank</html>")).
		Add(entity.DefaultResourceType, entity.IntResource(101), []byte("numbered")).
		Add(entity.NamedResource("CUSTOM"), entity.NamedResource("data.bin"), []byte{0, 1, 2, 3, 4}).
		AddLang(entity.IntResource(6), entity.IntResource(1), 0x409, []byte("strings"))
}

func TestLoaderRoundTrip(t *testing.T) {
	for _, useMmap := range []bool{true, false} {
		t.Run(map[bool]string{true: "mmap", false: "read"}[useMmap], func(t *testing.T) {
			dir := t.TempDir()
			writeImage(t, dir, "sample.dll", sampleBuilder())

			loader := NewLoader(context.Background(), NewSearcher([]string{dir}, ".dll"), WithMmap(useMmap))
			img, err := loader.Open("sample.dll")
			require.NoError(t, err)
			defer img.Close()

			entry, err := img.FindResource(entity.NamedResource("BLANK.HTM"), entity.DefaultResourceType)
			require.NoError(t, err)
			assert.Equal(t, len("<html>blank</html>"), entry.Size())
			data, err := entry.Bytes()
			require.NoError(t, err)
			assert.Equal(t, "<html>blank</html>", string(data))

			entry, err = img.FindResource(entity.IntResource(101), entity.DefaultResourceType)
			require.NoError(t, err)
			data, err = entry.Bytes()
			require.NoError(t, err)
			assert.Equal(t, "numbered", string(data))

			entry, err = img.FindResource(entity.NamedResource("data.bin"), entity.NamedResource("custom"))
			require.NoError(t, err)
			data, err = entry.Bytes()
			require.NoError(t, err)
			assert.Equal(t, []byte{0, 1, 2, 3, 4}, data)
		})
	}
}

func TestImageResourcesOrder(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "sample.dll", sampleBuilder())

	img, err := NewLoader(context.Background(), NewSearcher([]string{dir}, "")).Open("sample.dll")
	require.NoError(t, err)
	defer img.Close()

	res := img.Resources()
	require.Len(t, res, 4)
	// named types first, then numeric types ascending
	assert.Equal(t, entity.NamedResource("CUSTOM"), res[0].Type)
	assert.Equal(t, entity.IntResource(6), res[1].Type)
	assert.Equal(t, uint16(0x409), res[1].Lang)
	assert.Equal(t, entity.DefaultResourceType, res[2].Type)
	assert.Equal(t, entity.NamedResource("blank.htm"), res[2].Name)
	assert.Equal(t, entity.IntResource(101), res[3].Name)
}

func TestFindResourceErrors(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "sample.dll", sampleBuilder())

	img, err := NewLoader(context.Background(), NewSearcher([]string{dir}, "")).Open("sample.dll")
	require.NoError(t, err)
	defer img.Close()

	_, err = img.FindResource(entity.NamedResource("missing.htm"), entity.DefaultResourceType)
	assert.ErrorIs(t, err, ErrNameNotFound)

	_, err = img.FindResource(entity.NamedResource("blank.htm"), entity.NamedResource("html"))
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestBytesAfterCloseFails(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "sample.dll", sampleBuilder())

	img, err := NewLoader(context.Background(), NewSearcher([]string{dir}, "")).Open("sample.dll")
	require.NoError(t, err)

	entry, err := img.FindResource(entity.IntResource(101), entity.DefaultResourceType)
	require.NoError(t, err)
	require.NoError(t, img.Close())
	require.NoError(t, img.Close())

	_, err = entry.Bytes()
	assert.Error(t, err)
}

func TestEmptyResourceTable(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "empty.dll", NewBuilder())

	img, err := NewLoader(context.Background(), NewSearcher([]string{dir}, "")).Open("empty.dll")
	require.NoError(t, err)
	defer img.Close()

	assert.Empty(t, img.Resources())
	_, err = img.FindResource(entity.NamedResource("x"), entity.DefaultResourceType)
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "text.dll"), []byte("not an image"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.dll"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.dll"), 0o755))

	loader := NewLoader(context.Background(), NewSearcher([]string{dir}, ".dll"))

	_, err := loader.Load("missing.dll")
	assert.ErrorIs(t, err, entity.ErrModuleNotFound)

	_, err = loader.Load("folder.dll")
	assert.ErrorIs(t, err, entity.ErrModuleNotFound)

	_, err = loader.Load("text.dll")
	assert.ErrorIs(t, err, entity.ErrModuleLoadFailed)

	_, err = loader.Load("empty.dll")
	assert.ErrorIs(t, err, entity.ErrModuleLoadFailed)
}

func TestTruncatedResourceSection(t *testing.T) {
	data, err := sampleBuilder().Bytes()
	require.NoError(t, err)

	// Corrupt the root directory's entry count so entries run past the section.
	rsrc := data[fileAlignment:]
	rsrc[14] = 0xff
	rsrc[15] = 0x7f

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.dll"), data, 0o644))

	_, err = NewLoader(context.Background(), NewSearcher([]string{dir}, "")).Load("bad.dll")
	require.ErrorIs(t, err, entity.ErrModuleLoadFailed)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSearcher(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "mod.dll"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(first, "plain"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(first, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(first, "sub", "nested.dll"), []byte("x"), 0o644))

	s := NewSearcher([]string{first, second}, ".dll")

	got, err := s.Search("mod.dll")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, "mod.dll"), got)

	got, err = s.Resolve("mod")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, "mod.dll"), got)

	_, err = s.Search("mod")
	assert.ErrorIs(t, err, os.ErrNotExist)

	got, err = s.Resolve("plain")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(first, "plain"), got)

	got, err = s.Search("sub/nested.dll")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(first, "sub", "nested.dll"), got)

	abs := filepath.Join(second, "mod.dll")
	got, err = s.Search(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	s.SetDirs([]string{first})
	_, err = s.Search("mod.dll")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, []string{first}, s.Dirs())
}
