package protocol

import (
	"errors"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/domain/entity"
)

var errNotInImage = errors.New("not in image")

// fakeImage is an in-memory module image keyed by "type/name".
type fakeImage struct {
	resources map[string][]byte
	lookups   []string
	closed    int
}

func newFakeImage(resources map[string][]byte) *fakeImage {
	return &fakeImage{resources: resources}
}

func (f *fakeImage) FindResource(name, typ entity.ResourceID) (port.ResourceEntry, error) {
	key := typ.String() + "/" + name.String()
	f.lookups = append(f.lookups, key)
	data, ok := f.resources[key]
	if !ok {
		return nil, errNotInImage
	}
	return fakeEntry(data), nil
}

func (f *fakeImage) Close() error {
	f.closed++
	return nil
}

type fakeEntry []byte

func (e fakeEntry) Size() int              { return len(e) }
func (e fakeEntry) Bytes() ([]byte, error) { return e, nil }

type fakeBindInfo struct {
	released int
}

func (b *fakeBindInfo) Info() entity.BindInfo { return entity.BindInfo{} }
func (b *fakeBindInfo) Release()              { b.released++ }
