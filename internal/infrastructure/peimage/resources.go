// Package peimage maps PE/COFF module images as data and reads their
// embedded resource tables.
package peimage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/bnema/dumberproto/internal/domain/entity"
)

// Lookup errors reported as the cause of a failed resource search.
var (
	ErrTypeNotFound = errors.New("resource type not found in image")
	ErrNameNotFound = errors.New("resource name not found in image")
	ErrMalformed    = errors.New("malformed resource directory")
)

const (
	dirHeaderSize  = 16
	dirEntrySize   = 8
	dataEntrySize  = 16
	highBit        = 0x80000000
	resourceLevels = 3
)

// Resource is one leaf of the resource directory tree.
type Resource struct {
	Type     entity.ResourceID
	Name     entity.ResourceID
	Lang     uint16
	RVA      uint32
	Size     uint32
	CodePage uint32
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// parseResourceDirectory flattens the type/name/language tree rooted at the
// start of rsrc into a list of leaves in table order.
func parseResourceDirectory(rsrc []byte) ([]Resource, error) {
	p := &dirParser{data: rsrc, seen: make(map[uint32]bool)}
	var out []Resource
	if err := p.walk(0, 0, make([]entity.ResourceID, resourceLevels), &out); err != nil {
		return nil, err
	}
	return out, nil
}

type dirParser struct {
	data []byte
	seen map[uint32]bool
}

func (p *dirParser) walk(off uint32, level int, path []entity.ResourceID, out *[]Resource) error {
	if level >= resourceLevels {
		return fmt.Errorf("%w: directory nested deeper than %d levels", ErrMalformed, resourceLevels)
	}
	if p.seen[off] {
		return fmt.Errorf("%w: directory loop at 0x%x", ErrMalformed, off)
	}
	p.seen[off] = true

	hdr, err := p.slice(off, dirHeaderSize)
	if err != nil {
		return err
	}
	count := uint32(binary.LittleEndian.Uint16(hdr[12:])) + uint32(binary.LittleEndian.Uint16(hdr[14:]))

	for i := uint32(0); i < count; i++ {
		ent, err := p.slice(off+dirHeaderSize+i*dirEntrySize, dirEntrySize)
		if err != nil {
			return err
		}
		nameField := binary.LittleEndian.Uint32(ent[0:])
		dataField := binary.LittleEndian.Uint32(ent[4:])

		id, err := p.entryID(nameField)
		if err != nil {
			return err
		}
		path[level] = id

		if dataField&highBit != 0 {
			if err := p.walk(dataField&^highBit, level+1, path, out); err != nil {
				return err
			}
			continue
		}
		if level != resourceLevels-1 {
			return fmt.Errorf("%w: data entry at level %d", ErrMalformed, level)
		}

		leaf, err := p.slice(dataField, dataEntrySize)
		if err != nil {
			return err
		}
		*out = append(*out, Resource{
			Type:     path[0],
			Name:     path[1],
			Lang:     path[2].ID,
			RVA:      binary.LittleEndian.Uint32(leaf[0:]),
			Size:     binary.LittleEndian.Uint32(leaf[4:]),
			CodePage: binary.LittleEndian.Uint32(leaf[8:]),
		})
	}
	return nil
}

func (p *dirParser) entryID(field uint32) (entity.ResourceID, error) {
	if field&highBit == 0 {
		return entity.IntResource(uint16(field)), nil
	}
	off := field &^ highBit
	lenBuf, err := p.slice(off, 2)
	if err != nil {
		return entity.ResourceID{}, err
	}
	n := uint32(binary.LittleEndian.Uint16(lenBuf))
	raw, err := p.slice(off+2, n*2)
	if err != nil {
		return entity.ResourceID{}, err
	}
	name, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return entity.ResourceID{}, fmt.Errorf("%w: name at 0x%x: %w", ErrMalformed, off, err)
	}
	return entity.NamedResource(string(name)), nil
}

func (p *dirParser) slice(off, n uint32) ([]byte, error) {
	end := uint64(off) + uint64(n)
	if end > uint64(len(p.data)) {
		return nil, fmt.Errorf("%w: 0x%x+%d outside %d byte section", ErrMalformed, off, n, len(p.data))
	}
	return p.data[off:end], nil
}

// findResource returns the first leaf whose type and name match.
func findResource(table []Resource, name, typ entity.ResourceID) (Resource, error) {
	typeSeen := false
	for _, r := range table {
		if !r.Type.Matches(typ) {
			continue
		}
		typeSeen = true
		if r.Name.Matches(name) {
			return r, nil
		}
	}
	if !typeSeen {
		return Resource{}, fmt.Errorf("%w: %s", ErrTypeNotFound, typ)
	}
	return Resource{}, fmt.Errorf("%w: %s", ErrNameNotFound, name)
}
