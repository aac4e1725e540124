package peimage

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bnema/dumberproto/internal/domain/entity"
)

const (
	fileAlignment    = 0x200
	sectionAlignment = 0x1000
	rsrcRVA          = sectionAlignment
	imageBase        = 0x10000000
	peOffset         = 0x40

	sectionCharacteristics = 0x40000040 // initialized data, readable
	fileCharacteristics    = 0x2102     // executable image, 32-bit, DLL
)

// Builder assembles a resource-only PE32 image.
type Builder struct {
	entries []builderEntry
}

type builderEntry struct {
	typ  entity.ResourceID
	name entity.ResourceID
	lang uint16
	data []byte
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a resource in the neutral language.
func (b *Builder) Add(typ, name entity.ResourceID, data []byte) *Builder {
	return b.AddLang(typ, name, 0, data)
}

// AddLang appends a resource in a specific language.
func (b *Builder) AddLang(typ, name entity.ResourceID, lang uint16, data []byte) *Builder {
	cp := make([]byte, len(data))
	copy(cp, data)
	b.entries = append(b.entries, builderEntry{typ: typ, name: name, lang: lang, data: cp})
	return b
}

// Bytes renders the image.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo renders the image into w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	rsrc, err := b.resourceSection()
	if err != nil {
		return 0, err
	}

	rawSize := alignUp(uint32(len(rsrc)), fileAlignment)
	virtSize := alignUp(uint32(len(rsrc)), sectionAlignment)
	if virtSize == 0 {
		virtSize = sectionAlignment
	}

	var buf bytes.Buffer
	dos := make([]byte, peOffset)
	dos[0], dos[1] = 'M', 'Z'
	binary.LittleEndian.PutUint32(dos[0x3c:], peOffset)
	buf.Write(dos)
	buf.WriteString("PE\x00\x00")

	fh := pe.FileHeader{
		Machine:              pe.IMAGE_FILE_MACHINE_I386,
		NumberOfSections:     1,
		SizeOfOptionalHeader: uint16(binary.Size(pe.OptionalHeader32{})),
		Characteristics:      fileCharacteristics,
	}
	oh := pe.OptionalHeader32{
		Magic:                 0x10b,
		MajorLinkerVersion:    1,
		SizeOfInitializedData: rawSize,
		BaseOfData:            rsrcRVA,
		ImageBase:             imageBase,
		SectionAlignment:      sectionAlignment,
		FileAlignment:         fileAlignment,
		MajorSubsystemVersion: 4,
		SizeOfImage:           rsrcRVA + virtSize,
		SizeOfHeaders:         fileAlignment,
		Subsystem:             pe.IMAGE_SUBSYSTEM_WINDOWS_GUI,
		NumberOfRvaAndSizes:   16,
	}
	oh.MajorOperatingSystemVersion = 4
	oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_RESOURCE] = pe.DataDirectory{
		VirtualAddress: rsrcRVA,
		Size:           uint32(len(rsrc)),
	}
	sh := pe.SectionHeader32{
		VirtualSize:      uint32(len(rsrc)),
		VirtualAddress:   rsrcRVA,
		SizeOfRawData:    rawSize,
		PointerToRawData: fileAlignment,
		Characteristics:  sectionCharacteristics,
	}
	copy(sh.Name[:], ".rsrc")

	for _, v := range []any{fh, oh, sh} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return 0, fmt.Errorf("write headers: %w", err)
		}
	}
	if buf.Len() > fileAlignment {
		return 0, fmt.Errorf("headers overflow %d bytes", fileAlignment)
	}
	buf.Write(make([]byte, fileAlignment-buf.Len()))
	buf.Write(rsrc)
	buf.Write(make([]byte, int(rawSize)-len(rsrc)))

	return buf.WriteTo(w)
}

type typeGroup struct {
	id    entity.ResourceID
	names []nameGroup
}

type nameGroup struct {
	id    entity.ResourceID
	langs []builderEntry
}

// resourceSection lays out the directory tree, name strings, data entries
// and data blobs, in that order.
func (b *Builder) resourceSection() ([]byte, error) {
	groups := b.group()

	var dirSize uint32
	nLeaves := 0
	dirSize += dirHeaderSize + dirEntrySize*uint32(len(groups))
	for _, tg := range groups {
		dirSize += dirHeaderSize + dirEntrySize*uint32(len(tg.names))
		for _, ng := range tg.names {
			dirSize += dirHeaderSize + dirEntrySize*uint32(len(ng.langs))
			nLeaves += len(ng.langs)
		}
	}

	strOffsets := make(map[string]uint32)
	var strTable bytes.Buffer
	addString := func(id entity.ResourceID) error {
		if id.IsID {
			return nil
		}
		if _, ok := strOffsets[id.Name]; ok {
			return nil
		}
		enc, err := utf16le.NewEncoder().Bytes([]byte(id.Name))
		if err != nil {
			return fmt.Errorf("encode resource name %q: %w", id.Name, err)
		}
		if len(enc)/2 > 0xffff {
			return fmt.Errorf("resource name %q too long", id.Name)
		}
		strOffsets[id.Name] = dirSize + uint32(strTable.Len())
		_ = binary.Write(&strTable, binary.LittleEndian, uint16(len(enc)/2))
		strTable.Write(enc)
		return nil
	}
	for _, tg := range groups {
		if err := addString(tg.id); err != nil {
			return nil, err
		}
		for _, ng := range tg.names {
			if err := addString(ng.id); err != nil {
				return nil, err
			}
		}
	}

	dataEntriesOff := alignUp(dirSize+uint32(strTable.Len()), 4)
	blobOff := alignUp(dataEntriesOff+dataEntrySize*uint32(nLeaves), 8)
	total := blobOff
	for _, tg := range groups {
		for _, ng := range tg.names {
			for _, e := range ng.langs {
				total = alignUp(total+uint32(len(e.data)), 8)
			}
		}
	}

	out := make([]byte, total)
	copy(out[dirSize:], strTable.Bytes())

	nameField := func(id entity.ResourceID) uint32 {
		if id.IsID {
			return uint32(id.ID)
		}
		return strOffsets[id.Name] | highBit
	}
	writeDir := func(off uint32, named, ids int) {
		binary.LittleEndian.PutUint16(out[off+12:], uint16(named))
		binary.LittleEndian.PutUint16(out[off+14:], uint16(ids))
	}
	countKinds := func(ids []entity.ResourceID) (named, numeric int) {
		for _, id := range ids {
			if id.IsID {
				numeric++
			} else {
				named++
			}
		}
		return named, numeric
	}

	next := dirHeaderSize + dirEntrySize*uint32(len(groups))
	leaf := dataEntriesOff
	blob := blobOff

	typeIDs := make([]entity.ResourceID, len(groups))
	for i, tg := range groups {
		typeIDs[i] = tg.id
	}
	named, ids := countKinds(typeIDs)
	writeDir(0, named, ids)

	for ti, tg := range groups {
		nameDir := next
		next += dirHeaderSize + dirEntrySize*uint32(len(tg.names))
		entOff := dirHeaderSize + dirEntrySize*uint32(ti)
		binary.LittleEndian.PutUint32(out[entOff:], nameField(tg.id))
		binary.LittleEndian.PutUint32(out[entOff+4:], nameDir|highBit)

		nameIDs := make([]entity.ResourceID, len(tg.names))
		for i, ng := range tg.names {
			nameIDs[i] = ng.id
		}
		named, ids := countKinds(nameIDs)
		writeDir(nameDir, named, ids)

		for ni, ng := range tg.names {
			langDir := next
			next += dirHeaderSize + dirEntrySize*uint32(len(ng.langs))
			entOff := nameDir + dirHeaderSize + dirEntrySize*uint32(ni)
			binary.LittleEndian.PutUint32(out[entOff:], nameField(ng.id))
			binary.LittleEndian.PutUint32(out[entOff+4:], langDir|highBit)
			writeDir(langDir, 0, len(ng.langs))

			for li, e := range ng.langs {
				entOff := langDir + dirHeaderSize + dirEntrySize*uint32(li)
				binary.LittleEndian.PutUint32(out[entOff:], uint32(e.lang))
				binary.LittleEndian.PutUint32(out[entOff+4:], leaf)

				binary.LittleEndian.PutUint32(out[leaf:], rsrcRVA+blob)
				binary.LittleEndian.PutUint32(out[leaf+4:], uint32(len(e.data)))
				leaf += dataEntrySize

				copy(out[blob:], e.data)
				blob = alignUp(blob+uint32(len(e.data)), 8)
			}
		}
	}
	return out, nil
}

// group orders types and names the way resource compilers do: named entries
// first, sorted case-insensitively, then numeric ids ascending.
func (b *Builder) group() []typeGroup {
	var groups []typeGroup
	for _, e := range b.entries {
		ti := -1
		for i := range groups {
			if groups[i].id.Matches(e.typ) {
				ti = i
				break
			}
		}
		if ti < 0 {
			groups = append(groups, typeGroup{id: e.typ})
			ti = len(groups) - 1
		}
		tg := &groups[ti]
		ni := -1
		for i := range tg.names {
			if tg.names[i].id.Matches(e.name) {
				ni = i
				break
			}
		}
		if ni < 0 {
			tg.names = append(tg.names, nameGroup{id: e.name})
			ni = len(tg.names) - 1
		}
		tg.names[ni].langs = append(tg.names[ni].langs, e)
	}

	sort.SliceStable(groups, func(i, j int) bool { return lessID(groups[i].id, groups[j].id) })
	for i := range groups {
		names := groups[i].names
		sort.SliceStable(names, func(a, c int) bool { return lessID(names[a].id, names[c].id) })
	}
	return groups
}

func lessID(a, b entity.ResourceID) bool {
	if a.IsID != b.IsID {
		return !a.IsID
	}
	if a.IsID {
		return a.ID < b.ID
	}
	return strings.ToUpper(a.Name) < strings.ToUpper(b.Name)
}

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}
