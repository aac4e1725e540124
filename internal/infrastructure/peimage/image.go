package peimage

import (
	"bytes"
	"debug/pe"
	"fmt"
	"sync"

	"github.com/bnema/dumberproto/internal/application/port"
	"github.com/bnema/dumberproto/internal/domain/entity"
)

// Image is a module image mapped read-only. Resource bytes handed out by
// FindResource alias the mapping and are invalid after Close.
type Image struct {
	Path      string
	data      []byte
	sections  []*pe.Section
	resources []Resource
	unmap     func() error
	closeOnce sync.Once
	closeErr  error
}

// parseImage reads the section table and resource directory of a mapped
// image. unmap is retained and run by Close.
func parseImage(path string, data []byte, unmap func() error) (*Image, error) {
	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse PE headers: %w", err)
	}
	defer f.Close()

	img := &Image{
		Path:     path,
		data:     data,
		sections: f.Sections,
		unmap:    unmap,
	}

	dir, ok := resourceDirectory(f)
	if !ok {
		return img, nil
	}

	rsrc, err := img.rvaSlice(dir.VirtualAddress, dir.Size)
	if err != nil {
		return nil, fmt.Errorf("locate resource section: %w", err)
	}
	img.resources, err = parseResourceDirectory(rsrc)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func resourceDirectory(f *pe.File) (pe.DataDirectory, bool) {
	var dd pe.DataDirectory
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		if oh.NumberOfRvaAndSizes <= pe.IMAGE_DIRECTORY_ENTRY_RESOURCE {
			return dd, false
		}
		dd = oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_RESOURCE]
	case *pe.OptionalHeader64:
		if oh.NumberOfRvaAndSizes <= pe.IMAGE_DIRECTORY_ENTRY_RESOURCE {
			return dd, false
		}
		dd = oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_RESOURCE]
	default:
		return dd, false
	}
	return dd, dd.VirtualAddress != 0 && dd.Size != 0
}

// rvaSlice maps a relative virtual address range onto the file bytes.
func (img *Image) rvaSlice(rva, size uint32) ([]byte, error) {
	for _, s := range img.sections {
		span := s.VirtualSize
		if s.Size > span {
			span = s.Size
		}
		if rva < s.VirtualAddress || rva >= s.VirtualAddress+span {
			continue
		}
		delta := rva - s.VirtualAddress
		if uint64(delta)+uint64(size) > uint64(s.Size) {
			return nil, fmt.Errorf("%w: rva 0x%x+%d beyond raw data of %s", ErrMalformed, rva, size, s.Name)
		}
		start := uint64(s.Offset) + uint64(delta)
		end := start + uint64(size)
		if end > uint64(len(img.data)) {
			return nil, fmt.Errorf("%w: rva 0x%x+%d beyond end of file", ErrMalformed, rva, size)
		}
		return img.data[start:end], nil
	}
	return nil, fmt.Errorf("%w: rva 0x%x not in any section", ErrMalformed, rva)
}

// Resources lists the resource table in directory order.
func (img *Image) Resources() []Resource {
	out := make([]Resource, len(img.resources))
	copy(out, img.resources)
	return out
}

// FindResource locates a resource by name and type.
func (img *Image) FindResource(name, typ entity.ResourceID) (port.ResourceEntry, error) {
	r, err := findResource(img.resources, name, typ)
	if err != nil {
		return nil, err
	}
	return &resourceEntry{img: img, res: r}, nil
}

// Close unmaps the image. It is safe to call more than once.
func (img *Image) Close() error {
	img.closeOnce.Do(func() {
		img.data = nil
		if img.unmap != nil {
			img.closeErr = img.unmap()
		}
	})
	return img.closeErr
}

type resourceEntry struct {
	img *Image
	res Resource
}

func (e *resourceEntry) Size() int {
	return int(e.res.Size)
}

func (e *resourceEntry) Bytes() ([]byte, error) {
	if e.img.data == nil {
		return nil, fmt.Errorf("resource %s: image already unloaded", e.res.Name)
	}
	return e.img.rvaSlice(e.res.RVA, e.res.Size)
}
