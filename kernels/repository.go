package kernels

import (
	"encoding/binary"
	"fmt"
	"path"
	"strings"
)

// Extension is the file extension of a compiled kernel binary.
const Extension = ".spv"

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic uint32 = 0x07230203

// Entry is one embedded kernel binary.
type Entry struct {
	Name string
	Data []byte
	Size uint32
}

// NewEntry wraps data as a table entry named name.
func NewEntry(name string, data []byte) Entry {
	return Entry{
		Name: name,
		Data: data,
		Size: uint32(len(data)),
	}
}

// Repository is an immutable name to kernel binary table.
type Repository struct {
	entries []Entry
}

// NewRepository creates a repository over entries. The entries are copied so
// later changes by the caller are not observed. Every entry's Size must equal
// the length of its data and be a whole number of 32-bit words.
func NewRepository(entries ...Entry) (*Repository, error) {
	r := &Repository{entries: make([]Entry, len(entries))}
	for i, e := range entries {
		if int(e.Size) != len(e.Data) {
			return nil, fmt.Errorf("kernel %s: size %d does not match %d bytes of data", e.Name, e.Size, len(e.Data))
		}
		if e.Size%4 != 0 {
			return nil, fmt.Errorf("kernel %s: size %d is not a multiple of 4", e.Name, e.Size)
		}
		data := make([]byte, len(e.Data))
		copy(data, e.Data)
		r.entries[i] = Entry{Name: e.Name, Data: data, Size: e.Size}
	}
	return r, nil
}

// Lookup returns the instruction words of the kernel with exactly the given
// name. The returned slice is a fresh copy owned by the caller. A missing
// kernel is reported with ok == false.
func (r *Repository) Lookup(name string) (code []uint32, ok bool) {
	for _, e := range r.entries {
		if e.Name != name {
			continue
		}
		code = make([]uint32, e.Size/4)
		for i := range code {
			code[i] = binary.LittleEndian.Uint32(e.Data[i*4:])
		}
		return code, true
	}
	return nil, false
}

// Len returns the number of kernels in the repository.
func (r *Repository) Len() int {
	return len(r.entries)
}

// Names returns the kernel names in table order.
func (r *Repository) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the table. Data slices are shared and must be
// treated as read-only.
func (r *Repository) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// KernelName maps a kernel source file to the name of its compiled binary,
// e.g. "matmul.comp" to "matmul.spv".
func KernelName(source string) string {
	base := path.Base(source)
	return strings.TrimSuffix(base, path.Ext(base)) + Extension
}
