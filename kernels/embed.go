// Package kernels provides the precompiled SPIR-V compute kernels that are
// bundled into the compiler binary.
package kernels

import (
	"embed"
	"io/fs"
	"path"
	"sync"
)

//go:generate glslangValidator -V src/matmul.comp -o spv/matmul.spv

// spvFS holds every compiled kernel. Entries are named after the compiled
// file, so src/matmul.comp is found as "matmul.spv".
//
//go:embed spv/*.spv
var spvFS embed.FS

var (
	embeddedOnce sync.Once
	embedded     *Repository
)

// Embedded returns the process-wide repository of kernels compiled into the
// binary. It is built on first use and never modified afterwards.
func Embedded() *Repository {
	embeddedOnce.Do(func() {
		repo, err := NewRepository(loadEmbedded()...)
		if err != nil {
			panic(err)
		}
		embedded = repo
	})
	return embedded
}

// Table returns the embedded kernel table.
func Table() []Entry {
	return Embedded().Entries()
}

// Size returns the number of entries in the embedded kernel table.
func Size() int {
	return Embedded().Len()
}

func loadEmbedded() []Entry {
	files, err := fs.Glob(spvFS, "spv/*.spv")
	if err != nil {
		// The pattern is a constant, so this only fires on a malformed glob.
		panic(err)
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		data, err := spvFS.ReadFile(file)
		if err != nil {
			panic(err)
		}
		entries = append(entries, NewEntry(path.Base(file), data))
	}
	return entries
}
