package fdtable

import (
	"io/fs"
)

// Dirent is a portable directory entry, matching the shape the teacher's
// internal/platform/dir.go carries for WASI snapshot-01 / wasi-filesystem
// compatibility (name, inode if available, and a masked fs.FileMode type).
type Dirent struct {
	Name string
	Ino  uint64
	Type fs.FileMode
}

// dirCache holds a directory's entries across paginated fd_readdir calls so
// a multi-call read doesn't re-open and re-scan the directory each time.
// Recovered from original_source/wasi/ffi_native.c (SPEC_FULL.md §6.9).
type dirCache struct {
	entries []Dirent
	cookie  uint64 // index into entries already returned to the guest
}

// Readdir returns every cached entry from cookie onward (none once cookie is
// past the end), populating the entry's dirCache on first use.
func (e *Entry) Readdir(cookie uint64) ([]Dirent, error) {
	if e.dirCache == nil {
		fis, err := e.File.ReadDir(-1)
		if err != nil {
			return nil, err
		}
		entries := make([]Dirent, 0, len(fis)+2)
		entries = append(entries, Dirent{Name: ".", Type: fs.ModeDir}, Dirent{Name: "..", Type: fs.ModeDir})
		for _, fi := range fis {
			entries = append(entries, Dirent{Name: fi.Name(), Type: fi.Type()})
		}
		e.dirCache = &dirCache{entries: entries}
	}
	if cookie >= uint64(len(e.dirCache.entries)) {
		return nil, nil
	}
	return e.dirCache.entries[cookie:], nil
}

// InvalidateDirCache drops the cached listing, e.g. after a write through
// this fd that could have changed the directory's contents.
func (e *Entry) InvalidateDirCache() {
	e.dirCache = nil
}
