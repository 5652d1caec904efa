// Package fdtable implements the WASI fd table: the mapping from
// guest-visible WASI file descriptors to host resources, plus the preopen
// directory set. Grounded on the teacher's internal/platform/dir.go and
// fdset.go shape (Dirent portability struct, geometric fd growth), adapted
// to stand alone rather than plug into wazero's own fs.FS abstraction. See
// SPEC_FULL.md §6.9.
package fdtable

import (
	"os"
)

// stdioCount is the number of fixed low fds (stdin, stdout, stderr);
// spec.md §3: "fd_table[0..=2] are always the host's stdin/stdout/stderr".
const stdioCount = 3

// Entry is one occupied fd slot.
type Entry struct {
	File *os.File
	// GuestPath is set for preopen directories, the path this fd is
	// exposed as to the guest (as opposed to the host path it resolves to).
	GuestPath string
	// HostPath is the preopen's host-side directory, empty for non-preopens.
	HostPath string
	isPreopen bool

	// dirCache holds a paginated directory listing across repeated
	// fd_readdir calls, recovered from original_source/wasi/ffi_native.c's
	// directory-handle caching (SPEC_FULL.md §6.9); nil until the first
	// fd_readdir on this fd.
	dirCache *dirCache
}

// IsPreopen reports whether this entry is a preopen directory, the
// capability check every path_* call must make before resolving a guest
// path onto HostPath -- spec.md §4.9: "resolution returns EBADF if the fd
// is not a preopen."
func (e *Entry) IsPreopen() bool { return e.isPreopen }

// Table is the fd table: fd_table[i] is free when the slot is absent.
// Indices 0..2 are always stdio; preopens occupy 3..3+preopenCount;
// application fds begin after that, per spec.md §3.
type Table struct {
	slots      []*Entry // nil == free slot
	nextFree   uint32
	preopenEnd uint32 // first index available for application fds
}

// New builds a table with stdio wired to stdin/stdout/stderr, or to
// /dev/null in quiet mode (spec.md §3).
func New(quiet bool) (*Table, error) {
	t := &Table{slots: make([]*Entry, stdioCount), nextFree: stdioCount, preopenEnd: stdioCount}
	std := [3]*os.File{os.Stdin, os.Stdout, os.Stderr}
	for i := 0; i < stdioCount; i++ {
		f := std[i]
		if quiet {
			devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
			if err != nil {
				return nil, err
			}
			f = devNull
		}
		t.slots[i] = &Entry{File: f}
	}
	return t, nil
}

// AddPreopen registers a preopen directory, returning its WASI fd. Preopens
// must be added before any application fd is opened -- spec.md §3's
// "preopen fds occupy indices 3..3+preopen_count" layout depends on it.
func (t *Table) AddPreopen(hostPath, guestPath string) (uint32, error) {
	f, err := os.Open(hostPath)
	if err != nil {
		return 0, err
	}
	idx := t.preopenEnd
	t.grow(int(idx) + 1)
	t.slots[idx] = &Entry{File: f, HostPath: hostPath, GuestPath: guestPath, isPreopen: true}
	t.preopenEnd++
	if t.nextFree < t.preopenEnd {
		t.nextFree = t.preopenEnd
	}
	return idx, nil
}

// Preopens returns every registered preopen, in fd order.
func (t *Table) Preopens() []struct {
	FD        uint32
	HostPath  string
	GuestPath string
} {
	var out []struct {
		FD        uint32
		HostPath  string
		GuestPath string
	}
	for i, e := range t.slots {
		if e != nil && e.isPreopen {
			out = append(out, struct {
				FD        uint32
				HostPath  string
				GuestPath string
			}{uint32(i), e.HostPath, e.GuestPath})
		}
	}
	return out
}

// Open installs f at the smallest free index >= nextFree, growing the
// table geometrically (doubling) when full, per spec.md §3.
func (t *Table) Open(f *os.File) uint32 {
	idx := t.findFree()
	t.slots[idx] = &Entry{File: f}
	return idx
}

func (t *Table) findFree() uint32 {
	for i := t.nextFree; int(i) < len(t.slots); i++ {
		if t.slots[i] == nil {
			t.nextFree = i + 1
			return i
		}
	}
	idx := uint32(len(t.slots))
	t.grow(len(t.slots)*2 + 1)
	t.nextFree = idx + 1
	return idx
}

func (t *Table) grow(minLen int) {
	if minLen <= len(t.slots) {
		return
	}
	grown := make([]*Entry, minLen)
	copy(grown, t.slots)
	t.slots = grown
}

// Get returns the entry at fd, or (nil, false) if fd is unopened.
func (t *Table) Get(fd uint32) (*Entry, bool) {
	if int(fd) >= len(t.slots) || t.slots[fd] == nil {
		return nil, false
	}
	return t.slots[fd], true
}

// Close closes and frees fd. Returns false if fd was not open (the caller
// maps that to ErrnoBadf).
func (t *Table) Close(fd uint32) bool {
	e, ok := t.Get(fd)
	if !ok {
		return false
	}
	_ = e.File.Close()
	t.slots[fd] = nil
	if fd < t.nextFree {
		t.nextFree = fd
	}
	return true
}

// Renumber moves the entry at from to to, closing whatever previously
// occupied to.
func (t *Table) Renumber(from, to uint32) bool {
	e, ok := t.Get(from)
	if !ok {
		return false
	}
	if old, ok := t.Get(to); ok {
		_ = old.File.Close()
	}
	t.grow(int(to) + 1)
	t.slots[to] = e
	t.slots[from] = nil
	if from < t.nextFree {
		t.nextFree = from
	}
	return true
}

// CloseAll closes every open fd; called from VMContext.Free.
func (t *Table) CloseAll() {
	for i, e := range t.slots {
		if e != nil {
			_ = e.File.Close()
			t.slots[i] = nil
		}
	}
}
