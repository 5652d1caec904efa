// Package execmem allocates page-aligned executable memory arenas and
// installs compiled machine code into them, applying the platform's W^X
// discipline. See SPEC_FULL.md §6.1.
package execmem

import (
	"fmt"
	"sync"

	"github.com/gowasm/jitrt/internal/rtlog"
)

// block is one tracked arena.
type block struct {
	base []byte // the mapped region; len(base) is the page-rounded size
	size int
}

// Manager is the growable arena registry. spec.md §9 notes the C source
// has two divergent implementations (fixed 1024-slot and growable) and
// leaves which is authoritative unspecified; this module always uses the
// growable one.
//
// Manager is safe for concurrent use: code installation from multiple
// goroutines compiling different functions is expected, even though
// executing a single instance is single-writer (spec.md §5).
type Manager struct {
	mu     sync.Mutex
	blocks []*block
	logger *rtlog.Logger
}

// New returns an empty arena registry with a no-op logger.
func New() *Manager {
	return &Manager{logger: rtlog.Nop()}
}

// SetLogger installs the structured logger Install reports code-
// installation events through.
func (m *Manager) SetLogger(l *rtlog.Logger) {
	if l == nil {
		l = rtlog.Nop()
	}
	m.logger = l
}

// Alloc reserves a page-rounded, executable-capable arena of at least size
// bytes and returns its base address, or nil on OOM. The arena starts out
// unmapped-for-execution; Install must be called before any call through
// it.
func (m *Manager) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("execmem: alloc size must be positive, got %d", size)
	}
	rounded := roundUpPage(size)
	mem, err := mapArena(rounded)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.blocks = append(m.blocks, &block{base: mem, size: rounded})
	m.mu.Unlock()
	return mem[:size:size], nil
}

// Install copies bytes into the arena previously returned by Alloc (matched
// by base pointer identity) and finalizes the arena's permissions to
// read-execute (or, on the MAP_JIT path, flips the per-thread write
// protection around the copy). It returns an error if the arena is not one
// this Manager tracks, or if the code is longer than the arena; if the
// permission flip fails it returns an error and leaves the arena tracked
// but unusable.
func (m *Manager) Install(arena []byte, code []byte) error {
	b, err := m.findLocked(arena)
	if err != nil {
		return err
	}
	if len(code) > b.size {
		return fmt.Errorf("execmem: code length %d exceeds arena size %d", len(code), b.size)
	}
	if err := writeAndFinalize(b.base[:b.size:b.size], code); err != nil {
		return fmt.Errorf("execmem: install failed, arena leaked but tracked: %w", err)
	}
	flushICache(b.base[:len(code)])
	if m.logger != nil {
		m.logger.CodeInstalled(len(code))
	}
	return nil
}

// Free releases the arena starting at base. An unknown base is an error;
// freeing is O(n_blocks) by swap-with-tail, matching spec.md §4.1.
func (m *Manager) Free(arena []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.blocks {
		if samePage(b.base, arena) {
			if err := unmapArena(b.base); err != nil {
				return err
			}
			last := len(m.blocks) - 1
			m.blocks[i] = m.blocks[last]
			m.blocks[last] = nil
			m.blocks = m.blocks[:last]
			return nil
		}
	}
	return fmt.Errorf("execmem: free of unknown arena base")
}

// Len reports the number of live arenas; used by tests asserting that
// Alloc/Free doesn't leak registry entries.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blocks)
}

func (m *Manager) findLocked(arena []byte) (*block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blocks {
		if samePage(b.base, arena) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("execmem: unknown arena base")
}

func samePage(base []byte, arena []byte) bool {
	if len(base) == 0 || len(arena) == 0 {
		return len(base) == 0 && len(arena) == 0
	}
	return &base[0] == &arena[0]
}

func roundUpPage(n int) int {
	ps := pageSize()
	return (n + ps - 1) &^ (ps - 1)
}
