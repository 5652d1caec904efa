// Package jitrt is the JIT runtime substrate for a WebAssembly execution
// engine: executable-memory allocation, a VM context with a fixed
// field-offset contract, an AArch64 host-to-JIT call trampoline, a trap
// substrate, memory/table/segment libcalls, GC struct/array primitives,
// and a WASI Preview 1 host binding. See SPEC_FULL.md for the full design.
package jitrt

import "go.uber.org/zap"

// RuntimeConfig controls the ambient behavior of a VM instance: memory
// discipline, the absolute page ceiling, logging, and WASI quiet mode.
// Every With... method returns a shallow copy, following the teacher's
// config.go clone-on-write builder pattern.
type RuntimeConfig struct {
	guardedMemory     bool
	memoryMaxPages    uint32
	logger            *zap.Logger
	wasiQuiet         bool
	legacyWideABI     bool
}

// defaultConfig mirrors the teacher's engineLessConfig: a package-level
// base every NewRuntimeConfig clones from, so defaults live in one place.
var defaultConfig = &RuntimeConfig{
	guardedMemory:  false,
	memoryMaxPages: 65536,
	logger:         nil,
	wasiQuiet:      false,
	legacyWideABI:  false,
}

// NewRuntimeConfig returns a config with jitrt's defaults: realloc-based
// memory growth, the full 65536-page absolute ceiling, a no-op logger, and
// stdio wired to the host.
func NewRuntimeConfig() *RuntimeConfig {
	return defaultConfig.clone()
}

func (c *RuntimeConfig) clone() *RuntimeConfig {
	cp := *c
	return &cp
}

// WithGuardedMemory switches memory 0 to the guarded-memory discipline of
// spec.md §4.5 (an 8 GiB + 64 KiB PROT_NONE reservation, grown by
// promoting pages) instead of the default realloc-and-zero-fill growth.
func (c *RuntimeConfig) WithGuardedMemory(enabled bool) *RuntimeConfig {
	ret := c.clone()
	ret.guardedMemory = enabled
	return ret
}

// WithMemoryMaxPages lowers the absolute page ceiling below
// AbsoluteMaxPages (65536, 4 GiB). A module's own declared max, if
// smaller, still applies on top of this.
func (c *RuntimeConfig) WithMemoryMaxPages(pages uint32) *RuntimeConfig {
	ret := c.clone()
	ret.memoryMaxPages = pages
	return ret
}

// WithLogger sets the structured logger threaded into internal/rtlog. A
// nil logger (the default) falls back to zap.NewNop() wherever it's read.
func (c *RuntimeConfig) WithLogger(logger *zap.Logger) *RuntimeConfig {
	ret := c.clone()
	ret.logger = logger
	return ret
}

// WithWASIQuiet wires WASI fd 0/1/2 to /dev/null instead of the host's
// stdio, per spec.md §3's "quiet mode".
func (c *RuntimeConfig) WithWASIQuiet(quiet bool) *RuntimeConfig {
	ret := c.clone()
	ret.wasiQuiet = quiet
	return ret
}

// WithLegacyWideABI opts into internal/trampoline.CallMultiReturn's named-
// register dispatch style for call sites still expressed against the
// legacy API, instead of the preferred trampoline-indirection style.
// spec.md §9 flags the legacy path as the one to avoid for new work; this
// flag exists only for call-site compatibility, not because the two
// styles differ in risk once routed through this module's implementation
// (CallMultiReturn already forwards to CallTrampoline).
func (c *RuntimeConfig) WithLegacyWideABI(enabled bool) *RuntimeConfig {
	ret := c.clone()
	ret.legacyWideABI = enabled
	return ret
}

// GuardedMemory, MemoryMaxPages, Logger, WASIQuiet, and LegacyWideABI
// expose the built config to instantiation code.
func (c *RuntimeConfig) GuardedMemory() bool  { return c.guardedMemory }
func (c *RuntimeConfig) MemoryMaxPages() uint32 { return c.memoryMaxPages }
func (c *RuntimeConfig) Logger() *zap.Logger  { return c.logger }
func (c *RuntimeConfig) WASIQuiet() bool      { return c.wasiQuiet }
func (c *RuntimeConfig) LegacyWideABI() bool  { return c.legacyWideABI }
