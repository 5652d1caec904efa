// Package rtlog wraps go.uber.org/zap for the runtime's ambient structured
// logging: trap deliveries, code installation, and WASI preopen
// resolution each get one log line at Debug or Warn. See SPEC_FULL.md §2.
package rtlog

import "go.uber.org/zap"

// Logger is the package-wide structured logger type every component
// threads through from RuntimeConfig. A nil *zap.Logger is never passed
// around directly; New falls back to zap.NewNop() so every call site can
// log unconditionally.
type Logger struct {
	z *zap.Logger
}

// New wraps z, or a no-op logger if z is nil -- logging is best-effort and
// must never be a precondition for correct operation.
func New(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// Nop returns a logger that discards everything, the default for
// RuntimeConfig when the caller never supplies one.
func Nop() *Logger { return New(nil) }

// TrapDelivered logs a trap reaching the host from the trampoline.
func (l *Logger) TrapDelivered(code int32, detail string) {
	l.z.Debug("trap delivered", zap.Int32("code", code), zap.String("detail", detail))
}

// CodeInstalled logs a successful execmem.Install.
func (l *Logger) CodeInstalled(bytes int) {
	l.z.Debug("jit code installed", zap.Int("bytes", bytes))
}

// PreopenResolved logs a WASI preopen directory registration.
func (l *Logger) PreopenResolved(hostPath, guestPath string, fd uint32) {
	l.z.Debug("wasi preopen resolved", zap.String("host", hostPath), zap.String("guest", guestPath), zap.Uint32("fd", fd))
}

// MemoryGrowFailed logs a memory.grow that returned -1 because it would
// exceed the effective cap -- a Warn, not a Debug, since this is usually a
// guest-visible OOM the operator wants to notice.
func (l *Logger) MemoryGrowFailed(memIdx int, requestedPages, effectiveMaxPages int64) {
	l.z.Warn("memory.grow refused: exceeds effective max",
		zap.Int("memory_index", memIdx),
		zap.Int64("requested_pages", requestedPages),
		zap.Int64("effective_max_pages", effectiveMaxPages))
}

// Sync flushes the underlying zap logger.
func (l *Logger) Sync() error { return l.z.Sync() }
