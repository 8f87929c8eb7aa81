// Package driver defines the keyboard driver sink contract (spec.md §6)
// that the runtime loop delivers synthetic keystrokes through, plus
// reference sinks for logging, testing, and a disabled no-op mode. The
// actual OS-level key injection is an external collaborator out of scope
// for the core (spec.md §1); this package only fixes the contract and
// ships backends that don't require platform-specific injection code.
package driver

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/aledsdavies/beanscript/internal/keycatalogue"
)

// Error is a non-fatal transport failure from a Sink. Per spec.md §7 the
// runtime logs it and treats the offending leaf's current iteration as a
// no-op; it never aborts the program.
type Error struct {
	Op   string // "down", "up", or "focus"
	Code keycatalogue.ScanCode
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("driver: %s(%#04x): %v", e.Op, uint16(e.Code), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Sink is the external driver contract (spec.md §6): synchronous
// operations whose return values indicate transport failure only.
type Sink interface {
	Down(code keycatalogue.ScanCode) error
	Up(code keycatalogue.ScanCode) error
	Focus(windowTitle string) error
}

// Noop discards every call and never fails. The CLI delivers its runs
// through it, wrapped in Logging; --dry-run uses no sink at all.
type Noop struct{}

func (Noop) Down(keycatalogue.ScanCode) error { return nil }
func (Noop) Up(keycatalogue.ScanCode) error    { return nil }
func (Noop) Focus(string) error                { return nil }

// Logging wraps another Sink, logging each call at debug level before
// delegating. Grounded on runtime/lexer/lexer.go's *slog.Logger field.
type Logging struct {
	Next   Sink
	Logger *slog.Logger
}

func (l *Logging) Down(code keycatalogue.ScanCode) error {
	name, _ := keycatalogue.NameOf(code)
	l.Logger.Debug("driver down", "key", name, "code", code)
	return l.Next.Down(code)
}

func (l *Logging) Up(code keycatalogue.ScanCode) error {
	name, _ := keycatalogue.NameOf(code)
	l.Logger.Debug("driver up", "key", name, "code", code)
	return l.Next.Up(code)
}

func (l *Logging) Focus(windowTitle string) error {
	l.Logger.Debug("driver focus", "window", windowTitle)
	return l.Next.Focus(windowTitle)
}

// Call is one recorded driver invocation, in the order it was delivered.
type Call struct {
	Op          string // "down", "up", "focus"
	Code        keycatalogue.ScanCode
	WindowTitle string
}

// Recording is a test Sink that buffers every call in order instead of
// touching the OS, used by the S1-S6 scenario tests (spec.md §8).
type Recording struct {
	mu    sync.Mutex
	calls []Call
	// FailDown/FailUp/FailFocus, when non-nil, are returned instead of nil
	// for the matching op, to exercise the non-fatal driver-error path.
	FailDown  error
	FailUp    error
	FailFocus error
}

func (r *Recording) Down(code keycatalogue.ScanCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: "down", Code: code})
	if r.FailDown != nil {
		return &Error{Op: "down", Code: code, Err: r.FailDown}
	}
	return nil
}

func (r *Recording) Up(code keycatalogue.ScanCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: "up", Code: code})
	if r.FailUp != nil {
		return &Error{Op: "up", Code: code, Err: r.FailUp}
	}
	return nil
}

func (r *Recording) Focus(windowTitle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: "focus", WindowTitle: windowTitle})
	if r.FailFocus != nil {
		return &Error{Op: "focus", Err: r.FailFocus}
	}
	return nil
}

// Calls returns a copy of every call recorded so far, in delivery order.
func (r *Recording) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}
