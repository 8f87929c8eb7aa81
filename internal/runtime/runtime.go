// Package runtime implements the runtime loop (component K): it drains
// the top-level execution list, activates/deactivates schedulers on
// start/stop, ticks active schedulers in registration order, and executes
// leaf press/hold/release instructions through the driver sink. Grounded
// on runtime/executor's eval-loop-over-a-plan shape, adapted from
// one-shot plan execution to a repeating tick loop.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aledsdavies/beanscript/internal/driver"
	"github.com/aledsdavies/beanscript/internal/instruction"
	"github.com/aledsdavies/beanscript/internal/keycatalogue"
	"github.com/aledsdavies/beanscript/internal/metrics"
	"github.com/aledsdavies/beanscript/internal/pqueue"
	"github.com/aledsdavies/beanscript/internal/scheduler"
	"github.com/aledsdavies/beanscript/internal/table"
)

// SleepFunc pauses the calling goroutine for d, per spec.md §5's
// suspension-point model. Injected so tests can run scenarios without
// real wall-clock delay.
type SleepFunc func(d time.Duration)

// Runtime owns the instruction table, the driver sink, and every
// scheduler's live state, for the lifetime of one program run.
type Runtime struct {
	tbl     *table.Table
	sink    driver.Sink
	now     pqueue.NowFunc
	sleep   SleepFunc
	logger  *slog.Logger
	metrics *metrics.Collectors

	tickers     map[string]scheduler.Ticker
	activeOrder []string
	active      map[string]bool
	inflight    map[string]bool
}

// Option configures a Runtime at construction time.
type Option func(*Runtime)

// WithLogger overrides the default discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) { rt.logger = l }
}

// WithMetrics attaches a Prometheus collector set. Passing nil (the
// default) disables metrics entirely.
func WithMetrics(m *metrics.Collectors) Option {
	return func(rt *Runtime) { rt.metrics = m }
}

// WithSleep overrides the real-time sleep used between leaf steps and
// group iterations, for deterministic scenario tests.
func WithSleep(s SleepFunc) Option {
	return func(rt *Runtime) { rt.sleep = s }
}

// New constructs a Runtime over tbl, delivering keystrokes through sink
// and sampling time via now.
func New(tbl *table.Table, sink driver.Sink, now pqueue.NowFunc, opts ...Option) *Runtime {
	rt := &Runtime{
		tbl:      tbl,
		sink:     sink,
		now:      now,
		sleep:    time.Sleep,
		logger:   slog.New(slog.DiscardHandler),
		tickers:  make(map[string]scheduler.Ticker),
		active:   make(map[string]bool),
		inflight: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Drain executes every instruction in the execution list once, in order.
// This is where start/stop take effect and where bare top-level
// press/hold/release leaves fire.
func (rt *Runtime) Drain(executionList []string) error {
	for _, id := range executionList {
		if _, err := rt.Execute(id); err != nil {
			return err
		}
	}
	return nil
}

// Tick performs exactly one pass over every active scheduler, in
// registration (activation) order, per spec.md §5's ordering rule. It
// returns false once no scheduler remains active, signaling Run to stop.
func (rt *Runtime) Tick() (bool, error) {
	rt.inflight = make(map[string]bool)
	for _, id := range rt.activeOrder {
		if !rt.active[id] {
			continue
		}
		if err := rt.tickOnce(id); err != nil {
			return false, err
		}
	}
	return rt.anyActive(), nil
}

// Run ticks the runtime until ctx is cancelled or no scheduler remains
// active.
func (rt *Runtime) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		stillActive, err := rt.Tick()
		if err != nil {
			return err
		}
		if !stillActive {
			return nil
		}
	}
}

func (rt *Runtime) anyActive() bool {
	for _, on := range rt.active {
		if on {
			return true
		}
	}
	return false
}

// Execute implements scheduler.Executor: it dispatches id by kind and
// reports whether it ran to completion (true) or is blocked (false).
func (rt *Runtime) Execute(id string) (bool, error) {
	inst, err := rt.tbl.Get(id)
	if err != nil {
		return false, err
	}

	switch {
	case inst.Kind == instruction.Key, inst.Kind.IsLeaf():
		// A key definition never occupies a slot in the top-level execution
		// list on its own (it is not a transaction, spec.md §3) — but a
		// scheduler may dispatch one directly as a child (scenarios S2, S4),
		// in which case it fires exactly as a press of itself would.
		return rt.executeLeaf(inst)

	case inst.Kind == instruction.Start:
		return rt.executeStart(inst)

	case inst.Kind == instruction.Stop:
		return rt.executeStop(inst)

	case inst.Kind == instruction.Window:
		return rt.executeWindow(inst)

	case inst.Kind == instruction.Script:
		return true, nil

	case inst.Kind == instruction.Group, inst.Kind.IsScheduler():
		if err := rt.tickOnce(id); err != nil {
			return false, err
		}
		return true, nil

	default:
		return true, nil
	}
}

// tickOnce resolves (lazily constructing if needed) the ticker for id and
// advances it by one tick, guarding against re-entry within the same
// outer tick: a cyclic reference (a group whose child is itself, or
// mutual recursion between schedulers) is a no-op on re-entry rather than
// unbounded recursion, per spec.md §9.
func (rt *Runtime) tickOnce(id string) error {
	if rt.inflight[id] {
		return nil
	}
	rt.inflight[id] = true
	defer delete(rt.inflight, id)

	t, err := rt.tickerFor(id)
	if err != nil {
		return err
	}
	inst, err := rt.tbl.Get(id)
	if err != nil {
		return err
	}
	rt.metrics.Tick(string(inst.Kind))
	return t.Tick(rt)
}

func (rt *Runtime) tickerFor(id string) (scheduler.Ticker, error) {
	if t, ok := rt.tickers[id]; ok {
		return t, nil
	}
	inst, err := rt.tbl.Get(id)
	if err != nil {
		return nil, err
	}

	var t scheduler.Ticker
	switch inst.Kind {
	case instruction.Routine:
		t = scheduler.NewRoutine(id, rt.tbl)
	case instruction.Waitlist:
		t, err = scheduler.NewWaitlist(id, rt.tbl, rt.now)
	case instruction.Random:
		t, err = scheduler.NewRandom(id, rt.tbl, rt.now)
	case instruction.Group:
		t, err = newGroupTicker(rt, id)
	default:
		return nil, fmt.Errorf("runtime: %q (kind %s) is not a scheduler or group", id, inst.Kind)
	}
	if err != nil {
		return nil, err
	}
	rt.tickers[id] = t
	return t, nil
}

// activate marks id active, registering it in activation order the first
// time it is started. Starting an already-active scheduler is idempotent.
func (rt *Runtime) activate(id string) error {
	if _, err := rt.tickerFor(id); err != nil {
		return err
	}
	if !rt.active[id] {
		if _, seen := indexOf(rt.activeOrder, id); !seen {
			rt.activeOrder = append(rt.activeOrder, id)
		}
		rt.active[id] = true
	}
	rt.metrics.SetActive(rt.activeCount())
	return nil
}

// deactivate marks id inactive. Its ticker state (cursor, heap, repeat
// counter) is preserved, so a later restart resumes rather than resets.
func (rt *Runtime) deactivate(id string) {
	rt.active[id] = false
	rt.metrics.SetActive(rt.activeCount())
}

func (rt *Runtime) activeCount() int {
	n := 0
	for _, on := range rt.active {
		if on {
			n++
		}
	}
	return n
}

func indexOf(haystack []string, needle string) (int, bool) {
	for i, s := range haystack {
		if s == needle {
			return i, true
		}
	}
	return -1, false
}

func (rt *Runtime) executeStart(inst *instruction.Instruction) (bool, error) {
	if len(inst.Children) != 1 {
		return false, fmt.Errorf("runtime: malformed start instruction %q", inst.ID)
	}
	if err := rt.activate(inst.Children[0]); err != nil {
		return false, err
	}
	return true, nil
}

func (rt *Runtime) executeStop(inst *instruction.Instruction) (bool, error) {
	if len(inst.Children) != 1 {
		return false, fmt.Errorf("runtime: malformed stop instruction %q", inst.ID)
	}
	rt.deactivate(inst.Children[0])
	return true, nil
}

func (rt *Runtime) executeWindow(inst *instruction.Instruction) (bool, error) {
	if err := rt.sink.Focus(inst.ID); err != nil {
		rt.logger.Warn("driver focus failed", "window", inst.ID, "err", err)
		rt.metrics.DriverError()
	}
	return true, nil
}

// executeLeaf runs the before/duration-or-release/after/repeat cycle for a
// press, hold, or release instruction, per spec.md §4.K. A bare key
// definition, reached only via a scheduler's children (never via the
// top-level execution list, since it is not a transaction), fires exactly
// as a press of itself would — this is how scenarios S2 and S4 get real
// keystrokes out of schedulers whose children are plain key ids.
func (rt *Runtime) executeLeaf(inst *instruction.Instruction) (bool, error) {
	if inst.Button == nil {
		return false, fmt.Errorf("runtime: leaf %q has no bound button", inst.ID)
	}
	code := *inst.Button
	p := inst.Parameters

	// repeat 0 (the default) fires once; repeat N fires N times total
	// (testable property #12, scenario S5) — not N+1.
	iterations := p.Repeat.Sample()
	if iterations < 1 {
		iterations = 1
	}
	for i := 0; i < iterations; i++ {
		rt.sleep(time.Duration(p.Before.Sample()) * time.Millisecond)

		switch inst.Kind {
		case instruction.Press, instruction.Key:
			rt.deliverDown(code)
			rt.sleep(time.Duration(p.Duration.Sample()) * time.Millisecond)
			rt.deliverUp(code)
		case instruction.Hold:
			rt.deliverDown(code)
		case instruction.Release:
			rt.deliverUp(code)
		}

		rt.sleep(time.Duration(p.After.Sample()) * time.Millisecond)
	}

	rt.metrics.Fired(string(inst.Kind))
	return true, nil
}

// deliverDown and deliverUp forward one keystroke half-event to the driver
// sink. A transport failure is non-fatal (spec.md §7): it is logged and
// counted, and the leaf's current iteration continues as a no-op.
func (rt *Runtime) deliverDown(code keycatalogue.ScanCode) {
	if err := rt.sink.Down(code); err != nil {
		rt.logger.Warn("driver down failed", "code", code, "err", err)
		rt.metrics.DriverError()
	}
}

func (rt *Runtime) deliverUp(code keycatalogue.ScanCode) {
	if err := rt.sink.Up(code); err != nil {
		rt.logger.Warn("driver up failed", "code", code, "err", err)
		rt.metrics.DriverError()
	}
}
