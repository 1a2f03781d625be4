// Package acs runs level scripts written in tengo as ACS-style threads. A
// thread re-runs its script once per tic while runnable and reaches the
// level through the engine map.
package acs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/stuarthighley/sectorfx"
)

var (
	ErrNoSuchScript   = errors.New("no such script")
	errUnknownSpecial = errors.New("unknown special")
)

type ThreadState int

const (
	Runnable ThreadState = iota
	Suspended
	Terminated
)

func (s ThreadState) String() string {
	switch s {
	case Runnable:
		return "runnable"
	case Suspended:
		return "suspended"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// yield is what a thread asked for during its last run.
type yield int

const (
	yieldEnd yield = iota
	yieldDelay
	yieldSuspend
	yieldTerminate
)

type thread struct {
	name     string
	compiled *tengo.Compiled
	state    ThreadState
	wait     int
	yield    yield
	delay    int

	// Who started the thread. Rebuilt into an Activator for every call.
	actor   *sectorfx.Actor
	line    *sectorfx.Line
	side    int
	sector  *sectorfx.Sector
	polyobj *sectorfx.Polyobject
}

// Environment is the script host of one level.
type Environment struct {
	level   *sectorfx.Level
	cfg     sectorfx.ScriptConfig
	modules map[string]*module
	threads []*thread // start order
	byName  map[string]*thread

	mu      sync.Mutex
	pending []string // changed script paths
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates an environment for level and installs it as the level's
// script host.
func New(level *sectorfx.Level, cfg sectorfx.ScriptConfig) *Environment {
	e := &Environment{
		level:   level,
		cfg:     cfg,
		modules: map[string]*module{},
		byName:  map[string]*thread{},
	}
	level.Scripts = e
	return e
}

// Execute starts the named script, or resumes it when suspended. It reports
// false when the script does not exist or is already running.
func (e *Environment) Execute(name string, args []int, stringArgs []string, act *sectorfx.Activator) bool {
	m, found := e.lookup(name)
	if found {
		name = m.name
	}
	if t, ok := e.byName[name]; ok {
		if t.state == Suspended {
			t.state = Runnable
			return true
		}
		return false
	}
	if !found {
		logger.Printf("ACS: script %s: %v", name, ErrNoSuchScript)
		return false
	}
	t := &thread{name: m.name, compiled: m.compiled.Clone()}
	if act != nil {
		t.actor, t.line, t.side, t.sector, t.polyobj = act.Actor, act.Line, act.Side, act.Sector, act.Polyobj
	}
	if err := e.bind(t, args, stringArgs); err != nil {
		logger.Printf("ACS: script %s: %v", m.name, err)
		return false
	}
	e.threads = append(e.threads, t)
	e.byName[m.name] = t
	return true
}

// Suspend pauses a runnable thread until it is resumed.
func (e *Environment) Suspend(name string) bool {
	t, ok := e.thread(name)
	if !ok || t.state != Runnable {
		return false
	}
	t.state = Suspended
	return true
}

func (e *Environment) Resume(name string) bool {
	t, ok := e.thread(name)
	if !ok || t.state != Suspended {
		return false
	}
	t.state = Runnable
	return true
}

// Terminate ends a thread. The script can be started again afterwards.
func (e *Environment) Terminate(name string) bool {
	t, ok := e.thread(name)
	if !ok {
		return false
	}
	e.end(t)
	return true
}

// State reports the state of the named thread. Scripts that are not
// running report Terminated.
func (e *Environment) State(name string) ThreadState {
	if t, ok := e.thread(name); ok {
		return t.state
	}
	return Terminated
}

func (e *Environment) thread(name string) (*thread, bool) {
	if m, ok := e.lookup(name); ok {
		name = m.name
	}
	t, ok := e.byName[name]
	return t, ok
}

func (e *Environment) end(t *thread) {
	t.state = Terminated
	if e.byName[t.name] == t {
		delete(e.byName, t.name)
	}
}

// Tick applies reloaded modules, then runs every runnable thread once in
// start order. Threads started during the tick first run on the next one.
func (e *Environment) Tick() {
	e.applyReloads()

	n := len(e.threads)
	for i := 0; i < n; i++ {
		t := e.threads[i]
		if t.state != Runnable {
			continue
		}
		if t.wait > 0 {
			t.wait--
			continue
		}
		e.run(t)
	}

	live := e.threads[:0]
	for _, t := range e.threads {
		if t.state != Terminated {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(e.threads); i++ {
		e.threads[i] = nil
	}
	e.threads = live
}

func (e *Environment) run(t *thread) {
	t.yield = yieldEnd
	ctx := context.Background()
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}
	if err := t.compiled.RunContext(ctx); err != nil {
		logger.Printf("ACS: script %s: %s", t.name, describe(err))
		e.end(t)
		return
	}
	if t.state != Runnable {
		return // suspended or terminated from outside during the run
	}
	switch t.yield {
	case yieldDelay:
		t.wait = t.delay
	case yieldSuspend:
		t.state = Suspended
	default:
		e.end(t)
	}
}

// bind sets the globals a thread's script sees.
func (e *Environment) bind(t *thread, args []int, stringArgs []string) error {
	ints := make([]tengo.Object, len(args))
	for i, v := range args {
		ints[i] = &tengo.Int{Value: int64(v)}
	}
	strs := make([]tengo.Object, len(stringArgs))
	for i, v := range stringArgs {
		strs[i] = &tengo.String{Value: v}
	}
	globals := map[string]tengo.Object{
		"engine":      e.engine(t),
		"args":        &tengo.ImmutableArray{Value: ints},
		"string_args": &tengo.ImmutableArray{Value: strs},
		"state":       &tengo.Map{Value: map[string]tengo.Object{}},
	}
	for name, v := range globals {
		if err := t.compiled.Set(name, v); err != nil {
			return fmt.Errorf("acs: set %s: %w", name, err)
		}
	}
	return nil
}

// activator rebuilds the thread's activator for one call. Removed actors
// are dropped.
func (t *thread) activator() *sectorfx.Activator {
	act := &sectorfx.Activator{Line: t.line, Side: t.side, Sector: t.sector, Polyobj: t.polyobj}
	if t.actor != nil && !t.actor.Removed {
		act.Actor = t.actor
	}
	return act
}

// onScriptCall runs a special for a thread. args holds argc integer
// arguments. It reports whether the thread must suspend, which it does once
// the level has ended.
func (e *Environment) onScriptCall(t *thread, code int, args [sectorfx.NumArgs]int, argc int, strs [sectorfx.NumStringArgs]string) (fired, suspend bool) {
	for i := argc; i < sectorfx.NumArgs; i++ {
		args[i] = 0
	}
	// Copies: the special must not see later changes to the script's values.
	var stringArgs [sectorfx.NumStringArgs]string
	copy(stringArgs[:], strs[:])
	fired = e.level.Execute(t.activator(), code, args, stringArgs)
	return fired, e.level.Exited || e.level.Failed
}

// engine builds the functions a thread's script calls through the engine
// map.
func (e *Environment) engine(t *thread) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["special"] = &tengo.UserFunction{Name: "special", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		code, ok := tengo.ToInt(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "code", Expected: "int", Found: args[0].TypeName()}
		}
		if sectorfx.SpecialName(code) == "" {
			return nil, fmt.Errorf("%w %d", errUnknownSpecial, code)
		}
		var ints [sectorfx.NumArgs]int
		var strs [sectorfx.NumStringArgs]string
		argc, strc := 0, 0
		for i, a := range args[1:] {
			switch v := a.(type) {
			case *tengo.String:
				if strc == len(strs) {
					return nil, tengo.ErrWrongNumArguments
				}
				strs[strc] = v.Value
				strc++
			default:
				n, ok := tengo.ToInt(a)
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("arg %d", i+1), Expected: "int or string", Found: a.TypeName()}
				}
				if argc == len(ints) {
					return nil, tengo.ErrWrongNumArguments
				}
				ints[argc] = n
				argc++
			}
		}
		fired, suspend := e.onScriptCall(t, code, ints, argc, strs)
		if suspend {
			t.yield = yieldSuspend
		}
		return tengo.FromInterface(fired)
	}}

	values["activator"] = &tengo.UserFunction{Name: "activator", Value: func(args ...tengo.Object) (tengo.Object, error) {
		act := t.activator()
		m := map[string]tengo.Object{
			"actor":  &tengo.Int{Value: int64(indexOf(act.Actor))},
			"line":   &tengo.Int{Value: int64(lineIndex(act.Line))},
			"side":   &tengo.Int{Value: int64(act.Side)},
			"sector": &tengo.Int{Value: int64(sectorIndex(act.Sector))},
			"player": tengo.FalseValue,
		}
		if act.Actor != nil && act.Actor.Player != nil {
			m["player"] = tengo.TrueValue
		}
		return &tengo.ImmutableMap{Value: m}, nil
	}}

	values["delay"] = &tengo.UserFunction{Name: "delay", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		n, ok := tengo.ToInt(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "tics", Expected: "int", Found: args[0].TypeName()}
		}
		if t.yield == yieldEnd || t.yield == yieldDelay {
			t.yield = yieldDelay
			t.delay = max(n-1, 0)
		}
		return tengo.UndefinedValue, nil
	}}

	values["suspend"] = &tengo.UserFunction{Name: "suspend", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if t.yield != yieldTerminate {
			t.yield = yieldSuspend
		}
		return tengo.UndefinedValue, nil
	}}

	values["terminate"] = &tengo.UserFunction{Name: "terminate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t.yield = yieldTerminate
		return tengo.UndefinedValue, nil
	}}

	values["print"] = &tengo.UserFunction{Name: "print", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			if s, ok := tengo.ToString(a); ok {
				parts[i] = s
			} else {
				parts[i] = a.String()
			}
		}
		logger.Printf("ACS: script %s: %s", t.name, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	values["tic"] = &tengo.UserFunction{Name: "tic", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(e.level.Tic)}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func indexOf(a *sectorfx.Actor) int {
	if a == nil {
		return -1
	}
	return a.Index
}

func lineIndex(li *sectorfx.Line) int {
	if li == nil {
		return -1
	}
	return li.Index
}

func sectorIndex(s *sectorfx.Sector) int {
	if s == nil {
		return -1
	}
	return s.Index
}

// describe classifies a fatal script error the way the level log reports
// it.
func describe(err error) string {
	msg := err.Error()
	var class string
	switch {
	case errors.Is(err, tengo.ErrObjectAllocLimit), errors.Is(err, context.DeadlineExceeded):
		class = "branch limit"
	case errors.Is(err, tengo.ErrInvalidOperator), strings.Contains(msg, "invalid operation"):
		class = "unknown opcode"
	case errors.Is(err, errUnknownSpecial), strings.Contains(msg, errUnknownSpecial.Error()),
		strings.Contains(msg, "not callable"),
		strings.Contains(msg, "unresolved reference"):
		class = "unknown external call"
	case errors.Is(err, tengo.ErrIndexOutOfBounds), errors.Is(err, tengo.ErrStackOverflow):
		class = "out-of-bounds jump"
	default:
		return msg
	}
	return class + ": " + msg
}
