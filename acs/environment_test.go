package acs

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stuarthighley/sectorfx"
)

const setLight = `engine.special(467, args[0], args[1])`

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(log.New(&buf, "", 0))
	sectorfx.SetLogger(log.New(&buf, "", 0))
	t.Cleanup(func() {
		SetLogger(nil)
		sectorfx.SetLogger(nil)
	})
	return &buf
}

// newEnv builds a room tagged 7 with light 100 and a script environment
// holding the given scripts.
func newEnv(t *testing.T, cfg sectorfx.ScriptConfig, scripts map[string]string) (*Environment, *sectorfx.Level, *sectorfx.Sector) {
	t.Helper()
	b := sectorfx.NewLevelBuilder(sectorfx.DefaultConfig(), nil)
	room, _ := b.AddBox(0, 0, 128, 128, 0, 128, 7)
	b.Sector(room).LightLevel = 100
	l, err := b.Build()
	if err != nil {
		t.Fatalf("expected level to build, got %v", err)
	}
	e := New(l, cfg)
	for name, src := range scripts {
		if err := e.Load(name, []byte(src)); err != nil {
			t.Fatalf("expected %s to compile, got %v", name, err)
		}
	}
	return e, l, &l.Sectors[room]
}

func TestExecuteRunsToCompletion(t *testing.T) {
	e, l, room := newEnv(t, sectorfx.ScriptConfig{}, map[string]string{"light": setLight})
	if !e.Execute("light", []int{7, 50}, nil, nil) {
		t.Fatalf("expected the script to start")
	}
	if e.Execute("light", []int{7, 60}, nil, nil) {
		t.Fatalf("expected a running script not to start twice")
	}
	if room.LightLevel != 100 {
		t.Fatalf("expected the script not to run before the tic, got light %d", room.LightLevel)
	}
	l.Tick()
	if room.LightLevel != 50 {
		t.Fatalf("expected light 50, got %d", room.LightLevel)
	}
	if got := e.State("light"); got != Terminated {
		t.Fatalf("expected the thread to end, got %v", got)
	}
}

func TestExecuteUnknownScript(t *testing.T) {
	buf := captureLog(t)
	e, _, _ := newEnv(t, sectorfx.ScriptConfig{}, nil)
	if e.Execute("missing", nil, nil, nil) {
		t.Fatalf("expected an unknown script not to start")
	}
	if !strings.Contains(buf.String(), ErrNoSuchScript.Error()) {
		t.Fatalf("expected a no such script message, got %q", buf.String())
	}
}

func TestDelayAndState(t *testing.T) {
	src := `
if state.runs == undefined {
	state.runs = 0
}
state.runs += 1
engine.special(467, 7, state.runs * 10)
if state.runs < 3 {
	engine.delay(2)
}
`
	e, l, room := newEnv(t, sectorfx.ScriptConfig{}, map[string]string{"steps": src})
	e.Execute("steps", nil, nil, nil)

	want := []int{10, 10, 20, 20, 30}
	for i, light := range want {
		l.Tick()
		if room.LightLevel != light {
			t.Fatalf("tic %d: expected light %d, got %d", i+1, light, room.LightLevel)
		}
	}
	if got := e.State("steps"); got != Terminated {
		t.Fatalf("expected the thread to end after its last run, got %v", got)
	}
}

func TestSuspendResumeTerminate(t *testing.T) {
	src := `
engine.special(467, 7, engine.tic())
engine.suspend()
`
	e, l, room := newEnv(t, sectorfx.ScriptConfig{}, map[string]string{"waiter": src})
	e.Execute("waiter", nil, nil, nil)

	l.Tick()
	if room.LightLevel != 1 || e.State("waiter") != Suspended {
		t.Fatalf("expected light 1 and a suspended thread, got %d and %v", room.LightLevel, e.State("waiter"))
	}
	l.Tick()
	if room.LightLevel != 1 {
		t.Fatalf("expected a suspended thread not to run, got light %d", room.LightLevel)
	}

	if !e.Resume("waiter") || e.Resume("waiter") {
		t.Fatalf("expected only the first resume to succeed")
	}
	l.Tick()
	if room.LightLevel != 3 {
		t.Fatalf("expected light 3, got %d", room.LightLevel)
	}

	if !e.Execute("waiter", nil, nil, nil) {
		t.Fatalf("expected Execute to resume a suspended thread")
	}
	if !e.Suspend("waiter") || e.State("waiter") != Suspended {
		t.Fatalf("expected the thread to suspend from outside")
	}
	if !e.Terminate("waiter") || e.State("waiter") != Terminated {
		t.Fatalf("expected the thread to terminate")
	}
	l.Tick()
	if room.LightLevel != 3 {
		t.Fatalf("expected a terminated thread not to run, got light %d", room.LightLevel)
	}
	if !e.Execute("waiter", nil, nil, nil) {
		t.Fatalf("expected a terminated script to start again")
	}
}

func TestTerminateWins(t *testing.T) {
	src := `
engine.special(467, 7, 40)
engine.terminate()
engine.delay(5)
engine.suspend()
`
	e, l, room := newEnv(t, sectorfx.ScriptConfig{}, map[string]string{"stop": src})
	e.Execute("stop", nil, nil, nil)
	l.Tick()
	if room.LightLevel != 40 || e.State("stop") != Terminated {
		t.Fatalf("expected light 40 and a terminated thread, got %d and %v", room.LightLevel, e.State("stop"))
	}
}

func TestSpecialResults(t *testing.T) {
	src := `
if !engine.special(467, 99, 5) {
	engine.special(467, 7, 77)
}
`
	buf := captureLog(t)
	e, l, room := newEnv(t, sectorfx.ScriptConfig{}, map[string]string{"check": src, "bogus": `engine.special(9999)`})

	e.Execute("check", nil, nil, nil)
	e.Execute("bogus", nil, nil, nil)
	l.Tick()
	if room.LightLevel != 77 {
		t.Fatalf("expected the failed special to report false, got light %d", room.LightLevel)
	}
	if !strings.Contains(buf.String(), "unknown external call") {
		t.Fatalf("expected an unknown external call message, got %q", buf.String())
	}
	if e.State("bogus") != Terminated {
		t.Fatalf("expected a failing script to end")
	}
}

func TestSuspendOnLevelExit(t *testing.T) {
	e, l, _ := newEnv(t, sectorfx.ScriptConfig{}, map[string]string{"light": setLight})
	e.Execute("light", []int{7, 50}, nil, nil)
	l.Exited = true
	e.Tick()
	if got := e.State("light"); got != Suspended {
		t.Fatalf("expected the thread to suspend once the level ended, got %v", got)
	}
}

func TestScriptTimeout(t *testing.T) {
	buf := captureLog(t)
	cfg := sectorfx.ScriptConfig{Timeout: 10 * time.Millisecond}
	e, _, _ := newEnv(t, cfg, map[string]string{"spin": `for {}`})
	e.Execute("spin", nil, nil, nil)
	e.Tick()
	if e.State("spin") != Terminated {
		t.Fatalf("expected a runaway script to be stopped")
	}
	if !strings.Contains(buf.String(), "branch limit") {
		t.Fatalf("expected a branch limit message, got %q", buf.String())
	}
}

func TestActivatorAndRunScriptSpecial(t *testing.T) {
	src := `
a := engine.activator()
engine.special(467, args[0], a.line + args[1])
`
	e, l, room := newEnv(t, sectorfx.ScriptConfig{}, map[string]string{"who": src})
	act := &sectorfx.Activator{Line: &l.Lines[2]}
	if !l.Execute(act, 415, [sectorfx.NumArgs]int{7, 100}, [sectorfx.NumStringArgs]string{"who"}) {
		t.Fatalf("expected the run script special to start the script")
	}
	e.Tick()
	if room.LightLevel != 102 {
		t.Fatalf("expected light 102, got %d", room.LightLevel)
	}
}

func TestLoadAndLookup(t *testing.T) {
	e, _, _ := newEnv(t, sectorfx.ScriptConfig{}, map[string]string{"007": setLight, "intro": setLight})

	if err := e.Load("broken", []byte(`x := `)); err == nil || !strings.Contains(err.Error(), "compile broken") {
		t.Fatalf("expected a compile error, got %v", err)
	}
	if got, want := e.Scripts(), []string{"007", "intro"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected scripts %v, got %v", want, got)
	}
	if !e.Execute("7", []int{7, 1}, nil, nil) {
		t.Fatalf("expected a numeric name to find 007")
	}
	if e.State("007") != Runnable || e.State("7") != Runnable {
		t.Fatalf("expected both spellings to name the running thread")
	}

	e.Unload("intro")
	if e.Execute("intro", nil, nil, nil) {
		t.Fatalf("expected an unloaded script not to start")
	}
}

func TestLoadDirAndReload(t *testing.T) {
	buf := captureLog(t)
	dir := t.TempDir()
	write := func(name, src string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	path := write("light.tengo", `engine.special(467, 7, 10)`)
	write("broken.tengo", `x := `)
	write("notes.txt", `not a script`)

	e, l, room := newEnv(t, sectorfx.ScriptConfig{Dir: dir}, nil)
	if err := e.LoadDir(dir); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := e.Scripts(); !reflect.DeepEqual(got, []string{"light"}) {
		t.Fatalf("expected only the good script to load, got %v", got)
	}
	if !strings.Contains(buf.String(), "compile broken") {
		t.Fatalf("expected the broken script to be logged, got %q", buf.String())
	}

	write("light.tengo", `engine.special(467, 7, 20)`)
	e.queue(path)
	e.Execute("light", nil, nil, nil)
	l.Tick()
	if room.LightLevel != 10 {
		t.Fatalf("expected the thread to keep the version it started with, got light %d", room.LightLevel)
	}
	e.Execute("light", nil, nil, nil)
	l.Tick()
	if room.LightLevel != 20 {
		t.Fatalf("expected the reloaded script to run, got light %d", room.LightLevel)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	e.queue(path)
	e.Tick()
	if len(e.Scripts()) != 0 {
		t.Fatalf("expected a removed file to unload its script, got %v", e.Scripts())
	}
	if err := e.LoadDir(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}

func TestReloadReadsLatestContent(t *testing.T) {
	buf := captureLog(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "light.tengo")
	write := func(src string) {
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(`engine.special(467, 7, 10)`)
	e, l, room := newEnv(t, sectorfx.ScriptConfig{Dir: dir}, nil)
	if err := e.LoadDir(dir); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// An editor saving in two writes: a truncated file, then the full one.
	write(`x := `)
	e.queue(path)
	write(`engine.special(467, 7, 40)`)
	e.queue(path)
	e.Tick()

	if n := strings.Count(buf.String(), "reloaded light"); n != 1 {
		t.Fatalf("expected one reload, got %d: %q", n, buf.String())
	}
	if strings.Contains(buf.String(), "compile light") {
		t.Fatalf("expected the partial write never to be compiled, got %q", buf.String())
	}
	e.Execute("light", nil, nil, nil)
	l.Tick()
	if room.LightLevel != 40 {
		t.Fatalf("expected the final content to run, got light %d", room.LightLevel)
	}
}

func TestWatch(t *testing.T) {
	e, _, _ := newEnv(t, sectorfx.ScriptConfig{}, nil)
	if err := e.Watch(); err == nil {
		t.Fatalf("expected an error without a script directory")
	}

	e, _, _ = newEnv(t, sectorfx.ScriptConfig{Dir: t.TempDir()}, nil)
	if err := e.Watch(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := e.Watch(); err != nil {
		t.Fatalf("expected a second Watch to be a no-op, got %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("expected a second Close to be a no-op, got %v", err)
	}
}
