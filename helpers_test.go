package sectorfx

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

// captureLog sends diagnostics to a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(log.New(&buf, "", 0))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func countLines(buf *bytes.Buffer, substr string) int {
	n := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func mustBuild(t *testing.T, b *LevelBuilder) *Level {
	t.Helper()
	l, err := b.Build()
	if err != nil {
		t.Fatalf("expected level to build, got %v", err)
	}
	return l
}

// recordingHost remembers what the engine asked of the game.
type recordingHost struct {
	NopHost
	sounds   []string
	damage   []DamageKind
	exits    int
	unlocked map[int]bool
}

func (h *recordingHost) StartSound(_ *Sector, _ *Actor, sound string) {
	h.sounds = append(h.sounds, sound)
}

func (h *recordingHost) DamageActor(_ *Actor, _ *Sector, kind DamageKind) {
	h.damage = append(h.damage, kind)
}

func (h *recordingHost) ExitLevel(*Actor) { h.exits++ }

func (h *recordingHost) Unlocked(id int) bool { return h.unlocked[id] }

// fofFixture is a 128x128 target sector tagged 1 and a control sector tagged
// 2 spanning heights 64 to 96, off to the side.
type fofFixture struct {
	b       *LevelBuilder
	target  int
	control int
	master  int // west line of the control sector
}

func newFOFFixture() *fofFixture {
	b := NewLevelBuilder(DefaultConfig(), nil)
	target, _ := b.AddBox(0, 0, 128, 128, 0, 256, 1)
	control, lines := b.AddBox(256, 0, 320, 64, 64, 96, 2)
	return &fofFixture{b: b, target: target, control: control, master: lines[0]}
}

func newPlayer(x, y, z float64) *Actor {
	return &Actor{X: x, Y: y, Z: z, Radius: 16, Height: 48, Player: &Player{}}
}

func argv(v ...int) [NumArgs]int {
	var a [NumArgs]int
	copy(a[:], v)
	return a
}
