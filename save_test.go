package sectorfx

import (
	"strings"
	"testing"
)

// newBusyLevel builds the FOF fixture and sets a fade, a plane mover, a light
// fade and a crumble going.
func newBusyLevel(t *testing.T) (*Level, *FOF) {
	t.Helper()
	l, f := newFadeLevel(t, 170)
	l.FadeFOF(f, 0, 9, 0)
	l.MovePlanes(&l.Sectors[0], PlaneFloor, 64, 2, 0)
	l.FadeLight(&l.Sectors[0], 100, 5, false)
	if !l.StartCrumble(f, CrumbleReturns) {
		t.Fatalf("expected the crumble to start")
	}
	for i := 0; i < 2; i++ {
		l.Tick()
	}
	return l, f
}

func TestSaveLoadContinuesIdentically(t *testing.T) {
	saved, savedFOF := newBusyLevel(t)
	twin, twinFOF := newBusyLevel(t)

	data, err := saved.SaveThinkers()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := saved.LoadThinkers(data); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if saved.Thinkers.Len() != twin.Thinkers.Len() {
		t.Fatalf("expected %d thinkers, got %d", twin.Thinkers.Len(), saved.Thinkers.Len())
	}
	if !saved.Thinkers.Valid(savedFOF.FadingData) {
		t.Fatalf("expected the loaded fader to own the FOF fade")
	}
	target, control := &saved.Sectors[0], savedFOF.Control
	if !saved.Thinkers.Valid(target.FloorData) || !saved.Thinkers.Valid(target.LightingData) {
		t.Fatalf("expected the loaded mover and light fader to own the target sector")
	}
	if !saved.Thinkers.Valid(control.FloorData) || control.CrumbleState != CrumbleActivated {
		t.Fatalf("expected the crumble to own its control sector, state %v", control.CrumbleState)
	}

	for i := 0; i < 40; i++ {
		saved.Tick()
		twin.Tick()
		if savedFOF.Alpha != twinFOF.Alpha {
			t.Fatalf("tic %d: expected alpha %d, got %d", saved.Tic, twinFOF.Alpha, savedFOF.Alpha)
		}
		if target.FloorHeight != twin.Sectors[0].FloorHeight {
			t.Fatalf("tic %d: expected floor %v, got %v", saved.Tic, twin.Sectors[0].FloorHeight, target.FloorHeight)
		}
		if target.LightLevel != twin.Sectors[0].LightLevel {
			t.Fatalf("tic %d: expected light %d, got %d", saved.Tic, twin.Sectors[0].LightLevel, target.LightLevel)
		}
		if control.CeilingHeight != twinFOF.Control.CeilingHeight {
			t.Fatalf("tic %d: expected crumble at %v, got %v", saved.Tic, twinFOF.Control.CeilingHeight, control.CeilingHeight)
		}
	}
	if saved.Tic != twin.Tic {
		t.Fatalf("expected tic %d, got %d", twin.Tic, saved.Tic)
	}
	if a, b := saved.Random.Key(1<<16), twin.Random.Key(1<<16); a != b {
		t.Fatalf("expected the random stream to continue, got %d and %d", a, b)
	}
}

func TestLoadThinkersRejectsBadData(t *testing.T) {
	l, f := newBusyLevel(t)
	data, err := l.SaveThinkers()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown kind", strings.Replace(string(data), "kind: fader", "kind: teleporter", 1), "unknown kind"},
		{"bad random", strings.Replace(string(data), "random: ", "random: '!!'\nignored: ", 1), "random state"},
		{"not yaml", "thinkers: [", "unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := l.Thinkers.Len()
			fade := f.FadingData
			err := l.LoadThinkers([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected an error containing %q, got %v", tt.want, err)
			}
			if l.Thinkers.Len() != before || !l.Thinkers.Valid(fade) {
				t.Fatalf("expected the level to keep its thinkers")
			}
		})
	}
}
