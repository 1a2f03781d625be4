package sectorfx

import "testing"

// newSpawnLevel builds a room tagged 3 and, off to the side, a control
// sector with light 100 and floor 64 whose west line carries code.
func newSpawnLevel(t *testing.T, host Host, code int, args [NumArgs]int) (*Level, *Sector, *Sector) {
	t.Helper()
	b := NewLevelBuilder(DefaultConfig(), host)
	room, _ := b.AddBox(0, 0, 128, 128, 0, 128, 3)
	b.Sector(room).LightLevel = 200
	control, lines := b.AddBox(300, 0, 364, 64, 64, 192)
	b.Sector(control).LightLevel = 100
	b.Line(lines[0]).Special = code
	b.Line(lines[0]).Args = args
	l := mustBuild(t, b)
	return l, &l.Sectors[room], &l.Sectors[control]
}

func TestLegacyMoverToFrontSector(t *testing.T) {
	l, room, _ := newSpawnLevel(t, nil, 52, argv(3, 16))
	if !l.Thinkers.Valid(room.FloorData) || room.FloorData != room.CeilingData {
		t.Fatalf("expected one mover to drive both planes")
	}
	l.Tick()
	if room.FloorHeight != 2 || room.CeilingHeight != 130 {
		t.Fatalf("expected planes at 2 and 130, got %v and %v", room.FloorHeight, room.CeilingHeight)
	}
	for i := 0; i < 40; i++ {
		l.Tick()
	}
	if room.FloorHeight != 64 || room.CeilingHeight != 192 {
		t.Fatalf("expected planes at 64 and 192, got %v and %v", room.FloorHeight, room.CeilingHeight)
	}
	if l.Thinkers.Valid(room.FloorData) {
		t.Fatalf("expected the mover to finish")
	}
}

func TestLegacyCrusher(t *testing.T) {
	host := &recordingHost{}
	l, room, _ := newSpawnLevel(t, host, 61, argv(3, 64))
	l.AddActor(newPlayer(64, 64, 0))

	lowest := room.CeilingHeight
	for i := 0; i < 40; i++ {
		l.Tick()
		lowest = min(lowest, room.CeilingHeight)
	}
	if lowest != crusherGap {
		t.Fatalf("expected the ceiling to come down to %d, got %v", crusherGap, lowest)
	}
	crushed := 0
	for _, d := range host.damage {
		if d == DamageCrush {
			crushed++
		}
	}
	if crushed == 0 {
		t.Fatalf("expected the player to be crushed")
	}
}

func TestSpawnLights(t *testing.T) {
	t.Run("plane lights", func(t *testing.T) {
		l, room, control := newSpawnLevel(t, nil, 600, argv(3))
		if room.FloorLightSector != control || room.CeilingLightSector != nil {
			t.Fatalf("expected only the floor to take its light from the control sector")
		}
		if l.Thinkers.Len() != 0 {
			t.Fatalf("expected no thinkers, got %d", l.Thinkers.Len())
		}
	})

	t.Run("glow", func(t *testing.T) {
		l, room, _ := newSpawnLevel(t, nil, 602, argv(3, 10, 100))
		l.Tick()
		if room.LightLevel != 190 {
			t.Fatalf("expected light 190 after one tic, got %d", room.LightLevel)
		}
		sawLow, sawHigh := false, false
		for i := 0; i < 40; i++ {
			l.Tick()
			if room.LightLevel < 100 || room.LightLevel > 200 {
				t.Fatalf("expected light within [100, 200], got %d", room.LightLevel)
			}
			sawLow = sawLow || room.LightLevel == 100
			sawHigh = sawHigh || (sawLow && room.LightLevel == 200)
		}
		if !sawLow || !sawHigh {
			t.Fatalf("expected the glow to reach both ends")
		}
	})

	t.Run("strobe in sync", func(t *testing.T) {
		l, room, _ := newSpawnLevel(t, nil, 605, argv(3, 4, 2))
		levels := map[int]bool{}
		for i := 0; i < 20; i++ {
			l.Tick()
			levels[room.LightLevel] = true
		}
		if len(levels) != 2 || !levels[200] || !levels[100] {
			t.Fatalf("expected the strobe to alternate between 200 and 100, got %v", levels)
		}
	})
}

func TestLevelLoadTriggerFiresAtBuild(t *testing.T) {
	fx := newTriggerFixture(TriggerLevelLoad, argv(int(TriggerOnce)))
	l := mustBuild(t, fx.b)
	if got := l.Sectors[fx.target].LightLevel; got != 20 {
		t.Fatalf("expected the load trigger to set light 20, got %d", got)
	}
	l.Tick()
	if l.RunTag(5, nil, nil) {
		t.Fatalf("expected a one-shot load trigger not to fire again")
	}
}
