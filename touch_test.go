package sectorfx

import "testing"

func TestTouchSolidVersusVolume(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		z       float64
		flipped bool
		policy  SectorFlags
		want    bool
	}{
		{"standing on solid", 100, 96, false, SectorSpecialFloor, true},
		{"one unit above solid", 100, 97, false, SectorSpecialFloor, false},
		{"inside solid", 100, 70, false, SectorSpecialFloor, false},
		{"below solid, floor policy", 100, 16, false, SectorSpecialFloor, false},
		{"headbump from below", 100, 16, false, SectorSpecialCeiling | SectorHeadbump, true},
		{"flipped under solid", 100, 16, true, SectorSpecialBoth, true},
		{"flipped under solid, floor only", 100, 16, true, SectorSpecialFloor, false},
		{"inside water", 120, 70, false, SectorSpecialFloor, true},
		{"above water", 120, 200, false, SectorSpecialFloor, false},
		{"head in water", 120, 20, false, SectorSpecialFloor, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFOFFixture()
			fx.b.Line(fx.master).Special = tt.code
			fx.b.Line(fx.master).Args = argv(1)
			fx.b.Sector(fx.control).Flags = tt.policy
			l := mustBuild(t, fx.b)

			a := newPlayer(64, 64, tt.z)
			if tt.flipped {
				a.EFlags |= ActorVerticalFlip
			}
			l.AddActor(a)
			if got := l.IsTouchingFOF(a, l.FOFs[0], nil); got != tt.want {
				t.Fatalf("expected touching %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTouchMissingFOF(t *testing.T) {
	fx := newFOFFixture()
	fx.b.Line(fx.master).Special = 120
	fx.b.Line(fx.master).Args = argv(1)
	l := mustBuild(t, fx.b)
	a := newPlayer(64, 64, 70)
	l.AddActor(a)

	f := l.FOFs[0]
	f.Flags &^= FFExists
	if l.IsTouchingFOF(a, f, nil) {
		t.Fatalf("expected a non-existent FOF to never be touched")
	}
}

func TestTouchSectorPlane(t *testing.T) {
	b := NewLevelBuilder(DefaultConfig(), nil)
	s, _ := b.AddBox(0, 0, 128, 128, 0, 128)
	l := mustBuild(t, b)
	sec := &l.Sectors[s]

	a := newPlayer(64, 64, 0)
	l.AddActor(a)
	if a.Sector != s {
		t.Fatalf("expected actor in sector %d, got %d", s, a.Sector)
	}
	if !l.IsTouchingSectorPlane(a, sec) {
		t.Fatalf("expected actor on the floor to touch it")
	}
	a.Z = 8
	if l.IsTouchingSectorPlane(a, sec) {
		t.Fatalf("expected airborne actor not to touch the floor")
	}
	a.Z = 80 // head at the ceiling
	sec.Flags = SectorSpecialCeiling
	if l.IsTouchingSectorPlane(a, sec) {
		t.Fatalf("expected an unflipped actor to ignore the ceiling without headbump")
	}
	sec.Flags |= SectorHeadbump
	if !l.IsTouchingSectorPlane(a, sec) {
		t.Fatalf("expected headbump to accept the ceiling")
	}
}

func TestResolveFloorCeilingAroundSolidFOF(t *testing.T) {
	fx := newFOFFixture()
	fx.b.Line(fx.master).Special = 100
	fx.b.Line(fx.master).Args = argv(1)
	l := mustBuild(t, fx.b)

	above := newPlayer(64, 64, 96)
	l.AddActor(above)
	if above.FloorZ != 96 || above.FloorFOF != l.FOFs[0] {
		t.Fatalf("expected floor at the FOF top, got %v", above.FloorZ)
	}
	below := newPlayer(64, 64, 0)
	l.AddActor(below)
	if below.CeilingZ != 64 || below.CeilingFOF != l.FOFs[0] || below.FloorZ != 0 {
		t.Fatalf("expected ceiling at the FOF bottom, got floor %v ceiling %v", below.FloorZ, below.CeilingZ)
	}
}

func TestActivationAllowed(t *testing.T) {
	player := newPlayer(0, 0, 0)
	monster := &Actor{Flags: ActorEnemy}
	missile := &Actor{Flags: ActorMissile | ActorEnemy}
	scenery := &Actor{}

	tests := []struct {
		name string
		a    *Actor
		mask ActivationFlags
		kind ActivationKind
		want bool
	}{
		{"player cross", player, PlayerCross, ActivateCross, true},
		{"player push without push bit", player, PlayerCross, ActivatePush, false},
		{"monster enter", monster, MonsterEnter, ActivateEnter, true},
		{"monster with player bits", monster, PlayerCross | PlayerPush, ActivateCross, false},
		{"missile before monster", missile, MonsterCross, ActivateCross, false},
		{"missile cross", missile, MissileCross, ActivateCross, true},
		{"scenery never", scenery, 0x1FF, ActivateCross, false},
		{"nil actor", nil, 0x1FF, ActivateCross, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActivationAllowed(tt.a, tt.mask, tt.kind); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
