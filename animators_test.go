package sectorfx

import (
	"math"
	"testing"
)

func newRoom(t *testing.T, tags ...int) (*Level, *Sector) {
	t.Helper()
	b := NewLevelBuilder(DefaultConfig(), nil)
	s, _ := b.AddBox(0, 0, 256, 256, 0, 128, tags...)
	l := mustBuild(t, b)
	return l, &l.Sectors[s]
}

func TestScrollers(t *testing.T) {
	t.Run("floor", func(t *testing.T) {
		l, s := newRoom(t)
		l.AddScroller(ScrollFloor, s.Index, -1, 2, 3, false)
		l.Tick()
		l.Tick()
		if s.FloorOffset.X != -4 || s.FloorOffset.Y != 6 {
			t.Fatalf("expected offset (-4, 6), got %v", s.FloorOffset)
		}
	})
	t.Run("accelerative", func(t *testing.T) {
		l, s := newRoom(t)
		l.AddScroller(ScrollCeiling, s.Index, -1, 1, 0, true)
		l.Tick()
		l.Tick()
		if s.CeilingOffset.X != -3 {
			t.Fatalf("expected offset -3 after two accelerating tics, got %v", s.CeilingOffset.X)
		}
	})
	t.Run("side", func(t *testing.T) {
		l, _ := newRoom(t)
		l.AddScroller(ScrollSide, 0, -1, 1, 0.5, false)
		l.Tick()
		if l.Sides[0].XOffset != 1 || l.Sides[0].YOffset != 0.5 {
			t.Fatalf("expected side offset (1, 0.5), got (%v, %v)", l.Sides[0].XOffset, l.Sides[0].YOffset)
		}
	})
	t.Run("displacement", func(t *testing.T) {
		l, s := newRoom(t)
		l.AddScroller(ScrollFloor, s.Index, s.Index, 1, 0, false)
		l.Tick()
		if s.FloorOffset.X != 0 {
			t.Fatalf("expected no scroll without control movement")
		}
		s.FloorHeight += 8
		l.Tick()
		if s.FloorOffset.X != -8 {
			t.Fatalf("expected the scroll to follow the control, got %v", s.FloorOffset.X)
		}
	})
	t.Run("carry", func(t *testing.T) {
		l, s := newRoom(t)
		p := newPlayer(128, 128, 0)
		l.AddActor(p)
		flier := newPlayer(64, 64, 40)
		l.AddActor(flier)
		l.AddScroller(ScrollCarry, s.Index, -1, 1, 0, false)
		l.Tick()
		if p.MomX != 1 || flier.MomX != 0 {
			t.Fatalf("expected only the grounded actor carried, got %v and %v", p.MomX, flier.MomX)
		}
	})
	t.Run("conveyor speed", func(t *testing.T) {
		l, s := newRoom(t, 6)
		ref := l.AddScroller(ScrollCarry, s.Index, -1, 3, 4, false)
		if n := l.SetConveyorSpeed(6, 10, true); n != 1 {
			t.Fatalf("expected 1 scroller changed, got %d", n)
		}
		sc, _ := thinkerAs[*Scroller](l, ref)
		if sc.DX != -6 || sc.DY != -8 {
			t.Fatalf("expected reversed (-6, -8), got (%v, %v)", sc.DX, sc.DY)
		}
	})
}

func TestPushers(t *testing.T) {
	tests := []struct {
		name string
		typ  PushType
		z    float64
		want float64
	}{
		{"wind airborne", PushWind, 20, 2},
		{"wind grounded", PushWind, 0, 1},
		{"current grounded", PushCurrent, 0, 2},
		{"current airborne", PushCurrent, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, s := newRoom(t)
			p := newPlayer(128, 128, tt.z)
			l.AddActor(p)
			l.AddPusher(tt.typ, s.Index, 2, 0, false)
			l.Tick()
			if p.MomX != tt.want {
				t.Fatalf("expected momentum %v, got %v", tt.want, p.MomX)
			}
		})
	}
}

func TestPusherExclusive(t *testing.T) {
	l, s := newRoom(t)
	p := newPlayer(128, 128, 20)
	l.AddActor(p)
	l.AddPusher(PushWind, s.Index, 1, 0, true)
	l.AddPusher(PushWind, s.Index, 5, 0, false)
	l.Tick()
	if p.MomX != 1 {
		t.Fatalf("expected only the exclusive pusher to act, got %v", p.MomX)
	}
	l.Tick()
	if p.MomX != 2 {
		t.Fatalf("expected the exclusive flag to reset each tic, got %v", p.MomX)
	}
}

func TestPointPusher(t *testing.T) {
	l, _ := newRoom(t)
	near := newPlayer(150, 100, 0)
	far := newPlayer(100, 250, 0)
	l.AddActor(near)
	l.AddActor(far)
	l.AddPointPusher(100, 100, 10, 100, false)
	l.Tick()
	if math.Abs(near.MomX-5) > 1e-9 || near.MomY != 0 {
		t.Fatalf("expected (5, 0) away from the point, got (%v, %v)", near.MomX, near.MomY)
	}
	if far.MomX != 0 || far.MomY != 0 {
		t.Fatalf("expected no push outside the radius")
	}
}

func TestFriction(t *testing.T) {
	tests := []struct {
		name   string
		amount int
		slower bool
	}{
		{"sludge", 8, true},
		{"ice", -8, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, s := newRoom(t)
			p := newPlayer(128, 128, 0)
			l.AddActor(p)
			l.AddFriction(tt.amount, s.Index, -1)
			l.Tick()
			if (p.Friction < OrigFriction) != tt.slower || p.Friction == OrigFriction {
				t.Fatalf("expected friction changed from %v, got %v", OrigFriction, p.Friction)
			}
			if !tt.slower && p.MoveFactor >= 1 {
				t.Fatalf("expected ice to slow acceleration, got %v", p.MoveFactor)
			}
		})
	}
}

func TestFOFInheritsControlForces(t *testing.T) {
	tests := []struct {
		name string
		code int
	}{
		{"current", 544},
		{"wind", 541},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFOFFixture()
			_, lines := fx.b.AddBox(600, 0, 664, 64, 0, 0)
			push := fx.b.Line(lines[0])
			push.Special = tt.code // along the line, northward
			push.Args = argv(2, 128)
			fric := fx.b.Line(lines[1])
			fric.Special = 540
			fric.Args = argv(2, 8)
			fx.b.Line(fx.master).Special = 120
			fx.b.Line(fx.master).Args = argv(1)
			l := mustBuild(t, fx.b)

			var frictions, pushers int
			l.Thinkers.Each(func(_ ThinkerRef, c ThinkerCategory, th Thinker) {
				if c != CategoryForce {
					t.Fatalf("expected forces in the force category, got %v", c)
				}
				switch f := th.(type) {
				case *Friction:
					if f.Affectee == fx.target && f.Referrer == fx.control {
						frictions++
					}
				case *Pusher:
					if f.Affectee == fx.target && f.Referrer == fx.control {
						pushers++
					}
				}
			})
			if frictions != 1 || pushers != 1 {
				t.Fatalf("expected one inherited friction and pusher, got %d and %d", frictions, pushers)
			}

			swimmer := newPlayer(64, 64, 70)
			above := newPlayer(32, 32, 120)
			l.AddActor(swimmer)
			l.AddActor(above)
			l.Tick()
			if swimmer.MomY <= 0 {
				t.Fatalf("expected a push inside the water FOF, got %v", swimmer.MomY)
			}
			if above.MomY != 0 {
				t.Fatalf("expected no push above the FOF, got %v", above.MomY)
			}
		})
	}
}

func TestAirBobSinksUnderPlayer(t *testing.T) {
	fx := newFOFFixture()
	fx.b.Line(fx.master).Special = 150
	fx.b.Line(fx.master).Args = argv(1)
	l := mustBuild(t, fx.b)
	control := &l.Sectors[fx.control]

	p := newPlayer(64, 64, 96)
	l.AddActor(p)
	for i := 0; i < 5; i++ {
		l.Tick()
	}
	if control.CeilingHeight >= 96 || control.CeilingHeight < 80 {
		t.Fatalf("expected the platform to sink toward 80, got %v", control.CeilingHeight)
	}
	if math.Abs(control.CeilingHeight-control.FloorHeight-32) > 1e-9 {
		t.Fatalf("expected the platform to keep its thickness")
	}
	if p.Z != control.CeilingHeight {
		t.Fatalf("expected the player to ride the platform, got %v vs %v", p.Z, control.CeilingHeight)
	}

	l.RemoveActor(p)
	for i := 0; i < 500; i++ {
		l.Tick()
	}
	if control.CeilingHeight != 96 {
		t.Fatalf("expected the platform back at 96, got %v", control.CeilingHeight)
	}
}

func TestDisappearingFOF(t *testing.T) {
	host := &recordingHost{}
	fx := newFOFFixture()
	fx.b.level.Host = host
	master := fx.b.Line(fx.master)
	master.Special = 100
	master.Args = argv(1)
	master.Tags = TagList{1}
	_, lines := fx.b.AddBox(600, 0, 664, 64, 0, 128)
	ctl := fx.b.Line(lines[0])
	ctl.Special = 64
	ctl.Tags = TagList{1}
	ctl.Args = argv(0, 3, 2)
	l := mustBuild(t, fx.b)
	f := l.FOFs[0]

	want := []bool{true, true, false, false, true}
	for i, exists := range want {
		l.Tick()
		if f.Exists() != exists {
			t.Fatalf("tic %d: expected exists %v", i+1, exists)
		}
	}
	if len(host.sounds) != 1 || host.sounds[0] != "appear" {
		t.Fatalf("expected one appear sound, got %v", host.sounds)
	}
}

func TestQuake(t *testing.T) {
	cfg := DefaultConfig()
	b := NewLevelBuilder(cfg, nil)
	b.AddBox(0, 0, 256, 256, 0, 128)
	l := mustBuild(t, b)
	p := newPlayer(128, 128, 0)
	l.AddActor(p)

	l.StartQuake(4, 8, 0, 0, 0, 0, nil)
	l.Tick()
	if p.Player.Quake.X != -8 {
		t.Fatalf("expected -8 on an odd tic, got %v", p.Player.Quake.X)
	}
	l.Tick()
	if p.Player.Quake.X != 6 {
		t.Fatalf("expected +6 as the quake decays, got %v", p.Player.Quake.X)
	}
	l.Tick()
	l.Tick()
	l.Tick()
	if p.Player.Quake.X != 0 || l.Thinkers.CategoryLen(CategoryView) != 0 {
		t.Fatalf("expected the quake over, got offset %v", p.Player.Quake.X)
	}

	l.StartQuake(10, 20, 0, 0, 0, 0, nil)
	l.StartQuake(10, 20, 0, 0, 0, 0, nil)
	l.Tick()
	if math.Abs(p.Player.Quake.X) != cfg.MaxQuakeOffset {
		t.Fatalf("expected summed quakes clamped to %v, got %v", cfg.MaxQuakeOffset, p.Player.Quake.X)
	}
}

func TestCrumble(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		returns bool
	}{
		{"returning", 170, true},
		{"gone for good", 171, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFOFFixture()
			fx.b.Line(fx.master).Special = tt.code
			fx.b.Line(fx.master).Args = argv(1)
			l := mustBuild(t, fx.b)
			control := &l.Sectors[fx.control]

			p := newPlayer(64, 64, 96)
			l.AddActor(p)
			l.Tick()
			if control.CrumbleState != CrumbleActivated {
				t.Fatalf("expected standing on the FOF to set it off, state %v", control.CrumbleState)
			}
			for i := 0; i < l.Config.TicRate; i++ {
				l.Tick()
			}
			if control.CrumbleState != CrumbleFalling || control.CeilingHeight >= 96 {
				t.Fatalf("expected the FOF to fall after a second, state %v height %v", control.CrumbleState, control.CeilingHeight)
			}
			for i := 0; i < 16*l.Config.TicRate; i++ {
				l.Tick()
			}
			f := l.FOFs[0]
			if tt.returns {
				if control.CrumbleState != CrumbleNone || control.FloorHeight != 64 || control.CeilingHeight != 96 || !f.Exists() {
					t.Fatalf("expected the FOF restored, state %v planes %v..%v", control.CrumbleState, control.FloorHeight, control.CeilingHeight)
				}
			} else {
				if control.CrumbleState != CrumbleDone || f.Exists() {
					t.Fatalf("expected the FOF gone, state %v", control.CrumbleState)
				}
				if l.StartCrumble(f, CrumbleReturns) {
					t.Fatalf("expected a finished crumble not to restart")
				}
			}
		})
	}
}
