package sectorfx

import "testing"

func newFadeLevel(t *testing.T, code int) (*Level, *FOF) {
	t.Helper()
	fx := newFOFFixture()
	fx.b.Line(fx.master).Special = code
	fx.b.Line(fx.master).Args = argv(1)
	l := mustBuild(t, fx.b)
	return l, l.FOFs[0]
}

func TestFadeFOFConverges(t *testing.T) {
	tests := []struct {
		name  string
		dest  int
		speed int
	}{
		{"fade out", 0, 32},
		{"fade partway", 100, 7},
		{"speed larger than range", 0, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, f := newFadeLevel(t, 100)
			l.FadeFOF(f, tt.dest, tt.speed, 0)

			prev := f.Alpha
			for i := 0; i < 100 && l.Thinkers.Valid(f.FadingData); i++ {
				l.Tick()
				if f.Alpha > prev {
					t.Fatalf("expected alpha never to rise on a fade out, went %d -> %d", prev, f.Alpha)
				}
				prev = f.Alpha
			}
			if l.Thinkers.Valid(f.FadingData) {
				t.Fatalf("expected the fade to finish")
			}
			if f.Alpha != tt.dest {
				t.Fatalf("expected alpha %d, got %d", tt.dest, f.Alpha)
			}
			if tt.dest == 0 && f.Flags&FFExists != 0 {
				t.Fatalf("expected a fully faded FOF to stop existing")
			}
			if tt.dest > 0 && f.Flags&FFTranslucent == 0 {
				t.Fatalf("expected a partly faded FOF to be translucent")
			}
		})
	}
}

func TestFadeFOFTicBased(t *testing.T) {
	l, f := newFadeLevel(t, 100)
	l.FadeFOF(f, 0, 10, FadeTicBased)
	for i := 0; i < 9; i++ {
		l.Tick()
	}
	if !l.Thinkers.Valid(f.FadingData) || f.Alpha == 0 {
		t.Fatalf("expected the fade to still run after 9 tics, alpha %d", f.Alpha)
	}
	l.Tick()
	if l.Thinkers.Valid(f.FadingData) || f.Alpha != 0 {
		t.Fatalf("expected the fade to end on tic 10 at alpha 0, got %d", f.Alpha)
	}
}

func TestFadeFOFOverride(t *testing.T) {
	buf := captureLog(t)
	l, f := newFadeLevel(t, 100)
	l.FadeFOF(f, 0, 8, 0)
	l.Tick()
	l.Tick()

	l.FadeFOF(f, 255, 8, 0)
	d, ok := thinkerAs[*Fader](l, f.FadingData)
	if !ok || d.Dest != 0 {
		t.Fatalf("expected the running fade to be kept without override")
	}
	if countLines(buf, "already running") != 1 {
		t.Fatalf("expected a diagnostic for the ignored fade, got %q", buf)
	}

	l.FadeFOF(f, 255, 8, FadeOverride)
	d, ok = thinkerAs[*Fader](l, f.FadingData)
	if !ok || d.Dest != 255 {
		t.Fatalf("expected the override to retarget the fade")
	}
	if n := len(l.Thinkers.refsOfKind(KindFader)); n != 1 {
		t.Fatalf("expected exactly 1 fader, got %d", n)
	}
}

func TestFadeFOFFinalizeSettlesCollision(t *testing.T) {
	tests := []struct {
		name  string
		start int
		fade  func(l *Level, f *FOF)
		end   func(l *Level, f *FOF)
		alpha int
		solid bool
	}{
		{
			name:  "override of a ghost fade in",
			start: 0,
			fade:  func(l *Level, f *FOF) { l.FadeFOF(f, 255, 8, FadeGhost) },
			end:   func(l *Level, f *FOF) { l.FadeFOF(f, 255, 0, FadeOverride|FadeIgnoreCollision) },
			alpha: 255,
			solid: true,
		},
		{
			name:  "finalizing stop of a fade out",
			start: 255,
			fade:  func(l *Level, f *FOF) { l.FadeFOF(f, 0, 32, 0) },
			end:   func(l *Level, f *FOF) { l.StopFOFFade(f, true) },
			alpha: 191,
			solid: false,
		},
		{
			name:  "finalizing stop of a tic based fade out",
			start: 255,
			fade:  func(l *Level, f *FOF) { l.FadeFOF(f, 0, 10, FadeTicBased) },
			end:   func(l *Level, f *FOF) { l.StopFOFFade(f, true) },
			alpha: 204,
			solid: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, f := newFadeLevel(t, 100)
			l.SetFOFAlpha(f, tt.start, false, true)
			tt.fade(l, f)
			l.Tick()
			l.Tick()
			tt.end(l, f)

			if l.Thinkers.Valid(f.FadingData) {
				t.Fatalf("expected no fade left running")
			}
			if f.Alpha != tt.alpha {
				t.Fatalf("expected alpha %d, got %d", tt.alpha, f.Alpha)
			}
			if got := f.Flags&FFSolid != 0; got != tt.solid {
				t.Fatalf("expected solid %v, got %v", tt.solid, got)
			}
		})
	}
}

func TestFadeFOFGhost(t *testing.T) {
	l, f := newFadeLevel(t, 100)
	l.SetFOFAlpha(f, 0, false, true)
	l.FadeFOF(f, 255, 64, FadeGhost)

	l.Tick()
	if f.Flags&FFSolid != 0 {
		t.Fatalf("expected no collision during a ghost fade")
	}
	for i := 0; i < 10 && l.Thinkers.Valid(f.FadingData); i++ {
		l.Tick()
	}
	if f.Flags&FFSolid != FFSolid {
		t.Fatalf("expected collision back once faded in, flags %#x", f.Flags)
	}
	if f.Flags&FFTranslucent != 0 || f.Alpha != 255 {
		t.Fatalf("expected an opaque FOF, got alpha %d flags %#x", f.Alpha, f.Flags)
	}
}

func TestFadeFOFInstantAndRelative(t *testing.T) {
	l, f := newFadeLevel(t, 100)
	l.FadeFOF(f, -55, 0, FadeRelative)
	if f.Alpha != 200 || l.Thinkers.Valid(f.FadingData) {
		t.Fatalf("expected an instant relative fade to 200, got %d", f.Alpha)
	}
	l.FadeFOF(f, 0, 0, FadeNoExists)
	if f.Alpha != 0 || f.Flags&FFExists == 0 {
		t.Fatalf("expected alpha 0 with existence untouched, got %d flags %#x", f.Alpha, f.Flags)
	}
}

func TestStopFOFFade(t *testing.T) {
	l, f := newFadeLevel(t, 100)
	l.FadeFOF(f, 0, 16, 0)
	l.Tick()
	alpha := f.Alpha
	l.StopFOFFade(f, true)
	if l.Thinkers.Valid(f.FadingData) || !f.FadingData.IsZero() {
		t.Fatalf("expected the fade to be gone")
	}
	l.Tick()
	if f.Alpha != alpha {
		t.Fatalf("expected alpha to stay at %d, got %d", alpha, f.Alpha)
	}
}

func TestFadeLight(t *testing.T) {
	b := NewLevelBuilder(DefaultConfig(), nil)
	s, _ := b.AddBox(0, 0, 64, 64, 0, 128, 3)
	l := mustBuild(t, b)
	sec := &l.Sectors[s]

	l.FadeLight(sec, 100, 40, false)
	levels := []int{}
	for i := 0; i < 10 && l.Thinkers.Valid(sec.LightingData); i++ {
		l.Tick()
		levels = append(levels, sec.LightLevel)
	}
	want := []int{215, 175, 135, 100}
	if len(levels) != len(want) {
		t.Fatalf("expected levels %v, got %v", want, levels)
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("expected levels %v, got %v", want, levels)
		}
	}

	l.StartGlow(sec, 10, 50, 100)
	first := sec.LightingData
	l.StartFlicker(sec, 4, 0, 255)
	if l.Thinkers.Valid(first) {
		t.Fatalf("expected a new light effect to replace the old one")
	}
	if !l.Execute(nil, 421, argv(3), [NumStringArgs]string{}) || l.Thinkers.Valid(sec.LightingData) {
		t.Fatalf("expected 421 to stop the lighting")
	}
}
