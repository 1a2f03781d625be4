package sectorfx

// FadeFlags are the option bits of the FOF fade executors.
type FadeFlags int

const (
	FadeRelative FadeFlags = 1 << iota
	FadeOverride
	FadeTicBased
	FadeIgnoreCollision
	FadeGhost // no collision while the fade runs
	FadeNoExists
	FadeNoTranslucent
	FadeExactAlpha
)

func (o FadeFlags) doExists() bool      { return o&FadeNoExists == 0 }
func (o FadeFlags) doTranslucent() bool { return o&FadeNoTranslucent == 0 }
func (o FadeFlags) doCollision() bool   { return o&FadeIgnoreCollision == 0 }
func (o FadeFlags) ghost() bool         { return o&FadeGhost != 0 }

// Fader moves an FOF's alpha toward a destination, then settles its exists,
// translucency and collision flags.
type Fader struct {
	FOF      int       `yaml:"fof"`
	Alpha    int       `yaml:"alpha"`
	Source   int       `yaml:"source"`
	Dest     int       `yaml:"dest"`
	Speed    int       `yaml:"speed"` // alpha per tic, or total tics when tic based
	TicBased bool      `yaml:"ticbased"`
	Timer    int       `yaml:"timer"`
	Options  FadeFlags `yaml:"options"`
}

func (d *Fader) Kind() ThinkerKind { return KindFader }

func (d *Fader) Think(l *Level, self ThinkerRef) {
	f, ok := l.fof(d.FOF)
	if !ok || f.FadingData != self {
		l.Thinkers.Remove(self)
		return
	}
	if !fadeFakeFloor(f, &d.Alpha, d.Source, d.Dest, d.Speed, d.TicBased, &d.Timer, d.Options) {
		f.Alpha = d.Alpha
		f.FadingData = ThinkerRef{}
		l.Thinkers.Remove(self)
	}
}

// fadeFakeFloor advances alpha one step and applies flag changes. It returns
// false once the destination is reached.
func fadeFakeFloor(f *FOF, alpha *int, source, dest, speed int, ticBased bool, timer *int, opts FadeFlags) bool {
	stillFading := false
	cur := *alpha

	if !ticBased && cur == dest {
		return false
	}

	finished := false
	if speed < 1 {
		finished = true
	} else if ticBased {
		*timer--
		finished = *timer <= 0
	}

	if cur > dest { // fade out
		if finished || (!ticBased && cur-speed <= dest+speed) || (ticBased && cur <= dest) {
			cur = dest
			if opts.doCollision() {
				f.Flags &^= f.SpawnFlags & collisionFlags
			}
		} else {
			if !ticBased {
				cur -= speed
			} else {
				cur = max(min(cur, source-ticStep(source, dest, speed, *timer)), dest)
			}
			stillFading = true
		}
	} else { // fade in
		if finished || (!ticBased && cur+speed >= dest-speed) || (ticBased && cur >= dest) {
			cur = dest
			if opts.doCollision() {
				f.Flags |= f.SpawnFlags & collisionFlags
			}
		} else {
			if !ticBased {
				cur += speed
			} else {
				cur = min(max(cur, source+ticStep(source, dest, speed, *timer)), dest)
			}
			stillFading = true
		}
	}

	if !stillFading {
		if opts.doExists() && f.SpawnFlags&FFBustUp == 0 {
			if cur <= 0 {
				f.Flags &^= FFExists
			} else {
				f.Flags |= FFExists
			}
			f.Target.Moved = true
		}
		if opts.doTranslucent() && f.Flags&FFFog == 0 {
			setFOFTranslucency(f, cur)
		}
	} else {
		if opts.doExists() && f.SpawnFlags&FFBustUp == 0 {
			if f.Flags&FFExists == 0 {
				f.Target.Moved = true
			}
			f.Flags |= FFExists
		}
		if opts.doTranslucent() && f.Flags&FFFog == 0 {
			f.Flags |= FFTranslucent
			if f.Flags&FFCutSolids != 0 && f.SpawnFlags&FFCutSolids != 0 {
				f.Flags &^= FFCutSolids
				f.Target.Moved = true
			}
			if invisibleFOF(f) {
				f.Flags |= FFRenderAll
			}
		}
		if opts.doCollision() {
			if opts.ghost() {
				f.Flags &^= f.SpawnFlags & collisionFlags
			} else {
				f.Flags |= f.SpawnFlags & collisionFlags
			}
		}
	}

	*alpha = cur
	f.Alpha = cur
	return stillFading
}

// ticStep is how far a tic based fade has progressed from its source.
func ticStep(source, dest, duration, timer int) int {
	delta := abs(dest - source)
	factor := min(float64(duration-timer)/float64(duration), 1)
	return int(float64(delta) * factor)
}

// invisibleFOF reports FOFs spawned without render flags, which only render
// while faded.
func invisibleFOF(f *FOF) bool {
	return f.SpawnFlags&FFNoShade != 0 && f.SpawnFlags&(FFRenderSides|FFRenderPlanes) == 0
}

func setFOFTranslucency(f *FOF, alpha int) {
	if alpha >= 255 {
		if f.Flags&FFCutSolids == 0 && f.SpawnFlags&FFCutSolids != 0 {
			f.Flags |= FFCutSolids
			f.Target.Moved = true
		}
		f.Flags &^= FFTranslucent
	} else {
		f.Flags |= FFTranslucent
		if f.Flags&FFCutSolids != 0 && f.SpawnFlags&FFCutSolids != 0 {
			f.Flags &^= FFCutSolids
			f.Target.Moved = true
		}
	}
	if invisibleFOF(f) {
		if alpha > 0 {
			f.Flags |= FFRenderAll
		} else {
			f.Flags &^= FFRenderAll
		}
	}
}

// resetFader detaches the fader running on f. With finalize set, the
// superseded fade's end-of-fade flags are applied at its current alpha first,
// so collision never stays half applied.
func (l *Level) resetFader(f *FOF, finalize bool) {
	d, ok := thinkerAs[*Fader](l, f.FadingData)
	if ok {
		if finalize {
			cur, end := d.Alpha, d.Alpha+1
			if d.Alpha >= d.Dest {
				end = d.Alpha - 1
			}
			timer := d.Timer
			fadeFakeFloor(f, &cur, d.Source, end, 0, d.TicBased, &timer, d.Options)
		}
		f.Alpha = d.Alpha
		l.Thinkers.Remove(f.FadingData)
	}
	f.FadingData = ThinkerRef{}
}

// FadeFOF starts fading f toward dest. A running fade is left alone unless
// opts has FadeOverride. A speed below 1 sets the alpha at once.
func (l *Level) FadeFOF(f *FOF, dest, speed int, opts FadeFlags) {
	if opts&FadeRelative != 0 {
		dest += f.Alpha
	}
	dest = clamp(dest, 0, 255)

	if l.Thinkers.Valid(f.FadingData) && opts&FadeOverride == 0 {
		logger.Printf("FOF %d: fade already running, ignoring new fade", f.Index)
		return
	}

	if invisibleFOF(f) && opts.doTranslucent() && f.Flags&FFFog == 0 && f.Flags&FFRenderAll == 0 {
		f.Alpha = 0
	}

	if speed < 1 {
		l.resetFader(f, true)
		cur := f.Alpha
		fadeFakeFloor(f, &cur, f.Alpha, dest, 0, false, nil, opts)
		return
	}
	if f.Alpha == dest && !l.Thinkers.Valid(f.FadingData) {
		return
	}

	d := &Fader{
		FOF:     f.Index,
		Source:  f.Alpha,
		Dest:    dest,
		Options: opts,
	}
	if opts&FadeTicBased != 0 {
		d.TicBased = true
		d.Speed = speed
		d.Timer = speed
	} else {
		d.Speed = max(1, speed)
		d.Timer = -1
	}
	l.resetFader(f, true)
	d.Alpha = f.Alpha
	d.Source = f.Alpha
	f.FadingData = l.Thinkers.Add(CategoryMain, d)
}

// StopFOFFade ends a running fade, optionally settling its flags.
func (l *Level) StopFOFFade(f *FOF, finalize bool) {
	l.resetFader(f, finalize)
}

// SetFOFAlpha sets alpha at once and cancels any fade.
func (l *Level) SetFOFAlpha(f *FOF, alpha int, relative, doTranslucent bool) {
	l.resetFader(f, false)
	if relative {
		alpha += f.Alpha
	}
	f.Alpha = clamp(alpha, 0, 255)
	if doTranslucent && f.Flags&FFFog == 0 {
		setFOFTranslucency(f, f.Alpha)
	}
}
