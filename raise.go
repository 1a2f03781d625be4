package sectorfx

type RaiserFlags int

const (
	RaiseReverse  RaiserFlags = 1 << iota // rise while idle, sink while stood on
	RaiseSpindash                         // only spinning players count
	RaiseDynamic                          // sink faster the longer it is stood on
)

const raiseShakeTime = 10

// Raiser moves an FOF control sector between two heights depending on
// whether a player stands on the FOF. With TopSector set, the upper bound is
// that sector's ceiling read every tic.
type Raiser struct {
	Sector     int         `yaml:"sector"` // control sector being moved
	Tag        int         `yaml:"tag"`    // target sectors holding the FOF
	Top        float64     `yaml:"top"`
	Bottom     float64     `yaml:"bottom"`
	TopSector  int         `yaml:"topsector"`
	BaseSpeed  float64     `yaml:"basespeed"`
	ExtraSpeed float64     `yaml:"extraspeed"`
	ShakeTimer int         `yaml:"shaketimer"`
	Flags      RaiserFlags `yaml:"flags"`
}

func (r *Raiser) Kind() ThinkerKind { return KindRaiser }

func (r *Raiser) Think(l *Level, self ThinkerRef) {
	sec, ok := l.sector(r.Sector)
	if !ok {
		l.Thinkers.Remove(self)
		return
	}
	if sec.CrumbleState >= CrumbleFalling || l.Thinkers.Valid(sec.CeilingData) {
		return
	}

	top := r.Top
	if r.TopSector >= 0 {
		ts, ok := l.sector(r.TopSector)
		if !ok {
			l.Thinkers.Remove(self)
			return
		}
		top = ts.CeilingHeight
	}
	bottom := min(r.Bottom, top)

	standing := r.playerOnTop(l, sec)
	active := standing
	if r.Flags&RaiseDynamic != 0 {
		active = r.dynamic(standing)
	}

	moveUp := active != (r.Flags&RaiseReverse != 0)
	dest := bottom
	if moveUp {
		dest = top
	}
	thickness := sec.CeilingHeight - sec.FloorHeight
	if (moveUp && sec.CeilingHeight >= dest) || (!moveUp && sec.CeilingHeight <= dest) {
		sec.setPlane(false, dest-thickness)
		sec.setPlane(true, dest)
		return
	}

	origSpeed := r.BaseSpeed
	if !active {
		origSpeed /= 2
	}

	// Speed up toward the middle of the range and slow down near the ends.
	speed := origSpeed
	if span := top - bottom; span > 0 {
		nearest := min(sec.CeilingHeight-bottom, top-sec.CeilingHeight)
		speed = origSpeed * nearest / (span / 32)
	}
	speed = clamp(speed, origSpeed/16, origSpeed)
	speed += r.ExtraSpeed

	next := sec.CeilingHeight - speed
	if moveUp {
		next = min(sec.CeilingHeight+speed, dest)
	} else {
		next = max(next, dest)
	}
	sec.setPlane(true, next)
	sec.setPlane(false, next-thickness)
}

// dynamic runs the shake-then-sink cycle and reports whether the platform
// counts as active.
func (r *Raiser) dynamic(standing bool) bool {
	if r.ShakeTimer > raiseShakeTime {
		if standing {
			r.ExtraSpeed += 1.0 / 32
		} else {
			r.ExtraSpeed -= 1.0 / 8
			if r.ExtraSpeed <= 0 {
				r.ExtraSpeed = 0
				r.ShakeTimer = 0
			}
		}
		return r.ExtraSpeed > 0
	}
	if !standing && r.ShakeTimer == 0 {
		return false
	}
	r.ShakeTimer++
	if r.ShakeTimer > raiseShakeTime {
		if standing {
			r.ExtraSpeed = 1.0 / 32
		} else {
			r.ExtraSpeed = 2
		}
	} else {
		r.ExtraSpeed = max(float64(raiseShakeTime/2-r.ShakeTimer), -r.BaseSpeed/2)
	}
	return true
}

func (r *Raiser) playerOnTop(l *Level, sec *Sector) bool {
	for _, target := range l.SectorsByTag(r.Tag) {
		for _, a := range l.Actors {
			if a.Removed || a.Player == nil || a.Sector != target.Index {
				continue
			}
			if r.Flags&RaiseSpindash != 0 && !a.Player.Spinning {
				continue
			}
			if a.Flipped() {
				if a.Top() == sec.FloorHeight {
					return true
				}
			} else if a.Z == sec.CeilingHeight {
				return true
			}
		}
	}
	return false
}

// AddRaiser starts a raiser on control, whose FOF sits in sectors tagged
// tag. topSector is -1 to keep top fixed.
func (l *Level) AddRaiser(control *Sector, tag int, top, bottom, speed float64, topSector int, flags RaiserFlags) ThinkerRef {
	return l.Thinkers.Add(CategoryMain, &Raiser{
		Sector:    control.Index,
		Tag:       tag,
		Top:       max(top, bottom),
		Bottom:    min(top, bottom),
		TopSector: topSector,
		BaseSpeed: speed,
		Flags:     flags,
	})
}
