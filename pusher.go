package sectorfx

import "math"

type PushType int

const (
	PushWind PushType = iota
	PushCurrent
	PushPoint
)

// Pusher applies a constant force to actors in a sector (wind, current) or
// a radial force around a point. When Referrer is set the force is scoped to
// the FOF volume made by that control sector.
type Pusher struct {
	Type      PushType `yaml:"type"`
	Affectee  int      `yaml:"affectee"` // -1 for point pushers
	Referrer  int      `yaml:"referrer"` // -1 unless the force lives in an FOF
	XMag      float64  `yaml:"xmag"`
	YMag      float64  `yaml:"ymag"`
	ZMag      float64  `yaml:"zmag"` // upward and downward winds and currents
	Magnitude float64  `yaml:"magnitude"`
	Radius    float64  `yaml:"radius"`
	X         float64  `yaml:"x"`
	Y         float64  `yaml:"y"`
	Exclusive bool     `yaml:"exclusive"`
}

func (p *Pusher) Kind() ThinkerKind { return KindPusher }

func (p *Pusher) Think(l *Level, self ThinkerRef) {
	if p.Type == PushPoint {
		p.pushPoint(l)
		return
	}
	sec, ok := l.sector(p.Affectee)
	if !ok {
		l.Thinkers.Remove(self)
		return
	}
	var ref *Sector
	if p.Referrer >= 0 {
		if ref, ok = l.sector(p.Referrer); !ok {
			l.Thinkers.Remove(self)
			return
		}
	}

	for _, a := range l.Actors {
		if a.Removed || a.Sector != sec.Index || !pushable(a) || a.EFlags&ActorPushed != 0 {
			continue
		}
		scale := p.forceScale(a, sec, ref)
		if scale == 0 {
			continue
		}
		a.MomX += p.XMag * scale
		a.MomY += p.YMag * scale
		a.MomZ += p.ZMag * scale
		if p.Exclusive {
			a.EFlags |= ActorPushed
		}
	}
}

// forceScale picks the share of the force an actor receives. Inside an FOF
// volume both kinds push fully. Otherwise wind pushes airborne actors fully
// and grounded ones by half, and currents only push actors on the floor.
func (p *Pusher) forceScale(a *Actor, sec, ref *Sector) float64 {
	if ref != nil {
		if a.Z > ref.CeilingHeight || a.Top() < ref.FloorHeight {
			return 0
		}
		return 1
	}
	floor := sec.FloorHeight
	switch p.Type {
	case PushWind:
		switch {
		case a.Z > floor:
			return 1
		case a.Z == floor:
			return 0.5
		}
		return 0
	case PushCurrent:
		if a.Z > floor {
			return 0
		}
		return 1
	}
	return 0
}

func (p *Pusher) pushPoint(l *Level) {
	for _, a := range l.Actors {
		if a.Removed || !pushable(a) || a.EFlags&ActorPushed != 0 {
			continue
		}
		dx, dy := a.X-p.X, a.Y-p.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 || dist >= p.Radius {
			continue
		}
		// Positive magnitude pushes away, negative pulls in.
		force := p.Magnitude * (1 - dist/p.Radius)
		a.MomX += force * dx / dist
		a.MomY += force * dy / dist
		if p.Exclusive {
			a.EFlags |= ActorPushed
		}
	}
}

func pushable(a *Actor) bool {
	if a.Flags&(ActorNoClip|ActorScenery) != 0 {
		return false
	}
	return a.Player != nil || a.Flags&ActorPushable != 0
}

// AddPusher installs a sector pusher pushing along (xmag, ymag).
func (l *Level) AddPusher(t PushType, affectee int, xmag, ymag float64, exclusive bool) ThinkerRef {
	return l.Thinkers.Add(CategoryForce, &Pusher{
		Type:      t,
		Affectee:  affectee,
		Referrer:  -1,
		XMag:      xmag,
		YMag:      ymag,
		Exclusive: exclusive,
	})
}

// AddPointPusher installs a radial pusher centred on (x, y).
func (l *Level) AddPointPusher(x, y, magnitude, radius float64, exclusive bool) ThinkerRef {
	return l.Thinkers.Add(CategoryForce, &Pusher{
		Type:      PushPoint,
		Affectee:  -1,
		Referrer:  -1,
		Magnitude: magnitude,
		Radius:    radius,
		X:         x,
		Y:         y,
		Exclusive: exclusive,
	})
}

// Friction changes how much momentum actors resting in a sector keep.
type Friction struct {
	Amount     int     `yaml:"amount"`
	Friction   float64 `yaml:"friction"`
	MoveFactor float64 `yaml:"movefactor"`
	Affectee   int     `yaml:"affectee"`
	Referrer   int     `yaml:"referrer"`
}

func (f *Friction) Kind() ThinkerKind { return KindFriction }

func (f *Friction) Think(l *Level, self ThinkerRef) {
	sec, ok := l.sector(f.Affectee)
	if !ok {
		l.Thinkers.Remove(self)
		return
	}
	var ref *Sector
	if f.Referrer >= 0 {
		if ref, ok = l.sector(f.Referrer); !ok {
			l.Thinkers.Remove(self)
			return
		}
	}
	for _, a := range l.Actors {
		if a.Removed || a.Sector != sec.Index || a.Flags&(ActorNoGravity|ActorNoClip) != 0 {
			continue
		}
		if a.Z != a.FloorZ {
			continue
		}
		if ref != nil && a.Z != ref.CeilingHeight {
			continue
		}
		if a.Friction == OrigFriction || f.Friction < a.Friction {
			a.Friction = f.Friction
			if a.Player != nil {
				a.MoveFactor = f.MoveFactor
			}
		}
	}
}

// frictionFromAmount converts a map friction amount into the per-tic
// momentum factor and the player acceleration factor. Positive amounts are
// sludge, negative amounts are ice.
func frictionFromAmount(amount int) (friction, moveFactor float64) {
	strength := amount
	if strength > 0 {
		strength *= 2
	}
	friction = OrigFriction - fixedToFloat(0x1EB8*strength/0x80)
	friction = clamp(friction, 0, 1)

	moveFactor = OrigFrictionFactor
	if friction > 0 {
		moveFactor = OrigFriction / friction
	}
	if moveFactor < 1 {
		moveFactor = 8*moveFactor - 7
	} else {
		moveFactor = 1
	}
	return friction, moveFactor
}

// AddFriction installs friction on affectee. referrer is the FOF control
// sector, or -1.
func (l *Level) AddFriction(amount, affectee, referrer int) ThinkerRef {
	friction, moveFactor := frictionFromAmount(amount)
	return l.Thinkers.Add(CategoryForce, &Friction{
		Amount:     amount,
		Friction:   friction,
		MoveFactor: moveFactor,
		Affectee:   affectee,
		Referrer:   referrer,
	})
}
