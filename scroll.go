package sectorfx

import "math"

type ScrollType int

const (
	ScrollSide ScrollType = iota
	ScrollFloor
	ScrollCeiling
	ScrollCarry
	ScrollCarryCeiling
)

// Scroller moves a texture or carries actors standing on a plane. With a
// control sector the amount scales with that sector's height changes; an
// accelerative scroller adds each tic's amount to its running velocity.
type Scroller struct {
	Type       ScrollType `yaml:"type"`
	Affectee   int        `yaml:"affectee"` // side index for side scrollers, sector otherwise
	Control    int        `yaml:"control"`  // -1 for none
	LastHeight float64    `yaml:"lastheight"`
	DX         float64    `yaml:"dx"`
	DY         float64    `yaml:"dy"`
	VDX        float64    `yaml:"vdx"`
	VDY        float64    `yaml:"vdy"`
	Accel      bool       `yaml:"accel"`
}

func (s *Scroller) Kind() ThinkerKind { return KindScroller }

func (s *Scroller) Think(l *Level, self ThinkerRef) {
	dx, dy := s.DX, s.DY

	if s.Control >= 0 {
		ctrl, ok := l.sector(s.Control)
		if !ok {
			l.Thinkers.Remove(self)
			return
		}
		height := ctrl.FloorHeight + ctrl.CeilingHeight
		delta := height - s.LastHeight
		s.LastHeight = height
		dx *= delta
		dy *= delta
	}

	if s.Accel {
		s.VDX += dx
		s.VDY += dy
		dx, dy = s.VDX, s.VDY
	}

	if dx == 0 && dy == 0 {
		return
	}

	if s.Type == ScrollSide {
		if s.Affectee < 0 || s.Affectee >= len(l.Sides) {
			l.Thinkers.Remove(self)
			return
		}
		side := &l.Sides[s.Affectee]
		side.XOffset += dx
		side.YOffset += dy
		return
	}

	sec, ok := l.sector(s.Affectee)
	if !ok {
		l.Thinkers.Remove(self)
		return
	}
	switch s.Type {
	case ScrollFloor:
		sec.FloorOffset.X -= dx
		sec.FloorOffset.Y += dy
	case ScrollCeiling:
		sec.CeilingOffset.X -= dx
		sec.CeilingOffset.Y += dy
	case ScrollCarry:
		l.carry(sec, dx, dy, false)
	case ScrollCarryCeiling:
		l.carry(sec, dx, dy, true)
	}
}

// carry adds momentum to actors resting on sec's plane. When sec controls
// solid FOFs, actors standing on those FOFs are carried instead.
func (l *Level) carry(sec *Sector, dx, dy float64, ceiling bool) {
	found := false
	for _, f := range sec.ControlledFOFs {
		if !f.Exists() {
			continue
		}
		for _, a := range l.Actors {
			if a.Removed || a.Sector != f.Target.Index || !carriable(a) || a.EFlags&ActorPushed != 0 {
				continue
			}
			if !f.IsSolidFor(a) {
				continue
			}
			var onIt bool
			if ceiling {
				onIt = a.Top() == f.Bottom()
			} else {
				onIt = a.Z == f.Top()
			}
			if onIt {
				a.MomX += dx
				a.MomY += dy
				found = true
			}
		}
	}
	if found {
		return
	}
	for _, a := range l.Actors {
		if a.Removed || a.Sector != sec.Index || !carriable(a) || a.EFlags&ActorPushed != 0 {
			continue
		}
		var onIt bool
		if ceiling {
			onIt = a.Top() >= sec.CeilingHeight
		} else {
			onIt = a.Z <= sec.FloorHeight
		}
		if onIt {
			a.MomX += dx
			a.MomY += dy
		}
	}
}

func carriable(a *Actor) bool {
	return a.Flags&(ActorNoClip|ActorNoGravity) == 0
}

// AddScroller installs a scroller. control is -1 for a constant scroller.
func (l *Level) AddScroller(t ScrollType, affectee, control int, dx, dy float64, accel bool) ThinkerRef {
	s := &Scroller{Type: t, Affectee: affectee, Control: control, DX: dx, DY: dy, Accel: accel}
	if ctrl, ok := l.sector(control); ok {
		s.LastHeight = ctrl.FloorHeight + ctrl.CeilingHeight
	} else {
		s.Control = -1
	}
	return l.Thinkers.Add(CategoryMain, s)
}

// SetConveyorSpeed changes every floor or carry scroller on sectors with tag.
// The direction is kept unless reverse is set.
func (l *Level) SetConveyorSpeed(tag int, speed float64, reverse bool) int {
	changed := 0
	for _, ref := range l.Thinkers.refsOfKind(KindScroller) {
		s, ok := thinkerAs[*Scroller](l, ref)
		if !ok || s.Type == ScrollSide {
			continue
		}
		sec, ok := l.sector(s.Affectee)
		if !ok || !sec.Tags.Has(tag) {
			continue
		}
		length := math.Hypot(s.DX, s.DY)
		if length == 0 {
			continue
		}
		scale := speed / length
		if reverse {
			scale = -scale
		}
		s.DX *= scale
		s.DY *= scale
		s.VDX, s.VDY = 0, 0
		changed++
	}
	return changed
}
