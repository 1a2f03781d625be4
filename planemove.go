package sectorfx

// Planes selects which sector planes a mover drives.
type Planes int

const (
	PlaneFloor Planes = 1 << iota
	PlaneCeiling
	PlaneBoth = PlaneFloor | PlaneCeiling
)

type MoverMode int

const (
	MoveToDest MoverMode = iota
	MoveOscillate
	MoveCrush
)

// PlaneMover drives a sector's floor, ceiling or both. Movers to a
// destination finish there; oscillating movers and crushers bounce between
// Low and High for as long as they live.
type PlaneMover struct {
	Sector    int       `yaml:"sector"`
	Planes    Planes    `yaml:"planes"`
	Mode      MoverMode `yaml:"mode"`
	Speed     float64   `yaml:"speed"`
	Dest      float64   `yaml:"dest"`
	Low       float64   `yaml:"low"`
	High      float64   `yaml:"high"`
	Direction int       `yaml:"direction"`
	WaitTime  int       `yaml:"waittime"`
	Wait      int       `yaml:"wait"`
	FinishTag int       `yaml:"finishtag"`
}

func (d *PlaneMover) Kind() ThinkerKind { return KindPlaneMover }

// primary is the plane whose height the mover tracks.
func (d *PlaneMover) primary() bool {
	return d.Planes&PlaneFloor == 0
}

func (d *PlaneMover) Think(l *Level, self ThinkerRef) {
	s, ok := l.sector(d.Sector)
	if !ok || !d.owns(s, self) {
		l.Thinkers.Remove(self)
		return
	}
	if d.Wait > 0 {
		d.Wait--
		return
	}

	ceiling := d.primary()
	cur := s.plane(ceiling)
	switch d.Mode {
	case MoveToDest:
		next, arrived := approach(cur, d.Dest, d.Speed)
		d.shift(s, next-cur)
		if arrived {
			d.release(s)
			l.Thinkers.Remove(self)
			if d.FinishTag != 0 {
				l.RunTag(d.FinishTag, nil, s)
			}
		}
	case MoveOscillate, MoveCrush:
		target := d.High
		if d.Direction < 0 {
			target = d.Low
		}
		next, arrived := approach(cur, target, d.Speed)
		d.shift(s, next-cur)
		if d.Mode == MoveCrush {
			l.crush(s)
		}
		if arrived {
			d.Direction = -d.Direction
			d.Wait = d.WaitTime
		}
	}
}

func (d *PlaneMover) owns(s *Sector, self ThinkerRef) bool {
	if d.Planes&PlaneFloor != 0 && s.FloorData != self {
		return false
	}
	if d.Planes&PlaneCeiling != 0 && s.CeilingData != self {
		return false
	}
	return true
}

func (d *PlaneMover) release(s *Sector) {
	if d.Planes&PlaneFloor != 0 {
		s.FloorData = ThinkerRef{}
	}
	if d.Planes&PlaneCeiling != 0 {
		s.CeilingData = ThinkerRef{}
	}
}

// shift moves the driven planes by delta, never letting a single moving
// plane pass the other.
func (d *PlaneMover) shift(s *Sector, delta float64) {
	if delta == 0 {
		return
	}
	switch d.Planes {
	case PlaneBoth:
		s.setPlane(false, s.FloorHeight+delta)
		s.setPlane(true, s.CeilingHeight+delta)
	case PlaneFloor:
		s.setPlane(false, min(s.FloorHeight+delta, s.CeilingHeight))
	case PlaneCeiling:
		s.setPlane(true, max(s.CeilingHeight+delta, s.FloorHeight))
	}
}

// approach steps cur toward target by speed.
func approach(cur, target, speed float64) (float64, bool) {
	if speed <= 0 || abs(target-cur) <= speed {
		return target, true
	}
	return cur + speed*sign(target-cur), false
}

// crush damages actors squeezed by the sector's planes.
func (l *Level) crush(s *Sector) {
	for _, a := range l.Actors {
		if a.Removed || a.Sector != s.Index {
			continue
		}
		if s.CeilingHeight-s.FloorHeight < a.Height {
			l.Host.DamageActor(a, s, DamageCrush)
		}
	}
}

// MovePlanes starts moving the selected planes of s so the tracked plane
// (the floor, unless only the ceiling moves) reaches dest. A sector whose
// planes are already driven is left alone and false is returned.
func (l *Level) MovePlanes(s *Sector, planes Planes, dest, speed float64, finishTag int) bool {
	if l.planesBusy(s, planes) {
		return false
	}
	d := &PlaneMover{Sector: s.Index, Planes: planes, Mode: MoveToDest, Dest: dest, Speed: speed, FinishTag: finishTag}
	if speed <= 0 {
		d.shift(s, dest-s.plane(d.primary()))
		if finishTag != 0 {
			l.RunTag(finishTag, nil, s)
		}
		return true
	}
	l.claimPlanes(s, planes, l.Thinkers.Add(CategoryMain, d))
	return true
}

// OscillatePlanes bounces the selected planes between low and high.
func (l *Level) OscillatePlanes(s *Sector, planes Planes, low, high, speed float64, wait int, crush bool) bool {
	if l.planesBusy(s, planes) {
		return false
	}
	d := &PlaneMover{
		Sector:    s.Index,
		Planes:    planes,
		Mode:      MoveOscillate,
		Speed:     max(speed, 1),
		Low:       min(low, high),
		High:      max(low, high),
		Direction: -1,
		WaitTime:  wait,
	}
	if crush {
		d.Mode = MoveCrush
	}
	if s.plane(d.primary()) <= d.Low {
		d.Direction = 1
	}
	l.claimPlanes(s, planes, l.Thinkers.Add(CategoryMain, d))
	return true
}

func (l *Level) planesBusy(s *Sector, planes Planes) bool {
	if planes&PlaneFloor != 0 && l.Thinkers.Valid(s.FloorData) {
		return true
	}
	return planes&PlaneCeiling != 0 && l.Thinkers.Valid(s.CeilingData)
}

func (l *Level) claimPlanes(s *Sector, planes Planes, ref ThinkerRef) {
	if planes&PlaneFloor != 0 {
		s.FloorData = ref
	}
	if planes&PlaneCeiling != 0 {
		s.CeilingData = ref
	}
}

// StopPlanes removes every mover driving s.
func (l *Level) StopPlanes(s *Sector) {
	for _, ref := range []ThinkerRef{s.FloorData, s.CeilingData} {
		if l.Thinkers.Valid(ref) {
			l.Thinkers.Remove(ref)
		}
	}
	s.FloorData = ThinkerRef{}
	s.CeilingData = ThinkerRef{}
}
