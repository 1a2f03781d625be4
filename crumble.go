package sectorfx

type CrumbleFlags int

const (
	CrumbleReturns CrumbleFlags = 1 << iota // comes back after falling
	CrumbleFloats                           // rises instead of falling
)

const crumbleTerminalSpeed = 64

// Crumble drops the control sector of a crumbling FOF. It waits a second,
// falls with gravity, and then either returns to where it started or
// vanishes for good.
type Crumble struct {
	Sector     int          `yaml:"sector"` // control sector
	Master     int          `yaml:"master"` // line that declared the FOFs
	Timer      int          `yaml:"timer"`
	Speed      float64      `yaml:"speed"`
	Direction  int          `yaml:"direction"`
	FloorWas   float64      `yaml:"floorwas"`
	CeilingWas float64      `yaml:"ceilingwas"`
	OrigAlpha  int          `yaml:"origalpha"`
	Flags      CrumbleFlags `yaml:"flags"`
	State      CrumbleState `yaml:"state"` // sector state, copied when saved
}

func (c *Crumble) Kind() ThinkerKind { return KindCrumble }

func (c *Crumble) Think(l *Level, self ThinkerRef) {
	sec, ok := l.sector(c.Sector)
	if !ok || sec.FloorData != self {
		l.Thinkers.Remove(self)
		return
	}

	switch sec.CrumbleState {
	case CrumbleActivated:
		c.Timer--
		if c.Timer <= 0 {
			sec.CrumbleState = CrumbleFalling
			c.Timer = 15 * l.Config.TicRate
		}
	case CrumbleFalling:
		c.Speed = min(c.Speed+l.Gravity, crumbleTerminalSpeed)
		delta := c.Speed * float64(c.Direction)
		sec.setPlane(false, sec.FloorHeight+delta)
		sec.setPlane(true, sec.CeilingHeight+delta)
		c.Timer--
		if c.Timer > 0 {
			return
		}
		if c.Flags&CrumbleReturns == 0 {
			for _, f := range c.fofs(l, sec) {
				f.Flags &^= FFExists
				f.Target.Moved = true
			}
			sec.CrumbleState = CrumbleDone
			c.release(sec)
			l.Thinkers.Remove(self)
			return
		}
		sec.setPlane(false, c.FloorWas)
		sec.setPlane(true, c.CeilingWas)
		for _, f := range c.fofs(l, sec) {
			f.Alpha = c.OrigAlpha
			if f.Alpha >= 255 {
				f.Flags &^= FFTranslucent
			}
		}
		sec.CrumbleState = CrumbleRestore
	case CrumbleRestore:
		sec.CrumbleState = CrumbleNone
		c.release(sec)
		l.Thinkers.Remove(self)
	default:
		c.release(sec)
		l.Thinkers.Remove(self)
	}
}

func (c *Crumble) fofs(l *Level, sec *Sector) []*FOF {
	master, _ := l.line(c.Master)
	var result []*FOF
	for _, f := range sec.ControlledFOFs {
		if master == nil || f.Master == master {
			result = append(result, f)
		}
	}
	return result
}

func (c *Crumble) release(sec *Sector) {
	sec.FloorData = ThinkerRef{}
	sec.CeilingData = ThinkerRef{}
}

// StartCrumble sets off the control sector of f. It does nothing when that
// sector is already crumbling or being moved.
func (l *Level) StartCrumble(f *FOF, flags CrumbleFlags) bool {
	sec := f.Control
	if sec.CrumbleState != CrumbleNone || l.Thinkers.Valid(sec.FloorData) || l.Thinkers.Valid(sec.CeilingData) {
		return false
	}
	c := &Crumble{
		Sector:     sec.Index,
		Master:     -1,
		Timer:      l.Config.TicRate,
		Direction:  -1,
		FloorWas:   sec.FloorHeight,
		CeilingWas: sec.CeilingHeight,
		OrigAlpha:  f.Alpha,
		Flags:      flags,
	}
	if f.Master != nil {
		c.Master = f.Master.Index
	}
	if flags&CrumbleFloats != 0 {
		c.Direction = 1
	}
	ref := l.Thinkers.Add(CategoryMain, c)
	sec.FloorData = ref
	sec.CeilingData = ref
	sec.CrumbleState = CrumbleActivated
	return true
}
