package sectorfx

// Actor is a moving object as far as specials are concerned. Physics, AI and
// rendering belong to the host; the engine reads position and size, and
// writes momentum, flags and player counters.
type Actor struct {
	Index            int
	Type             int
	X, Y, Z          float64
	Angle            float64 // Radians
	MomX, MomY, MomZ float64
	Radius, Height   float64
	Scale            float64
	Flags            ActorFlags
	EFlags           ActorEFlags
	Color            int
	State            int
	Friction         float64
	MoveFactor       float64
	Special          int
	Args             [NumArgs]int
	StringArgs       [NumStringArgs]string
	Player           *Player
	Removed          bool

	// Resolved each time the actor moves
	Sector     int
	FloorZ     float64
	CeilingZ   float64
	FloorFOF   *FOF // FOF providing FloorZ, nil for the sector floor
	CeilingFOF *FOF
}

type ActorFlags uint32

const (
	ActorEnemy ActorFlags = 1 << iota
	ActorMissile
	ActorPushable
	ActorNoClip
	ActorNoGravity
	ActorScenery
	ActorSolid
)

// ActorEFlags are transient state bits maintained by the engine.
type ActorEFlags uint32

const (
	ActorVerticalFlip ActorEFlags = 1 << iota
	ActorPushed                   // a pusher already acted on the actor this tic
	ActorUnderwater
	ActorTouchWater
	ActorInQuicksand
	ActorGoowater
)

// ActorClass groups actors for activation filtering.
type ActorClass int

const (
	ClassOther ActorClass = iota
	ClassPlayer
	ClassMonster
	ClassMissile
)

// Standard friction values, as fractions of momentum kept per tic.
const (
	OrigFriction       = 0.90625
	OrigFrictionFactor = 1.0
)

type Player struct {
	Num       int
	Skin      string
	Rings     int
	Score     int
	Laps      int
	Starposts int
	Spinning  bool
	Strong    bool // breaks bustable FOFs on contact
	NoControl int  // tics left without control
	Exiting   bool
	Powers    [NumPowers]int
	Quake     Point // view offset from active quakes
}

type Power int

const (
	PowerInvulnerability Power = iota
	PowerSneakers
	PowerFlashing
	PowerUnderwater
	PowerGravityBoots
	PowerNoControl
	NumPowers
)

func (a *Actor) Class() ActorClass {
	switch {
	case a.Player != nil:
		return ClassPlayer
	case a.Flags&ActorMissile != 0:
		return ClassMissile
	case a.Flags&ActorEnemy != 0:
		return ClassMonster
	}
	return ClassOther
}

func (a *Actor) Flipped() bool {
	return a.EFlags&ActorVerticalFlip != 0
}

func (a *Actor) Top() float64 {
	return a.Z + a.Height
}

// AddActor places a new actor in the level and resolves its sector and
// floor/ceiling. It returns the actor's index.
func (l *Level) AddActor(a *Actor) int {
	if a.Scale == 0 {
		a.Scale = 1
	}
	if a.Friction == 0 {
		a.Friction = OrigFriction
	}
	if a.MoveFactor == 0 {
		a.MoveFactor = OrigFrictionFactor
	}
	a.Index = len(l.Actors)
	a.Removed = false
	a.Sector = -1
	l.Actors = append(l.Actors, a)
	l.SetActorPosition(a, a.X, a.Y, a.Z)
	return a.Index
}

// RemoveActor takes an actor out of play. Its index stays reserved so stored
// references remain detectable as stale.
func (l *Level) RemoveActor(a *Actor) {
	a.Removed = true
	for _, ref := range l.Thinkers.refsOfKind(KindEachTime) {
		if t, ok := thinkerAs[*EachTime](l, ref); ok {
			t.forget(a.Index)
		}
	}
}

// SetActorPosition moves an actor and re-resolves its surroundings. Moving
// into another sector runs that sector's action.
func (l *Level) SetActorPosition(a *Actor, x, y, z float64) {
	a.X, a.Y, a.Z = x, y, z
	old := a.Sector
	s := l.PointInSector(x, y)
	if s != nil {
		a.Sector = s.Index
	}
	l.ResolveFloorCeiling(a)
	if s != nil && old >= 0 && old != s.Index {
		l.EnterSector(a, s)
	}
}

// actor returns the live actor at index i.
func (l *Level) actor(i int) (*Actor, bool) {
	if i < 0 || i >= len(l.Actors) || l.Actors[i].Removed {
		return nil, false
	}
	return l.Actors[i], true
}

func (l *Level) actorSector(a *Actor) *Sector {
	if a.Sector < 0 || a.Sector >= len(l.Sectors) {
		return nil
	}
	return &l.Sectors[a.Sector]
}

// Players returns the live player actors in index order.
func (l *Level) Players() []*Actor {
	var result []*Actor
	for _, a := range l.Actors {
		if !a.Removed && a.Player != nil {
			result = append(result, a)
		}
	}
	return result
}
