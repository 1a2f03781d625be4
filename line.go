package sectorfx

type binLine struct {
	VertexStart, VertexEnd int16
	Flags                  int16
	Type                   int16
	SectorTag              int16
	SideR, SideL           int16
}

// NumArgs and NumStringArgs fix the argument contract of every special.
const (
	NumArgs       = 10
	NumStringArgs = 2
)

type Line struct {
	Index      int
	V1Num      int
	V2Num      int
	Flags      LineFlags
	Special    int
	Tags       TagList
	Args       [NumArgs]int
	StringArgs [NumStringArgs]string
	Activation ActivationFlags
	SideRNum   int
	SideLNum   int

	CallCount     int // trigger-after-N-calls counter
	ExecutorDelay int // tics between the scan and the executor firing
	Alpha         int
	BlendMode     int
	firing        bool // executors of this trigger are running

	// References
	V1, V2                  Vertex
	DX, DY                  float64 // Precalculated VertexEnd-VertexStart for side checking
	SideR, SideL            *Side   // SideL is nil on one-sided lines
	BoundingBox             BoundBox
	SlopeType               SlopeType
	FrontSector, BackSector *Sector
}

// Tag returns the line's first tag, 0 when untagged.
func (li *Line) Tag() int {
	return li.Tags.First()
}

// PointOnSide reports 0 when (x, y) is on the front (right) side of the line
// and 1 when it is on the back.
func (li *Line) PointOnSide(x, y float64) int {
	if li.DX == 0 {
		if x <= li.V1.X {
			return btoi(li.DY > 0)
		}
		return btoi(li.DY < 0)
	}
	if li.DY == 0 {
		if y <= li.V1.Y {
			return btoi(li.DX < 0)
		}
		return btoi(li.DX > 0)
	}
	left := li.DY * (x - li.V1.X)
	right := (y - li.V1.Y) * li.DX
	if right < left {
		return 0
	}
	return 1
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

type SlopeType int

const (
	SlopeTypeHorizontal SlopeType = iota
	SlopeTypeVertical
	SlopeTypePositive
	SlopeTypeNegative
)

// LineFlags are the binary linedef flag bits.
type LineFlags uint16

const (
	LineImpassable LineFlags = 1 << iota
	LineBlockMonsters
	LineTwoSided
	LineDontPegTop
	LineDontPegBottom
	LineEffect1
	LineNoClimb
	LineEffect2
	LineEffect3
	LineEffect4
	LineEffect5
	LineNoSonic
	LineNoTails
	LineNoKnux
	LineBouncy
	LineTransfer
)

// ActivationFlags say which actor classes may activate a line action and
// how. Each kind is enabled separately for players, monsters and missiles.
type ActivationFlags uint16

const (
	PlayerCross ActivationFlags = 1 << iota
	MonsterCross
	MissileCross
	PlayerPush
	MonsterPush
	MissilePush
	PlayerEnter
	MonsterEnter
	MissileEnter
	RepeatSpecial
)

type ActivationKind int

const (
	ActivateCross ActivationKind = iota
	ActivatePush
	ActivateEnter
)

// Allows reports whether an actor of class may activate through kind.
func (f ActivationFlags) Allows(kind ActivationKind, class ActorClass) bool {
	var shift uint
	switch class {
	case ClassPlayer:
		shift = 0
	case ClassMonster:
		shift = 1
	case ClassMissile:
		shift = 2
	default:
		return false
	}
	return f&(PlayerCross<<(uint(kind)*3+shift)) != 0
}

// Special code ranges.
const (
	firstFOFSpecial      = 100
	lastFOFSpecial       = 299
	firstTriggerSpecial  = 300
	lastTriggerSpecial   = 399
	firstExecutorSpecial = 400
	lastExecutorSpecial  = 499
)

func isFOFSpecial(code int) bool {
	return code >= firstFOFSpecial && code <= lastFOFSpecial
}

func isTriggerSpecial(code int) bool {
	return code >= firstTriggerSpecial && code <= lastTriggerSpecial
}

func isExecutorSpecial(code int) bool {
	return code >= firstExecutorSpecial && code <= lastExecutorSpecial
}

// Trigger linedef types. All take the trigger policy in args[0].
const (
	TriggerBasic      = 300
	TriggerRingCount  = 303
	TriggerGametype   = 308
	TriggerPushables  = 314
	TriggerUnlockable = 319
	TriggerCallCount  = 321
	TriggerSkin       = 331
	TriggerDye        = 334
	TriggerGravity    = 343
	TriggerLevelLoad  = 399
)

// TriggerPolicy is args[0] of a trigger line.
type TriggerPolicy int

const (
	TriggerContinuous TriggerPolicy = iota
	TriggerOnce
	TriggerEachTime
	TriggerEachTimeEnterExit
)

// Comparison modes used by count preconditions.
const (
	CompareGreaterOrEqual = iota
	CompareLessOrEqual
	CompareEqual
)

func compare(value, target, mode int) bool {
	switch mode {
	case CompareLessOrEqual:
		return value <= target
	case CompareEqual:
		return value == target
	default:
		return value >= target
	}
}
