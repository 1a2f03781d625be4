package sectorfx

type binSector struct {
	FloorHeight    int16
	CeilingHeight  int16
	FloorTexture   String8
	CeilingTexture String8
	LightLevel     int16
	Type           int16
	TagNum         int16
}

type Sector struct {
	Index         int
	FloorHeight   float64
	CeilingHeight float64
	FloorPic      string
	CeilingPic    string
	LightLevel    int
	Special       int
	Tags          TagList
	Flags         SectorFlags
	Triggerer     Triggerer
	TriggerTag    int
	Action        int
	Args          [NumArgs]int
	StringArgs    [NumStringArgs]string
	Gravity       float64 // multiplier on the level gravity
	Colormap      string

	FloorOffset   Offset
	CeilingOffset Offset

	// Light transfer: the plane is lit as the referenced sector. nil keeps
	// the sector's own light.
	FloorLightSector   *Sector
	CeilingLightSector *Sector

	// References
	Lines          []*Line
	FFloors        []*FOF // attached FOFs in insertion order
	ControlledFOFs []*FOF // FOFs this sector is the control of
	SoundOrigin    Point  // origin for any sounds played by the sector

	FloorData    ThinkerRef // floor mover, raiser or crumble
	CeilingData  ThinkerRef
	LightingData ThinkerRef
	CrumbleState CrumbleState
	Moved        bool // a plane moved this tic
}

type Point struct {
	X, Y, Z float64
}

// Offset is a flat texture offset driven by scrollers.
type Offset struct {
	X, Y float64
}

// SectorFlags are the activation policy bits of a sector.
type SectorFlags uint16

const (
	SectorSpecialFloor   SectorFlags = 1 << iota // special applies when touching the floor
	SectorSpecialCeiling                         // special applies when touching the ceiling
	SectorTriggerPlane                           // trigger requires touching the plane
	SectorHeadbump                               // FOF triggers fire from below
	SectorGravityFlip                            // actors inside have gravity flipped

	SectorSpecialBoth = SectorSpecialFloor | SectorSpecialCeiling
)

// Triggerer says who may activate a sector's trigger tag.
type Triggerer int

const (
	TriggerByPlayer Triggerer = iota
	TriggerByAllPlayers
	TriggerByMobj
)

type DamageKind int

const (
	DamageNone DamageKind = iota
	DamageGeneric
	DamageWater
	DamageFire
	DamageElectric
	DamageSpikes
	DamageDeathPitTilt
	DamageDeathPitNoTilt
	DamageInstantKill
	DamageSpecialStage
	DamageCrush
)

var damageKindNames = [...]string{
	DamageNone:           "none",
	DamageGeneric:        "generic",
	DamageWater:          "water",
	DamageFire:           "fire",
	DamageElectric:       "electric",
	DamageSpikes:         "spikes",
	DamageDeathPitTilt:   "deathpit",
	DamageDeathPitNoTilt: "deathpit-notilt",
	DamageInstantKill:    "instakill",
	DamageSpecialStage:   "specialstage",
	DamageCrush:          "crush",
}

func (k DamageKind) String() string {
	if k < 0 || int(k) >= len(damageKindNames) {
		return "unknown"
	}
	return damageKindNames[k]
}

type CrumbleState int

const (
	CrumbleNone CrumbleState = iota
	CrumbleActivated
	CrumbleFalling
	CrumbleRestore
	CrumbleDone
)

// The numeric sector special packs independent effects into nibbles. The
// first nibble is the damage type and the fourth the exit type.
func sectorSection(special, n int) int {
	return (special >> (4 * (n - 1))) & 0xF
}

// DamageKind returns the damage dealt to actors touching the sector.
func (s *Sector) DamageKind() DamageKind {
	v := sectorSection(s.Special, 1)
	if v > int(DamageSpecialStage) {
		return DamageNone
	}
	return DamageKind(v)
}

// IsExit reports whether touching the sector ends the level.
func (s *Sector) IsExit() bool {
	return sectorSection(s.Special, 4) == 2
}

func (s *Sector) specialFloor() bool {
	return s.Flags&SectorSpecialFloor != 0
}

func (s *Sector) specialCeiling() bool {
	return s.Flags&SectorSpecialCeiling != 0
}

// setPlane moves the floor (ceiling=false) or ceiling to h.
func (s *Sector) setPlane(ceiling bool, h float64) {
	if ceiling {
		s.CeilingHeight = h
	} else {
		s.FloorHeight = h
	}
	s.Moved = true
}

// PlaneLight is the light level the floor (ceiling=false) or ceiling is
// drawn with.
func (s *Sector) PlaneLight(ceiling bool) int {
	src := s.FloorLightSector
	if ceiling {
		src = s.CeilingLightSector
	}
	if src == nil {
		return s.LightLevel
	}
	return src.LightLevel
}

func (s *Sector) plane(ceiling bool) float64 {
	if ceiling {
		return s.CeilingHeight
	}
	return s.FloorHeight
}
