package sectorfx

// FOFFlags describe how a fake floor behaves and renders.
type FOFFlags uint64

const (
	FFExists FOFFlags = 1 << iota
	FFBlockPlayer
	FFBlockOthers
	FFRenderSides
	FFRenderPlanes
	FFSwimmable
	FFNoShade
	FFCutSolids
	FFCutExtra
	FFCutLevel
	FFCutSprites
	FFBothPlanes
	FFExtra
	FFTranslucent
	FFFog
	FFInvertPlanes
	FFAllSides
	FFInvertSides
	FFDoubleShadow
	FFFloatBob
	FFNoReturn
	FFCrumble
	FFGoowater
	FFMario
	FFBustUp
	FFQuicksand
	FFPlatform        // solid from above only
	FFReversePlatform // solid from below only
	FFIntangibleFlats
	FFRipple
	FFColormapOnly
	FFShatterBottom

	FFSolid     = FFBlockPlayer | FFBlockOthers
	FFRenderAll = FFRenderSides | FFRenderPlanes

	// collisionFlags are removed while a ghost fade runs and restored
	// from the spawn flags when it completes.
	collisionFlags = FFSolid | FFSwimmable | FFQuicksand | FFBustUp
)

type BustType int

const (
	BustTouch BustType = iota // any contact
	BustSpin                  // spinning or strong players
	BustRegular               // strong players only
	BustStrong                // strong players from any side
)

// FOF is a fake floor: a target sector borrowing the planes of a control
// sector as an extra solid or volume region.
type FOF struct {
	Index      int
	Target     *Sector
	Control    *Sector
	Master     *Line
	Flags      FOFFlags
	SpawnFlags FOFFlags
	Alpha      int // 0..255
	SpawnAlpha int
	BlendMode  int
	FadingData ThinkerRef
	BustType   BustType
	BustTag    int
	Removed    bool
}

// Top is the control sector's ceiling.
func (f *FOF) Top() float64 {
	return f.Control.CeilingHeight
}

// Bottom is the control sector's floor.
func (f *FOF) Bottom() float64 {
	return f.Control.FloorHeight
}

func (f *FOF) Exists() bool {
	return !f.Removed && f.Flags&FFExists != 0
}

// IsSolidFor reports whether the FOF blocks the actor.
func (f *FOF) IsSolidFor(a *Actor) bool {
	if a.Player != nil {
		return f.Flags&FFBlockPlayer != 0
	}
	return f.Flags&FFBlockOthers != 0
}

// Globals are level-wide flags letting per-actor checks skip whole
// categories when nothing in the level needs them.
type Globals struct {
	Quicksand bool
	Bustable  bool
	Crumble   bool
	Water     bool
}

func (g *Globals) note(flags FOFFlags) {
	if flags&FFQuicksand != 0 {
		g.Quicksand = true
	}
	if flags&FFBustUp != 0 {
		g.Bustable = true
	}
	if flags&FFCrumble != 0 {
		g.Crumble = true
	}
	if flags&FFSwimmable != 0 {
		g.Water = true
	}
}

// AttachFOF adds a fake floor to target using control's planes. Attaching the
// same pair again returns the existing FOF unchanged.
func (l *Level) AttachFOF(target, control *Sector, master *Line, alpha, blend int, flags FOFFlags) *FOF {
	for _, f := range target.FFloors {
		if f.Control == control {
			return f
		}
	}

	if control.CeilingHeight < control.FloorHeight {
		warnf("FOF control sector %d has ceiling %v below floor %v, swapping",
			control.Index, control.CeilingHeight, control.FloorHeight)
		control.FloorHeight, control.CeilingHeight = control.CeilingHeight, control.FloorHeight
	}

	f := &FOF{
		Index:      len(l.FOFs),
		Target:     target,
		Control:    control,
		Master:     master,
		Flags:      flags,
		SpawnFlags: flags,
		Alpha:      clamp(alpha, 0, 255),
		SpawnAlpha: clamp(alpha, 0, 255),
		BlendMode:  blend,
	}
	l.FOFs = append(l.FOFs, f)
	target.FFloors = append(target.FFloors, f)
	control.ControlledFOFs = append(control.ControlledFOFs, f)
	target.Moved = true

	// Friction and pushers declared on the control sector also apply to
	// everything standing in the new FOF.
	for _, ref := range l.Thinkers.refsOfKind(KindFriction) {
		if fr, ok := thinkerAs[*Friction](l, ref); ok && fr.Affectee == control.Index && fr.Referrer < 0 {
			l.AddFriction(fr.Amount, target.Index, control.Index)
		}
	}
	for _, ref := range l.Thinkers.refsOfKind(KindPusher) {
		if p, ok := thinkerAs[*Pusher](l, ref); ok && p.Affectee == control.Index && p.Referrer < 0 {
			dup := *p
			dup.Affectee = target.Index
			dup.Referrer = control.Index
			l.Thinkers.Add(CategoryForce, &dup)
		}
	}

	l.Globals.note(flags)
	return f
}

// DetachFOF unlinks an FOF from its target and control sectors. Its index
// stays reserved so animators holding it notice and stop.
func (l *Level) DetachFOF(f *FOF) {
	if f.Removed {
		return
	}
	f.Removed = true
	f.Target.FFloors = removeFOF(f.Target.FFloors, f)
	f.Control.ControlledFOFs = removeFOF(f.Control.ControlledFOFs, f)
	f.Target.Moved = true
}

func removeFOF(list []*FOF, f *FOF) []*FOF {
	for i, g := range list {
		if g == f {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// fof returns the live FOF at index i.
func (l *Level) fof(i int) (*FOF, bool) {
	if i < 0 || i >= len(l.FOFs) || l.FOFs[i].Removed {
		return nil, false
	}
	return l.FOFs[i], true
}

// FindFOFs returns the FOFs in sectors tagged targetTag whose control sector
// carries controlTag. Executors address FOFs this way.
func (l *Level) FindFOFs(targetTag, controlTag int) []*FOF {
	var result []*FOF
	for _, s := range l.SectorsByTag(targetTag) {
		for _, f := range s.FFloors {
			if f.Control.Tags.Has(controlTag) {
				result = append(result, f)
			}
		}
	}
	return result
}
