package sectorfx

import "math"

// SpawnSpecials installs everything a map declares through line specials.
// Forces go first so FOFs created afterwards inherit them, and level-load
// triggers run last, once the rest of the map is in place.
func (l *Level) SpawnSpecials() {
	logger.Println("Spawning specials ...")

	for i := range l.Lines {
		li := &l.Lines[i]
		switch code := li.Special; {
		case code >= 500 && code <= 535:
			l.spawnScroller(li)
		case code == 540:
			l.spawnFriction(li)
		case code >= 541 && code <= 547:
			l.spawnPusher(li)
		case code >= 600 && code <= 605:
			l.spawnLight(li)
		}
	}

	for i := range l.Lines {
		li := &l.Lines[i]
		switch code := li.Special; {
		case isFOFSpecial(code):
			l.spawnFOFs(li)
		case code == polyobjectFirstLine:
			l.spawnPolyobject(li)
		}
	}

	// Movers second: 64 looks up FOF lines.
	for i := range l.Lines {
		li := &l.Lines[i]
		if li.Special >= 50 && li.Special <= 64 {
			l.spawnLegacyMover(li)
		}
	}

	var loadTriggers []*Line
	for i := range l.Lines {
		li := &l.Lines[i]
		if !isTriggerSpecial(li.Special) {
			continue
		}
		if li.Special == TriggerCallCount {
			li.CallCount = li.Args[1]
		}
		switch TriggerPolicy(li.Args[0]) {
		case TriggerEachTime, TriggerEachTimeEnterExit:
			if li.Special != TriggerLevelLoad {
				l.addEachTime(li)
			}
		}
		if li.Special == TriggerLevelLoad {
			loadTriggers = append(loadTriggers, li)
		}
	}
	for _, li := range loadTriggers {
		l.RunTriggerLine(li, nil, nil)
	}
}

// fofType is one row of the FOF declaration table.
type fofType struct {
	flags       FOFFlags
	translucent bool // alpha comes from args[1]
	bust        BustType
	raise       raiseKind
}

type raiseKind int

const (
	raiseNone raiseKind = iota
	raiseAirBob
	raiseRising
)

const (
	ffSolidOpaque = FFExists | FFSolid | FFRenderAll | FFCutLevel
	ffWater       = FFExists | FFRenderAll | FFSwimmable | FFBothPlanes | FFAllSides | FFCutExtra | FFExtra | FFCutSprites
	ffIntangible  = FFExists | FFRenderAll | FFBothPlanes | FFAllSides | FFCutExtra | FFExtra | FFCutSprites
	ffTranslucent = FFTranslucent | FFNoShade | FFExtra | FFCutExtra
	ffFog         = FFExists | FFRenderAll | FFFog | FFBothPlanes | FFInvertPlanes | FFAllSides | FFInvertSides |
		FFCutExtra | FFExtra | FFDoubleShadow | FFCutSprites
)

var fofTypes = map[int]fofType{
	100: {flags: ffSolidOpaque},
	101: {flags: ffSolidOpaque | FFNoShade},
	102: {flags: FFExists | FFSolid | FFRenderAll | ffTranslucent, translucent: true},
	103: {flags: FFExists | FFSolid | FFRenderSides | FFNoShade | FFCutLevel},
	104: {flags: FFExists | FFSolid | FFRenderPlanes | FFCutLevel},
	105: {flags: FFExists | FFSolid | FFNoShade},

	120: {flags: ffWater},
	121: {flags: ffWater | ffTranslucent, translucent: true},
	122: {flags: ffWater &^ FFRenderSides},
	123: {flags: (ffWater &^ FFRenderSides) | ffTranslucent, translucent: true},
	124: {flags: ffWater | ffTranslucent | FFGoowater, translucent: true},
	125: {flags: (ffWater &^ FFRenderSides) | ffTranslucent | FFGoowater, translucent: true},

	140: {flags: ffSolidOpaque | FFPlatform | FFBothPlanes | FFAllSides},
	141: {flags: FFExists | FFSolid | FFRenderAll | FFPlatform | FFBothPlanes | FFAllSides | ffTranslucent, translucent: true},
	142: {flags: FFExists | FFSolid | FFRenderPlanes | FFPlatform | FFBothPlanes | ffTranslucent, translucent: true},
	143: {flags: ffSolidOpaque | FFReversePlatform | FFBothPlanes | FFAllSides},
	144: {flags: FFExists | FFSolid | FFRenderAll | FFReversePlatform | FFBothPlanes | FFAllSides | ffTranslucent, translucent: true},
	145: {flags: FFExists | FFSolid | FFRenderPlanes | FFReversePlatform | FFBothPlanes | ffTranslucent, translucent: true},
	146: {flags: FFExists | FFSolid | FFRenderSides | FFPlatform | FFNoShade | FFCutLevel},

	150: {flags: ffSolidOpaque, raise: raiseAirBob},
	151: {flags: ffSolidOpaque, raise: raiseAirBob},
	152: {flags: ffSolidOpaque, raise: raiseAirBob},

	160: {flags: ffSolidOpaque | FFFloatBob},

	170: {flags: ffSolidOpaque | FFCrumble},
	171: {flags: ffSolidOpaque | FFCrumble | FFNoReturn},
	172: {flags: ffSolidOpaque | FFCrumble | FFPlatform | FFBothPlanes | FFAllSides},
	173: {flags: ffSolidOpaque | FFCrumble | FFNoReturn | FFPlatform | FFBothPlanes | FFAllSides},
	174: {flags: FFExists | FFSolid | FFRenderAll | FFCrumble | FFPlatform | FFBothPlanes | FFAllSides | ffTranslucent, translucent: true},
	175: {flags: FFExists | FFSolid | FFRenderAll | FFCrumble | FFNoReturn | FFPlatform | FFBothPlanes | FFAllSides | ffTranslucent, translucent: true},
	176: {flags: ffSolidOpaque | FFCrumble | FFFloatBob, raise: raiseAirBob},
	177: {flags: ffSolidOpaque | FFCrumble | FFFloatBob | FFNoReturn, raise: raiseAirBob},
	178: {flags: ffSolidOpaque | FFCrumble | FFFloatBob},
	179: {flags: ffSolidOpaque | FFCrumble | FFFloatBob | FFNoReturn},

	180: {flags: ffSolidOpaque | FFMario},

	190: {flags: ffSolidOpaque, raise: raiseRising},
	191: {flags: ffSolidOpaque | FFNoShade, raise: raiseRising},
	192: {flags: FFExists | FFSolid | FFRenderAll | ffTranslucent, translucent: true, raise: raiseRising},
	193: {flags: FFExists | FFSolid | FFNoShade, raise: raiseRising},
	194: {flags: ffSolidOpaque | FFPlatform | FFBothPlanes | FFAllSides, raise: raiseRising},
	195: {flags: FFExists | FFSolid | FFRenderAll | FFPlatform | FFBothPlanes | FFAllSides | ffTranslucent, translucent: true, raise: raiseRising},

	200: {flags: FFExists | FFCutSprites},
	201: {flags: FFExists | FFCutSprites | FFDoubleShadow},
	202: {flags: ffFog},
	220: {flags: ffIntangible},
	221: {flags: ffIntangible | ffTranslucent, translucent: true},
	222: {flags: FFExists | FFRenderSides | FFAllSides | FFNoShade | FFCutExtra | FFExtra},
	223: {flags: FFExists | FFNoShade},

	250: {flags: ffSolidOpaque | FFMario, bust: BustTouch},
	252: {flags: ffSolidOpaque | FFBustUp | FFShatterBottom, bust: BustTouch},
	253: {flags: FFExists | FFSolid | FFRenderAll | FFBustUp | ffTranslucent, translucent: true, bust: BustTouch},
	254: {flags: ffSolidOpaque | FFBustUp, bust: BustRegular},
	255: {flags: ffSolidOpaque | FFBustUp, bust: BustSpin},
	256: {flags: FFExists | FFSolid | FFRenderAll | FFBustUp | ffTranslucent, translucent: true, bust: BustSpin},
	257: {flags: FFExists | FFQuicksand | FFRenderAll | FFAllSides | FFBothPlanes | FFCutExtra | FFExtra | FFCutSprites},
	258: {flags: FFExists | FFRenderAll | FFNoShade | ffTranslucent, translucent: true},
}

// Custom FOFs take their flags straight from args[2].
const customFOF = 259

// spawnFOFs attaches the FOF li declares to every sector tagged args[0].
// args[1] is the alpha of translucent types, args[3] holds type options and
// args[4] the tag run when a bustable FOF breaks.
func (l *Level) spawnFOFs(li *Line) {
	control := li.FrontSector
	if control == nil {
		warnf("FOF line %d has no front sector", li.Index)
		return
	}
	var typ fofType
	if li.Special == customFOF {
		typ = fofType{flags: FOFFlags(uint32(li.Args[2])) | FFExists, translucent: true}
	} else {
		var ok bool
		if typ, ok = fofTypes[li.Special]; !ok {
			logger.Printf("Line %d: unknown FOF type %d", li.Index, li.Special)
			return
		}
	}
	if li.Special == 254 && li.Args[3] != 0 {
		typ.bust = BustStrong
	}

	alpha := 255
	if typ.translucent && li.Args[1] > 0 {
		alpha = clamp(li.Args[1], 0, 255)
	}
	flags := typ.flags
	if alpha < 255 {
		flags |= FFTranslucent
	} else if li.Special == customFOF {
		flags &^= FFTranslucent
	}

	tag := li.Args[0]
	targets := l.SectorsByTag(tag)
	if len(targets) == 0 {
		logger.Printf("Line %d: FOF type %d: tag %d: %v", li.Index, li.Special, tag, ErrNoSuchTag)
		return
	}
	for _, s := range targets {
		f := l.AttachFOF(s, control, li, alpha, li.BlendMode, flags)
		f.BustType = typ.bust
		f.BustTag = li.Args[4]
	}

	switch typ.raise {
	case raiseAirBob:
		l.spawnAirBob(li, control, tag)
	case raiseRising:
		l.spawnRisingPlatform(li, control, tag)
	}
}

// airBobDistance is how far a default air bob sinks.
const airBobDistance = 16

// spawnAirBob sinks the FOF args[2] units while a player stands on it.
// Option bit 0 reverses that, bit 1 only counts spinning players.
func (l *Level) spawnAirBob(li *Line, control *Sector, tag int) {
	dist := float64(li.Args[2])
	if dist <= 0 {
		dist = airBobDistance
	}
	flags := RaiseReverse
	if li.Args[3]&1 != 0 {
		flags = 0
	}
	if li.Args[3]&2 != 0 {
		flags |= RaiseSpindash
	}
	l.AddRaiser(control, tag, control.CeilingHeight, control.CeilingHeight-dist, 1, -1, flags)
}

// spawnRisingPlatform moves the FOF between the lowest and highest ceiling
// around its control sector. args[2] is the speed, 0 for a quarter of the
// line length, and args[3] carries RaiserFlags. A dynamic platform follows
// the highest neighbouring ceiling as it moves.
func (l *Level) spawnRisingPlatform(li *Line, control *Sector, tag int) {
	speed := float64(li.Args[2])
	if speed <= 0 {
		speed = math.Hypot(li.DX, li.DY) / 4
	}
	flags := RaiserFlags(li.Args[3])
	low, high, highest := neighborCeilings(control)
	topSector := -1
	if flags&RaiseDynamic != 0 && highest != nil {
		topSector = highest.Index
	}
	l.AddRaiser(control, tag, high, low, speed, topSector, flags)
}

// neighborCeilings returns the lowest and highest ceiling among the sectors
// across s's two-sided lines, and the sector owning the highest. s itself
// counts when it has no neighbours.
func neighborCeilings(s *Sector) (lowest, highest float64, high *Sector) {
	lowest, highest = math.Inf(1), math.Inf(-1)
	for _, li := range s.Lines {
		other := li.FrontSector
		if other == s {
			other = li.BackSector
		}
		if other == nil || other == s {
			continue
		}
		lowest = min(lowest, other.CeilingHeight)
		if other.CeilingHeight > highest {
			highest = other.CeilingHeight
			high = other
		}
	}
	if high == nil {
		return s.CeilingHeight, s.CeilingHeight, nil
	}
	return lowest, highest, high
}

// lineMagnitude is args[i], or the line length when that is 0.
func lineMagnitude(li *Line, i int) float64 {
	if li.Args[i] != 0 {
		return float64(li.Args[i])
	}
	return math.Hypot(li.DX, li.DY)
}

// lineVector scales the line's direction to length mag.
func lineVector(li *Line, mag float64) (float64, float64) {
	length := math.Hypot(li.DX, li.DY)
	if length == 0 {
		return 0, 0
	}
	return li.DX / length * mag, li.DY / length * mag
}

// Scroller modes in args[2].
const (
	scrollConstant = iota
	scrollDisplacement
	scrollAccelerative
)

const (
	scrollShift = 32.0       // map units per unit of scroll speed
	carryFactor = 3.0 / 32.0 // share of a texture scroll felt as carry
)

// spawnScroller handles 500-535. 500 and 501 scroll the line's own front
// side left and right by one unit per tic. The rest scroll the sides or
// planes tagged args[0] along the line direction at args[1] (or the line
// length) divided by 32.
func (l *Level) spawnScroller(li *Line) {
	switch li.Special {
	case 500, 501:
		if li.SideRNum < 0 {
			warnf("scroller line %d has no front side", li.Index)
			return
		}
		dx := -1.0
		if li.Special == 501 {
			dx = 1
		}
		l.AddScroller(ScrollSide, li.SideRNum, -1, dx, 0, false)
		return
	}

	control := -1
	accel := false
	switch li.Args[2] {
	case scrollDisplacement:
		if li.FrontSector != nil {
			control = li.FrontSector.Index
		}
	case scrollAccelerative:
		accel = true
		if li.FrontSector != nil {
			control = li.FrontSector.Index
		}
	}
	dx, dy := lineVector(li, lineMagnitude(li, 1)/scrollShift)

	if li.Special == 502 {
		for _, tagged := range l.LinesByTag(li.Args[0]) {
			if tagged != li && tagged.SideRNum >= 0 {
				l.AddScroller(ScrollSide, tagged.SideRNum, control, dx, dy, accel)
			}
		}
		return
	}

	var types []ScrollType
	switch li.Special {
	case 510:
		types = []ScrollType{ScrollFloor}
	case 513:
		types = []ScrollType{ScrollCeiling}
	case 520:
		types = []ScrollType{ScrollCarry}
	case 523:
		types = []ScrollType{ScrollCarryCeiling}
	case 530:
		types = []ScrollType{ScrollFloor, ScrollCarry}
	case 533:
		types = []ScrollType{ScrollCeiling, ScrollCarryCeiling}
	default:
		logger.Printf("Line %d: unknown scroller type %d", li.Index, li.Special)
		return
	}
	for _, s := range l.SectorsByTag(li.Args[0]) {
		for _, t := range types {
			sdx, sdy := dx, dy
			if t == ScrollCarry || t == ScrollCarryCeiling {
				sdx, sdy = dx*carryFactor*scrollShift, dy*carryFactor*scrollShift
			}
			l.AddScroller(t, s.Index, control, sdx, sdy, accel)
		}
	}
}

// spawnFriction gives sectors tagged args[0] friction amount args[1].
func (l *Level) spawnFriction(li *Line) {
	for _, s := range l.SectorsByTag(li.Args[0]) {
		l.AddFriction(li.Args[1], s.Index, -1)
	}
}

// pushFactor scales line magnitudes down to per-tic momentum.
const pushFactor = 1.0 / 128

// spawnPusher handles 541-547: wind, upward and downward wind, current,
// upward and downward current, and a point pusher at the line's first
// vertex. args[1] is the strength (0 for the line length), args[2] the point
// radius and args[3] makes the push exclusive.
func (l *Level) spawnPusher(li *Line) {
	mag := lineMagnitude(li, 1)
	exclusive := li.Args[3] != 0
	if li.Special == 547 {
		radius := float64(li.Args[2])
		if radius <= 0 {
			radius = mag * 2
		}
		l.AddPointPusher(li.V1.X, li.V1.Y, mag*pushFactor, radius, exclusive)
		return
	}

	t := PushWind
	if li.Special >= 544 {
		t = PushCurrent
	}
	var xmag, ymag, zmag float64
	switch li.Special {
	case 541, 544:
		xmag, ymag = lineVector(li, mag*pushFactor)
	case 542, 545:
		zmag = mag * pushFactor
	case 543, 546:
		zmag = -mag * pushFactor
	}
	for _, s := range l.SectorsByTag(li.Args[0]) {
		ref := l.AddPusher(t, s.Index, xmag, ymag, exclusive)
		if p, ok := thinkerAs[*Pusher](l, ref); ok {
			p.ZMag = zmag
		}
	}
}

// spawnLight handles 600-605. 600 and 601 make tagged sectors borrow the
// front sector's light for their floor or ceiling. 602 and 603 glow and
// flicker between the sector's light and args[2] at speed args[1]. 604 and
// 605 strobe with args[1] bright and args[2] dark tics, 605 in sync.
func (l *Level) spawnLight(li *Line) {
	for _, s := range l.SectorsByTag(li.Args[0]) {
		switch li.Special {
		case 600:
			s.FloorLightSector = li.FrontSector
		case 601:
			s.CeilingLightSector = li.FrontSector
		case 602:
			l.StartGlow(s, li.Args[1], s.LightLevel, li.Args[2])
		case 603:
			l.StartFlicker(s, li.Args[1], s.LightLevel, li.Args[2])
		case 604, 605:
			dark := 0
			if li.FrontSector != nil {
				dark = li.FrontSector.LightLevel
			}
			l.StartStrobe(s, li.Args[1], li.Args[2], dark, li.Special == 605)
		}
	}
}

// spawnLegacyMover handles the 50-64 range of level-load movers acting on
// sectors tagged args[0]. The front sector supplies destination heights.
func (l *Level) spawnLegacyMover(li *Line) {
	front := li.FrontSector
	if front == nil {
		warnf("mover line %d has no front sector", li.Index)
		return
	}
	speed := lineMagnitude(li, 1) / 8
	for _, s := range l.SectorsByTag(li.Args[0]) {
		switch li.Special {
		case 50:
			low, _ := neighborFloors(s)
			l.MovePlanes(s, PlaneFloor, low, 0, 0)
		case 51:
			_, high, _ := neighborCeilings(s)
			l.MovePlanes(s, PlaneCeiling, high, 0, 0)
		case 52:
			l.MovePlanes(s, PlaneBoth, front.FloorHeight, speed, 0)
		case 53, 56:
			l.OscillatePlanes(s, PlaneBoth, s.FloorHeight, front.FloorHeight, speed, 0, false)
		case 54, 57:
			l.OscillatePlanes(s, PlaneFloor, s.FloorHeight, front.FloorHeight, speed, 0, false)
		case 55, 58:
			l.OscillatePlanes(s, PlaneCeiling, s.CeilingHeight, front.CeilingHeight, speed, 0, false)
		case 59, 60:
			low, high := neighborFloors(s)
			if low != high {
				l.OscillatePlanes(s, PlaneBoth, low, high, speed, 0, false)
			}
		case 61:
			l.OscillatePlanes(s, PlaneCeiling, s.FloorHeight+crusherGap, s.CeilingHeight, speed, 0, true)
		case 62:
			l.OscillatePlanes(s, PlaneFloor, s.FloorHeight, s.CeilingHeight-crusherGap, speed, 0, true)
		}
	}
	if li.Special == 64 {
		l.spawnDisappearers(li)
	}
}

// spawnDisappearers makes the FOFs declared by every FOF line sharing li's
// tag come and go. args[1] and args[2] are the appear and disappear times,
// args[3] the startup offset.
func (l *Level) spawnDisappearers(li *Line) {
	found := false
	for _, master := range l.LinesByTag(li.Tag()) {
		if master == li || !isFOFSpecial(master.Special) {
			continue
		}
		l.AddDisappearer(li.Args[1], li.Args[2], li.Args[3], master, li)
		found = true
	}
	if !found {
		logger.Printf("Line %d: no FOF lines share tag %d", li.Index, li.Tag())
	}
}
