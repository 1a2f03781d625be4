package sectorfx

func init() {
	registerSpecials(
		&specialVariant{400, "copy floor", []argSpec{tagArg(0)}, copyPlane(false)},
		&specialVariant{401, "copy ceiling", []argSpec{tagArg(0)}, copyPlane(true)},
		&specialVariant{402, "copy light", []argSpec{tagArg(0)}, copyLight},
		&specialVariant{403, "move floor", []argSpec{tagArg(0)}, movePlaneToSource(PlaneFloor)},
		&specialVariant{404, "move ceiling", []argSpec{tagArg(0)}, movePlaneToSource(PlaneCeiling)},
		&specialVariant{405, "move planes by distance", []argSpec{tagArg(0)}, movePlanesBy},
		&specialVariant{408, "set flats", []argSpec{tagArg(0)}, setFlats},
		&specialVariant{409, "change sector tag", []argSpec{tagArg(0)}, changeSectorTag},
		&specialVariant{410, "change front sector tag", nil, changeFrontSectorTag},
		&specialVariant{411, "stop plane movement", []argSpec{tagArg(0)}, stopPlanes},
		&specialVariant{416, "flicker light", []argSpec{tagOrZeroArg(0)}, startLightEffect(KindFlicker)},
		&specialVariant{417, "glow light", []argSpec{tagOrZeroArg(0)}, startLightEffect(KindGlow)},
		&specialVariant{418, "strobe light", []argSpec{tagOrZeroArg(0)}, startLightEffect(KindStrobe)},
		&specialVariant{420, "fade light", []argSpec{tagOrZeroArg(0)}, fadeLight},
		&specialVariant{421, "stop lighting", []argSpec{tagOrZeroArg(0)}, stopLighting},
		&specialVariant{423, "change sky", nil, changeSky},
		&specialVariant{424, "change weather", nil, changeWeather},
		&specialVariant{428, "start platform", []argSpec{tagArg(0)}, startPlatform},
		&specialVariant{429, "ceiling crusher", []argSpec{tagArg(0)}, startCrusher(PlaneCeiling)},
		&specialVariant{430, "floor crusher", []argSpec{tagArg(0)}, startCrusher(PlaneFloor)},
		&specialVariant{435, "change conveyor speed", []argSpec{tagArg(0)}, changeConveyor},
		&specialVariant{447, "change colormap", []argSpec{tagArg(0)}, changeColormap},
		&specialVariant{467, "set light level", []argSpec{tagOrZeroArg(0)}, setLightLevel},
	)
}

// Copy modes of 400 and 401.
const (
	copyBoth = iota
	copyHeight
	copyTexture
)

func copyPlane(ceiling bool) specialHandler {
	return func(l *Level, act *Activator, a *SpecialArgs) bool {
		src, ok := needSource(act, a)
		if !ok {
			return false
		}
		mode := a.Args[1]
		for _, s := range l.SectorsByTag(a.Args[0]) {
			if mode != copyTexture {
				s.setPlane(ceiling, src.plane(ceiling))
			}
			if mode != copyHeight {
				if ceiling {
					s.CeilingPic = src.CeilingPic
				} else {
					s.FloorPic = src.FloorPic
				}
			}
		}
		return true
	}
}

func copyLight(l *Level, act *Activator, a *SpecialArgs) bool {
	src, ok := needSource(act, a)
	if !ok {
		return false
	}
	for _, s := range l.SectorsByTag(a.Args[0]) {
		l.removeLighting(s)
		s.LightLevel = src.LightLevel
	}
	return true
}

// movePlaneToSource moves tagged planes to the source sector's height at
// args[1] units per tic, running args[3] as a tag on arrival.
func movePlaneToSource(planes Planes) specialHandler {
	return func(l *Level, act *Activator, a *SpecialArgs) bool {
		src, ok := needSource(act, a)
		if !ok {
			return false
		}
		dest := src.plane(planes == PlaneCeiling)
		moved := false
		for _, s := range l.SectorsByTag(a.Args[0]) {
			if l.MovePlanes(s, planes, dest, float64(a.Args[1]), a.Args[3]) {
				moved = true
			}
		}
		return moved
	}
}

func planesArg(v int) Planes {
	switch v {
	case 1:
		return PlaneCeiling
	case 2:
		return PlaneBoth
	}
	return PlaneFloor
}

func movePlanesBy(l *Level, act *Activator, a *SpecialArgs) bool {
	planes := planesArg(a.Args[1])
	distance := float64(a.Args[2])
	speed := float64(a.Args[3])
	if a.Args[4] != 0 {
		speed = 0
	}
	moved := false
	for _, s := range l.SectorsByTag(a.Args[0]) {
		dest := s.plane(planes == PlaneCeiling) + distance
		if l.MovePlanes(s, planes, dest, speed, 0) {
			moved = true
		}
	}
	return moved
}

func setFlats(l *Level, act *Activator, a *SpecialArgs) bool {
	src, ok := needSource(act, a)
	if !ok {
		return false
	}
	for _, s := range l.SectorsByTag(a.Args[0]) {
		if a.Args[1] != 2 {
			s.FloorPic = src.FloorPic
		}
		if a.Args[1] != 1 {
			s.CeilingPic = src.CeilingPic
		}
	}
	return true
}

// Tag operations of 409 and 410.
const (
	tagSet = iota
	tagAdd
	tagRemove
)

func (l *Level) changeTag(s *Sector, tag, op int) {
	var tags TagList
	switch op {
	case tagAdd:
		if s.Tags.Has(tag) {
			return
		}
		tags = append(append(tags, s.Tags...), tag)
	case tagRemove:
		for _, t := range s.Tags {
			if t != tag {
				tags = append(tags, t)
			}
		}
	default:
		if tag != 0 {
			tags = TagList{tag}
		}
	}
	l.SetSectorTags(s, tags)
}

func changeSectorTag(l *Level, act *Activator, a *SpecialArgs) bool {
	// Resolve first: retagging changes what the tag finds.
	for _, s := range l.SectorsByTag(a.Args[0]) {
		l.changeTag(s, a.Args[1], a.Args[2])
	}
	return true
}

func changeFrontSectorTag(l *Level, act *Activator, a *SpecialArgs) bool {
	if act.Line == nil || act.Line.FrontSector == nil {
		logger.Printf("Special %d (%s): no activating line", a.Code, SpecialName(a.Code))
		return false
	}
	l.changeTag(act.Line.FrontSector, a.Args[0], a.Args[1])
	return true
}

func stopPlanes(l *Level, act *Activator, a *SpecialArgs) bool {
	for _, s := range l.SectorsByTag(a.Args[0]) {
		l.StopPlanes(s)
	}
	return true
}

func startLightEffect(kind ThinkerKind) specialHandler {
	return func(l *Level, act *Activator, a *SpecialArgs) bool {
		for _, s := range l.taggedSectors(act, a.Args[0]) {
			switch kind {
			case KindFlicker:
				l.StartFlicker(s, a.Args[1], a.Args[2], a.Args[3])
			case KindGlow:
				l.StartGlow(s, a.Args[1], a.Args[2], a.Args[3])
			case KindStrobe:
				l.StartStrobe(s, a.Args[1], a.Args[2], a.Args[3], a.Args[4] != 0)
			}
		}
		return true
	}
}

func fadeLight(l *Level, act *Activator, a *SpecialArgs) bool {
	for _, s := range l.taggedSectors(act, a.Args[0]) {
		l.FadeLight(s, a.Args[1], a.Args[2], a.Args[3] != 0)
	}
	return true
}

func stopLighting(l *Level, act *Activator, a *SpecialArgs) bool {
	for _, s := range l.taggedSectors(act, a.Args[0]) {
		l.removeLighting(s)
	}
	return true
}

func changeSky(l *Level, act *Activator, a *SpecialArgs) bool {
	l.Sky = a.Args[0]
	return true
}

func changeWeather(l *Level, act *Activator, a *SpecialArgs) bool {
	l.Weather = a.Args[0]
	return true
}

// neighborFloors returns the lowest and highest floor among s and the
// sectors across its two-sided lines.
func neighborFloors(s *Sector) (lowest, highest float64) {
	lowest, highest = s.FloorHeight, s.FloorHeight
	for _, li := range s.Lines {
		other := li.FrontSector
		if other == s {
			other = li.BackSector
		}
		if other == nil {
			continue
		}
		lowest = min(lowest, other.FloorHeight)
		highest = max(highest, other.FloorHeight)
	}
	return lowest, highest
}

// startPlatform moves whole sectors between their lowest and highest
// neighbouring floors, pausing args[2] tics at each end. args[3] set starts
// it moving up.
func startPlatform(l *Level, act *Activator, a *SpecialArgs) bool {
	started := false
	for _, s := range l.SectorsByTag(a.Args[0]) {
		low, high := neighborFloors(s)
		if low == high {
			continue
		}
		if !l.OscillatePlanes(s, PlaneBoth, low, high, float64(a.Args[1]), a.Args[2], false) {
			continue
		}
		if d, ok := thinkerAs[*PlaneMover](l, s.FloorData); ok {
			d.Direction = -1
			if a.Args[3] != 0 {
				d.Direction = 1
			}
		}
		started = true
	}
	return started
}

// crusherGap is how far a crusher leaves between the planes.
const crusherGap = 8

func startCrusher(planes Planes) specialHandler {
	return func(l *Level, act *Activator, a *SpecialArgs) bool {
		started := false
		for _, s := range l.SectorsByTag(a.Args[0]) {
			var low, high float64
			if planes == PlaneCeiling {
				low, high = s.FloorHeight+crusherGap, s.CeilingHeight
			} else {
				low, high = s.FloorHeight, s.CeilingHeight-crusherGap
			}
			if l.OscillatePlanes(s, planes, low, high, float64(a.Args[1]), a.Args[2], true) {
				started = true
			}
		}
		return started
	}
}

func changeConveyor(l *Level, act *Activator, a *SpecialArgs) bool {
	return l.SetConveyorSpeed(a.Args[0], float64(a.Args[1]), a.Args[2] != 0) > 0
}

func changeColormap(l *Level, act *Activator, a *SpecialArgs) bool {
	colormap := a.StringArgs[0]
	if colormap == "" {
		src, ok := needSource(act, a)
		if !ok {
			return false
		}
		colormap = src.Colormap
	}
	for _, s := range l.SectorsByTag(a.Args[0]) {
		s.Colormap = colormap
	}
	return true
}

func setLightLevel(l *Level, act *Activator, a *SpecialArgs) bool {
	for _, s := range l.taggedSectors(act, a.Args[0]) {
		l.removeLighting(s)
		light := a.Args[1]
		if a.Args[2] != 0 {
			light += s.LightLevel
		}
		s.LightLevel = clamp(light, 0, 255)
	}
	return true
}
