package sectorfx

// Polyobject motion codes. Their kinematics belong to the host.
const (
	firstPolyMotion = 480
	lastPolyMotion  = 488
)

func init() {
	polyArgs := []argSpec{polyArg(0)}
	names := [...]string{
		"polyobject door slide", "polyobject door swing", "polyobject move",
		"polyobject move override", "polyobject rotate right", "polyobject rotate right override",
		"polyobject rotate left", "polyobject rotate left override", "polyobject waypoint",
	}
	for code := firstPolyMotion; code <= lastPolyMotion; code++ {
		registerSpecials(&specialVariant{code, names[code-firstPolyMotion], polyArgs, movePolyobject})
	}
	registerSpecials(
		&specialVariant{489, "polyobject invisible", polyArgs, setPolyVisible(false)},
		&specialVariant{490, "polyobject visible", polyArgs, setPolyVisible(true)},
		&specialVariant{491, "polyobject translucency", polyArgs, setPolyAlpha},
		&specialVariant{492, "fade polyobject", polyArgs, fadePolyobject},
	)
}

func argPoly(l *Level, a *SpecialArgs) *Polyobject {
	po, _ := l.PolyobjByID(a.Args[0])
	return po
}

func movePolyobject(l *Level, act *Activator, a *SpecialArgs) bool {
	return l.Host.MovePolyobject(argPoly(l, a), a.Code, a)
}

// setPolyVisible toggles rendering. args[1] set also toggles collision.
func setPolyVisible(visible bool) specialHandler {
	return func(l *Level, act *Activator, a *SpecialArgs) bool {
		po := argPoly(l, a)
		if visible {
			po.Flags &^= PolyInvisible
			if a.Args[1] != 0 {
				po.Flags &^= PolyIntangible
			}
		} else {
			po.Flags |= PolyInvisible
			if a.Args[1] != 0 {
				po.Flags |= PolyIntangible
			}
		}
		return true
	}
}

func setPolyAlpha(l *Level, act *Activator, a *SpecialArgs) bool {
	po := argPoly(l, a)
	if l.Thinkers.Valid(po.FadingData) {
		l.Thinkers.Remove(po.FadingData)
		po.FadingData = ThinkerRef{}
	}
	alpha := a.Args[1]
	if a.Args[2] != 0 {
		alpha += po.Alpha
	}
	po.Alpha = clamp(alpha, 0, 255)
	if po.Alpha < 255 {
		po.Flags |= PolyTranslucent
	} else {
		po.Flags &^= PolyTranslucent
	}
	return true
}

func fadePolyobject(l *Level, act *Activator, a *SpecialArgs) bool {
	po := argPoly(l, a)
	if !l.FadePoly(po, a.Args[1], a.Args[2], FadeFlags(a.Args[3])) {
		logger.Printf("Special %d (%s): polyobject %d already fading", a.Code, SpecialName(a.Code), po.ID)
		return false
	}
	return true
}
