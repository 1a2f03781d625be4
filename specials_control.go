package sectorfx

func init() {
	registerSpecials(
		&specialVariant{439, "copy side textures", []argSpec{lineTagArg(0)}, copySideTextures},
		&specialVariant{450, "execute tag", []argSpec{lineTagArg(0)}, executeTag},
		&specialVariant{451, "execute random tag", nil, executeRandomTag},
		&specialVariant{465, "set executor delay", []argSpec{lineTagArg(0)}, setExecutorDelay},
		&specialVariant{468, "change line argument", []argSpec{lineTagArg(0)}, changeLineArg},
	)
}

// Texture selection of 439.
const (
	sideAll = iota
	sideUpper
	sideMiddle
	sideLower
)

// copySideTextures copies the activating line's front textures to the front
// sides of lines tagged args[0].
func copySideTextures(l *Level, act *Activator, a *SpecialArgs) bool {
	if act.Line == nil || act.Line.SideR == nil {
		logger.Printf("Special %d (%s): no activating line", a.Code, SpecialName(a.Code))
		return false
	}
	src := act.Line.SideR
	for _, li := range l.LinesByTag(a.Args[0]) {
		dst := li.SideR
		if dst == nil || dst == src {
			continue
		}
		if a.Args[1] == sideAll || a.Args[1] == sideUpper {
			dst.UpperTextureName = src.UpperTextureName
		}
		if a.Args[1] == sideAll || a.Args[1] == sideMiddle {
			dst.MiddleTextureName = src.MiddleTextureName
		}
		if a.Args[1] == sideAll || a.Args[1] == sideLower {
			dst.LowerTextureName = src.LowerTextureName
		}
	}
	return true
}

func executeTag(l *Level, act *Activator, a *SpecialArgs) bool {
	return l.RunTag(a.Args[0], act.Actor, act.Sector)
}

// executeRandomTag runs one tag drawn from [args[0], args[1]].
func executeRandomTag(l *Level, act *Activator, a *SpecialArgs) bool {
	tag := l.Random.Range(a.Args[0], a.Args[1])
	if len(l.lineTags.find(tag)) == 0 {
		logger.Printf("Special %d (%s): tag %d: %v", a.Code, SpecialName(a.Code), tag, ErrNoSuchTag)
		return false
	}
	return l.RunTag(tag, act.Actor, act.Sector)
}

func setExecutorDelay(l *Level, act *Activator, a *SpecialArgs) bool {
	for _, li := range l.LinesByTag(a.Args[0]) {
		delay := a.Args[1]
		if a.Args[2] != 0 {
			delay += li.ExecutorDelay
		}
		li.ExecutorDelay = max(delay, 0)
	}
	return true
}

// changeLineArg sets argument args[1] of lines tagged args[0] to args[2],
// or adds it when args[3] is set.
func changeLineArg(l *Level, act *Activator, a *SpecialArgs) bool {
	index := a.Args[1]
	if index < 0 || index >= NumArgs {
		logger.Printf("Special %d (%s): argument index %d out of range", a.Code, SpecialName(a.Code), index)
		return false
	}
	for _, li := range l.LinesByTag(a.Args[0]) {
		if a.Args[3] != 0 {
			li.Args[index] += a.Args[2]
		} else {
			li.Args[index] = a.Args[2]
		}
	}
	return true
}
