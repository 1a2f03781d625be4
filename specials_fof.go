package sectorfx

// FOF executors address fake floors by the tag of the sectors holding them
// (args[0]) and the tag of their control sectors (args[1]).
func init() {
	fofArgs := []argSpec{tagArg(0), tagArg(1)}
	registerSpecials(
		&specialVariant{436, "shatter FOF", fofArgs, shatterFOF},
		&specialVariant{445, "FOF existence", fofArgs, setFOFExists},
		&specialVariant{446, "crumble FOF", fofArgs, crumbleFOF},
		&specialVariant{452, "set FOF translucency", fofArgs, setFOFAlphaSpecial},
		&specialVariant{453, "fade FOF", fofArgs, fadeFOF},
		&specialVariant{454, "stop FOF fade", fofArgs, stopFOFFade},
	)
}

// forEachFOF runs fn on every FOF the arguments address and reports false,
// with a diagnostic, when there are none.
func (l *Level) forEachFOF(a *SpecialArgs, fn func(f *FOF)) bool {
	fofs := l.FindFOFs(a.Args[0], a.Args[1])
	if len(fofs) == 0 {
		logger.Printf("Special %d (%s): no FOF with control tag %d in sectors tagged %d",
			a.Code, SpecialName(a.Code), a.Args[1], a.Args[0])
		return false
	}
	for _, f := range fofs {
		fn(f)
	}
	return true
}

// shatterFOF breaks bustable FOFs at once, whoever triggered it.
func shatterFOF(l *Level, act *Activator, a *SpecialArgs) bool {
	return l.forEachFOF(a, func(f *FOF) {
		l.bustFOF(f, act.Actor)
	})
}

func setFOFExists(l *Level, act *Activator, a *SpecialArgs) bool {
	return l.forEachFOF(a, func(f *FOF) {
		if a.Args[2] != 0 {
			f.Flags |= FFExists
		} else {
			f.Flags &^= FFExists
		}
		f.Target.Moved = true
	})
}

// crumbleFOF sets off crumbling. args[2] bit 0 stops the FOF coming back,
// bit 1 makes it float up.
func crumbleFOF(l *Level, act *Activator, a *SpecialArgs) bool {
	flags := CrumbleReturns
	if a.Args[2]&1 != 0 {
		flags = 0
	}
	if a.Args[2]&2 != 0 {
		flags |= CrumbleFloats
	}
	started := false
	l.forEachFOF(a, func(f *FOF) {
		if l.StartCrumble(f, flags) {
			started = true
		}
	})
	return started
}

// Option bits of 452.
const (
	alphaRelative = 1 << iota
	alphaNoTranslucent
)

func setFOFAlphaSpecial(l *Level, act *Activator, a *SpecialArgs) bool {
	return l.forEachFOF(a, func(f *FOF) {
		l.SetFOFAlpha(f, a.Args[2], a.Args[3]&alphaRelative != 0, a.Args[3]&alphaNoTranslucent == 0)
	})
}

func fadeFOF(l *Level, act *Activator, a *SpecialArgs) bool {
	return l.forEachFOF(a, func(f *FOF) {
		l.FadeFOF(f, a.Args[2], a.Args[3], FadeFlags(a.Args[4]))
	})
}

func stopFOFFade(l *Level, act *Activator, a *SpecialArgs) bool {
	return l.forEachFOF(a, func(f *FOF) {
		l.StopFOFFade(f, a.Args[2] == 0)
	})
}
