package sectorfx

func init() {
	registerSpecials(
		&specialVariant{412, "teleport", []argSpec{tagArg(0)}, teleport},
		&specialVariant{413, "change music", []argSpec{stringArg(0)}, changeMusic},
		&specialVariant{414, "play sound", []argSpec{stringArg(0)}, playSound},
		&specialVariant{415, "run script", []argSpec{stringArg(0)}, runScript},
		&specialVariant{425, "set actor state", nil, setActorState},
		&specialVariant{426, "stop actor", nil, stopActor},
		&specialVariant{427, "award score", nil, awardScore},
		&specialVariant{433, "flip gravity", nil, flipGravity},
		&specialVariant{434, "award power", nil, awardPower},
		&specialVariant{437, "disable player control", nil, disableControl},
		&specialVariant{438, "change actor scale", nil, changeScale},
		&specialVariant{444, "earthquake", nil, earthquake},
		&specialVariant{460, "award rings", nil, awardRings},
		&specialVariant{462, "exit level", nil, exitLevel},
		&specialVariant{463, "dye actor", nil, dyeActor},
		&specialVariant{466, "level failure", nil, levelFailure},
	)
}

// teleport moves the activator to the centre of the first sector tagged
// args[0]. With args[1] set momentum is kept.
func teleport(l *Level, act *Activator, a *SpecialArgs) bool {
	if !needActor(act, a) {
		return false
	}
	dest := l.SectorsByTag(a.Args[0])[0]
	mo := act.Actor
	l.SetActorPosition(mo, dest.SoundOrigin.X, dest.SoundOrigin.Y, dest.FloorHeight)
	if mo.Flipped() {
		mo.Z = mo.CeilingZ - mo.Height
	} else {
		mo.Z = mo.FloorZ
	}
	if a.Args[1] == 0 {
		mo.MomX, mo.MomY, mo.MomZ = 0, 0, 0
	}
	l.Host.StartSound(nil, mo, "teleport")
	return true
}

func changeMusic(l *Level, act *Activator, a *SpecialArgs) bool {
	l.Music = a.StringArgs[0]
	l.Host.ChangeMusic(l.Music, a.Args[0] != 0)
	return true
}

// Sound sources of 414.
const (
	soundFromActor = iota
	soundFromSector
	soundFromNowhere
	soundFromTagged
)

func playSound(l *Level, act *Activator, a *SpecialArgs) bool {
	sound := a.StringArgs[0]
	switch a.Args[0] {
	case soundFromActor:
		if !needActor(act, a) {
			return false
		}
		l.Host.StartSound(nil, act.Actor, sound)
	case soundFromSector:
		src, ok := needSource(act, a)
		if !ok {
			return false
		}
		l.Host.StartSound(src, nil, sound)
	case soundFromTagged:
		sectors := l.SectorsByTag(a.Args[1])
		if len(sectors) == 0 {
			logger.Printf("Special %d (%s): tag %d: %v", a.Code, SpecialName(a.Code), a.Args[1], ErrNoSuchTag)
			return false
		}
		for _, s := range sectors {
			l.Host.StartSound(s, nil, sound)
		}
	default:
		l.Host.StartSound(nil, nil, sound)
	}
	return true
}

// runScript starts the script named by string argument 0, passing the
// remaining arguments along.
func runScript(l *Level, act *Activator, a *SpecialArgs) bool {
	if l.Scripts == nil {
		logger.Printf("Special %d (%s): no script environment", a.Code, SpecialName(a.Code))
		return false
	}
	return l.Scripts.Execute(a.StringArgs[0], a.Args[:], a.StringArgs[1:], act)
}

func setActorState(l *Level, act *Activator, a *SpecialArgs) bool {
	if !needActor(act, a) {
		return false
	}
	act.Actor.State = a.Args[0]
	return true
}

// stopActor kills the activator's momentum. With args[0] set it is also
// moved to the middle of the activating line.
func stopActor(l *Level, act *Activator, a *SpecialArgs) bool {
	if !needActor(act, a) {
		return false
	}
	mo := act.Actor
	mo.MomX, mo.MomY, mo.MomZ = 0, 0, 0
	if a.Args[0] != 0 && act.Line != nil {
		li := act.Line
		l.SetActorPosition(mo, li.V1.X+li.DX/2, li.V1.Y+li.DY/2, mo.Z)
	}
	if mo.Player != nil {
		mo.Player.Spinning = false
	}
	return true
}

func awardScore(l *Level, act *Activator, a *SpecialArgs) bool {
	if !needPlayer(act, a) {
		return false
	}
	act.Actor.Player.Score += a.Args[0]
	return true
}

// Gravity modes of 433.
const (
	gravityToggle = iota
	gravityFlipped
	gravityNormal
)

func flipGravity(l *Level, act *Activator, a *SpecialArgs) bool {
	if !needActor(act, a) {
		return false
	}
	mo := act.Actor
	flip := !mo.Flipped()
	switch a.Args[0] {
	case gravityFlipped:
		flip = true
	case gravityNormal:
		flip = false
	}
	if flip {
		mo.EFlags |= ActorVerticalFlip
	} else {
		mo.EFlags &^= ActorVerticalFlip
	}
	return true
}

func awardPower(l *Level, act *Activator, a *SpecialArgs) bool {
	if !needPlayer(act, a) {
		return false
	}
	power := Power(a.Args[0])
	if power < 0 || power >= NumPowers {
		logger.Printf("Special %d (%s): unknown power %d", a.Code, SpecialName(a.Code), a.Args[0])
		return false
	}
	act.Actor.Player.Powers[power] = max(a.Args[1], 0)
	return true
}

func disableControl(l *Level, act *Activator, a *SpecialArgs) bool {
	if !needPlayer(act, a) {
		return false
	}
	act.Actor.Player.NoControl = max(a.Args[0], 0)
	if a.Args[1] != 0 {
		act.Actor.MomX, act.Actor.MomY = 0, 0
	}
	return true
}

// changeScale sets the activator's scale to args[0] percent.
func changeScale(l *Level, act *Activator, a *SpecialArgs) bool {
	if !needActor(act, a) {
		return false
	}
	if a.Args[0] <= 0 {
		logger.Printf("Special %d (%s): scale must be positive, got %d", a.Code, SpecialName(a.Code), a.Args[0])
		return false
	}
	act.Actor.Scale = float64(a.Args[0]) / 100
	return true
}

// earthquake shakes views for args[0] tics at intensity args[1]. A non-zero
// radius in args[2] centres it on the activator, or on the activating
// sector without one; args[3] makes it follow the activator.
func earthquake(l *Level, act *Activator, a *SpecialArgs) bool {
	duration := a.Args[0]
	if duration <= 0 {
		logger.Printf("Special %d (%s): duration must be positive, got %d", a.Code, SpecialName(a.Code), duration)
		return false
	}
	var x, y, z float64
	var tracked *Actor
	switch {
	case act.Actor != nil && !act.Actor.Removed:
		x, y, z = act.Actor.X, act.Actor.Y, act.Actor.Z
		if a.Args[3] != 0 {
			tracked = act.Actor
		}
	case act.sourceSector() != nil:
		origin := act.sourceSector().SoundOrigin
		x, y, z = origin.X, origin.Y, origin.Z
	}
	l.StartQuake(duration, float64(a.Args[1]), float64(a.Args[2]), x, y, z, tracked)
	return true
}

func awardRings(l *Level, act *Activator, a *SpecialArgs) bool {
	if !needPlayer(act, a) {
		return false
	}
	p := act.Actor.Player
	p.Rings = clamp(p.Rings+a.Args[0], 0, 9999)
	return true
}

func exitLevel(l *Level, act *Activator, a *SpecialArgs) bool {
	if l.Exited {
		return false
	}
	l.Exited = true
	if act.Actor != nil && act.Actor.Player != nil {
		act.Actor.Player.Exiting = true
	}
	l.Host.ExitLevel(act.Actor)
	return true
}

func dyeActor(l *Level, act *Activator, a *SpecialArgs) bool {
	if !needActor(act, a) {
		return false
	}
	act.Actor.Color = a.Args[0]
	return true
}

func levelFailure(l *Level, act *Activator, a *SpecialArgs) bool {
	l.Failed = true
	return true
}
