package sectorfx

// ProcessActorSpecials applies everything the actor's surroundings do to it
// this tic: water and quicksand state, damage and exit sectors, sector,
// FOF and polyobject triggers, bustable and crumbling FOFs.
func (l *Level) ProcessActorSpecials(a *Actor) {
	if a == nil || a.Removed {
		return
	}
	s := l.actorSector(a)
	if s == nil {
		return
	}

	l.updateLiquids(a, s)

	if s.Flags&SectorGravityFlip != 0 && a.Flags&ActorNoGravity == 0 {
		a.EFlags |= ActorVerticalFlip
	}

	if l.IsTouchingSectorPlane(a, s) {
		l.sectorDamage(a, s)
	}
	// Snapshot: triggers may attach or detach FOFs.
	ffloors := append([]*FOF(nil), s.FFloors...)
	for _, f := range ffloors {
		if f.Exists() && l.IsTouchingFOF(a, f, f.Control) {
			l.sectorDamage(a, f.Control)
		}
	}
	if a.Removed {
		return
	}

	if s.TriggerTag != 0 && TriggererAllowed(s, a) && l.actorInTriggerArea(a, s) {
		l.runSectorTrigger(a, s)
	}
	for _, f := range ffloors {
		c := f.Control
		if c.TriggerTag == 0 || !TriggererAllowed(c, a) || !l.IsTouchingFOF(a, f, c) {
			continue
		}
		l.runSectorTrigger(a, c)
	}

	for _, po := range l.Polyobjs {
		if po.TriggerTag == 0 {
			continue
		}
		touch := po.Flags&PolyTouchTrigger != 0 && l.IsTouchingPolyobj(a, po)
		inside := po.Flags&PolyInsideTrigger != 0 && l.IsInsidePolyobj(a, po)
		if touch || inside {
			l.RunTag(po.TriggerTag, a, po.Sector)
		}
	}

	if l.Globals.Bustable {
		for _, f := range ffloors {
			if f.Exists() && f.Flags&FFBustUp != 0 && canBust(a, f) {
				l.bustFOF(f, a)
			}
		}
	}
	if l.Globals.Crumble && a.Player != nil {
		for _, f := range ffloors {
			if f.Exists() && f.Flags&FFCrumble != 0 && standingOn(a, f) {
				flags := CrumbleReturns
				if f.Flags&FFNoReturn != 0 {
					flags = 0
				}
				if f.Flags&FFFloatBob != 0 {
					flags |= CrumbleFloats
				}
				l.StartCrumble(f, flags)
			}
		}
	}
}

func (l *Level) runSectorTrigger(a *Actor, s *Sector) {
	if s.Triggerer == TriggerByAllPlayers && !l.allPlayersInArea(s) {
		return
	}
	l.RunTag(s.TriggerTag, a, s)
}

// updateLiquids recomputes the actor's water and quicksand flags.
func (l *Level) updateLiquids(a *Actor, s *Sector) {
	a.EFlags &^= ActorUnderwater | ActorTouchWater | ActorInQuicksand | ActorGoowater
	if !l.Globals.Water && !l.Globals.Quicksand {
		return
	}
	for _, f := range s.FFloors {
		if !f.Exists() || !l.IsInsideFOF(a, f) {
			continue
		}
		if f.Flags&FFSwimmable != 0 {
			a.EFlags |= ActorTouchWater
			if mid := a.Z + a.Height/2; mid < f.Top() && mid > f.Bottom() {
				a.EFlags |= ActorUnderwater
			}
			if f.Flags&FFGoowater != 0 {
				a.EFlags |= ActorGoowater
			}
		}
		if f.Flags&FFQuicksand != 0 {
			a.EFlags |= ActorInQuicksand
		}
	}
}

// sectorDamage hands the damage and exit effects of special to the host.
func (l *Level) sectorDamage(a *Actor, special *Sector) {
	if kind := special.DamageKind(); kind != DamageNone {
		l.Host.DamageActor(a, special, kind)
	}
	if special.IsExit() && a.Player != nil && !a.Player.Exiting {
		a.Player.Exiting = true
		l.Host.ExitLevel(a)
	}
}

func standingOn(a *Actor, f *FOF) bool {
	if a.Flipped() {
		return a.Top() == f.Bottom()
	}
	return a.Z == f.Top()
}

// canBust decides whether the actor breaks a bustable FOF it is next to.
func canBust(a *Actor, f *FOF) bool {
	if a.Z > f.Top() || a.Top() < f.Bottom() {
		return false
	}
	switch f.BustType {
	case BustTouch:
		return true
	case BustSpin:
		return a.Player != nil && (a.Player.Spinning || a.Player.Strong)
	case BustRegular:
		return a.Player != nil && a.Player.Strong && (a.Z == f.Top() || a.Top() == f.Bottom())
	case BustStrong:
		return a.Player != nil && a.Player.Strong
	}
	return false
}

// bustFOF breaks f and runs its bust tag.
func (l *Level) bustFOF(f *FOF, a *Actor) {
	if !f.Exists() {
		return
	}
	f.Flags &^= FFExists
	f.Target.Moved = true
	l.Host.StartSound(f.Target, nil, "bust")
	if f.BustTag != 0 {
		l.RunTag(f.BustTag, a, f.Control)
	}
}

// activateLine runs a line action if the actor's class may use it through
// kind. Actions without the repeat flag clear themselves once they fire.
func (l *Level) activateLine(li *Line, side int, a *Actor, kind ActivationKind) bool {
	if li == nil || li.Special == 0 || a == nil || a.Removed {
		return false
	}
	if !ActivationAllowed(a, li.Activation, kind) {
		return false
	}
	act := Activator{Actor: a, Line: li, Side: side, Sector: l.actorSector(a)}
	fired := l.Execute(&act, li.Special, li.Args, li.StringArgs)
	if fired && li.Activation&RepeatSpecial == 0 {
		li.Special = 0
	}
	return fired
}

// CrossSpecialLine is called by the host when an actor crosses a line. side
// is the side the actor came from.
func (l *Level) CrossSpecialLine(li *Line, side int, a *Actor) bool {
	return l.activateLine(li, side, a, ActivateCross)
}

// PushSpecialLine is called by the host when an actor pushes against a line.
func (l *Level) PushSpecialLine(li *Line, side int, a *Actor) bool {
	return l.activateLine(li, side, a, ActivatePush)
}

// EnterSector runs the sector's action when an actor enters it. Only
// players set it off unless the sector accepts any actor.
func (l *Level) EnterSector(a *Actor, s *Sector) bool {
	if s == nil || s.Action == 0 || a == nil || a.Removed {
		return false
	}
	if !TriggererAllowed(s, a) {
		return false
	}
	act := Activator{Actor: a, Sector: s}
	return l.Execute(&act, s.Action, s.Args, s.StringArgs)
}
