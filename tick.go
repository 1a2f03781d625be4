package sectorfx

// Tick advances the level by one tic: actor specials in actor order, then
// every thinker, then the script threads.
func (l *Level) Tick() {
	l.Tic++
	l.resetTransients()

	// Actors added by specials this tic are processed from the next one.
	n := len(l.Actors)
	for i := 0; i < n; i++ {
		l.ProcessActorSpecials(l.Actors[i])
	}

	l.Thinkers.Run(l)
	l.finishViews()
	l.settleActors()

	if l.Scripts != nil {
		l.Scripts.Tick()
	}
}

// resetTransients clears per-tic state that forces and counters rebuild.
func (l *Level) resetTransients() {
	for i := range l.Sectors {
		l.Sectors[i].Moved = false
	}
	l.resetViews()
	for _, a := range l.Actors {
		if a.Removed {
			continue
		}
		a.Friction = OrigFriction
		a.MoveFactor = OrigFrictionFactor
		a.EFlags &^= ActorPushed
		if p := a.Player; p != nil {
			if p.NoControl > 0 {
				p.NoControl--
			}
			for i := range p.Powers {
				if p.Powers[i] > 0 {
					p.Powers[i]--
				}
			}
		}
	}
}

// settleActors re-resolves floors and ceilings after thinkers moved planes.
// Actors that were resting on their floor ride it.
func (l *Level) settleActors() {
	for _, a := range l.Actors {
		if a.Removed {
			continue
		}
		wasOnFloor := a.Z == a.FloorZ
		wasOnCeiling := a.Top() == a.CeilingZ
		l.ResolveFloorCeiling(a)
		switch {
		case a.Flipped() && wasOnCeiling:
			a.Z = a.CeilingZ - a.Height
		case !a.Flipped() && wasOnFloor:
			a.Z = a.FloorZ
		}
	}
}
