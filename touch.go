package sectorfx

// touchingPlane applies a sector's plane policy to a floor and ceiling
// height. Unflipped actors touch the floor, flipped ones the ceiling, and
// headbump sectors accept either.
func touchingPlane(a *Actor, policy *Sector, floorZ, ceilingZ float64) bool {
	headbump := policy.Flags&SectorHeadbump != 0
	floorOK := policy.specialFloor() && (headbump || !a.Flipped()) && a.Z == floorZ
	ceilingOK := policy.specialCeiling() && (headbump || a.Flipped()) && a.Top() == ceilingZ
	return floorOK || ceilingOK
}

// IsTouchingSectorPlane reports whether the actor rests on the plane(s) the
// sector's flags select.
func (l *Level) IsTouchingSectorPlane(a *Actor, s *Sector) bool {
	return touchingPlane(a, s, s.FloorHeight, s.CeilingHeight)
}

// IsTouchingFOF applies the touch policy of policy (usually the FOF's
// control sector) to f. Solid FOFs must be stood on (or bumped from below);
// water and intangible FOFs count whenever the actor overlaps their volume.
func (l *Level) IsTouchingFOF(a *Actor, f *FOF, policy *Sector) bool {
	if !f.Exists() {
		return false
	}
	if policy == nil {
		policy = f.Control
	}
	if f.IsSolidFor(a) {
		// The FOF's top is a floor to the actor and its bottom a ceiling.
		return touchingPlane(a, policy, f.Top(), f.Bottom())
	}
	return l.IsInsideFOF(a, f)
}

// IsInsideFOF reports whether the actor's height range meets the FOF's.
func (l *Level) IsInsideFOF(a *Actor, f *FOF) bool {
	return a.Z <= f.Top() && a.Top() >= f.Bottom()
}

// ActivationAllowed reports whether the actor's class may use an action of
// kind under mask.
func ActivationAllowed(a *Actor, mask ActivationFlags, kind ActivationKind) bool {
	if a == nil {
		return false
	}
	return mask.Allows(kind, a.Class())
}

// TriggererAllowed reports whether the actor may set off the sector's
// trigger tag at all.
func TriggererAllowed(s *Sector, a *Actor) bool {
	switch s.Triggerer {
	case TriggerByMobj:
		return true
	case TriggerByPlayer, TriggerByAllPlayers:
		return a.Player != nil
	}
	return false
}

// actorInTriggerArea reports whether the actor is where s's trigger tag
// applies: inside s itself, or touching one of the FOFs s controls.
func (l *Level) actorInTriggerArea(a *Actor, s *Sector) bool {
	if a.Sector == s.Index {
		if s.Flags&SectorTriggerPlane == 0 || l.IsTouchingSectorPlane(a, s) {
			return true
		}
	}
	for _, f := range s.ControlledFOFs {
		if f.Target.Index == a.Sector && l.IsTouchingFOF(a, f, s) {
			return true
		}
	}
	return false
}

// allPlayersInArea reports whether every live player is in s's trigger
// area. A level without players never satisfies it.
func (l *Level) allPlayersInArea(s *Sector) bool {
	players := l.Players()
	if len(players) == 0 {
		return false
	}
	for _, p := range players {
		if !l.actorInTriggerArea(p, s) {
			return false
		}
	}
	return true
}

// triggerSectors returns the sectors whose trigger tag is tag, in index
// order.
func (l *Level) triggerSectors(tag int) []*Sector {
	var result []*Sector
	if tag == 0 {
		return result
	}
	for i := range l.Sectors {
		if l.Sectors[i].TriggerTag == tag {
			result = append(result, &l.Sectors[i])
		}
	}
	return result
}

// ResolveFloorCeiling finds the surfaces bounding the actor: its sector's
// planes, narrowed by every solid FOF. An FOF straddled by the actor becomes
// a floor when the actor's feet are closer to the FOF's middle than its head
// is, and a ceiling otherwise.
func (l *Level) ResolveFloorCeiling(a *Actor) {
	s := l.actorSector(a)
	if s == nil {
		return
	}
	a.FloorZ, a.CeilingZ = s.FloorHeight, s.CeilingHeight
	a.FloorFOF, a.CeilingFOF = nil, nil

	for _, f := range s.FFloors {
		if !f.Exists() || !f.IsSolidFor(a) {
			continue
		}
		top, bottom := f.Top(), f.Bottom()
		mid := bottom + (top-bottom)/2
		feet := abs(a.Z - mid)
		head := abs(a.Top() - mid)

		if top > a.FloorZ && feet < head && f.Flags&FFReversePlatform == 0 {
			a.FloorZ = top
			a.FloorFOF = f
		}
		if bottom < a.CeilingZ && feet >= head && f.Flags&FFPlatform == 0 {
			a.CeilingZ = bottom
			a.CeilingFOF = f
		}
	}
}
