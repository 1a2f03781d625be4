package sectorfx

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// RunTag runs every trigger line carrying tag, in line index order. Each
// line whose condition holds fires the executors around its front sector.
// Each-time and level-load triggers are skipped; they fire from their own
// thinkers. The scan stops at the first sector that is not closed.
func (l *Level) RunTag(tag int, actor *Actor, caller *Sector) bool {
	if tag == 0 {
		return false
	}
	fired := false
	// LinesByTag returns a fresh slice, so executors may retag lines freely.
	for _, li := range l.LinesByTag(tag) {
		if !isTriggerSpecial(li.Special) || li.Special == TriggerLevelLoad {
			continue
		}
		switch TriggerPolicy(li.Args[0]) {
		case TriggerEachTime, TriggerEachTimeEnterExit:
			continue
		}
		ok, err := l.runTrigger(li, actor, caller)
		if err != nil {
			return fired
		}
		fired = fired || ok
	}
	return fired
}

// RunTriggerLine runs one trigger line regardless of its policy.
func (l *Level) RunTriggerLine(li *Line, actor *Actor, caller *Sector) bool {
	ok, _ := l.runTrigger(li, actor, caller)
	return ok
}

func (l *Level) runTrigger(li *Line, actor *Actor, caller *Sector) (bool, error) {
	if !isTriggerSpecial(li.Special) {
		return false, nil
	}
	if li.firing {
		logger.Printf("Trigger line %d (tag %d): executors reached their own trigger, ignoring", li.Index, li.Tag())
		return false, nil
	}
	if !l.triggerCondition(li, actor, caller) {
		return false, nil
	}

	// Spend the trigger before its executors run, so a chain leading back to
	// this tag finds it disarmed.
	special, count := li.Special, li.CallCount
	switch {
	case li.Special == TriggerCallCount:
		if li.Args[2] != 0 {
			li.CallCount = li.Args[1]
		} else {
			li.Special = 0
		}
	case TriggerPolicy(li.Args[0]) == TriggerOnce:
		li.Special = 0
	}

	li.firing = true
	err := l.fireExecutors(li, actor, caller)
	li.firing = false
	if err != nil {
		li.Special, li.CallCount = special, count
		logger.Printf("Trigger line %d (tag %d): %v", li.Index, li.Tag(), err)
		return false, err
	}
	return true, nil
}

// triggerCondition evaluates the per-type condition of a trigger line.
func (l *Level) triggerCondition(li *Line, actor *Actor, caller *Sector) bool {
	switch li.Special {
	case TriggerRingCount:
		rings := 0
		if li.Args[3] != 0 {
			for _, p := range l.Players() {
				rings += p.Player.Rings
			}
		} else {
			if actor == nil || actor.Player == nil {
				return false
			}
			rings = actor.Player.Rings
		}
		return compare(rings, li.Args[1], li.Args[2])
	case TriggerGametype:
		return li.Args[1]&(1<<l.Config.Gametype) != 0
	case TriggerPushables:
		if caller == nil {
			return false
		}
		count := 0
		for _, a := range l.Actors {
			if !a.Removed && a.Flags&ActorPushable != 0 && a.Sector == caller.Index {
				count++
			}
		}
		return compare(count, li.Args[1], li.Args[2])
	case TriggerUnlockable:
		return l.Host.Unlocked(li.Args[1]) != (li.Args[2] != 0)
	case TriggerCallCount:
		// The counter only runs down on calls that got this far.
		if li.CallCount > 0 {
			li.CallCount--
		}
		return li.CallCount <= 0
	case TriggerSkin:
		if actor == nil || actor.Player == nil {
			return false
		}
		return (actor.Player.Skin == li.StringArgs[0]) != (li.Args[1] != 0)
	case TriggerDye:
		if actor == nil {
			return false
		}
		return (actor.Color == li.Args[1]) != (li.Args[2] != 0)
	case TriggerGravity:
		if actor == nil {
			return false
		}
		return actor.Flipped() == (li.Args[1] != 0)
	}
	return true
}

// fireExecutors runs the executor lines of the trigger's front sector. By
// default they run in the order met walking the sector's boundary from the
// trigger line; with args[9] set they run in the sector's line order.
func (l *Level) fireExecutors(trigger *Line, actor *Actor, caller *Sector) error {
	ctrl := trigger.FrontSector
	if ctrl == nil {
		return nil
	}
	if trigger.Args[9] != 0 {
		lines := append([]*Line(nil), ctrl.Lines...)
		for _, li := range lines {
			l.fireExecutor(li, actor, caller)
		}
		return nil
	}
	order, err := l.sectorLoop(ctrl, trigger)
	if err != nil {
		return err
	}
	for _, li := range order {
		l.fireExecutor(li, actor, caller)
	}
	return nil
}

func (l *Level) fireExecutor(li *Line, actor *Actor, caller *Sector) {
	if !isExecutorSpecial(li.Special) {
		return
	}
	if li.ExecutorDelay > 0 {
		l.addExecutorDelay(li, actor, caller)
		return
	}
	l.processLineSpecial(li, actor, caller)
}

// sectorLoop walks s's boundary starting at start, following shared
// vertices and turning around where a neighbour runs the other way. It
// returns the lines met after start, in order, up to the return to start.
func (l *Level) sectorLoop(s *Sector, start *Line) ([]*Line, error) {
	lines := s.Lines
	i := slices.Index(lines, start)
	if i < 0 {
		return nil, fmt.Errorf("line %d is not linked into sector %d", start.Index, s.Index)
	}
	master := i
	backwards := false
	var order []*Line

	for steps := 0; ; steps++ {
		cur := lines[i]
		vertex := cur.V2Num
		if backwards {
			vertex = cur.V1Num
		}
		next := -1
		for j, li := range lines {
			if j == i {
				continue
			}
			if li.V1Num == vertex {
				next, backwards = j, false
				break
			}
			if li.V2Num == vertex {
				next, backwards = j, true
				break
			}
		}
		if next < 0 || steps > len(lines) {
			v := l.Vertexes[vertex]
			logger.Printf("Sector %d is not closed at vertex %d (%v, %v)", s.Index, vertex, v.X, v.Y)
			return nil, fmt.Errorf("sector %d: %w", s.Index, ErrSectorNotClosed)
		}
		i = next
		if i == master {
			return order, nil
		}
		order = append(order, lines[i])
	}
}

// ExecutorDelay fires an executor line after a delay.
type ExecutorDelay struct {
	Line   int `yaml:"line"`
	Actor  int `yaml:"actor"`  // -1 when there was no activator
	Caller int `yaml:"caller"` // -1 when there was no calling sector
	Timer  int `yaml:"timer"`
}

func (e *ExecutorDelay) Kind() ThinkerKind { return KindExecutorDelay }

func (e *ExecutorDelay) Think(l *Level, self ThinkerRef) {
	li, ok := l.line(e.Line)
	if !ok {
		l.Thinkers.Remove(self)
		return
	}
	e.Timer--
	if e.Timer > 0 {
		return
	}
	l.Thinkers.Remove(self)
	actor, _ := l.actor(e.Actor)
	caller, _ := l.sector(e.Caller)
	l.processLineSpecial(li, actor, caller)
}

func (l *Level) addExecutorDelay(li *Line, actor *Actor, caller *Sector) ThinkerRef {
	e := &ExecutorDelay{Line: li.Index, Actor: -1, Caller: -1, Timer: li.ExecutorDelay}
	if actor != nil {
		e.Actor = actor.Index
	}
	if caller != nil {
		e.Caller = caller.Index
	}
	return l.Thinkers.Add(CategoryMain, e)
}

// EachTime watches the trigger areas of one each-time line and fires it
// whenever an actor enters an area, and also when one leaves if OnExit is
// set. An actor staying inside does not fire it again.
type EachTime struct {
	Line   int          `yaml:"line"`
	OnExit bool         `yaml:"onexit"`
	InArea map[int]bool `yaml:"inarea"` // actor index -> inside last tic
}

func (e *EachTime) Kind() ThinkerKind { return KindEachTime }

func (e *EachTime) Think(l *Level, self ThinkerRef) {
	li, ok := l.line(e.Line)
	if !ok || !isTriggerSpecial(li.Special) {
		l.Thinkers.Remove(self)
		return
	}

	now := map[int]bool{}
	callers := map[int]*Sector{}
	for _, s := range l.triggerSectors(li.Tag()) {
		for _, a := range l.Actors {
			if a.Removed || now[a.Index] || !TriggererAllowed(s, a) {
				continue
			}
			if l.actorInTriggerArea(a, s) {
				now[a.Index] = true
				callers[a.Index] = s
			}
		}
	}

	old := e.InArea
	e.InArea = now

	changed := maps.Keys(now)
	for i := range old {
		if !now[i] {
			changed = append(changed, i)
		}
	}
	slices.Sort(changed)

	for _, i := range changed {
		if old[i] == now[i] {
			continue
		}
		if !now[i] && !e.OnExit {
			continue
		}
		a, ok := l.actor(i)
		if !ok {
			continue
		}
		caller := callers[i]
		if caller != nil && caller.Triggerer == TriggerByAllPlayers && !l.allPlayersInArea(caller) {
			continue
		}
		l.RunTriggerLine(li, a, caller)
		if li.Special == 0 {
			l.Thinkers.Remove(self)
			return
		}
	}
}

// forget drops what is remembered about a removed actor.
func (e *EachTime) forget(actor int) {
	delete(e.InArea, actor)
}

func (l *Level) addEachTime(li *Line) ThinkerRef {
	return l.Thinkers.Add(CategoryMain, &EachTime{
		Line:   li.Index,
		OnExit: TriggerPolicy(li.Args[0]) == TriggerEachTimeEnterExit,
		InArea: map[int]bool{},
	})
}
