package sectorfx

import (
	"fmt"
	"sort"
)

// Activator says who or what caused a special to run. It lives for one
// Execute call and is never stored.
type Activator struct {
	Actor   *Actor
	Line    *Line
	Side    int // 0 front, 1 back
	Sector  *Sector
	Polyobj *Polyobject
}

// SpecialArgs is the argument vector a special runs with.
type SpecialArgs struct {
	Code       int
	Args       [NumArgs]int
	StringArgs [NumStringArgs]string
}

type argKind int

const (
	argSectorTag argKind = iota + 1
	argLineTag
	argPolyID
	argString
)

// argSpec declares one argument a special resolves. Zero tags pass when
// ZeroOK is set; the handler then falls back to the activator.
type argSpec struct {
	Index  int
	Kind   argKind
	ZeroOK bool
}

type specialHandler func(l *Level, act *Activator, a *SpecialArgs) bool

type specialVariant struct {
	Code    int
	Name    string
	Schema  []argSpec
	Handler specialHandler
}

var specialTable = map[int]*specialVariant{}

func registerSpecials(variants ...*specialVariant) {
	for _, v := range variants {
		if _, dup := specialTable[v.Code]; dup {
			panic(fmt.Sprintf("sectorfx: special %d registered twice", v.Code))
		}
		specialTable[v.Code] = v
	}
}

// tagArg and friends keep the registration tables short.
func tagArg(i int) argSpec       { return argSpec{Index: i, Kind: argSectorTag} }
func tagOrZeroArg(i int) argSpec { return argSpec{Index: i, Kind: argSectorTag, ZeroOK: true} }
func lineTagArg(i int) argSpec   { return argSpec{Index: i, Kind: argLineTag} }
func polyArg(i int) argSpec      { return argSpec{Index: i, Kind: argPolyID} }
func stringArg(i int) argSpec    { return argSpec{Index: i, Kind: argString} }

// SpecialName returns the registered name of a code, or "" if unknown.
func SpecialName(code int) string {
	if v, ok := specialTable[code]; ok {
		return v.Name
	}
	return ""
}

// SpecialCodes lists every registered code in ascending order.
func SpecialCodes() []int {
	codes := make([]int, 0, len(specialTable))
	for code := range specialTable {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// Execute runs special code with the given arguments and reports whether it
// took effect. Problems are logged and reported as false; they never stop
// the tic.
func (l *Level) Execute(act *Activator, code int, args [NumArgs]int, stringArgs [NumStringArgs]string) bool {
	v, ok := specialTable[code]
	if !ok {
		logger.Printf("Special %d: %v", code, ErrUnknownSpecial)
		return false
	}
	if l.Config.specialDisabled(code) {
		logger.Printf("Special %d (%s): %v", code, v.Name, ErrSpecialDisabled)
		return false
	}
	if act == nil {
		act = &Activator{}
	}
	a := SpecialArgs{Code: code, Args: args, StringArgs: stringArgs}
	if err := l.validateArgs(v, &a); err != nil {
		logger.Printf("Special %d (%s): %v", code, v.Name, err)
		return false
	}
	return v.Handler(l, act, &a)
}

func (l *Level) validateArgs(v *specialVariant, a *SpecialArgs) error {
	for _, spec := range v.Schema {
		switch spec.Kind {
		case argString:
			if a.StringArgs[spec.Index] == "" {
				return fmt.Errorf("string argument %d: %w", spec.Index, ErrMissingString)
			}
			continue
		case argPolyID:
			if _, ok := l.PolyobjByID(a.Args[spec.Index]); !ok {
				return fmt.Errorf("polyobject %d: %w", a.Args[spec.Index], ErrNoSuchTag)
			}
			continue
		}

		tag := a.Args[spec.Index]
		if tag == 0 && spec.ZeroOK {
			continue
		}
		var found bool
		if spec.Kind == argSectorTag {
			found = len(l.sectorTags.find(tag)) > 0
		} else {
			found = len(l.lineTags.find(tag)) > 0
		}
		if !found {
			return fmt.Errorf("tag %d: %w", tag, ErrNoSuchTag)
		}
	}
	return nil
}

// processLineSpecial runs a line's own special with the line as activator.
func (l *Level) processLineSpecial(li *Line, actor *Actor, caller *Sector) bool {
	act := Activator{Actor: actor, Line: li, Sector: caller}
	return l.Execute(&act, li.Special, li.Args, li.StringArgs)
}

// RunActorAction executes the special carried by an actor, with the actor
// as activator. It is the path thing-attached actions and scripts share.
func (l *Level) RunActorAction(a *Actor) bool {
	if a == nil || a.Special == 0 {
		return false
	}
	act := Activator{Actor: a, Sector: l.actorSector(a)}
	return l.Execute(&act, a.Special, a.Args, a.StringArgs)
}

// sourceSector is the sector whose properties copy specials read: the
// activating line's front sector, else the activating sector.
func (act *Activator) sourceSector() *Sector {
	if act.Line != nil && act.Line.FrontSector != nil {
		return act.Line.FrontSector
	}
	return act.Sector
}

// taggedSectors resolves a sector tag argument, using the activator's sector
// for tag 0.
func (l *Level) taggedSectors(act *Activator, tag int) []*Sector {
	if tag != 0 {
		return l.SectorsByTag(tag)
	}
	if act.Sector != nil {
		return []*Sector{act.Sector}
	}
	if act.Actor != nil {
		if s := l.actorSector(act.Actor); s != nil {
			return []*Sector{s}
		}
	}
	return nil
}

// needActor logs and reports false when a special that acts on its
// activator has none.
func needActor(act *Activator, a *SpecialArgs) bool {
	if act.Actor == nil || act.Actor.Removed {
		logger.Printf("Special %d (%s): no activating actor", a.Code, SpecialName(a.Code))
		return false
	}
	return true
}

func needPlayer(act *Activator, a *SpecialArgs) bool {
	if !needActor(act, a) {
		return false
	}
	if act.Actor.Player == nil {
		logger.Printf("Special %d (%s): activator is not a player", a.Code, SpecialName(a.Code))
		return false
	}
	return true
}

func needSource(act *Activator, a *SpecialArgs) (*Sector, bool) {
	s := act.sourceSector()
	if s == nil {
		logger.Printf("Special %d (%s): no source sector", a.Code, SpecialName(a.Code))
		return nil, false
	}
	return s, true
}
