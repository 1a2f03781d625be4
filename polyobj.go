package sectorfx

import "github.com/jakecoffman/cp"

// Polyobject line special marking the first line of a polyobject.
const polyobjectFirstLine = 20

type PolyFlags int

const (
	PolyInvisible PolyFlags = 1 << iota
	PolyIntangible
	PolyTouchTrigger  // runs TriggerTag when an actor stands on it
	PolyInsideTrigger // runs TriggerTag when an actor is inside it
	PolyTranslucent
)

// Polyobject is the trigger surface of a rigid group of lines. Its motion is
// owned by the host; the engine only reads its outline and heights and
// changes its visibility.
type Polyobject struct {
	Index      int
	ID         int
	Parent     int
	Lines      []*Line
	Vertices   []cp.Vector // closed outline in line order
	BB         cp.BB
	Sector     *Sector // supplies top (ceiling) and bottom (floor)
	Flags      PolyFlags
	SpawnFlags PolyFlags
	TriggerTag int
	Alpha      int
	FadingData ThinkerRef
}

func (po *Polyobject) Top() float64 {
	return po.Sector.CeilingHeight
}

func (po *Polyobject) Bottom() float64 {
	return po.Sector.FloorHeight
}

// UpdateBounds recomputes the outline and bounding box from the lines. The
// host calls it after moving the polyobject.
func (po *Polyobject) UpdateBounds() {
	po.Vertices = po.Vertices[:0]
	for i, li := range po.Lines {
		v := cp.Vector{X: li.V1.X, Y: li.V1.Y}
		if i == 0 {
			po.BB = cp.BB{L: v.X, B: v.Y, R: v.X, T: v.Y}
		}
		po.Vertices = append(po.Vertices, v)
		po.BB = po.BB.Expand(v)
		po.BB = po.BB.Expand(cp.Vector{X: li.V2.X, Y: li.V2.Y})
	}
}

// contains tests a point against the outline with the even-odd rule.
func (po *Polyobject) contains(p cp.Vector) bool {
	if !po.BB.ContainsVect(p) {
		return false
	}
	inside := false
	n := len(po.Vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := po.Vertices[i], po.Vertices[j]
		if (a.Y > p.Y) == (b.Y > p.Y) {
			continue
		}
		if p.X < a.X+(p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y) {
			inside = !inside
		}
	}
	return inside
}

// overlaps reports whether the actor's box crosses an edge of the outline or
// the actor stands inside it.
func (po *Polyobject) overlaps(a *Actor) bool {
	box := actorBB(a)
	if !po.BB.Intersects(box) {
		return false
	}
	for _, li := range po.Lines {
		if box.IntersectsSegment(cp.Vector{X: li.V1.X, Y: li.V1.Y}, cp.Vector{X: li.V2.X, Y: li.V2.Y}) {
			return true
		}
	}
	return po.contains(cp.Vector{X: a.X, Y: a.Y})
}

func actorBB(a *Actor) cp.BB {
	return cp.NewBBForExtents(cp.Vector{X: a.X, Y: a.Y}, a.Radius, a.Radius)
}

// IsTouchingPolyobj reports whether the actor rests on the polyobject's top
// (or, flipped, against its bottom) while overlapping it.
func (l *Level) IsTouchingPolyobj(a *Actor, po *Polyobject) bool {
	if po.Flags&PolyIntangible != 0 || !po.overlaps(a) {
		return false
	}
	if a.Flipped() {
		return a.Top() == po.Bottom()
	}
	return a.Z == po.Top()
}

// IsInsidePolyobj reports whether the actor's centre is within the outline
// and its height range meets the polyobject's.
func (l *Level) IsInsidePolyobj(a *Actor, po *Polyobject) bool {
	if !po.contains(cp.Vector{X: a.X, Y: a.Y}) {
		return false
	}
	return a.Z <= po.Top() && a.Top() >= po.Bottom()
}

// PolyobjByID returns the polyobject with the given id.
func (l *Level) PolyobjByID(id int) (*Polyobject, bool) {
	for _, po := range l.Polyobjs {
		if po.ID == id {
			return po, true
		}
	}
	return nil, false
}

// spawnPolyobject builds a polyobject from its first line. Its lines are the
// loop of lines facing the same sector, chained vertex to vertex.
func (l *Level) spawnPolyobject(first *Line) {
	id := first.Args[0]
	if _, dup := l.PolyobjByID(id); dup {
		warnf("polyobject %d declared twice, line %d ignored", id, first.Index)
		return
	}
	if first.FrontSector == nil {
		warnf("polyobject %d: line %d has no front sector", id, first.Index)
		return
	}

	lines := []*Line{first}
	cur := first
	for len(lines) <= len(first.FrontSector.Lines) {
		var next *Line
		for _, li := range first.FrontSector.Lines {
			if li != cur && li.FrontSector == first.FrontSector && li.V1 == cur.V2 {
				next = li
				break
			}
		}
		if next == nil || next == first {
			break
		}
		lines = append(lines, next)
		cur = next
	}
	if cur.V2 != first.V1 {
		warnf("polyobject %d: outline from line %d is not closed", id, first.Index)
	}

	alpha := first.Args[2]
	if alpha <= 0 {
		alpha = 255
	}
	po := &Polyobject{
		Index:      len(l.Polyobjs),
		ID:         id,
		Parent:     first.Args[1],
		Lines:      lines,
		Sector:     first.FrontSector,
		Flags:      PolyFlags(first.Args[3]),
		TriggerTag: first.Args[4],
		Alpha:      clamp(alpha, 0, 255),
	}
	if po.Alpha < 255 {
		po.Flags |= PolyTranslucent
	}
	po.SpawnFlags = po.Flags
	po.UpdateBounds()
	l.Polyobjs = append(l.Polyobjs, po)
}

// PolyFader fades a polyobject's alpha, settling its visibility and
// collision when done.
type PolyFader struct {
	Poly     int       `yaml:"poly"`
	Source   int       `yaml:"source"`
	Dest     int       `yaml:"dest"`
	Speed    int       `yaml:"speed"`
	TicBased bool      `yaml:"ticbased"`
	Timer    int       `yaml:"timer"`
	Options  FadeFlags `yaml:"options"`
}

func (d *PolyFader) Kind() ThinkerKind { return KindPolyFader }

func (d *PolyFader) Think(l *Level, self ThinkerRef) {
	if d.Poly < 0 || d.Poly >= len(l.Polyobjs) || l.Polyobjs[d.Poly].FadingData != self {
		l.Thinkers.Remove(self)
		return
	}
	po := l.Polyobjs[d.Poly]

	done := false
	if d.TicBased {
		d.Timer--
		if d.Timer <= 0 {
			done = true
		} else {
			step := ticStep(d.Source, d.Dest, d.Speed, d.Timer)
			if d.Dest < d.Source {
				po.Alpha = max(d.Source-step, d.Dest)
			} else {
				po.Alpha = min(d.Source+step, d.Dest)
			}
		}
	} else {
		if po.Alpha > d.Dest {
			po.Alpha = max(po.Alpha-d.Speed, d.Dest)
		} else {
			po.Alpha = min(po.Alpha+d.Speed, d.Dest)
		}
		done = po.Alpha == d.Dest
	}

	if !done {
		if d.Options.doExists() {
			po.Flags &^= PolyInvisible
		}
		if d.Options.doTranslucent() {
			po.Flags |= PolyTranslucent
		}
		if d.Options.ghost() {
			po.Flags |= PolyIntangible
		}
		return
	}

	po.Alpha = d.Dest
	settlePolyFlags(po, d.Options)
	po.FadingData = ThinkerRef{}
	l.Thinkers.Remove(self)
}

func settlePolyFlags(po *Polyobject, opts FadeFlags) {
	if opts.doExists() {
		if po.Alpha <= 0 {
			po.Flags |= PolyInvisible
		} else {
			po.Flags &^= PolyInvisible
		}
	}
	if opts.doTranslucent() {
		if po.Alpha >= 255 {
			po.Flags &^= PolyTranslucent
		} else {
			po.Flags |= PolyTranslucent
		}
	}
	if opts.doCollision() {
		if po.Alpha <= 0 {
			po.Flags |= PolyIntangible
		} else {
			po.Flags = po.Flags&^PolyIntangible | po.SpawnFlags&PolyIntangible
		}
	}
}

// FadePoly starts fading po toward dest, replacing any running fade only
// when opts has FadeOverride.
func (l *Level) FadePoly(po *Polyobject, dest, speed int, opts FadeFlags) bool {
	if opts&FadeRelative != 0 {
		dest += po.Alpha
	}
	dest = clamp(dest, 0, 255)
	if l.Thinkers.Valid(po.FadingData) {
		if opts&FadeOverride == 0 {
			return false
		}
		l.Thinkers.Remove(po.FadingData)
		po.FadingData = ThinkerRef{}
	}
	if speed < 1 || po.Alpha == dest {
		po.Alpha = dest
		settlePolyFlags(po, opts)
		return true
	}
	d := &PolyFader{Poly: po.Index, Source: po.Alpha, Dest: dest, Speed: speed, Options: opts}
	if opts&FadeTicBased != 0 {
		d.TicBased = true
		d.Timer = speed
	}
	po.FadingData = l.Thinkers.Add(CategoryMain, d)
	return true
}
