package sectorfx

import (
	"fmt"
	"math"
)

// Level is the running state of one map. Every engine entry point hangs off
// it, so several levels can run side by side.
type Level struct {
	Name         string
	Things       []Thing
	Vertexes     []Vertex
	Sides        []Side
	Lines        []Line
	Sectors      []Sector
	LineSegments []LineSegment
	SubSectors   []SubSector
	Nodes        []Node
	RootNode     *Node

	FOFs     []*FOF
	Actors   []*Actor
	Polyobjs []*Polyobject

	Thinkers Scheduler
	Random   *Random
	Config   Config
	Host     Host
	Scripts  ScriptHost
	Globals  Globals
	Tic      int
	Gravity  float64

	// Presentation state owned by executors
	Music       string
	Sky         int
	Weather     int
	Failed      bool
	Exited      bool
	ViewOffsets []Point // quake offset per player number

	sectorTags tagIndex
	lineTags   tagIndex
	loaded     bool
}

type Thing struct {
	X, Y    int
	Z       int // height above the floor, from the upper bits of the flags
	Angle   float64
	Type    int
	Options int
}

func newLevel(cfg Config, host Host) *Level {
	if host == nil {
		host = NopHost{}
	}
	return &Level{
		Config:  cfg,
		Host:    host,
		Random:  NewRandom(cfg.Seed),
		Gravity: cfg.Gravity,
	}
}

// sector returns the sector at index i.
func (l *Level) sector(i int) (*Sector, bool) {
	if i < 0 || i >= len(l.Sectors) {
		return nil, false
	}
	return &l.Sectors[i], true
}

func (l *Level) line(i int) (*Line, bool) {
	if i < 0 || i >= len(l.Lines) {
		return nil, false
	}
	return &l.Lines[i], true
}

// setReferences adds pointers to all level assets
func (l *Level) setReferences() error {
	logger.Println("Setting references ...")

	// Sides
	for i := range l.Sides {
		sn := l.Sides[i].SectorNum
		if sn < 0 || sn >= len(l.Sectors) {
			return fmt.Errorf("sectorfx: side %d references missing sector %d", i, sn)
		}
		l.Sides[i].Sector = &l.Sectors[sn]
	}

	// Lines - dependent on Sides
	for i := range l.Lines {
		li := &l.Lines[i] // Point to element
		li.Index = i
		if li.V1Num < 0 || li.V1Num >= len(l.Vertexes) || li.V2Num < 0 || li.V2Num >= len(l.Vertexes) {
			return fmt.Errorf("sectorfx: line %d references missing vertex", i)
		}
		li.V1 = l.Vertexes[li.V1Num]
		li.V2 = l.Vertexes[li.V2Num]
		li.DX = li.V2.X - li.V1.X
		li.DY = li.V2.Y - li.V1.Y
		li.SideR, li.SideL = nil, nil
		li.FrontSector, li.BackSector = nil, nil
		if li.SideRNum >= 0 && li.SideRNum < len(l.Sides) { // -1 means no Side
			li.SideR = &l.Sides[li.SideRNum]
			li.FrontSector = li.SideR.Sector
		}
		if li.SideLNum >= 0 && li.SideLNum < len(l.Sides) {
			li.SideL = &l.Sides[li.SideLNum]
			li.BackSector = li.SideL.Sector
		}

		// Set slope type
		if li.DX == 0 {
			li.SlopeType = SlopeTypeVertical
		} else if li.DY == 0 {
			li.SlopeType = SlopeTypeHorizontal
		} else if (li.DY / li.DX) > 0 {
			li.SlopeType = SlopeTypePositive
		} else {
			li.SlopeType = SlopeTypeNegative
		}

		// Set bounding box
		li.BoundingBox.Left = min(li.V1.X, li.V2.X)
		li.BoundingBox.Right = max(li.V1.X, li.V2.X)
		li.BoundingBox.Bottom = min(li.V1.Y, li.V2.Y)
		li.BoundingBox.Top = max(li.V1.Y, li.V2.Y)
	}

	// Line Segments
	for i := range l.LineSegments {
		s := &l.LineSegments[i] // Point to element
		s.V1 = l.Vertexes[s.V1Num]
		s.V2 = l.Vertexes[s.V2Num]
		s.Line = &l.Lines[s.LineNum]
		if s.IsSideL {
			s.Side = s.Line.SideL
			s.BackSector = s.Line.FrontSector
		} else {
			s.Side = s.Line.SideR
			s.BackSector = s.Line.BackSector
		}
		if s.Side != nil {
			s.FrontSector = s.Side.Sector
		}
	}

	// SubSectors
	for i := range l.SubSectors {
		s := &l.SubSectors[i] // Point to element
		s.LineSegments = s.LineSegments[:0]
		for j := s.StartLineSegment; j < (s.StartLineSegment+s.numLineSegments) && j < len(l.LineSegments); j++ {
			s.LineSegments = append(s.LineSegments, l.LineSegments[j])
		}
		if len(s.LineSegments) > 0 {
			s.Sector = s.LineSegments[0].FrontSector
		}
	}

	// Nodes
	l.RootNode = nil
	if len(l.Nodes) > 0 {
		l.RootNode = &l.Nodes[len(l.Nodes)-1]
	}
	for i := range l.Nodes {
		n := &l.Nodes[i] // Point to element
		n.ChildR = l.bspChild(n.ChildNumR)
		n.ChildL = l.bspChild(n.ChildNumL)
	}

	// Sectors
	for i := range l.Sectors {
		s := &l.Sectors[i] // Point to element
		s.Index = i
		s.Lines = s.Lines[:0]
	}
	bboxes := make([]BoundBox, len(l.Sectors))
	for i := range bboxes {
		bboxes[i] = *newBBox()
	}
	for j := range l.Lines {
		li := &l.Lines[j]
		for _, s := range []*Sector{li.FrontSector, li.BackSector} {
			if s == nil {
				continue
			}
			if n := len(s.Lines); n > 0 && s.Lines[n-1] == li {
				continue // both sides in the same sector
			}
			s.Lines = append(s.Lines, li)
			bboxes[s.Index].add(li.V1)
			bboxes[s.Index].add(li.V2)
		}
	}
	for i := range l.Sectors {
		s := &l.Sectors[i]
		// set the sound origin to the middle of the bounding box
		s.SoundOrigin.X = (bboxes[i].Right + bboxes[i].Left) / 2
		s.SoundOrigin.Y = (bboxes[i].Top + bboxes[i].Bottom) / 2
		s.SoundOrigin.Z = (s.FloorHeight + s.CeilingHeight) / 2
	}

	l.buildTagIndexes()
	return nil
}

func (l *Level) bspChild(num int) BSPMember {
	if num < 0 || num&0x8000 != 0 {
		i := num & math.MaxInt16
		if i < len(l.SubSectors) {
			return &l.SubSectors[i]
		}
		return nil
	}
	if num < len(l.Nodes) {
		return &l.Nodes[num]
	}
	return nil
}

func newBBox() *BoundBox {
	return &BoundBox{
		Left:   math.MaxInt,
		Right:  math.MinInt,
		Bottom: math.MaxInt,
		Top:    math.MinInt,
	}
}

func (b *BoundBox) add(v Vertex) {
	b.Left = min(b.Left, v.X)
	b.Right = max(b.Right, v.X)
	b.Bottom = min(b.Bottom, v.Y)
	b.Top = max(b.Top, v.Y)
}

// PointInSector returns the sector containing (x, y). It walks the BSP when
// the level has nodes and falls back to boundary containment otherwise.
func (l *Level) PointInSector(x, y float64) *Sector {
	if l.RootNode != nil {
		var member BSPMember = l.RootNode
		for member != nil {
			switch m := member.(type) {
			case *Node:
				member = m.Child(m.pointOnSide(x, y))
			case *SubSector:
				if m.Sector != nil {
					return m.Sector
				}
				member = nil
			}
		}
	}
	for i := range l.Sectors {
		if l.sectorContains(&l.Sectors[i], x, y) {
			return &l.Sectors[i]
		}
	}
	return nil
}

// sectorContains casts a ray along +x and counts boundary crossings. Lines
// separating a sector from itself cancel out.
func (l *Level) sectorContains(s *Sector, x, y float64) bool {
	inside := false
	for _, li := range s.Lines {
		if li.FrontSector == li.BackSector {
			continue
		}
		x1, y1, x2, y2 := li.V1.X, li.V1.Y, li.V2.X, li.V2.Y
		if (y1 > y) == (y2 > y) {
			continue
		}
		if x < x1+(y-y1)*(x2-x1)/(y2-y1) {
			inside = !inside
		}
	}
	return inside
}

func (n *Node) pointOnSide(x, y float64) int {
	if n.DX == 0 {
		if x <= n.X {
			return btoi(n.DY > 0)
		}
		return btoi(n.DY < 0)
	}
	if n.DY == 0 {
		if y <= n.Y {
			return btoi(n.DX < 0)
		}
		return btoi(n.DX > 0)
	}
	left := n.DY * (x - n.X)
	right := (y - n.Y) * n.DX
	if right < left {
		return 0
	}
	return 1
}

// finishLoad wires references and spawns the map's specials. It runs once.
func (l *Level) finishLoad() error {
	if err := l.setReferences(); err != nil {
		return err
	}
	if !l.loaded {
		l.loaded = true
		l.SpawnSpecials()
	}
	return nil
}
