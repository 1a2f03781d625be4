package sectorfx

import "fmt"

// LevelBuilder assembles a level from code instead of a WAD. Geometry is
// added first; Sector and Line return pointers for setting specials before
// Build wires references and spawns the specials.
type LevelBuilder struct {
	level *Level
}

func NewLevelBuilder(cfg Config, host Host) *LevelBuilder {
	return &LevelBuilder{level: newLevel(cfg, host)}
}

// AddSector adds a sector and returns its index. Specials default to
// touching the floor.
func (b *LevelBuilder) AddSector(floor, ceiling float64, tags ...int) int {
	l := b.level
	l.Sectors = append(l.Sectors, Sector{
		Index:         len(l.Sectors),
		FloorHeight:   floor,
		CeilingHeight: ceiling,
		LightLevel:    255,
		Tags:          append(TagList(nil), tags...),
		Flags:         SectorSpecialFloor,
		Gravity:       1,
	})
	return len(l.Sectors) - 1
}

// Sector returns the sector at i for editing. The pointer is only valid until
// the next AddSector.
func (b *LevelBuilder) Sector(i int) *Sector {
	return &b.level.Sectors[i]
}

func (b *LevelBuilder) AddVertex(x, y float64) int {
	b.level.Vertexes = append(b.level.Vertexes, Vertex{X: x, Y: y})
	return len(b.level.Vertexes) - 1
}

// AddLine joins two vertexes. front and back are sector indices, -1 for no
// side. The front side faces right when walking from v1 to v2.
func (b *LevelBuilder) AddLine(v1, v2, front, back int) int {
	l := b.level
	li := Line{
		Index:    len(l.Lines),
		V1Num:    v1,
		V2Num:    v2,
		SideRNum: b.addSide(front),
		SideLNum: b.addSide(back),
		Alpha:    255,
	}
	if back >= 0 {
		li.Flags |= LineTwoSided
	}
	l.Lines = append(l.Lines, li)
	return li.Index
}

func (b *LevelBuilder) addSide(sector int) int {
	if sector < 0 {
		return -1
	}
	b.level.Sides = append(b.level.Sides, Side{SectorNum: sector})
	return len(b.level.Sides) - 1
}

// Line returns the line at i for editing. The pointer is only valid until
// the next AddLine.
func (b *LevelBuilder) Line(i int) *Line {
	return &b.level.Lines[i]
}

// AddPolygon closes a loop of one-sided lines around sector through pts,
// which must run clockwise. It returns the line indices in order.
func (b *LevelBuilder) AddPolygon(sector int, pts ...Vertex) []int {
	if len(pts) < 3 {
		return nil
	}
	first := len(b.level.Vertexes)
	for _, p := range pts {
		b.AddVertex(p.X, p.Y)
	}
	lines := make([]int, len(pts))
	for i := range pts {
		lines[i] = b.AddLine(first+i, first+(i+1)%len(pts), sector, -1)
	}
	return lines
}

// AddBox adds a rectangular sector with the given corners and returns its
// index and the four boundary lines, west side first.
func (b *LevelBuilder) AddBox(x1, y1, x2, y2, floor, ceiling float64, tags ...int) (int, []int) {
	s := b.AddSector(floor, ceiling, tags...)
	x1, x2 = min(x1, x2), max(x1, x2)
	y1, y2 = min(y1, y2), max(y1, y2)
	lines := b.AddPolygon(s, Vertex{x1, y1}, Vertex{x1, y2}, Vertex{x2, y2}, Vertex{x2, y1})
	return s, lines
}

// Build wires the level and spawns its specials. The builder must not be
// used afterwards.
func (b *LevelBuilder) Build() (*Level, error) {
	l := b.level
	if l == nil {
		return nil, fmt.Errorf("sectorfx: builder already used")
	}
	b.level = nil
	if err := l.finishLoad(); err != nil {
		return nil, err
	}
	return l, nil
}
