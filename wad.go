// Package sectorfx runs the dynamic side of Doom-lineage maps: linedef and
// sector specials, fake floors, and the thinkers that animate them.
// Maps are read from WAD archives in the binary map format documented in
// The Unofficial DOOM Specs: http://www.gamers.org/dhs/helpdocs/dmsp1666.html

package sectorfx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"unsafe"
)

// WAD is a struct that represents a data archive that contains level data
// organized as named lumps.
type WAD struct {
	header    *Header
	r         io.ReadSeeker
	closer    io.Closer
	lumpInfos []LumpInfo
	lumpNums  map[string]int
	levels    map[string]int
}

type binHeader struct {
	Magic        [4]byte
	NumLumps     int32
	InfoTableOfs int32
}

type Header struct {
	Magic        string
	NumLumps     int
	InfoTableOfs int
}

type binLumpInfo struct {
	Filepos int32
	Size    int32
	Name    String8
}

type LumpInfo struct {
	Name    string
	Filepos int
	Size    int
}

type binSide struct {
	XOffset       int16
	YOffset       int16
	UpperTexture  String8
	LowerTexture  String8
	MiddleTexture String8
	SectorNum     int16
}

type Side struct {
	XOffset           float64
	YOffset           float64
	UpperTextureName  string
	LowerTextureName  string
	MiddleTextureName string
	SectorNum         int
	Sector            *Sector
}

type Vertex struct {
	X, Y float64
}

type binLineSegment struct {
	V1        int16
	V2        int16
	Angle     int16 // Full circle is -32768 to 32767.
	LineNum   int16
	Direction int16 // 0 - same as linedef, 1 - opposite to linedef
	Offset    int16 // Distance along line to start of segment
}

type LineSegment struct {
	V1Num   int
	V2Num   int
	Angle   float64 // Radians
	LineNum int
	IsSideL bool    // false - same as linedef, true - opposite to linedef
	Offset  float64 // Distance along line to start of segment

	V1          Vertex
	V2          Vertex
	Line        *Line
	Side        *Side
	FrontSector *Sector
	BackSector  *Sector
}

type binSubSector struct {
	NumSegments      int16
	StartLineSegment int16
}

type SubSector struct {
	numLineSegments  int
	StartLineSegment int

	LineSegments []LineSegment
	Sector       *Sector
}

type BoundBox struct {
	Top, Bottom, Left, Right float64
}

type binNode struct {
	X, Y                 int16
	DX, DY               int16
	BBoxR, BBoxL         binBBox
	ChildNumR, ChildNumL int16
}

type Node struct {
	X, Y                 float64
	DX, DY               float64
	BBoxR, BBoxL         BoundBox
	ChildNumR, ChildNumL int
	ChildR, ChildL       BSPMember
}

// Return child for side
func (n *Node) Child(side int) BSPMember {
	if side == 0 {
		return n.ChildR
	}
	return n.ChildL
}

// Return bound box for side
func (n *Node) BoundBox(side int) *BoundBox {
	if side == 0 {
		return &n.BBoxR
	}
	return &n.BBoxL
}

type BSPType int

const (
	BSPNode BSPType = iota
	BSPSubSector
)

type BSPMember interface {
	BSPType() BSPType
}

func (s *SubSector) BSPType() BSPType {
	return BSPSubSector
}

func (s *Node) BSPType() BSPType {
	return BSPNode
}

type binThing struct {
	X       int16
	Y       int16
	Angle   int16
	Type    int16
	Options int16
}

type binVertex struct {
	X, Y int16
}

type binBBox struct {
	Top    int16
	Bottom int16
	Left   int16
	Right  int16
}

// WAD eight-character string type. Null-terminated for short strings.
type String8 [8]byte

// String converts String8 to string
func (s String8) String() string {
	i := bytes.IndexByte(s[:], 0)
	if i == -1 {
		i = len(s)
	}
	return string(s[0:i])
}

// mapLumps are the lumps following a map marker, in any order.
var mapLumps = map[string]bool{
	"THINGS":   true,
	"LINEDEFS": true,
	"SIDEDEFS": true,
	"VERTEXES": true,
	"SEGS":     true,
	"SSECTORS": true,
	"NODES":    true,
	"SECTORS":  true,
	"REJECT":   true,
	"BLOCKMAP": true,
}

// /////////////////////////////////////
// NewWAD reads WAD metadata to memory. It returns a WAD object that
// can be used to read individual levels.
// /////////////////////////////////////
func NewWAD(filename string) (*WAD, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	w, err := NewWADReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	w.closer = file
	return w, nil
}

// NewWADReader reads WAD metadata from r. Both IWAD and PWAD archives are
// accepted.
func NewWADReader(r io.ReadSeeker) (*WAD, error) {
	logger.Println("Start reading WAD")
	wad := &WAD{r: r}

	// Read header
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	var binHeader binHeader
	if err := binary.Read(r, binary.LittleEndian, &binHeader); err != nil {
		return nil, fmt.Errorf("sectorfx: read header: %w", err)
	}
	magic := string(binHeader.Magic[:])
	if magic != "IWAD" && magic != "PWAD" {
		return nil, fmt.Errorf("sectorfx: %w: %q", ErrBadMagic, magic)
	}
	if binHeader.NumLumps < 0 || binHeader.InfoTableOfs < 0 {
		return nil, fmt.Errorf("sectorfx: corrupt header")
	}
	wad.header = &Header{magic, int(binHeader.NumLumps), int(binHeader.InfoTableOfs)}

	// Read info tables
	if err := wad.readInfoTables(); err != nil {
		return nil, err
	}
	logger.Printf("Read %v lumps, %v levels", len(wad.lumpInfos), len(wad.levels))
	return wad, nil
}

// Close releases the file opened by NewWAD.
func (w *WAD) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func (w *WAD) readInfoTables() error {
	if err := w.seek(int64(w.header.InfoTableOfs)); err != nil {
		return err
	}
	lumpNums := map[string]int{}
	levels := map[string]int{}
	lumpInfos := make([]LumpInfo, w.header.NumLumps)
	for i := 0; i < w.header.NumLumps; i++ {
		var binInfo binLumpInfo
		if err := binary.Read(w.r, binary.LittleEndian, &binInfo); err != nil {
			return fmt.Errorf("sectorfx: read lump directory: %w", err)
		}
		lumpInfo := LumpInfo{binInfo.Name.String(), int(binInfo.Filepos), int(binInfo.Size)}
		if lumpInfo.Name == "THINGS" && i > 0 {
			lumpNum := i - 1
			info := lumpInfos[lumpNum]
			levels[info.Name] = lumpNum
		}
		lumpNums[lumpInfo.Name] = i
		lumpInfos[i] = lumpInfo
	}
	w.levels = levels
	w.lumpNums = lumpNums
	w.lumpInfos = lumpInfos
	return nil
}

// LevelNames returns a slice of level names found in the WAD archive.
func (w *WAD) LevelNames() []string {
	result := make([]string, 0, len(w.levels))
	for name := range w.levels {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// ReadLevel reads level data from the WAD archive, converts binary specials
// to argument form and spawns the level's specials.
func (w *WAD) ReadLevel(name string, cfg Config, host Host) (*Level, error) {
	logger.Printf("Reading Level %v ...", name)

	levelIdx, ok := w.levels[name]
	if !ok {
		return nil, fmt.Errorf("sectorfx: level %s: %w", name, ErrLumpNotFound)
	}
	level := newLevel(cfg, host)
	level.Name = name
	var binLines []binLine
	var binSectors []binSector
	for i := levelIdx + 1; i < len(w.lumpInfos) && mapLumps[w.lumpInfos[i].Name]; i++ {
		lumpInfo := w.lumpInfos[i]
		var err error
		switch lumpInfo.Name {
		case "THINGS":
			level.Things, err = w.readThings(&lumpInfo)
		case "SIDEDEFS":
			level.Sides, err = w.readSides(&lumpInfo)
		case "LINEDEFS":
			binLines, err = readLumpAs[binLine](w, &lumpInfo, "lines")
		case "VERTEXES":
			level.Vertexes, err = w.readVertexes(&lumpInfo)
		case "SEGS":
			level.LineSegments, err = w.readLineSegments(&lumpInfo)
		case "SSECTORS":
			level.SubSectors, err = w.readSubSectors(&lumpInfo)
		case "NODES":
			level.Nodes, err = w.readNodes(&lumpInfo)
		case "SECTORS":
			binSectors, err = readLumpAs[binSector](w, &lumpInfo, "sectors")
		default:
			logger.Printf("Skipping lump %s", lumpInfo.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("sectorfx: level %s: lump %s: %w", name, lumpInfo.Name, err)
		}
	}

	// Translate to canonical
	level.Sectors = make([]Sector, len(binSectors))
	for i, s := range binSectors {
		level.Sectors[i] = Sector{
			Index:         i,
			FloorHeight:   float64(s.FloorHeight),
			CeilingHeight: float64(s.CeilingHeight),
			FloorPic:      s.FloorTexture.String(),
			CeilingPic:    s.CeilingTexture.String(),
			LightLevel:    int(s.LightLevel),
			Gravity:       1,
		}
		convertBinarySector(&level.Sectors[i], s)
	}
	level.Lines = make([]Line, len(binLines))
	for i, li := range binLines {
		level.Lines[i] = Line{
			Index:     i,
			V1Num:     int(uint16(li.VertexStart)),
			V2Num:     int(uint16(li.VertexEnd)),
			Flags:     LineFlags(li.Flags),
			SideRNum:  sideNum(li.SideR),
			SideLNum:  sideNum(li.SideL),
			Alpha:     255,
			BlendMode: 0,
		}
	}

	// Conversion reads side offsets, so sides must be wired first.
	if err := level.setReferences(); err != nil {
		return nil, err
	}
	for i := range level.Lines {
		convertBinaryLine(&level.Lines[i], binLines[i])
	}
	if err := level.finishLoad(); err != nil {
		return nil, err
	}
	return level, nil
}

// sideNum maps the 0xFFFF "no side" marker to -1.
func sideNum(n int16) int {
	if uint16(n) == 0xFFFF {
		return -1
	}
	return int(uint16(n))
}

func (w *WAD) readThings(lumpInfo *LumpInfo) ([]Thing, error) {
	logger.Println("Reading Things ...")

	binThings, err := readLumpAs[binThing](w, lumpInfo, "things")
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	things := make([]Thing, len(binThings))
	for i, t := range binThings {
		things[i] = Thing{
			X:       int(t.X),
			Y:       int(t.Y),
			Z:       int(uint16(t.Options) >> 4),
			Angle:   degreesToRadians(t.Angle),
			Type:    int(t.Type),
			Options: int(t.Options & 0xF),
		}
	}
	return things, nil
}

func (w *WAD) readSides(lumpInfo *LumpInfo) ([]Side, error) {
	logger.Println("Reading Sides ...")

	binSides, err := readLumpAs[binSide](w, lumpInfo, "sides")
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	sides := make([]Side, len(binSides))
	for i, s := range binSides {
		sides[i] = Side{
			XOffset:           float64(s.XOffset),
			YOffset:           float64(s.YOffset),
			UpperTextureName:  s.UpperTexture.String(),
			MiddleTextureName: s.MiddleTexture.String(),
			LowerTextureName:  s.LowerTexture.String(),
			SectorNum:         int(uint16(s.SectorNum)),
		}
	}
	return sides, nil
}

func (w *WAD) readVertexes(lumpInfo *LumpInfo) ([]Vertex, error) {
	logger.Println("Reading Vertexes ...")

	binVertexes, err := readLumpAs[binVertex](w, lumpInfo, "vertexes")
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	vertexes := make([]Vertex, len(binVertexes))
	for i, v := range binVertexes {
		vertexes[i] = Vertex{X: float64(v.X), Y: float64(v.Y)}
	}
	return vertexes, nil
}

func (w *WAD) readLineSegments(lumpInfo *LumpInfo) ([]LineSegment, error) {
	logger.Println("Reading Line Segments ...")

	binSegments, err := readLumpAs[binLineSegment](w, lumpInfo, "line segments")
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	segments := make([]LineSegment, len(binSegments))
	for i, s := range binSegments {
		segments[i] = LineSegment{
			V1Num:   int(uint16(s.V1)),
			V2Num:   int(uint16(s.V2)),
			Angle:   bamToRadians(s.Angle),
			LineNum: int(uint16(s.LineNum)),
			IsSideL: s.Direction == 1,
			Offset:  float64(s.Offset),
		}
	}
	return segments, nil
}

func (w *WAD) readSubSectors(lumpInfo *LumpInfo) ([]SubSector, error) {
	logger.Println("Reading Sub Sectors ...")

	binSubSectors, err := readLumpAs[binSubSector](w, lumpInfo, "sub sectors")
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	subSectors := make([]SubSector, len(binSubSectors))
	for i, s := range binSubSectors {
		subSectors[i] = SubSector{
			numLineSegments:  int(s.NumSegments),
			StartLineSegment: int(s.StartLineSegment),
		}
	}
	return subSectors, nil
}

func (w *WAD) readNodes(lumpInfo *LumpInfo) ([]Node, error) {
	logger.Println("Reading Nodes ...")

	binNodes, err := readLumpAs[binNode](w, lumpInfo, "nodes")
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	nodes := make([]Node, len(binNodes))
	for i, n := range binNodes {
		nodes[i] = Node{
			X:         float64(n.X),
			Y:         float64(n.Y),
			DX:        float64(n.DX),
			DY:        float64(n.DY),
			BBoxR:     boundBoxFromBin(n.BBoxR),
			BBoxL:     boundBoxFromBin(n.BBoxL),
			ChildNumR: int(n.ChildNumR),
			ChildNumL: int(n.ChildNumL),
		}
	}
	return nodes, nil
}

func boundBoxFromBin(b binBBox) BoundBox {
	return BoundBox{
		Top:    float64(b.Top),
		Bottom: float64(b.Bottom),
		Left:   float64(b.Left),
		Right:  float64(b.Right),
	}
}

// readLumpAs decodes a lump holding a packed array of T.
func readLumpAs[T any](w *WAD, lumpInfo *LumpInfo, what string) ([]T, error) {
	lump, err := w.readLump(lumpInfo)
	if err != nil {
		return nil, err
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(lump)%size != 0 {
		logger.Printf("Lump %s has %v trailing bytes", lumpInfo.Name, len(lump)%size)
	}
	items := make([]T, len(lump)/size)
	if err := binary.Read(bytes.NewReader(lump[:len(items)*size]), binary.LittleEndian, items); err != nil {
		return nil, err
	}
	logger.Printf("Read %v %s", len(items), what)
	return items, nil
}

// seek
func (w *WAD) seek(offset int64) error {
	off, err := w.r.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}
	if off != offset {
		return fmt.Errorf("seek failed")
	}
	return nil
}

// Read entire lump
func (w *WAD) readLump(lumpInfo *LumpInfo) ([]byte, error) {
	if err := w.seek(int64(lumpInfo.Filepos)); err != nil {
		return nil, err
	}
	lump := make([]byte, lumpInfo.Size)
	if _, err := io.ReadFull(w.r, lump); err != nil {
		return nil, fmt.Errorf("truncated lump: %w", err)
	}
	return lump, nil
}
