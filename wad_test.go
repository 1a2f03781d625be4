package sectorfx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

type testLump struct {
	name string
	data []byte
}

// buildWAD lays out a PWAD with the lumps in order and the directory last.
func buildWAD(t *testing.T, lumps ...testLump) []byte {
	t.Helper()
	var body bytes.Buffer
	dir := make([]binLumpInfo, len(lumps))
	for i, l := range lumps {
		dir[i].Filepos = int32(12 + body.Len())
		dir[i].Size = int32(len(l.data))
		copy(dir[i].Name[:], l.name)
		body.Write(l.data)
	}
	var out bytes.Buffer
	header := binHeader{NumLumps: int32(len(lumps)), InfoTableOfs: int32(12 + body.Len())}
	copy(header.Magic[:], "PWAD")
	for _, v := range []any{header, body.Bytes(), dir} {
		if err := binary.Write(&out, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}
	return out.Bytes()
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func name8(s string) String8 {
	var n String8
	copy(n[:], s)
	return n
}

// squareRoomWAD is one 128x128 sector whose floor triggers tag 5 for a
// single player, walled by an executor, a trigger and a translucent FOF.
func squareRoomWAD(t *testing.T) []byte {
	t.Helper()
	vertexes := []binVertex{{0, 0}, {0, 128}, {128, 128}, {128, 0}}
	sides := []binSide{
		{XOffset: 32, MiddleTexture: name8("WALL")},
		{MiddleTexture: name8("WALL")},
		{UpperTexture: name8("#128"), MiddleTexture: name8("WALL")},
		{MiddleTexture: name8("WALL")},
	}
	lines := []binLine{
		{VertexStart: 0, VertexEnd: 1, Flags: int16(LineNoClimb), Type: 467, SectorTag: 5, SideR: 0, SideL: -1},
		{VertexStart: 1, VertexEnd: 2, Flags: int16(LineNoClimb), Type: 302, SideR: 1, SideL: -1},
		{VertexStart: 2, VertexEnd: 3, Type: 102, SectorTag: 9, SideR: 2, SideL: -1},
		{VertexStart: 3, VertexEnd: 0, SideR: 3, SideL: -1},
	}
	sectors := []binSector{{
		FloorHeight: 0, CeilingHeight: 128,
		FloorTexture: name8("FLOOR"), CeilingTexture: name8("CEIL"),
		LightLevel: 160, Type: 0x40, TagNum: 5,
	}}
	return buildWAD(t,
		testLump{"MAP01", nil},
		testLump{"THINGS", encode(t, []binThing{{X: 64, Y: 64, Type: 1}})},
		testLump{"LINEDEFS", encode(t, lines)},
		testLump{"SIDEDEFS", encode(t, sides)},
		testLump{"VERTEXES", encode(t, vertexes)},
		testLump{"SECTORS", encode(t, sectors)},
	)
}

func TestReadLevelConvertsBinarySpecials(t *testing.T) {
	captureLog(t)
	w, err := NewWADReader(bytes.NewReader(squareRoomWAD(t)))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if names := w.LevelNames(); len(names) != 1 || names[0] != "MAP01" {
		t.Fatalf("expected [MAP01], got %v", names)
	}
	l, err := w.ReadLevel("MAP01", DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	s := &l.Sectors[0]
	if s.Special != 0 || s.Triggerer != TriggerByPlayer || s.TriggerTag != 5 {
		t.Fatalf("expected a player trigger for tag 5, got special %d triggerer %v tag %d", s.Special, s.Triggerer, s.TriggerTag)
	}
	if s.LightLevel != 160 || s.FloorPic != "FLOOR" {
		t.Fatalf("expected light 160 and flat FLOOR, got %d and %q", s.LightLevel, s.FloorPic)
	}

	exec := &l.Lines[0]
	if exec.Args[0] != 5 || exec.Args[1] != 32 || exec.Args[2] != 1 {
		t.Fatalf("expected light args (5, 32, 1), got %v", exec.Args[:3])
	}
	trigger := &l.Lines[1]
	if trigger.Special != TriggerBasic || trigger.Args[0] != int(TriggerOnce) {
		t.Fatalf("expected a one-shot basic trigger, got special %d args %v", trigger.Special, trigger.Args[:2])
	}
	if fof := &l.Lines[2]; fof.Args[0] != 9 || fof.Args[1] != 128 {
		t.Fatalf("expected FOF args (9, 128), got %v", fof.Args[:2])
	}
	if got := l.PointInSector(64, 64); got != s {
		t.Fatalf("expected the room to contain its centre")
	}
	if len(l.Things) != 1 || l.Things[0].X != 64 {
		t.Fatalf("expected one thing at x 64, got %+v", l.Things)
	}
}

func TestReadLevelErrors(t *testing.T) {
	captureLog(t)
	data := squareRoomWAD(t)

	bad := append([]byte(nil), data...)
	copy(bad, "JUNK")
	if _, err := NewWADReader(bytes.NewReader(bad)); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}

	w, err := NewWADReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := w.ReadLevel("MAP02", DefaultConfig(), nil); !errors.Is(err, ErrLumpNotFound) {
		t.Fatalf("expected ErrLumpNotFound, got %v", err)
	}
}

func TestParseAlphaTexture(t *testing.T) {
	tests := []struct {
		name  string
		alpha int
		ok    bool
	}{
		{"#128", 128, true},
		{"#999", 255, true},
		{"#000ABC", 0, true},
		{"#12", 0, false},
		{"GRAY", 0, false},
		{"#1X2", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alpha, ok := parseAlphaTexture(tt.name)
			if alpha != tt.alpha || ok != tt.ok {
				t.Fatalf("expected (%d, %v), got (%d, %v)", tt.alpha, tt.ok, alpha, ok)
			}
		})
	}
}

func TestConvertBinarySectorSections(t *testing.T) {
	tests := []struct {
		typ        int16
		triggerer  Triggerer
		triggerTag int
		plane      bool
		special    int
	}{
		{0x0010, TriggerByMobj, 3, false, 0},
		{0x0021, TriggerByAllPlayers, 3, false, 1},
		{0x0030, TriggerByAllPlayers, 3, true, 0},
		{0x0050, TriggerByPlayer, 3, true, 0},
		{0x0007, TriggerByPlayer, 0, false, 7},
	}
	for _, tt := range tests {
		var s Sector
		convertBinarySector(&s, binSector{Type: tt.typ, TagNum: 3})
		if s.Triggerer != tt.triggerer || s.TriggerTag != tt.triggerTag || s.Special != tt.special {
			t.Fatalf("type %#x: expected triggerer %v tag %d special %d, got %v %d %d",
				tt.typ, tt.triggerer, tt.triggerTag, tt.special, s.Triggerer, s.TriggerTag, s.Special)
		}
		if got := s.Flags&SectorTriggerPlane != 0; got != tt.plane {
			t.Fatalf("type %#x: expected plane trigger %v, got %v", tt.typ, tt.plane, got)
		}
	}
}
