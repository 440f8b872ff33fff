package engine

import (
	"strings"
	"testing"
)

func TestRenderBoard_Empty(t *testing.T) {
	lines := RenderBoard(NewBoard(), true)
	if len(lines) != GridSize+1 {
		t.Fatalf("got %d lines, want %d", len(lines), GridSize+1)
	}
	if lines[0] != "    A B C D E F G H I J" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != " 1  . . . . . . . . . ." {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[10] != "10  . . . . . . . . . ." {
		t.Errorf("row 10 = %q", lines[10])
	}
}

func TestRenderBoard_PlanesAndShots(t *testing.T) {
	b := NewBoard()
	b.AddPlane("E5", "N")

	hidden := RenderBoard(b, false)
	if strings.ContainsAny(strings.Join(hidden[1:], ""), "^o") {
		t.Error("active planes must be hidden when showPlanes is false")
	}

	shown := RenderBoard(b, true)
	if got := shown[5]; got != " 5  . . . . ^ . . . . ." {
		t.Errorf("row 5 = %q", got)
	}
	if got := shown[6]; got != " 6  . . o o o o o . . ." {
		t.Errorf("row 6 = %q", got)
	}

	b.ResolveShot(MustParseCoordinate("E6"))
	b.ResolveShot(MustParseCoordinate("A1"))
	shown = RenderBoard(b, true)
	if got := shown[6]; got != " 6  . . o o x o o . . ." {
		t.Errorf("row 6 after hit = %q", got)
	}
	if got := shown[1]; !strings.HasPrefix(got, " 1  *") {
		t.Errorf("row 1 after miss = %q", got)
	}

	b.ResolveShot(MustParseCoordinate("E5"))
	hidden = RenderBoard(b, false)
	if got := hidden[5]; got != " 5  . . . . # . . . . ." {
		t.Errorf("killed head = %q", got)
	}
	if got := hidden[8]; got != " 8  . . . o o o . . . ." {
		t.Errorf("killed plane tail should stay visible: %q", got)
	}
}

func TestRenderSideBySide(t *testing.T) {
	out := RenderSideBySide("You", []string{"ab", "cd"}, "Them", []string{"ef"})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), out)
	}
	if lines[0] != "You    Them" {
		t.Errorf("title line = %q", lines[0])
	}
	if lines[1] != "ab     ef" {
		t.Errorf("first line = %q", lines[1])
	}
	if lines[2] != "cd     " {
		t.Errorf("second line = %q", lines[2])
	}
}
