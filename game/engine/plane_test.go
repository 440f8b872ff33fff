package engine

import (
	"errors"
	"strings"
	"testing"
)

func mustPlane(t *testing.T, head, orientation string) Plane {
	t.Helper()
	p, err := NewPlane(head, orientation, 0)
	if err != nil {
		t.Fatalf("NewPlane(%q, %q): %v", head, orientation, err)
	}
	return p
}

// tileNames renders tiles as a space separated list, "-" for off-grid slots.
func tileNames(p Plane) string {
	names := make([]string, 0, TilesPerPlane)
	for _, tile := range p.Tiles() {
		if tile.OnGrid {
			names = append(names, tile.At.String())
		} else {
			names = append(names, "-")
		}
	}
	return strings.Join(names, " ")
}

func TestPlaneTiles(t *testing.T) {
	tests := []struct {
		head        string
		orientation string
		want        string
	}{
		{"E5", "N", "C6 D6 E6 F6 G6 E7 D8 E8 F8"},
		{"E5", "S", "G4 F4 E4 D4 C4 E3 F2 E2 D2"},
		{"E5", "E", "D3 D4 D5 D6 D7 C5 B4 B5 B6"},
		{"E5", "W", "F7 F6 F5 F4 F3 G5 H6 H5 H4"},
		{"H7", "N", "F8 G8 H8 I8 J8 H9 G10 H10 I10"},
		{"A3", "W", "B5 B4 B3 B2 B1 C3 D4 D3 D2"},
		{"A1", "N", "- - A2 B2 C2 A3 - A4 B4"},
		{"J1", "N", "H2 I2 J2 - - J3 I4 J4 -"},
		{"J1", "E", "- - I1 I2 I3 H1 - G1 G2"},
		{"J10", "E", "I8 I9 I10 - - H10 G9 G10 -"},
		{"A10", "W", "- - B10 B9 B8 C10 - D10 D9"},
		{"A1", "W", "B3 B2 B1 - - C1 D2 D1 -"},
		{"J10", "N", "- - - - - - - - -"},
		{"A10", "E", "- - - - - - - - -"},
		{"J10", "W", "- - - - - - - - -"},
	}

	for _, tt := range tests {
		t.Run(tt.head+tt.orientation, func(t *testing.T) {
			p := mustPlane(t, tt.head, tt.orientation)
			if got := tileNames(p); got != tt.want {
				t.Errorf("tiles = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaneIsOutsideOfMap(t *testing.T) {
	for _, corner := range []string{"A1", "A10", "J1", "J10"} {
		for _, o := range Orientations {
			p := Plane{Head: MustParseCoordinate(corner), Orientation: o}
			if !p.IsOutsideOfMap() {
				t.Errorf("%s %s should be outside of map", corner, o)
			}
		}
	}

	edges := []struct{ head, orientation string }{
		{"A2", "N"}, {"B1", "W"}, {"I1", "N"}, {"J2", "E"},
		{"B10", "S"}, {"A9", "W"}, {"I10", "S"}, {"J9", "E"},
	}
	for _, e := range edges {
		if p := mustPlane(t, e.head, e.orientation); !p.IsOutsideOfMap() {
			t.Errorf("%s %s should be outside of map", e.head, e.orientation)
		}
	}

	for _, o := range Orientations {
		p := Plane{Head: MustParseCoordinate("E5"), Orientation: o}
		if p.IsOutsideOfMap() {
			t.Errorf("E5 %s should fit on the map", o)
		}
	}
}

func TestPlaneOverlaps(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"C1 N", "D1 N", true},
		{"C1 N", "E1 N", true},
		{"C1 N", "F1 N", true},
		{"C1 N", "G1 N", true},
		{"E3 W", "C2 N", true},
		{"C1 N", "H1 N", false},
		{"E5 N", "E5 S", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			a := strings.Fields(tt.a)
			b := strings.Fields(tt.b)
			pa := mustPlane(t, a[0], a[1])
			pb := mustPlane(t, b[0], b[1])
			if got := pa.Overlaps(pb); got != tt.want {
				t.Errorf("%s overlaps %s = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if pa.Overlaps(pb) != pb.Overlaps(pa) {
				t.Errorf("overlap is not symmetric for %s and %s", tt.a, tt.b)
			}
		})
	}
}

func TestPlaneOverlapsSymmetric_AllPairsFromRow(t *testing.T) {
	var planes []Plane
	for _, head := range []string{"C3", "E5", "F2", "B8", "H7"} {
		for _, o := range Orientations {
			planes = append(planes, Plane{Head: MustParseCoordinate(head), Orientation: o})
		}
	}
	for _, a := range planes {
		for _, b := range planes {
			if a.Overlaps(b) != b.Overlaps(a) {
				t.Errorf("asymmetric overlap between %v and %v", a, b)
			}
		}
	}
}

func TestPlaneHasTile(t *testing.T) {
	p := mustPlane(t, "E5", "N")
	if p.HasTile(p.Head) {
		t.Error("head must not count as a tile")
	}
	if !p.HasTile(MustParseCoordinate("E8")) {
		t.Error("E8 should be a tile of E5 N")
	}
	if p.HasTile(MustParseCoordinate("A1")) {
		t.Error("A1 should not be a tile of E5 N")
	}
	if !p.Occupies(p.Head) {
		t.Error("Occupies should include the head")
	}
}

func TestNewPlane_ParseErrors(t *testing.T) {
	if _, err := NewPlane("Z1", "N", 1); !errors.Is(err, ErrParse) {
		t.Errorf("bad head: got %v, want ErrParse", err)
	}
	if _, err := NewPlane("A1", "Q", 1); !errors.Is(err, ErrParse) {
		t.Errorf("bad orientation: got %v, want ErrParse", err)
	}
}
