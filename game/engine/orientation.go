package engine

import "fmt"

// Orientation is the direction a plane's nose points to.
type Orientation uint8

const (
	North Orientation = iota
	East
	South
	West
)

// Orientations lists every orientation in declaration order.
var Orientations = [4]Orientation{North, East, South, West}

var orientationNames = [4]string{"N", "E", "S", "W"}

// ParseOrientation accepts "N", "E", "S" or "W".
func ParseOrientation(text string) (Orientation, error) {
	for i, name := range orientationNames {
		if text == name {
			return Orientation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: orientation %q: must be one of N, E, S, W", ErrParse, text)
}

func (o Orientation) Valid() bool {
	return int(o) < len(orientationNames)
}

func (o Orientation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
	return orientationNames[o]
}

func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid orientation %d", uint8(o))
	}
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
