package engine

import (
	"errors"
	"fmt"
)

var (
	ErrParse           = errors.New("parse error")
	ErrOutOfBounds     = errors.New("plane out of bounds")
	ErrOverlap         = errors.New("planes overlap")
	ErrPhaseClosed     = errors.New("placement phase closed")
	ErrBoardGeneration = errors.New("random board generation failed")
	ErrFleetExhausted  = errors.New("fleet exhausted")
	ErrInvalidConfig   = errors.New("invalid game config")
)

// OverlapError reports the plane a candidate placement collided with.
type OverlapError struct {
	PlaneID int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("plane would overlap with another one: %d, try again", e.PlaneID)
}

// Is lets errors.Is(err, ErrOverlap) match.
func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlap
}
