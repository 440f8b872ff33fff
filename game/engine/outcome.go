package engine

import "fmt"

// Outcome is the result of a shot. Retry is only produced by bombardment
// when the target text does not parse, and does not consume a turn.
type Outcome uint8

const (
	Miss Outcome = iota
	Hit
	Kill
	Retry
)

var outcomeNames = [...]string{"Miss", "Hit", "Kill", "Retry"}

func (o Outcome) String() string {
	if int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
	return outcomeNames[o]
}

func (o Outcome) MarshalText() ([]byte, error) {
	if int(o) >= len(outcomeNames) {
		return nil, fmt.Errorf("invalid outcome %d", uint8(o))
	}
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for i, name := range outcomeNames {
		if string(text) == name {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("%w: outcome %q", ErrParse, text)
}
