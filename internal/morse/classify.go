package morse

import "fmt"

type Element int

const (
	Dot Element = iota
	Dash
)

func (e Element) String() string {
	if e == Dash {
		return "-"
	}
	return "."
}

// Symbol is a classified tone.
type Symbol struct {
	Element  Element
	Start    float64 // seconds from the beginning of the buffer
	Duration float64 // seconds
}

func (s Symbol) End() float64 { return s.Start + s.Duration }

func (s Symbol) String() string {
	return fmt.Sprintf("%v@%.3f", s.Element, s.Start)
}

// Classifier maps tone durations to elements. Anything shorter than
// DotDuration is noise.
type Classifier struct {
	DotDuration  float64
	DashDuration float64
}

// Classify checks the dash boundary first, so a tone of exactly
// DashDuration is a dash.
func (c Classifier) Classify(duration float64) (Element, bool) {
	switch {
	case duration >= c.DashDuration:
		return Dash, true
	case duration >= c.DotDuration:
		return Dot, true
	}
	return Dot, false
}

func (c Classifier) Symbol(t Interval) (Symbol, bool) {
	e, ok := c.Classify(t.Duration())
	if !ok {
		return Symbol{}, false
	}
	return Symbol{Element: e, Start: t.Start(), Duration: t.Duration()}, true
}
