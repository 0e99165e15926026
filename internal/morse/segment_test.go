package morse

import (
	"math"
	"testing"
)

const rate = 44100

// span is a stretch of envelope: on at level 0.5, off at 0.
type span struct {
	on  bool
	sec float64
}

func on(sec float64) span  { return span{true, sec} }
func off(sec float64) span { return span{false, sec} }

func envelopeOf(spans ...span) []float64 {
	var env []float64
	for _, s := range spans {
		v := 0.0
		if s.on {
			v = 0.5
		}
		n := int(math.Round(s.sec * rate))
		for range n {
			env = append(env, v)
		}
	}
	return env
}

func TestSegmenterSingleBurst(t *testing.T) {
	s := Segmenter{Threshold: 0.1, SampleRate: rate}

	got := s.Segments(envelopeOf(off(0.2), on(0.1), off(0.2)))
	if len(got) != 1 {
		t.Fatalf("got %d intervals, want 1", len(got))
	}

	if got[0].StartIdx != 8820 || got[0].EndIdx != 8820+4410 {
		t.Fatalf("interval = %+v", got[0])
	}
	if got[0].Duration() != 0.1 {
		t.Fatalf("duration = %v, want exactly 0.1", got[0].Duration())
	}
	if math.Abs(got[0].Start()-0.2) > 1e-12 {
		t.Fatalf("start = %v, want 0.2", got[0].Start())
	}
}

func TestSegmenterTrailingTone(t *testing.T) {
	env := envelopeOf(off(0.1), on(0.3))

	s := Segmenter{Threshold: 0.1, SampleRate: rate}
	if got := s.Segments(env); len(got) != 0 {
		t.Fatalf("trailing tone emitted: %v", got)
	}

	s.FlushTrailing = true
	got := s.Segments(env)
	if len(got) != 1 {
		t.Fatalf("got %d intervals with flush, want 1", len(got))
	}
	if got[0].EndIdx != len(env) || got[0].Duration() != 0.3 {
		t.Fatalf("flushed interval = %+v (%v s)", got[0], got[0].Duration())
	}
}

func TestSegmenterThresholdAsymmetry(t *testing.T) {
	s := Segmenter{Threshold: 0.1, SampleRate: 10}

	// equal to threshold never starts a tone
	if got := s.Segments([]float64{0.1, 0.1, 0.1, 0}); len(got) != 0 {
		t.Fatalf("tone started at threshold: %v", got)
	}

	// equal to threshold ends a tone
	got := s.Segments([]float64{0, 0.2, 0.2, 0.1, 0.2, 0})
	want := []Interval{
		{StartIdx: 1, EndIdx: 3, SampleRate: 10},
		{StartIdx: 4, EndIdx: 5, SampleRate: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interval %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSegmenterEmpty(t *testing.T) {
	s := Segmenter{Threshold: 0.1, SampleRate: rate, FlushTrailing: true}
	if got := s.Segments(nil); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestClassifier(t *testing.T) {
	c := Classifier{DotDuration: 0.1, DashDuration: 0.3}

	tests := []struct {
		duration float64
		want     Element
		ok       bool
	}{
		{0.05, Dot, false},
		{0.0999, Dot, false},
		{0.1, Dot, true},
		{0.2, Dot, true},
		{0.2999, Dot, true},
		{0.3, Dash, true},
		{1.5, Dash, true},
	}

	for _, tt := range tests {
		got, ok := c.Classify(tt.duration)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Classify(%v) = %v, %v; want %v, %v", tt.duration, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClassifierExactSampleWidths(t *testing.T) {
	c := Classifier{DotDuration: 0.1, DashDuration: 0.3}

	for _, start := range []int{0, 1, 12345, 99991} {
		dot := Interval{StartIdx: start, EndIdx: start + 4410, SampleRate: rate}
		if e, ok := c.Classify(dot.Duration()); !ok || e != Dot {
			t.Errorf("dot at %d: %v %v", start, e, ok)
		}

		dash := Interval{StartIdx: start, EndIdx: start + 13230, SampleRate: rate}
		if e, ok := c.Classify(dash.Duration()); !ok || e != Dash {
			t.Errorf("dash at %d: %v %v", start, e, ok)
		}
	}
}
