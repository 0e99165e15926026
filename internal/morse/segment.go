package morse

import "fmt"

// Interval is a run of envelope samples above the threshold, [StartIdx, EndIdx).
type Interval struct {
	StartIdx   int
	EndIdx     int
	SampleRate int
}

func (t Interval) Start() float64 { return float64(t.StartIdx) / float64(t.SampleRate) }
func (t Interval) End() float64 { return float64(t.EndIdx) / float64(t.SampleRate) }

// Duration is computed from the sample count, so a run of exactly
// 0.1*rate samples lasts exactly 0.1 seconds.
func (t Interval) Duration() float64 {
	return float64(t.EndIdx-t.StartIdx) / float64(t.SampleRate)
}

func (t Interval) String() string {
	return fmt.Sprintf("<T %v+%vms>", int(t.Start()*1000), int(t.Duration()*1000))
}

type segState int

const (
	idle segState = iota
	inSignal
)

// Segmenter turns an envelope into tone intervals with a fixed threshold:
// a sample strictly above Threshold starts a tone, a sample at or below it
// ends the tone.
type Segmenter struct {
	Threshold  float64
	SampleRate int

	// FlushTrailing emits a tone still on at the end of the envelope.
	// When false the tone is dropped.
	FlushTrailing bool
}

// Scan walks env left to right and calls emit for every completed interval.
func (s Segmenter) Scan(env []float64, emit func(Interval)) {
	state := idle
	start := 0

	for i, v := range env {
		switch {
		case state == idle && v > s.Threshold:
			state = inSignal
			start = i
		case state == inSignal && v <= s.Threshold:
			state = idle
			emit(Interval{StartIdx: start, EndIdx: i, SampleRate: s.SampleRate})
		}
	}

	if state == inSignal && s.FlushTrailing {
		emit(Interval{StartIdx: start, EndIdx: len(env), SampleRate: s.SampleRate})
	}
}

// Segments collects the intervals found by Scan.
func (s Segmenter) Segments(env []float64) (list []Interval) {
	s.Scan(env, func(t Interval) {
		list = append(list, t)
	})
	return
}
