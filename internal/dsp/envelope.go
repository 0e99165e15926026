package dsp

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

var ErrEmptyOrSilentInput = errors.New("empty or silent input")

// Normalize returns a copy of x scaled so that its loudest sample has
// magnitude 1.
func Normalize(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyOrSilentInput
	}

	peak := math.Max(floats.Max(x), -floats.Min(x))
	if !(peak > 0) || math.IsInf(peak, 0) {
		return nil, ErrEmptyOrSilentInput
	}

	out := make([]float64, len(x))
	copy(out, x)
	floats.Scale(1/peak, out)
	return out, nil
}

// Rectify replaces every sample with its absolute value, in place.
func Rectify(x []float64) []float64 {
	for i, v := range x {
		x[i] = math.Abs(v)
	}
	return x
}

// Smooth returns the RMS of x over a window centered on each sample.
// The window is clipped at both ends of the buffer.
func Smooth(x []float64, window int) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}

	sq := make([]float64, len(x))
	floats.MulTo(sq, x, x)

	// cum[i] is the sum of sq[:i]
	cum := make([]float64, len(x)+1)
	floats.CumSum(cum[1:], sq)

	for i := range x {
		start := max(i-window/2, 0)
		end := min(i+window/2, len(x))
		if end <= start {
			end = start + 1
		}

		mean := (cum[end] - cum[start]) / float64(end-start)
		out[i] = math.Sqrt(math.Max(mean, 0))
	}

	return out
}

// Envelope normalizes x, runs it through the filter and rectifies the
// result. A window above 1 additionally smooths the envelope with a
// centered RMS window of that many samples. The result is sample-aligned
// with x.
func Envelope(c Coefficients, x []float64, window int) ([]float64, error) {
	norm, err := Normalize(x)
	if err != nil {
		return nil, err
	}

	env := Filter(c, norm)
	if window > 1 {
		return Smooth(env, window), nil
	}

	return Rectify(env), nil
}
