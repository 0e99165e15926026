package dsp

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"
)

var ErrInvalidFilterSpec = errors.New("invalid filter spec")

// Band describes a bandpass filter: passband edges in Hz, the sample rate
// they refer to and the Butterworth order.
type Band struct {
	Low, High  float64
	SampleRate int
	Order      int
}

func (b Band) Nyquist() float64 { return float64(b.SampleRate) / 2 }

func (b Band) validate() error {
	switch {
	case b.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFilterSpec, b.SampleRate)
	case b.Order < 1:
		return fmt.Errorf("%w: order %d", ErrInvalidFilterSpec, b.Order)
	case !(b.Low > 0):
		return fmt.Errorf("%w: low cut %v must be positive", ErrInvalidFilterSpec, b.Low)
	case !(b.Low < b.High):
		return fmt.Errorf("%w: low cut %v must be below high cut %v", ErrInvalidFilterSpec, b.Low, b.High)
	case !(b.High < b.Nyquist()):
		return fmt.Errorf("%w: high cut %v must be below Nyquist %v", ErrInvalidFilterSpec, b.High, b.Nyquist())
	}

	return nil
}

// Coefficients are the feed-forward (B) and feedback (A) taps of a linear
// filter. A[0] is always 1. Treat them as read-only: a Designer hands out
// the same slices to every caller.
type Coefficients struct {
	B, A []float64
}

// Design returns a digital Butterworth bandpass for the band.
// It builds the analog lowpass prototype, moves it to the pre-warped
// passband and maps it to the z-plane with the bilinear transform.
// Both tap slices have 2*Order+1 entries.
func Design(band Band) (Coefficients, error) {
	if err := band.validate(); err != nil {
		return Coefficients{}, err
	}

	n := band.Order
	nyq := band.Nyquist()

	// bilinear transform runs at fs=2 on frequencies normalized to Nyquist
	const fs2 = 4.0
	wl := fs2 * math.Tan(math.Pi*band.Low/nyq/2)
	wh := fs2 * math.Tan(math.Pi*band.High/nyq/2)
	bw := wh - wl
	wo2 := complex(wl*wh, 0)

	poles := make([]complex128, 0, 2*n)
	for k := -n + 1; k < n; k += 2 {
		p := -cmplx.Exp(complex(0, math.Pi*float64(k)/float64(2*n)))
		p *= complex(bw/2, 0)

		d := cmplx.Sqrt(p*p - wo2)
		poles = append(poles, p+d, p-d)
	}

	// n analog zeros at the origin map to +1, the remaining n go to -1
	zeros := make([]complex128, 0, 2*n)
	gain := complex(math.Pow(bw*fs2, float64(n)), 0)

	for i := 0; i < n; i++ {
		zeros = append(zeros, 1, -1)
	}
	for i, p := range poles {
		gain /= complex(fs2, 0) - p
		poles[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
	}

	b := realPoly(zeros)
	a := realPoly(poles)

	k := real(gain)
	for i := range b {
		b[i] *= k
	}

	return Coefficients{B: b, A: a}, nil
}

// realPoly expands prod(x - r) and keeps the real part of each coefficient,
// highest power first.
func realPoly(roots []complex128) []float64 {
	c := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(c)+1)
		for i, v := range c {
			next[i] += v
			next[i+1] -= v * r
		}
		c = next
	}

	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = real(v)
	}
	return out
}

// Designer memoizes coefficients per band. The zero value is ready to use
// and safe for concurrent callers.
type Designer struct {
	mu    sync.Mutex
	cache map[Band]Coefficients
}

func (d *Designer) Design(band Band) (Coefficients, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.cache[band]; ok {
		return c, nil
	}

	c, err := Design(band)
	if err != nil {
		return Coefficients{}, err
	}

	if d.cache == nil {
		d.cache = make(map[Band]Coefficients)
	}
	d.cache[band] = c
	return c, nil
}
