package dsp

// IIR is a direct form II transposed filter. It keeps its state between
// calls, so a signal can be fed in pieces.
type IIR struct {
	b, a []float64
	z    []float64
}

func NewIIR(c Coefficients) *IIR {
	n := max(len(c.B), len(c.A), 1)
	b := make([]float64, n)
	a := make([]float64, n)
	copy(b, c.B)
	copy(a, c.A)

	if a[0] == 0 {
		a[0] = 1
	}
	if a0 := a[0]; a0 != 1 {
		for i := range n {
			b[i] /= a0
			a[i] /= a0
		}
	}

	return &IIR{b: b, a: a, z: make([]float64, n-1)}
}

func (f *IIR) Filter(x float64) float64 {
	y := f.b[0]*x
	if len(f.z) == 0 {
		return y
	}

	y += f.z[0]
	last := len(f.z) - 1
	for i := 0; i < last; i++ {
		f.z[i] = f.b[i+1]*x - f.a[i+1]*y + f.z[i+1]
	}
	f.z[last] = f.b[last+1]*x - f.a[last+1]*y
	return y
}

func (f *IIR) Reset() {
	clear(f.z)
}

// Filter runs x through a fresh filter (zero initial state) and returns a
// new slice of the same length.
func Filter(c Coefficients, x []float64) []float64 {
	f := NewIIR(c)
	y := make([]float64, len(x))
	for i, s := range x {
		y[i] = f.Filter(s)
	}
	return y
}
