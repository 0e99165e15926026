package dsp

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

const (
	maxWindow = 8192
	Bands     = 8 // spectrogram bands
)

// Spectrum returns the magnitude spectrum of the first power-of-two window
// of data (at most 8192 samples), Hamming windowed and scaled so that a
// full-scale sine reads about 1.
func Spectrum(data []float64) []float64 {
	if len(data) <= 2 {
		return nil
	}

	size := maxWindow
	for len(data) < size {
		size >>= 1
	}

	w := window.Hamming(size)
	frame := make([]float64, size)
	floats.MulTo(frame, data[:size], w)
	wsum := floats.Sum(w)

	bins := fft.FFTReal(frame)

	mags := make([]float64, size/2)
	for i := range mags {
		mags[i] = 2 / wsum * cmplx.Abs(bins[i])
	}
	return mags
}

func binRange(mags []float64, sampleRate int, minFreq, maxFreq float64) (lo, hi int, res float64) {
	res = float64(sampleRate) / float64(len(mags)*2)
	lo = max(int(minFreq/res), 0)
	hi = min(int(maxFreq/res), len(mags)-1)
	return
}

// DominantFrequency finds the strongest bin between minFreq and maxFreq and
// refines it with parabolic interpolation.
func DominantFrequency(mags []float64, sampleRate int, minFreq, maxFreq float64) (freq, mag float64) {
	if len(mags) == 0 {
		return 0, 0
	}

	lo, hi, res := binRange(mags, sampleRate, minFreq, maxFreq)
	if hi < lo {
		return 0, 0
	}

	peak := lo + floats.MaxIdx(mags[lo:hi+1])
	mag = mags[peak]
	freq = float64(peak) * res

	if peak > 0 && peak < len(mags)-1 {
		alpha, beta, gamma := mags[peak-1], mags[peak], mags[peak+1]
		if d := alpha - 2*beta + gamma; d != 0 {
			freq = (float64(peak) + 0.5*(alpha-gamma)/d) * res
		}
	}

	return freq, mag
}

var levels = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Spectrogram folds the spectrum between minFreq and maxFreq into Bands
// levels, as bar glyphs or as digits 0-7.
func Spectrogram(mags []float64, sampleRate int, minFreq, maxFreq float64, graphic bool) (result [Bands]rune) {
	for i := range result {
		result[i] = ' '
	}
	if len(mags) == 0 {
		return result
	}

	lo, hi, _ := binRange(mags, sampleRate, minFreq, maxFreq)
	if hi <= lo {
		return result
	}

	per := float64(hi-lo+1) / Bands

	for i := range Bands {
		start := lo + int(float64(i)*per)
		end := min(lo+int(float64(i+1)*per), hi+1)
		if start >= end {
			start = end - 1
		}

		avg := floats.Sum(mags[start:end]) / float64(end-start)

		level := min(max(int(avg*800), 0), 7)
		if graphic {
			result[i] = levels[level]
		} else {
			result[i] = rune('0' + level)
		}
	}

	return result
}
