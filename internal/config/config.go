// Package config holds the tuning of a detection pipeline.
//
// A Config is a plain value: every detector, segmenter and capture session
// gets its own copy at construction, so independent pipelines with different
// tunings can run side by side.
package config

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultSampleRate   = 44100
	DefaultChunkSize    = 1024
	DefaultLowCut       = 500.0  // Hz
	DefaultHighCut      = 1500.0 // Hz
	DefaultOrder        = 5
	DefaultThreshold    = 0.1
	DefaultDotDuration  = 0.1 // seconds
	DefaultDashDuration = 0.3 // seconds
	DefaultLetterGap    = 0.3 // seconds
)

type Config struct {
	SampleRate int // Hz
	ChunkSize  int // frames per device block

	LowCut  float64 // passband low edge (Hz)
	HighCut float64 // passband high edge (Hz)
	Order   int     // Butterworth order

	Threshold    float64 // envelope level, after normalization
	DotDuration  float64 // shortest tone kept, in seconds
	DashDuration float64 // shortest dash, in seconds
	LetterGap    float64 // silence that separates two letters when rendering

	// SmoothWindow is the RMS smoothing window applied to the rectified
	// envelope. Zero keeps the instantaneous magnitude.
	SmoothWindow time.Duration

	// FlushTrailing emits a tone that is still on when the buffer ends.
	// Off by default: such a tone is dropped.
	FlushTrailing bool

	// MaxBlocks bounds the capture queue (0 = unbounded).
	MaxBlocks int
}

func Default() Config {
	return Config{
		SampleRate:   DefaultSampleRate,
		ChunkSize:    DefaultChunkSize,
		LowCut:       DefaultLowCut,
		HighCut:      DefaultHighCut,
		Order:        DefaultOrder,
		Threshold:    DefaultThreshold,
		DotDuration:  DefaultDotDuration,
		DashDuration: DefaultDashDuration,
		LetterGap:    DefaultLetterGap,
	}
}

// Validate checks the timing and level settings. Passband validity is left
// to the filter designer, which reports its own error kind.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	case c.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size %d", ErrInvalidConfig, c.ChunkSize)
	case c.Threshold < 0:
		return fmt.Errorf("%w: threshold %v", ErrInvalidConfig, c.Threshold)
	case c.DotDuration <= 0:
		return fmt.Errorf("%w: dot duration %v", ErrInvalidConfig, c.DotDuration)
	case c.DashDuration < c.DotDuration:
		return fmt.Errorf("%w: dash duration %v shorter than dot duration %v", ErrInvalidConfig, c.DashDuration, c.DotDuration)
	case c.LetterGap < 0:
		return fmt.Errorf("%w: letter gap %v", ErrInvalidConfig, c.LetterGap)
	case c.SmoothWindow < 0:
		return fmt.Errorf("%w: smoothing window %v", ErrInvalidConfig, c.SmoothWindow)
	case c.MaxBlocks < 0:
		return fmt.Errorf("%w: max blocks %d", ErrInvalidConfig, c.MaxBlocks)
	}

	return nil
}

// SmoothSamples converts SmoothWindow to a sample count at the configured rate.
func (c Config) SmoothSamples() int {
	return int(c.SmoothWindow.Seconds() * float64(c.SampleRate))
}

func (c Config) WithSampleRate(rate int) Config {
	c.SampleRate = rate
	return c
}

func (c Config) WithBand(low, high float64) Config {
	c.LowCut, c.HighCut = low, high
	return c
}

func (c Config) WithFlushTrailing(flush bool) Config {
	c.FlushTrailing = flush
	return c
}
