// Package morse turns audio into dots and dashes, and converts between
// Morse code and text.
package morse

import (
	"fmt"

	"go.uber.org/zap"

	"morsetone/internal/config"
	"morsetone/internal/dsp"
	"morsetone/internal/logging"
)

// coefficients is shared by all detectors; designs are keyed by band and
// never modified.
var coefficients dsp.Designer

// Detector runs the whole pipeline on a complete buffer: normalize,
// bandpass, rectify, segment, classify. It holds no state between calls.
type Detector struct {
	cfg    config.Config
	coeffs dsp.Coefficients
	seg    Segmenter
	cls    Classifier
	log    *zap.Logger
}

func NewDetector(cfg config.Config, log *zap.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := coefficients.Design(Band(cfg))
	if err != nil {
		return nil, err
	}

	return &Detector{
		cfg:    cfg,
		coeffs: c,
		seg: Segmenter{
			Threshold:     cfg.Threshold,
			SampleRate:    cfg.SampleRate,
			FlushTrailing: cfg.FlushTrailing,
		},
		cls: Classifier{
			DotDuration:  cfg.DotDuration,
			DashDuration: cfg.DashDuration,
		},
		log: logging.OrNop(log),
	}, nil
}

// Band returns the filter band a configuration asks for.
func Band(cfg config.Config) dsp.Band {
	return dsp.Band{
		Low:        cfg.LowCut,
		High:       cfg.HighCut,
		SampleRate: cfg.SampleRate,
		Order:      cfg.Order,
	}
}

func (d *Detector) Config() config.Config { return d.cfg }

func (d *Detector) Envelope(samples []float64) ([]float64, error) {
	return dsp.Envelope(d.coeffs, samples, d.cfg.SmoothSamples())
}

// Symbols segments an envelope and classifies every tone, in time order.
func (d *Detector) Symbols(env []float64) []Symbol {
	var symbols []Symbol
	dropped := 0

	d.seg.Scan(env, func(t Interval) {
		if s, ok := d.cls.Symbol(t); ok {
			symbols = append(symbols, s)
		} else {
			dropped++
		}
	})

	if dropped > 0 {
		d.log.Debug("short tones discarded", zap.Int("count", dropped))
	}
	return symbols
}

// Detect runs the pipeline on samples taken at the configured rate.
func (d *Detector) Detect(samples []float64) ([]Symbol, error) {
	env, err := d.Envelope(samples)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}

	symbols := d.Symbols(env)

	if ce := d.log.Check(zap.DebugLevel, "detected"); ce != nil {
		freq, _ := d.Tone(samples)
		ce.Write(
			zap.Int("samples", len(samples)),
			zap.Float64("seconds", float64(len(samples))/float64(d.cfg.SampleRate)),
			zap.Float64("tone", freq),
			zap.Int("symbols", len(symbols)),
		)
	}

	return symbols, nil
}

// Tone estimates the dominant frequency of samples inside the passband.
func (d *Detector) Tone(samples []float64) (freq, mag float64) {
	return dsp.DominantFrequency(dsp.Spectrum(samples), d.cfg.SampleRate, d.cfg.LowCut, d.cfg.HighCut)
}
