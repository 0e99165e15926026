package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"morsetone/internal/audio"
	"morsetone/internal/audio/portaudio"
	"morsetone/internal/capture"
	"morsetone/internal/config"
	"morsetone/internal/dsp"
	"morsetone/internal/morse"
)

// spectrum range shown next to decoded files
const (
	minFreq = 300.0
	maxFreq = 2000.0
)

var (
	labelColor = color.New(color.FgCyan)
	codeColor  = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow)
)

type App struct {
	Config config.Config
	Device string        // input device for live decoding
	Length time.Duration // live recording length, 0 = until interrupted
	Save   string        // optional WAV file for live recordings

	Source audio.Source // nil = PortAudio on Device
	Out    io.Writer
	Log    *zap.Logger
}

// Result is what a decode prints.
type Result struct {
	Symbols     []morse.Symbol
	Morse       string // one element per tone
	Code        string // elements grouped into letters
	Text        string
	Seconds     float64
	Tone        float64
	Spectrogram string
}

func (app *App) result(symbols []morse.Symbol, samples []float64, rate int) Result {
	code := morse.Letters(symbols, app.Config.LetterGap)

	r := Result{
		Symbols: symbols,
		Morse:   morse.Render(symbols),
		Code:    code,
		Text:    morse.Decode(code),
	}

	if rate > 0 && len(samples) > 0 {
		r.Seconds = float64(len(samples)) / float64(rate)

		// analyse from the first tone, leading silence says nothing
		from := 0
		if len(symbols) > 0 {
			from = min(int(symbols[0].Start*float64(rate)), len(samples))
		}
		mags := dsp.Spectrum(samples[from:])
		r.Tone, _ = dsp.DominantFrequency(mags, rate, minFreq, maxFreq)
		bars := dsp.Spectrogram(mags, rate, minFreq, maxFreq, true)
		r.Spectrogram = string(bars[:])
	}

	return r
}

func (app *App) Encode(text string) string { return morse.Encode(text) }

func (app *App) Decode(code string) string { return morse.Decode(code) }

// DecodeFile runs the detector on a WAV or MP3 file. A WAV recorded at
// another rate is decoded at its own rate.
func (app *App) DecodeFile(path string) (Result, error) {
	clip, err := audio.Load(path, app.Config.SampleRate)
	if err != nil {
		return Result{}, err
	}

	cfg := app.Config
	if clip.SampleRate != cfg.SampleRate {
		app.Log.Info("using file sample rate",
			zap.String("file", path),
			zap.Int("rate", clip.SampleRate),
			zap.Int("configured", cfg.SampleRate))
		cfg = cfg.WithSampleRate(clip.SampleRate)
	}

	detector, err := morse.NewDetector(cfg, app.Log)
	if err != nil {
		return Result{}, err
	}

	symbols, err := detector.Detect(clip.Samples)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}

	return app.result(symbols, clip.Samples, clip.SampleRate), nil
}

func (app *App) source() audio.Source {
	if app.Source != nil {
		return app.Source
	}
	return portaudio.Input{
		Device:     app.Device,
		SampleRate: app.Config.SampleRate,
		ChunkSize:  app.Config.ChunkSize,
	}
}

func (app *App) NewSession() (*capture.Session, error) {
	return capture.NewSession(app.Config, app.source(), app.Log)
}

// Finish turns a live take into a result and saves it when asked to.
func (app *App) Finish(take capture.Take) Result {
	if app.Save != "" && len(take.Samples) > 0 {
		if err := app.saveTake(take); err != nil {
			app.Log.Warn("cannot save recording", zap.String("file", app.Save), zap.Error(err))
		}
	}

	return app.result(take.Symbols, take.Samples, app.Config.SampleRate)
}

func (app *App) saveTake(take capture.Take) error {
	f, err := os.Create(app.Save)
	if err != nil {
		return err
	}
	defer f.Close()

	return audio.SaveWAV(f, &audio.Clip{Samples: take.Samples, SampleRate: app.Config.SampleRate})
}

// DecodeLive records from the device for app.Length or until ctx is done.
func (app *App) DecodeLive(ctx context.Context) (Result, error) {
	session, err := app.NewSession()
	if err != nil {
		return Result{}, err
	}

	take, err := session.Record(ctx, app.Length)
	if err != nil {
		return Result{}, err
	}

	return app.Finish(take), nil
}

func (app *App) Print(r Result) { writeResult(app.Out, r) }

func (app *App) PrintError(err error) { writeError(app.Out, err) }

func writeResult(w io.Writer, r Result) {
	if len(r.Symbols) == 0 {
		warnColor.Fprintln(w, "no tones detected")
	} else {
		labelColor.Fprint(w, "Morse: ")
		codeColor.Fprintln(w, r.Morse)
		labelColor.Fprint(w, "Code:  ")
		fmt.Fprintln(w, r.Code)
		labelColor.Fprint(w, "Text:  ")
		fmt.Fprintln(w, r.Text)
	}

	if r.Seconds > 0 {
		labelColor.Fprint(w, "Audio: ")
		fmt.Fprintf(w, "%.1fs  tone ~%dHz  %s\n", r.Seconds, int(r.Tone), r.Spectrogram)
	}
}

func writeError(w io.Writer, err error) {
	warnColor.Fprintln(w, "Error:", err)
}
