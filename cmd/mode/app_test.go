package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"morsetone/internal/audio"
	"morsetone/internal/config"
)

func init() {
	color.NoColor = true
}

type nopStream struct{}

func (nopStream) Start() error { return nil }
func (nopStream) Stop() error { return nil }
func (nopStream) Close() error { return nil }

// blockSource plays a fixed signal into the callback as soon as the stream
// is opened.
type blockSource struct {
	signal []float32
	chunk  int
}

type playingStream struct {
	nopStream
	src *blockSource
	cb  audio.Callback
}

func (s playingStream) Start() error {
	for i := 0; i < len(s.src.signal); i += s.src.chunk {
		block := s.src.signal[i:min(i+s.src.chunk, len(s.src.signal))]
		s.cb(block, len(block), nil)
	}
	return nil
}

func (b *blockSource) Open(cb audio.Callback) (audio.Stream, error) {
	return playingStream{src: b, cb: cb}, nil
}

func newTestApp(out *bytes.Buffer) *App {
	cfg := config.Default()
	cfg.SmoothWindow = 10 * time.Millisecond

	return &App{Config: cfg, Out: out, Log: zap.NewNop()}
}

// keyedSignal is a 700 Hz tone keying the letter A (dot, dash) at the
// given rate.
func keyedSignal(rate int) []float64 {
	var x []float64
	add := func(sec float64, tone bool) {
		for range int(math.Round(sec * float64(rate))) {
			v := 0.0
			if tone {
				v = 0.6 * math.Sin(2*math.Pi*700*float64(len(x))/float64(rate))
			}
			x = append(x, v)
		}
	}
	add(0.2, false)
	add(0.15, true)
	add(0.15, false)
	add(0.45, true)
	add(0.3, false)
	return x
}

func writeWAV(t *testing.T, rate int, samples []float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "keyed.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := audio.SaveWAV(f, &audio.Clip{Samples: samples, SampleRate: rate}); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEncodeDecode(t *testing.T) {
	app := newTestApp(&bytes.Buffer{})

	if got := app.Encode("SOS"); got != "... --- ..." {
		t.Fatalf("Encode = %q", got)
	}
	if got := app.Decode("... --- ..."); got != "SOS" {
		t.Fatalf("Decode = %q", got)
	}
}

func TestDecodeFile(t *testing.T) {
	for _, rate := range []int{44100, 8000} {
		var out bytes.Buffer
		app := newTestApp(&out)

		r, err := app.DecodeFile(writeWAV(t, rate, keyedSignal(rate)))
		if err != nil {
			t.Fatalf("rate %d: %v", rate, err)
		}

		if r.Morse != ". -" || r.Code != ".-" || r.Text != "A" {
			t.Fatalf("rate %d: result %+v", rate, r)
		}
		if math.Abs(r.Tone-700) > 15 {
			t.Fatalf("rate %d: tone %v", rate, r.Tone)
		}

		app.Print(r)
		if !strings.Contains(out.String(), "Text:  A") {
			t.Fatalf("rate %d: output %q", rate, out.String())
		}
	}
}

func TestDecodeFileErrors(t *testing.T) {
	app := newTestApp(&bytes.Buffer{})

	if _, err := app.DecodeFile(filepath.Join(t.TempDir(), "x.ogg")); !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Fatalf("want ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeLive(t *testing.T) {
	signal := keyedSignal(44100)
	block := make([]float32, len(signal))
	for i, v := range signal {
		block[i] = float32(v)
	}

	var out bytes.Buffer
	app := newTestApp(&out)
	app.Source = &blockSource{signal: block, chunk: 1024}
	app.Length = 10 * time.Millisecond
	app.Save = filepath.Join(t.TempDir(), "take.wav")

	r, err := app.DecodeLive(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if r.Morse != ". -" {
		t.Fatalf("Morse = %q", r.Morse)
	}

	clip, err := audio.Load(app.Save, 44100)
	if err != nil {
		t.Fatalf("saved take: %v", err)
	}
	if len(clip.Samples) != len(signal) {
		t.Fatalf("saved %d samples, want %d", len(clip.Samples), len(signal))
	}
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(&out)
	app.Source = &blockSource{chunk: 1024}

	path := writeWAV(t, 44100, keyedSignal(44100))
	script := strings.Join([]string{
		"1", "sos",
		"2", "... --- ...",
		"3", path,
		"4", "",
		"9",
		"5",
	}, "\n") + "\n"

	p := &Prompt{App: app, In: bufio.NewReader(strings.NewReader(script))}
	p.Run()

	for _, want := range []string{
		"Morse code: ... --- ...",
		"Decoded text: SOS",
		"Text:  A",
		"no tones detected",
		"Invalid choice!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPromptEOF(t *testing.T) {
	var out bytes.Buffer
	p := &Prompt{App: newTestApp(&out), In: bufio.NewReader(strings.NewReader(""))}
	p.Run()

	if !strings.Contains(out.String(), "Enter your choice") {
		t.Fatalf("output %q", out.String())
	}
}

func TestWriteDevices(t *testing.T) {
	var out bytes.Buffer
	writeDevices(&out, []string{"Built-in Mic (in:1)", "Speakers (out:2)"}, "Built-in Mic")

	want := "Audio devices (use -device N or a name prefix):\n" +
		"  1  Built-in Mic (in:1)\n" +
		"  2  Speakers (out:2)\n" +
		"\n" +
		"Default input: Built-in Mic\n"
	if out.String() != want {
		t.Fatalf("got %q", out.String())
	}

	out.Reset()
	writeDevices(&out, nil, "")
	if strings.Contains(out.String(), "Default input") || strings.Contains(out.String(), "Usage") {
		t.Fatalf("got %q", out.String())
	}
}
