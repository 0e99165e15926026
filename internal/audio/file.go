// Package audio loads and saves recordings and defines the capture stream
// a sound device delivers blocks through.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/transforms"
	"github.com/go-audio/wav"
	"gonum.org/v1/gonum/floats"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// resampleQuality is the beep resampler quality used for MP3 input.
const resampleQuality = 4

// Clip is a mono recording with samples in [-1, 1].
type Clip struct {
	Samples    []float64
	SampleRate int
}

func (c *Clip) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// Load reads a .wav or .mp3 file. MP3 audio is resampled to targetRate;
// WAV audio keeps its own rate.
func Load(path string, targetRate int) (*Clip, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".wav" && ext != ".mp3" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if ext == ".mp3" {
		// the decoder owns f from here
		return LoadMP3(f, targetRate)
	}

	defer f.Close()
	return LoadWAV(f)
}

func LoadWAV(r io.ReadSeeker) (*Clip, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV file", ErrUnsupportedFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(decoder.BitDepth)
	}

	fb := buf.AsFloatBuffer()
	if depth == 8 {
		// 8 bit PCM is unsigned
		floats.AddConst(-128, fb.Data)
	}
	transforms.MonoDownmix(fb)

	if depth > 0 {
		floats.Scale(1/float64(int(1)<<(depth-1)), fb.Data)
	}

	return &Clip{Samples: fb.Data, SampleRate: fb.Format.SampleRate}, nil
}

// LoadMP3 decodes all of rc, mixes it down to mono and resamples it to
// targetRate (0 keeps the file rate). rc is closed.
func LoadMP3(rc io.ReadCloser, targetRate int) (*Clip, error) {
	streamer, format, err := mp3.Decode(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	rate := format.SampleRate
	if targetRate > 0 && beep.SampleRate(targetRate) != rate {
		s = beep.Resample(resampleQuality, rate, beep.SampleRate(targetRate), streamer)
		rate = beep.SampleRate(targetRate)
	}

	samples, err := readMono(s)
	if err != nil {
		return nil, err
	}

	return &Clip{Samples: samples, SampleRate: int(rate)}, nil
}

// readMono streams s to the end, averaging the two channels. A decoder
// failure at any point means a broken file.
func readMono(s beep.Streamer) ([]float64, error) {
	var samples []float64
	chunk := make([][2]float64, 4096)
	for {
		n, ok := s.Stream(chunk)
		for _, frame := range chunk[:n] {
			samples = append(samples, (frame[0]+frame[1])/2)
		}
		if !ok {
			break
		}
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: decode mp3: %v", ErrUnsupportedFormat, err)
	}
	return samples, nil
}

// SaveWAV writes the clip as 16 bit mono PCM.
func SaveWAV(w io.WriteSeeker, clip *Clip) error {
	enc := wav.NewEncoder(w, clip.SampleRate, 16, 1, 1)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: clip.SampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(clip.Samples)),
	}
	for i, s := range clip.Samples {
		s = max(-1, min(1, s))
		buf.Data[i] = int(s * 32767)
	}

	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
