// Package portaudio captures from sound cards through PortAudio.
package portaudio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	pa "github.com/gordonklaus/portaudio"

	"morsetone/internal/audio"
)

// Init initializes PortAudio. Call the returned function to release it.
func Init() (func(), error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: initialize portaudio: %v", audio.ErrDevice, err)
	}
	return func() { pa.Terminate() }, nil
}

type DeviceKind int

const (
	InOut DeviceKind = iota
	In
	Out
)

// ListDevices returns device names, annotated with channel counts for InOut.
// For InOut the position in the list is the device number Input accepts.
func ListDevices(kind DeviceKind) ([]string, error) {
	devices, err := pa.Devices()
	if err != nil {
		return nil, err
	}

	var list []string

	for _, d := range devices {
		v := d.Name

		switch kind {
		case InOut:
			if d.MaxInputChannels > 0 {
				v += fmt.Sprintf(" (in:%v)", d.MaxInputChannels)
			}
			if d.MaxOutputChannels > 0 {
				v += fmt.Sprintf(" (out:%v)", d.MaxOutputChannels)
			}

		case In:
			if d.MaxInputChannels == 0 {
				continue
			}

		case Out:
			if d.MaxOutputChannels == 0 {
				continue
			}
		}

		list = append(list, v)
	}

	return list, nil
}

// DefaultInput names the default input device, or "" when there is none.
func DefaultInput() string {
	if d, err := pa.DefaultInputDevice(); err == nil && d != nil {
		return d.Name
	}
	return ""
}

// findInput resolves a 1-based device number or a name prefix.
// An empty name selects the default input.
func findInput(dev string) (*pa.DeviceInfo, error) {
	if dev == "" {
		return pa.DefaultInputDevice()
	}

	devices, err := pa.Devices()
	if err != nil {
		return nil, err
	}

	if i, err := strconv.Atoi(dev); err == nil && i > 0 && i <= len(devices) {
		return devices[i-1], nil
	}

	for _, d := range devices {
		if d.MaxInputChannels > 0 && strings.HasPrefix(d.Name, dev) {
			return d, nil
		}
	}

	return nil, fmt.Errorf("device not found: %s", dev)
}

// Input captures mono audio from a sound card.
type Input struct {
	Device     string // number, name prefix or empty for the default input
	SampleRate int
	ChunkSize  int // frames per block
}

func (p Input) Open(cb audio.Callback) (audio.Stream, error) {
	info, err := findInput(p.Device)
	if err != nil {
		return nil, err
	}

	params := pa.HighLatencyParameters(info, nil)
	params.Input.Channels = 1
	params.Output.Channels = 0
	params.SampleRate = float64(p.SampleRate)
	params.FramesPerBuffer = p.ChunkSize

	stream, err := pa.OpenStream(params, func(in []float32, _ pa.StreamCallbackTimeInfo, flags pa.StreamCallbackFlags) {
		cb(in, len(in), statusError(flags))
	})
	if err != nil {
		return nil, fmt.Errorf("open input %q: %w", info.Name, err)
	}

	return stream, nil
}

func statusError(flags pa.StreamCallbackFlags) error {
	var errs []error
	if flags&pa.InputOverflow != 0 {
		errs = append(errs, audio.ErrInputOverflow)
	}
	if flags&pa.InputUnderflow != 0 {
		errs = append(errs, audio.ErrInputUnderflow)
	}
	return errors.Join(errs...)
}
