package audio

import "errors"

var (
	ErrDevice         = errors.New("audio device error")
	ErrInputOverflow  = errors.New("input overflow")
	ErrInputUnderflow = errors.New("input underflow")
)

// Callback receives one block of mono samples. The block is only valid for
// the duration of the call. status is non-nil when the device reported a
// problem with this block; samples may be missing but the stream goes on.
type Callback func(block []float32, frames int, status error)

type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// Source opens capture streams that deliver blocks to a callback on the
// device's own schedule.
type Source interface {
	Open(cb Callback) (Stream, error)
}
