package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"morsetone/internal/audio"
	"morsetone/internal/config"
	"morsetone/internal/logging"
	"morsetone/internal/morse"
)

var (
	ErrCaptureActive   = errors.New("capture already active")
	ErrCaptureInactive = errors.New("capture not active")
)

// Take is the outcome of one recording.
type Take struct {
	Samples []float64
	Symbols []morse.Symbol
	Dropped int // blocks refused by a bounded queue
}

// Session records from a Source between Start and Stop and decodes the
// whole recording on Stop. Each session keeps its own recording state.
type Session struct {
	source   audio.Source
	detector *morse.Detector
	limit    int
	log      *zap.Logger

	mu     sync.Mutex // serializes Start and Stop
	stream audio.Stream

	active   atomic.Bool
	queue    atomic.Pointer[Queue]
	warnings atomic.Int64
}

func NewSession(cfg config.Config, source audio.Source, log *zap.Logger) (*Session, error) {
	log = logging.OrNop(log)

	detector, err := morse.NewDetector(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Session{
		source:   source,
		detector: detector,
		limit:    cfg.MaxBlocks,
		log:      log,
	}, nil
}

func (s *Session) Active() bool { return s.active.Load() }

func (s *Session) Config() config.Config { return s.detector.Config() }

// Buffered returns the number of blocks queued in the current recording.
func (s *Session) Buffered() int {
	if q := s.queue.Load(); q != nil {
		return q.Len()
	}
	return 0
}

// Warnings counts the blocks delivered with a device status since the
// session was created.
func (s *Session) Warnings() int64 { return s.warnings.Load() }

// Start begins a new recording with an empty queue.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active.Load() {
		return ErrCaptureActive
	}

	s.queue.Store(NewQueue(s.limit))

	stream, err := s.source.Open(s.OnBlock)
	if err != nil {
		s.queue.Store(nil)
		return fmt.Errorf("%w: open stream: %w", audio.ErrDevice, err)
	}

	s.active.Store(true)

	if err := stream.Start(); err != nil {
		s.active.Store(false)
		s.queue.Store(nil)
		return fmt.Errorf("%w: start stream: %w", audio.ErrDevice, errors.Join(err, stream.Close()))
	}

	s.stream = stream
	s.log.Debug("capture started")
	return nil
}

// OnBlock is the device callback. It copies block into the queue while the
// session is recording and drops it otherwise. A device status is logged
// and the block is still kept.
func (s *Session) OnBlock(block []float32, frames int, status error) {
	if status != nil {
		s.warnings.Add(1)
		s.log.Warn("audio callback status", zap.Error(status), zap.Int("frames", frames))
	}

	if !s.active.Load() {
		return
	}

	q := s.queue.Load()
	if q == nil {
		return
	}

	n := max(min(frames, len(block)), 0)

	b := make([]float32, n)
	copy(b, block[:n])
	q.Push(b)
}

// Stop ends the recording, closes the device stream and decodes everything
// captured. A recording with no blocks gives an empty Take.
func (s *Session) Stop() (Take, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active.Load() {
		return Take{}, ErrCaptureInactive
	}

	s.active.Store(false)

	stream := s.stream
	s.stream = nil
	serr := errors.Join(stream.Stop(), stream.Close())

	q := s.queue.Swap(nil)
	blocks := q.Drain()

	if serr != nil {
		return Take{}, fmt.Errorf("%w: stop stream: %w", audio.ErrDevice, serr)
	}

	take := Take{Dropped: q.Dropped()}
	if take.Dropped > 0 {
		s.log.Warn("capture queue full, blocks dropped", zap.Int("dropped", take.Dropped))
	}

	if len(blocks) == 0 {
		s.log.Debug("capture stopped, nothing recorded")
		return take, nil
	}

	take.Samples = Concat(blocks)
	s.log.Debug("capture stopped", zap.Int("blocks", len(blocks)), zap.Int("samples", len(take.Samples)))

	symbols, err := s.detector.Detect(take.Samples)
	if err != nil {
		return take, err
	}

	take.Symbols = symbols
	return take, nil
}

// Record captures for d (or until ctx is done when d <= 0) and returns the
// decoded take. The stream is always stopped before Record returns; a
// cancelled context ends the recording early without an error.
func (s *Session) Record(ctx context.Context, d time.Duration) (Take, error) {
	if err := s.Start(); err != nil {
		return Take{}, err
	}

	var timeout <-chan time.Time
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-timeout:
	case <-ctx.Done():
		s.log.Debug("capture interrupted", zap.Error(ctx.Err()))
	}

	return s.Stop()
}
