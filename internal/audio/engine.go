// Package audio streams and decodes tracks for the player using beep.
package audio

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonata/internal/player"
	"github.com/desertthunder/sonata/internal/shared"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
)

var _ player.Engine = (*Engine)(nil)

// Output is the sound device the engine plays through. [Speaker] is the real one.
type Output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Clear()
}

// Speaker plays through the system audio device.
type Speaker struct{}

func (Speaker) Init(rate beep.SampleRate, n int) error { return speaker.Init(rate, n) }
func (Speaker) Play(s beep.Streamer)                   { speaker.Play(s) }
func (Speaker) Lock()                                  { speaker.Lock() }
func (Speaker) Unlock()                                { speaker.Unlock() }
func (Speaker) Clear()                                 { speaker.Clear() }

// Decoder turns an audio stream into a beep streamer.
type Decoder func(r *Reader) (beep.StreamSeekCloser, beep.Format, error)

// DecodeMP3 is the default [Decoder].
func DecodeMP3(r *Reader) (beep.StreamSeekCloser, beep.Format, error) {
	return mp3.Decode(r)
}

// Options configures an [Engine].
type Options struct {
	Client       *http.Client
	BufferSize   int
	Output       Output
	Decoder      Decoder
	TickInterval time.Duration
	Logger       *log.Logger
}

// Engine implements [player.Engine] on top of a beep [Output].
//
// Each Load starts a session; opening and decoding happen in the background
// so the caller is never blocked on the network.
type Engine struct {
	mu         sync.Mutex
	client     *http.Client
	bufferSize int
	output     Output
	decode     Decoder
	tick       time.Duration
	logger     *log.Logger

	events     player.MediaEvents
	volume     float64
	rate       beep.SampleRate
	outputInit bool
	gen        uint64
	session    *session
}

type session struct {
	gen      uint64
	cancel   context.CancelFunc
	reader   *Reader
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	vol      *effects.Volume
	done     chan struct{}
}

// NewEngine creates an engine. Zero options fall back to the system speaker,
// the mp3 decoder and a one second progress tick.
func NewEngine(opts Options) *Engine {
	if opts.Client == nil {
		opts.Client = NewStreamClient()
	}
	if opts.Output == nil {
		opts.Output = Speaker{}
	}
	if opts.Decoder == nil {
		opts.Decoder = DecodeMP3
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Engine{
		client:     opts.Client,
		bufferSize: opts.BufferSize,
		output:     opts.Output,
		decode:     opts.Decoder,
		tick:       opts.TickInterval,
		logger:     opts.Logger,
		volume:     1,
	}
}

// Bind sets the receiver of media events.
func (e *Engine) Bind(events player.MediaEvents) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = events
}

// Load stops the current session and starts streaming track.
func (e *Engine) Load(ctx context.Context, track player.Track) error {
	if !strings.HasPrefix(track.AudioURL, "http://") && !strings.HasPrefix(track.AudioURL, "https://") {
		return fmt.Errorf("%w: track %s has no playable audio URL", shared.ErrUnsupported, track.ID)
	}

	e.mu.Lock()
	e.stopLocked()
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	go e.open(ctx, gen, track)
	return nil
}

func (e *Engine) open(parent context.Context, gen uint64, track player.Track) {
	ctx, cancel := context.WithCancel(parent)

	reader, err := NewReader(ctx, e.client, track.AudioURL, e.bufferSize)
	if err != nil {
		cancel()
		e.fail(gen, fmt.Errorf("failed to open stream for %s: %w", track.ID, err))
		return
	}

	streamer, format, err := e.decode(reader)
	if err != nil {
		reader.Close()
		cancel()
		e.fail(gen, fmt.Errorf("%w: failed to decode %s: %v", shared.ErrUnsupported, track.ID, err))
		return
	}

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		streamer.Close()
		reader.Close()
		cancel()
		return
	}

	if !e.outputInit {
		if err := e.output.Init(format.SampleRate, format.SampleRate.N(time.Second/5)); err != nil {
			e.mu.Unlock()
			streamer.Close()
			reader.Close()
			cancel()
			e.fail(gen, fmt.Errorf("failed to initialize audio output: %w", err))
			return
		}
		e.rate = format.SampleRate
		e.outputInit = true
	}

	var src beep.Streamer = streamer
	if format.SampleRate != e.rate {
		src = beep.Resample(4, format.SampleRate, e.rate, streamer)
	}

	s := &session{
		gen:      gen,
		cancel:   cancel,
		reader:   reader,
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: src},
		done:     make(chan struct{}),
	}
	s.vol = &effects.Volume{Streamer: s.ctrl, Base: 2}
	applyVolume(s.vol, e.volume)
	e.session = s

	done := s.done
	e.output.Play(beep.Seq(s.vol, beep.Callback(func() { close(done) })))
	events := e.events
	e.mu.Unlock()

	e.logger.Debug("playback started", "id", track.ID, "rate", format.SampleRate)
	go e.monitor(ctx, s, events)
}

// monitor reports duration once, then position on every tick, then the end.
func (e *Engine) monitor(ctx context.Context, s *session, events player.MediaEvents) {
	if events == nil {
		return
	}

	e.output.Lock()
	length := s.streamer.Len()
	e.output.Unlock()
	if length > 0 {
		events.DurationChange(s.format.SampleRate.D(length).Seconds())
	}

	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			if e.current(s.gen) {
				events.Ended()
			}
			return
		case <-ticker.C:
			e.output.Lock()
			pos := s.format.SampleRate.D(s.streamer.Position())
			e.output.Unlock()
			if e.current(s.gen) {
				events.TimeUpdate(pos.Seconds())
			}
		}
	}
}

func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil && e.session.gen == gen
}

func (e *Engine) fail(gen uint64, err error) {
	e.mu.Lock()
	events := e.events
	stale := gen != e.gen
	e.mu.Unlock()

	if stale {
		return
	}
	e.logger.Warn("audio session failed", "error", err)
	if events != nil {
		events.Failed(err)
	}
}

// Pause halts output without dropping the stream.
func (e *Engine) Pause() { e.setPaused(true) }

// Resume continues a paused stream.
func (e *Engine) Resume() { e.setPaused(false) }

func (e *Engine) setPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return
	}
	e.output.Lock()
	e.session.ctrl.Paused = paused
	e.output.Unlock()
}

// Seek moves the decoder to position seconds.
//
// Only the output lock is held while seeking. Seeking a remote stream may
// reopen it with a Range request, and output is silent until that returns.
func (e *Engine) Seek(position float64) error {
	e.mu.Lock()
	s := e.session
	e.mu.Unlock()
	if s == nil {
		return nil
	}

	e.output.Lock()
	defer e.output.Unlock()

	n := s.format.SampleRate.N(time.Duration(position * float64(time.Second)))
	if length := s.streamer.Len(); length > 0 && n >= length {
		n = length - 1
	}
	if n < 0 {
		n = 0
	}
	if err := s.streamer.Seek(n); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

// SetVolume applies level in [0, 1] to the current and future sessions.
func (e *Engine) SetVolume(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = level
	if e.session == nil {
		return
	}
	e.output.Lock()
	applyVolume(e.session.vol, level)
	e.output.Unlock()
}

// Stop ends the current session.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	s := e.session
	if s == nil {
		return
	}
	e.session = nil

	s.cancel()
	e.output.Clear()
	s.streamer.Close()
	s.reader.Close()
}

// applyVolume maps a linear level onto beep's base-2 exponential volume.
func applyVolume(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(math.Min(level, 1))
}
