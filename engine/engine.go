package engine

import (
	"fmt"
	"log"
	stdsync "sync"
	"time"

	"github.com/lumen-render/lumen/engine/host"
	"github.com/lumen-render/lumen/engine/profiler"
	"github.com/lumen-render/lumen/engine/sync"
)

// session implements the Session interface.
// Coordinates the frame advance loop and synchronization passes.
type session struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool

	quitChannel chan struct{}
	quitOnce    stdsync.Once // Ensures quitChannel is only closed once

	syncer *sync.Syncer
	frames host.FrameSetter

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate      time.Duration
	frameStart    int
	frameEnd      int
	frameCallback func(frame int, stats sync.Stats)
	errorCallback func(frame int, err error)
}

// Session drives a synchronizer over an animated frame range. It owns the
// frame advance loop; each tick moves the host graph one frame forward and
// runs a full synchronization, reporting per-frame statistics through the
// frame callback.
type Session interface {
	// Syncer returns the underlying synchronizer.
	//
	// Returns:
	//   - *sync.Syncer: the synchronizer instance
	Syncer() *sync.Syncer

	// EnableProfiler enables pass timing output to the log.
	EnableProfiler()

	// DisableProfiler disables pass timing output.
	DisableProfiler()

	// SetTickRate sets the playback rate in frames per second.
	// If the session is running, the change takes effect immediately.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 24 if <= 0)
	SetTickRate(fps float64)

	// SetFrameCallback registers the function called after each frame's
	// synchronization completes.
	//
	// Parameters:
	//   - callback: function receiving the frame number and pass statistics
	SetFrameCallback(callback func(frame int, stats sync.Stats))

	// SetErrorCallback registers the function called when a frame's
	// synchronization fails. Without one, errors stop the run.
	//
	// Parameters:
	//   - callback: function receiving the frame number and error
	SetErrorCallback(callback func(frame int, err error))

	// SyncFrame moves the host graph to one frame and synchronizes it.
	//
	// Parameters:
	//   - frame: the frame number
	//   - subframe: fractional offset within the frame, in [0, 1)
	//
	// Returns:
	//   - sync.Stats: statistics for the completed pass
	//   - error: error if synchronization fails
	SyncFrame(frame int, subframe float32) (sync.Stats, error)

	// Run plays the configured frame range at the tick rate, synchronizing
	// each frame (blocks until the range completes or Quit is called).
	//
	// Returns:
	//   - error: the first synchronization error when no error callback is set
	Run() error

	// Quit signals the frame loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewSession creates a Session around a synchronizer.
// Options are applied directly to the session struct via the option-builder
// pattern.
//
// Parameters:
//   - syncer: the synchronizer to drive; must not be nil
//   - frames: the host's frame setter; must not be nil
//   - options: functional options for session configuration
//
// Returns:
//   - Session: the newly created session
func NewSession(syncer *sync.Syncer, frames host.FrameSetter, options ...SessionBuilderOption) Session {
	if syncer == nil {
		panic("engine: syncer is required")
	}
	if frames == nil {
		panic("engine: frame setter is required")
	}
	s := &session{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		syncer:          syncer,
		frames:          frames,
		profiler:        profiler.NewProfiler(),
		tickRate:        time.Second / 24,
		frameStart:      1,
		frameEnd:        1,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *session) Syncer() *sync.Syncer {
	return s.syncer
}

func (s *session) SyncFrame(frame int, subframe float32) (sync.Stats, error) {
	endPass := s.profiler.BeginPass()
	endStage := s.profiler.Stage("frame-set")
	s.frames.SetFrame(frame, subframe)
	endStage()
	endStage = s.profiler.Stage("sync")
	err := s.syncer.Sync()
	endStage()
	endPass()
	if s.profilingEnabled {
		s.profiler.Tick()
	}
	stats := s.syncer.Stats()
	if err != nil {
		return stats, fmt.Errorf("engine: frame %d: %w", frame, err)
	}

	// The session is the consumer of the change tracking: once statistics
	// are collected the frame's flags are spent, and leaving them raised
	// would re-tag and re-convert every entity on the next frame.
	scene := s.syncer.Scene()
	scene.ClearModified()
	scene.ClearUpdateFlags()

	return stats, nil
}

func (s *session) Run() error {
	s.running = true
	defer func() { s.running = false }()
	// Recover from panics inside the frame loop to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("frame loop recovered from panic: %v", r)
			s.signalQuit()
		}
	}()

	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	frame := s.frameStart
	for frame <= s.frameEnd {
		select {
		case <-s.quitChannel:
			return nil
		case newRate := <-s.tickRateChannel:
			ticker.Reset(newRate)
			s.tickRate = newRate
		case <-ticker.C:
			stats, err := s.SyncFrame(frame, 0)
			if err != nil {
				if s.errorCallback == nil {
					return err
				}
				s.errorCallback(frame, err)
			}
			if s.frameCallback != nil {
				s.frameCallback(frame, stats)
			}
			frame++
		}
	}
	return nil
}

// Quit signals the frame loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (s *session) Quit() {
	s.signalQuit()
}

// signalQuit closes the quit channel to signal the frame loop to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (s *session) signalQuit() {
	s.quitOnce.Do(func() {
		close(s.quitChannel)
	})
}

// EnableProfiler enables pass timing output to the log.
func (s *session) EnableProfiler() {
	s.profilingEnabled = true
}

// DisableProfiler disables pass timing output.
func (s *session) DisableProfiler() {
	s.profilingEnabled = false
}

// SetTickRate sets the playback rate in frames per second.
// If the session is running, the change takes effect immediately.
func (s *session) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 24
	}
	newRate := time.Second / time.Duration(fps)

	if s.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case s.tickRateChannel <- newRate:
		default:
			select {
			case <-s.tickRateChannel:
			default:
			}
			s.tickRateChannel <- newRate
		}
	} else {
		s.tickRate = newRate
	}
}

// SetFrameCallback registers the function called after each frame completes.
func (s *session) SetFrameCallback(callback func(frame int, stats sync.Stats)) {
	s.frameCallback = callback
}

// SetErrorCallback registers the function called when a frame fails.
func (s *session) SetErrorCallback(callback func(frame int, err error)) {
	s.errorCallback = callback
}
