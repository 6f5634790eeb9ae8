package engine

import (
	"time"

	"github.com/lumen-render/lumen/engine/sync"
)

// SessionBuilderOption is a functional option for configuring a Session.
// Use the With* functions to create options that are applied directly to the
// session instance.
type SessionBuilderOption func(*session)

// WithProfiling enables or disables pass timing output.
//
// Parameters:
//   - enabled: if true, enables pass timing output
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithProfiling(enabled bool) SessionBuilderOption {
	return func(s *session) {
		s.profilingEnabled = enabled
	}
}

// WithTickRate sets the playback rate in frames per second.
// Values <= 0 will be treated as the default (24fps).
//
// Parameters:
//   - fps: target frames per second (default 24)
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithTickRate(fps float64) SessionBuilderOption {
	return func(s *session) {
		if fps <= 0 {
			fps = 24.0
		}
		s.tickRate = time.Second / time.Duration(fps)
	}
}

// WithFrameRange sets the inclusive frame range Run plays through.
//
// Parameters:
//   - start: first frame
//   - end: last frame, clamped to at least start
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithFrameRange(start, end int) SessionBuilderOption {
	return func(s *session) {
		s.frameStart = start
		s.frameEnd = max(start, end)
	}
}

// WithFrameCallback registers the per-frame statistics callback during
// session construction.
//
// Parameters:
//   - callback: function receiving the frame number and pass statistics
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithFrameCallback(callback func(frame int, stats sync.Stats)) SessionBuilderOption {
	return func(s *session) {
		s.frameCallback = callback
	}
}
