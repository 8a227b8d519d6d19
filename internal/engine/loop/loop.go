// Package loop drives frames one after another at a fixed cadence.
//
// A tick never overlaps the previous one: the next tick starts only after the
// previous returned, and input gathered by a tick applies to that tick's frame.
package loop

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/cubecarpet/internal/logger"
)

// Result tells the scheduler whether to keep going.
type Result int

const (
	Continue Result = iota
	Stop
)

// Frame describes the tick being run.
type Frame struct {
	Index  uint64
	Delta  time.Duration
	Paused bool
}

// Tick runs one frame.
type Tick func(ctx context.Context, f Frame) (Result, error)

// Scheduler calls a Tick repeatedly until told to stop.
type Scheduler struct {
	// Interval is the minimum time between tick starts. Zero runs ticks
	// back to back (vsync then paces the loop).
	Interval time.Duration

	paused bool
	now    func() time.Time
}

// New creates a scheduler targeting fps frames per second. fps <= 0 means
// no limit.
func New(fps int) *Scheduler {
	s := &Scheduler{now: time.Now}
	if fps > 0 {
		s.Interval = time.Second / time.Duration(fps)
	}
	return s
}

// Pause marks subsequent frames as paused. Ticks keep running so input is
// still handled; the tick decides what a paused frame does.
func (s *Scheduler) Pause() { s.paused = true }

// Resume clears the paused mark.
func (s *Scheduler) Resume() { s.paused = false }

// Toggle flips the paused mark and returns the new value.
func (s *Scheduler) Toggle() bool {
	s.paused = !s.paused
	return s.paused
}

// Paused reports whether frames are currently paused.
func (s *Scheduler) Paused() bool { return s.paused }

// Run calls tick until it returns Stop or an error, or ctx is cancelled.
// Cancellation is a normal shutdown and returns nil.
func (s *Scheduler) Run(ctx context.Context, tick Tick) error {
	if s.now == nil {
		s.now = time.Now
	}

	var (
		index      uint64
		last       = s.now()
		frames     int
		statsSince = last
	)

	for {
		if ctx.Err() != nil {
			return nil
		}

		start := s.now()
		f := Frame{Index: index, Delta: start.Sub(last), Paused: s.paused}
		last = start

		res, err := tick(ctx, f)
		if err != nil {
			return fmt.Errorf("frame %d: %w", index, err)
		}
		if res == Stop {
			return nil
		}
		index++

		frames++
		if elapsed := s.now().Sub(statsSince); elapsed >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frames),
				zap.Duration("dt", f.Delta),
				zap.Bool("paused", s.paused),
			)
			frames = 0
			statsSince = s.now()
		}

		if s.Interval > 0 {
			if wait := s.Interval - s.now().Sub(start); wait > 0 {
				if !sleep(ctx, wait) {
					return nil
				}
			}
		}
	}
}

// sleep waits for d or until ctx is done. It reports false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
