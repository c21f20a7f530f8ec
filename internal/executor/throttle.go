package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aryankumar/taskpool/internal/util"
)

// DefaultThrottleDelay is the artificial latency applied by SubmitBlocking
const DefaultThrottleDelay = 100 * time.Millisecond

// ThrottleMode selects whether throttled submissions run one at a time
type ThrottleMode int

const (
	// ThrottleSerialized lets one caller at a time through delay and enqueue
	ThrottleSerialized ThrottleMode = iota
	// ThrottleConcurrent applies the delay to each caller independently
	ThrottleConcurrent
)

// String returns the configuration name of the mode
func (m ThrottleMode) String() string {
	switch m {
	case ThrottleSerialized:
		return "serialized"
	case ThrottleConcurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("ThrottleMode(%d)", int(m))
	}
}

// ParseThrottleMode parses "serialized" or "concurrent"
func ParseThrottleMode(s string) (ThrottleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "serialized", "serial", "":
		return ThrottleSerialized, nil
	case "concurrent", "parallel":
		return ThrottleConcurrent, nil
	default:
		return ThrottleSerialized, fmt.Errorf("unknown throttle mode %q: %w", s, util.ErrInvalidArgument)
	}
}

// Throttle inserts a fixed delay on the caller's goroutine before a submission.
// In serialized mode it also holds a lock across the delay and the submission,
// so concurrent callers pass through one after another.
type Throttle struct {
	delay  time.Duration
	mode   ThrottleMode
	sem    chan struct{}
	logger *slog.Logger
}

// NewThrottle creates a throttle. A non-positive delay disables the sleep but
// keeps the serialization guarantee of the mode.
func NewThrottle(delay time.Duration, mode ThrottleMode, logger *slog.Logger) *Throttle {
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Throttle{
		delay:  delay,
		mode:   mode,
		sem:    make(chan struct{}, 1),
		logger: logger,
	}
}

// Delay returns the configured delay
func (t *Throttle) Delay() time.Duration { return t.delay }

// Mode returns the configured mode
func (t *Throttle) Mode() ThrottleMode { return t.mode }

// Do waits out the delay and then calls fn.
// If ctx ends first, fn is not called and the returned error matches
// util.ErrInterrupted as well as the context's error.
func (t *Throttle) Do(ctx context.Context, fn func() error) error {
	if t.mode == ThrottleSerialized {
		select {
		case t.sem <- struct{}{}:
			defer func() { <-t.sem }()
		case <-ctx.Done():
			return fmt.Errorf("%w waiting for throttle slot: %w", util.ErrInterrupted, ctx.Err())
		}
	}

	if t.delay > 0 {
		t.logger.Debug("throttling submission", "delay", t.delay, "mode", t.mode.String())

		timer := time.NewTimer(t.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return fmt.Errorf("%w during throttle delay: %w", util.ErrInterrupted, ctx.Err())
		}
	} else if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w before submission: %w", util.ErrInterrupted, err)
	}

	return fn()
}
