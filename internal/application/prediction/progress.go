package prediction

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// ProgressRuler is printed once before the first tick.
const ProgressRuler = "Job progression percentage : \n" +
	"0 %     10        20        30        40        50        60        70        80        90        100 %\n" +
	"+--------+---------+---------+---------+---------+---------+---------+---------+---------+---------+\n"

// ProgressSymbol marks one percent of completed molecules.
const ProgressSymbol = "#"

// DefaultStarvationTimeout bounds the wait for the next signal or result.
const DefaultStarvationTimeout = 60 * time.Second

// ErrStarved reports that a consumer gave up waiting; output may be
// incomplete.
var ErrStarved = errors.New(errors.CodeStarved, "no progress within starvation timeout")

// ProgressTracker renders a 100-symbol bar as workers report molecules.
type ProgressTracker struct {
	out     io.Writer
	total   int
	timeout time.Duration
	logger  logging.Logger
}

// NewProgressTracker creates a tracker expecting total signals.  A zero
// timeout selects DefaultStarvationTimeout.
func NewProgressTracker(out io.Writer, total int, timeout time.Duration, logger logging.Logger) *ProgressTracker {
	if timeout <= 0 {
		timeout = DefaultStarvationTimeout
	}
	return &ProgressTracker{out: out, total: total, timeout: timeout, logger: logger}
}

// Run consumes signals until total have arrived, the wait for one exceeds
// the starvation timeout, or ctx is done.  It returns the number of symbols
// printed.
func (p *ProgressTracker) Run(ctx context.Context, signals <-chan Signal) (int, error) {
	if p.total <= 0 {
		return 0, nil
	}
	if _, err := io.WriteString(p.out, ProgressRuler); err != nil {
		return 0, errors.Wrap(err, errors.CodeOutputFailed, "write progress ruler")
	}

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	printed, received := 0, 0
	for received < p.total {
		select {
		case <-signals:
		case <-timer.C:
			p.logger.Warn("progress starved, results may be incomplete",
				logging.Int("received", received), logging.Int("expected", p.total))
			return printed, ErrStarved
		case <-ctx.Done():
			return printed, ctx.Err()
		}
		resetTimer(timer, p.timeout)

		n := (received+1)*100/p.total - received*100/p.total
		received++
		if received == p.total {
			n = 100 - printed
		}
		if n > 0 {
			if _, err := io.WriteString(p.out, strings.Repeat(ProgressSymbol, n)); err != nil {
				return printed, errors.Wrap(err, errors.CodeOutputFailed, "write progress")
			}
			printed += n
		}
	}
	return printed, nil
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

//Personal.AI order the ending
