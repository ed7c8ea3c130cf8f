package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/genricoloni/autowallpaper/internal/domain"
	"go.uber.org/zap"
)

// State is the lifecycle position of a Scheduler
type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInvalidPeriod is returned by Start when the period is not positive
var ErrInvalidPeriod = errors.New("scheduler period must be positive")

// TickerFunc returns a tick channel and a function releasing it.
// The default wraps time.NewTicker, which keeps at most one tick pending.
type TickerFunc func(period time.Duration) (<-chan time.Time, func())

func realTicker(period time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(period)
	return t.C, t.Stop
}

// Option customizes a Scheduler
type Option func(*Scheduler)

// WithTicker replaces the tick source
func WithTicker(f TickerFunc) Option {
	return func(s *Scheduler) {
		s.newTicker = f
	}
}

// Scheduler runs a domain.Runner once at Start and then once per period,
// strictly one cycle at a time, until Stop is called.
type Scheduler struct {
	logger    *zap.Logger
	runner    domain.Runner
	period    time.Duration
	newTicker TickerFunc

	mu    sync.Mutex
	state State
	stop  chan struct{}
	done  chan struct{}

	cycles atomic.Int64
}

// New creates an idle scheduler
func New(logger *zap.Logger, runner domain.Runner, period time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:    logger,
		runner:    runner,
		period:    period,
		newTicker: realTicker,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the loop goroutine. The first cycle runs immediately.
// Cycles inherit ctx values but not its cancellation.
// A non-positive period is rejected and leaves the scheduler idle.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Stopped:
		return domain.ErrAlreadyStopped
	case Running:
		return nil
	}

	if s.period <= 0 {
		return fmt.Errorf("%w, got %s", ErrInvalidPeriod, s.period)
	}

	s.state = Running
	go s.loop(context.WithoutCancel(ctx))

	s.logger.Info("Scheduler started", zap.Duration("period", s.period))
	return nil
}

// Stop prevents any further cycle. An in-flight cycle runs to completion;
// wait on Done to observe it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Stopped:
		return
	case Idle:
		close(s.done)
	}

	s.state = Stopped
	close(s.stop)
	s.logger.Info("Scheduler stopped", zap.Int64("cycles", s.cycles.Load()))
}

// Done is closed once the loop has exited, or on Stop if it never started
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cycles reports how many cycles have completed
func (s *Scheduler) Cycles() int64 {
	return s.cycles.Load()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticks, release := s.newTicker(s.period)
	defer release()

	s.runCycle(ctx)

	for {
		select {
		case <-s.stop:
			return
		case <-ticks:
			// A tick and a stop may be ready together; stop wins.
			select {
			case <-s.stop:
				return
			default:
			}
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("Cycle panicked", zap.Any("panic", p))
		}
		s.cycles.Add(1)
	}()

	outcome := s.runner.Run(ctx)
	s.logger.Debug("Cycle finished",
		zap.String("outcome", string(outcome.Kind)),
		zap.Duration("took", outcome.Duration))
}
