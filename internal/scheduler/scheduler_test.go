package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/genricoloni/autowallpaper/internal/domain"
	"go.uber.org/zap"
)

type runnerFunc func(ctx context.Context) domain.CycleOutcome

func (f runnerFunc) Run(ctx context.Context) domain.CycleOutcome { return f(ctx) }

// manualTicker lets a test decide exactly when a tick fires
func manualTicker(ticks chan time.Time) Option {
	return WithTicker(func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() {}
	})
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel to close")
	}
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cycle")
	}
}

func TestScheduler_InitialState(t *testing.T) {
	s := New(zap.NewNop(), runnerFunc(func(context.Context) domain.CycleOutcome {
		return domain.CycleOutcome{}
	}), time.Minute)

	if s.State() != Idle {
		t.Errorf("expected idle, got %s", s.State())
	}
	if s.Cycles() != 0 {
		t.Errorf("expected 0 cycles, got %d", s.Cycles())
	}
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := New(zap.NewNop(), runnerFunc(func(context.Context) domain.CycleOutcome {
		t.Error("runner must not be invoked")
		return domain.CycleOutcome{}
	}), time.Minute)

	s.Stop()

	if s.State() != Stopped {
		t.Errorf("expected stopped, got %s", s.State())
	}
	waitClosed(t, s.Done())

	if err := s.Start(context.Background()); !errors.Is(err, domain.ErrAlreadyStopped) {
		t.Errorf("expected ErrAlreadyStopped, got %v", err)
	}
	if s.State() != Stopped {
		t.Errorf("expected state to remain stopped, got %s", s.State())
	}
}

func TestScheduler_RunsImmediatelyThenOncePerTick(t *testing.T) {
	ticks := make(chan time.Time)
	ran := make(chan struct{}, 1)

	s := New(zap.NewNop(), runnerFunc(func(context.Context) domain.CycleOutcome {
		ran <- struct{}{}
		return domain.CycleOutcome{Kind: domain.OutcomeSuccess}
	}), time.Minute, manualTicker(ticks))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State() != Running {
		t.Errorf("expected running, got %s", s.State())
	}

	waitSignal(t, ran)

	const extraTicks = 3
	for i := 0; i < extraTicks; i++ {
		ticks <- time.Now()
		waitSignal(t, ran)
	}

	s.Stop()
	waitClosed(t, s.Done())

	if got := s.Cycles(); got != extraTicks+1 {
		t.Errorf("expected %d cycles, got %d", extraTicks+1, got)
	}
}

func TestScheduler_FailedCycleDoesNotCancelSchedule(t *testing.T) {
	ticks := make(chan time.Time)
	ran := make(chan struct{}, 1)
	var calls atomic.Int32

	s := New(zap.NewNop(), runnerFunc(func(context.Context) domain.CycleOutcome {
		defer func() { ran <- struct{}{} }()

		switch calls.Add(1) {
		case 1:
			return domain.CycleOutcome{Kind: domain.OutcomeNetworkFailure, Err: errors.New("no route to host")}
		case 2:
			panic("runner bug")
		default:
			return domain.CycleOutcome{Kind: domain.OutcomeSuccess}
		}
	}), time.Minute, manualTicker(ticks))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitSignal(t, ran)

	ticks <- time.Now()
	waitSignal(t, ran)

	ticks <- time.Now()
	waitSignal(t, ran)

	s.Stop()
	waitClosed(t, s.Done())

	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 runner calls, got %d", got)
	}
	if got := s.Cycles(); got != 3 {
		t.Errorf("expected 3 cycles, got %d", got)
	}
}

func TestScheduler_StopDoesNotInterruptInFlightCycle(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var cycleErr atomic.Value

	s := New(zap.NewNop(), runnerFunc(func(ctx context.Context) domain.CycleOutcome {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			cycleErr.Store(err)
		}
		return domain.CycleOutcome{Kind: domain.OutcomeSuccess}
	}), time.Minute, manualTicker(make(chan time.Time)))

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitSignal(t, started)

	cancel()
	s.Stop()

	if s.State() != Stopped {
		t.Errorf("expected stopped, got %s", s.State())
	}
	select {
	case <-s.Done():
		t.Fatal("done closed while a cycle was still running")
	default:
	}

	close(release)
	waitClosed(t, s.Done())

	if err := cycleErr.Load(); err != nil {
		t.Errorf("cycle context was cancelled: %v", err)
	}
	if got := s.Cycles(); got != 1 {
		t.Errorf("expected 1 cycle, got %d", got)
	}
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s := New(zap.NewNop(), runnerFunc(func(context.Context) domain.CycleOutcome {
		return domain.CycleOutcome{Kind: domain.OutcomeSuccess}
	}), time.Minute, manualTicker(make(chan time.Time)))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Stop()
	s.Stop()
	waitClosed(t, s.Done())

	if err := s.Start(context.Background()); !errors.Is(err, domain.ErrAlreadyStopped) {
		t.Errorf("expected ErrAlreadyStopped, got %v", err)
	}
}

func TestScheduler_StartWhileRunningIsNoop(t *testing.T) {
	ran := make(chan struct{}, 4)
	var tickers atomic.Int32

	s := New(zap.NewNop(), runnerFunc(func(context.Context) domain.CycleOutcome {
		ran <- struct{}{}
		return domain.CycleOutcome{Kind: domain.OutcomeSuccess}
	}), time.Minute, WithTicker(func(time.Duration) (<-chan time.Time, func()) {
		tickers.Add(1)
		return make(chan time.Time), func() {}
	}))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error on second start: %v", err)
	}
	waitSignal(t, ran)

	s.Stop()
	waitClosed(t, s.Done())

	if got := tickers.Load(); got != 1 {
		t.Errorf("expected a single loop, got %d", got)
	}
	if got := s.Cycles(); got != 1 {
		t.Errorf("expected 1 cycle, got %d", got)
	}
}

func TestScheduler_OverrunRunsNextCycleOnce(t *testing.T) {
	// Buffered like time.Ticker: one pending tick at most.
	ticks := make(chan time.Time, 1)
	first := make(chan struct{})
	release := make(chan struct{})
	ran := make(chan struct{}, 4)
	var calls atomic.Int32

	s := New(zap.NewNop(), runnerFunc(func(context.Context) domain.CycleOutcome {
		if calls.Add(1) == 1 {
			close(first)
			<-release
		}
		ran <- struct{}{}
		return domain.CycleOutcome{Kind: domain.OutcomeSuccess}
	}), time.Minute, manualTicker(ticks))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitSignal(t, first)

	// Several periods elapse during the first cycle
	for i := 0; i < 3; i++ {
		select {
		case ticks <- time.Now():
		default:
		}
	}
	close(release)

	waitSignal(t, ran)
	waitSignal(t, ran)

	s.Stop()
	waitClosed(t, s.Done())

	if got := calls.Load(); got != 2 {
		t.Errorf("expected overrun to cause exactly one catch-up cycle, got %d cycles", got)
	}
}

func TestScheduler_FixedRateWithDefaultTicker(t *testing.T) {
	const (
		period    = 50 * time.Millisecond
		intervals = 5
		tolerance = 10 * time.Millisecond
	)

	var mu sync.Mutex
	var starts []time.Time

	s := New(zap.NewNop(), runnerFunc(func(context.Context) domain.CycleOutcome {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
		return domain.CycleOutcome{Kind: domain.OutcomeSuccess}
	}), period)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(intervals*period + period/2)

	s.Stop()
	waitClosed(t, s.Done())

	mu.Lock()
	defer mu.Unlock()

	if n := len(starts); n < intervals || n > intervals+1 {
		t.Fatalf("expected %d or %d cycles over %d intervals, got %d", intervals, intervals+1, intervals, n)
	}
	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(starts[i-1]); gap < period-tolerance {
			t.Errorf("cycle %d started %s after the previous one, want at least %s", i, gap, period-tolerance)
		}
	}
}

func TestScheduler_RejectsNonPositivePeriod(t *testing.T) {
	tests := []struct {
		name   string
		period time.Duration
	}{
		{name: "Zero", period: 0},
		{name: "Negative", period: -324095 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(zap.NewNop(), runnerFunc(func(context.Context) domain.CycleOutcome {
				t.Error("runner must not be invoked")
				return domain.CycleOutcome{}
			}), tt.period)

			if err := s.Start(context.Background()); !errors.Is(err, ErrInvalidPeriod) {
				t.Fatalf("expected ErrInvalidPeriod, got %v", err)
			}
			if s.State() != Idle {
				t.Errorf("expected idle, got %s", s.State())
			}

			s.Stop()
			waitClosed(t, s.Done())
		})
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{Idle, "idle"},
		{Running, "running"},
		{Stopped, "stopped"},
		{State(7), "state(7)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}
