package rate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const defaultRefreshInterval = 300 * time.Second

var ErrRefreshInProgress = errors.New("refresh already in progress")

type State int32

const (
	StateIdle State = iota
	StateRefreshing
)

func (s State) String() string {
	if s == StateRefreshing {
		return "refreshing"
	}
	return "idle"
}

type Refresher interface {
	Refresh(ctx context.Context, source string) (RefreshResult, error)
}

// Scheduler runs a refresh cycle every interval and on demand. At most one cycle
// runs at a time; a trigger that arrives during a cycle is dropped, not queued.
type Scheduler struct {
	refresher Refresher
	clock     clockwork.Clock
	interval  time.Duration
	state     atomic.Int32
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
	job   gocron.Job
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler(gocron.WithClock(s.clock))
	if err != nil {
		return err
	}

	job := func(jobCtx context.Context) {
		if _, runErr := s.runCycle(jobCtx, ""); runErr != nil && !errors.Is(runErr, ErrRefreshInProgress) {
			logrus.Errorf("Scheduled rates refresh failed: %v", runErr)
		}
	}

	j, err := scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	s.mu.Lock()
	s.sched = scheduler
	s.job = j
	s.mu.Unlock()

	scheduler.Start()
	logrus.Infof("Rates refresh scheduled every %s", s.interval)

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	s.job = nil
	return err
}

// Trigger runs one cycle and waits for it. It returns ErrRefreshInProgress right away
// when another cycle is running.
func (s *Scheduler) Trigger(ctx context.Context, source string) (RefreshResult, error) {
	return s.runCycle(ctx, source)
}

// TriggerAsync asks for an out-of-band cycle without waiting for it.
func (s *Scheduler) TriggerAsync() {
	if s.State() == StateRefreshing {
		return
	}

	s.mu.Lock()
	job := s.job
	s.mu.Unlock()

	if job != nil {
		err := job.RunNow()
		if err == nil {
			return
		}
		logrus.Warnf("Failed to run refresh job now, falling back to a goroutine: %v", err)
	}
	go func() {
		if _, err := s.runCycle(context.Background(), ""); err != nil && !errors.Is(err, ErrRefreshInProgress) {
			logrus.Errorf("Out-of-band rates refresh failed: %v", err)
		}
	}()
}

func (s *Scheduler) State() State {
	return State(s.state.Load())
}

func (s *Scheduler) runCycle(ctx context.Context, source string) (res RefreshResult, err error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRefreshing)) {
		logrus.Info("Rates refresh is already running, skipping this trigger")
		return RefreshResult{}, ErrRefreshInProgress
	}
	defer s.state.Store(int32(StateIdle))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh cycle panicked: %v", r)
			logrus.Error(err)
		}
	}()

	res, err = s.refresher.Refresh(ctx, source)
	if err != nil {
		logrus.WithField("exec_id", res.ExecID).WithError(err).Error("Rates refresh cycle failed")
		return res, err
	}
	logrus.WithField("exec_id", res.ExecID).Infof("Rates refresh cycle finished: %s", res.Message())
	return res, nil
}

func NewScheduler(refresher Refresher, clock clockwork.Clock, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{refresher: refresher, clock: clock, interval: interval}
}
