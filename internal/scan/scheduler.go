package scan

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const DefaultCron = "*/10 * * * *"

type Runner interface {
	Run(ctx context.Context) (Result, error)
}

type Scheduler struct {
	runner     Runner
	cron       string
	runOnStart bool
	runTimeout time.Duration
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
}

func NewScheduler(runner Runner, cron string, runOnStart bool, runTimeout time.Duration) *Scheduler {
	if cron == "" {
		cron = DefaultCron
	}
	return &Scheduler{runner: runner, cron: cron, runOnStart: runOnStart, runTimeout: runTimeout}
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	options := []gocron.JobOption{
		gocron.WithName("scan-top-gainers"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if s.runOnStart {
		options = append(options, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(s.cron, false),
		gocron.NewTask(s.runOnce),
		options...,
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) runOnce(jobCtx context.Context) {
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(jobCtx, s.runTimeout)
		defer cancel()
	}

	res, err := s.runner.Run(jobCtx)
	if err != nil {
		logrus.WithError(err).WithField("exec_id", res.ExecID).Error("Scheduled scan failed")
	}
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func (s *Scheduler) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}
