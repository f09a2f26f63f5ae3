package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/fadedpez/blackjackev/internal/logging"
	"github.com/stretchr/testify/suite"
)

type SchedulerTestSuite struct {
	suite.Suite
	clock     *quartz.Mock
	scheduler *Scheduler
	ctx       context.Context
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (s *SchedulerTestSuite) SetupTest() {
	s.clock = quartz.NewMock(s.T())
	s.scheduler = NewScheduler(s.clock, logging.New(io.Discard, logging.ERROR))
	s.ctx = context.Background()
}

func (s *SchedulerTestSuite) TearDownTest() {
	s.scheduler.Stop()
}

func (s *SchedulerTestSuite) TestRunsTaskOnEveryTick() {
	var runs atomic.Int32
	s.scheduler.AddTask("count", time.Minute, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	s.scheduler.Start(s.ctx)

	s.Eventually(func() bool {
		s.clock.Advance(time.Minute).MustWait(s.ctx)
		return runs.Load() >= 3
	}, 5*time.Second, 10*time.Millisecond)
}

func (s *SchedulerTestSuite) TestTaskErrorsDoNotStopTheTask() {
	var runs atomic.Int32
	s.scheduler.AddTask("failing", time.Second, func(context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})
	s.scheduler.Start(s.ctx)

	s.Eventually(func() bool {
		s.clock.Advance(time.Second).MustWait(s.ctx)
		return runs.Load() >= 2
	}, 5*time.Second, 10*time.Millisecond)
}

func (s *SchedulerTestSuite) TestStopIsIdempotent() {
	s.scheduler.AddTask("noop", time.Second, func(context.Context) error { return nil })
	s.scheduler.Start(s.ctx)
	s.scheduler.Start(s.ctx)

	s.scheduler.Stop()
	s.scheduler.Stop()
	s.False(s.scheduler.running)
}
