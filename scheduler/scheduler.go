package scheduler

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs named periodic and one-shot background tasks. Tasks run
// on their own goroutines with panic isolation; a crashing task is logged
// and its ticker keeps firing.
type Scheduler struct {
	mu       sync.Mutex
	periodic map[string]*periodicTask
	oneShots map[string]*time.Timer
	logger   *zap.Logger
	stopCh   chan struct{}
	stopped  bool
}

type periodicTask struct {
	ticker *time.Ticker
	stopCh chan struct{}
	done   chan struct{}
}

func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		periodic: make(map[string]*periodicTask),
		oneShots: make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

// Every registers fn to run on a fixed interval. Registering the same name
// again replaces the previous task; the old task has fully stopped before
// Every returns.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) {
	s.mu.Lock()
	old, replacing := s.periodic[name]
	if replacing {
		delete(s.periodic, name)
	}
	s.mu.Unlock()
	if replacing {
		close(old.stopCh)
		<-old.done
	}

	task := &periodicTask{
		ticker: time.NewTicker(interval),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.mu.Lock()
	s.periodic[name] = task
	s.mu.Unlock()

	go s.runPeriodic(name, task, fn)
	s.logger.Info("task registered",
		zap.String("task", name),
		zap.Duration("interval", interval),
	)
}

func (s *Scheduler) runPeriodic(name string, task *periodicTask, fn func()) {
	defer close(task.done)
	defer task.ticker.Stop()
	for {
		// A stop request outranks a tick already sitting in the channel.
		select {
		case <-task.stopCh:
			return
		case <-s.stopCh:
			return
		default:
		}
		select {
		case <-task.ticker.C:
			s.invoke(name, fn)
		case <-task.stopCh:
			return
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) invoke(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panicked",
				zap.String("task", name),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}

// After runs fn once after the delay.
func (s *Scheduler) After(name string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.oneShots[name]; ok {
		old.Stop()
	}
	s.oneShots[name] = time.AfterFunc(delay, func() {
		defer func() {
			s.mu.Lock()
			delete(s.oneShots, name)
			s.mu.Unlock()
		}()
		s.invoke(name, fn)
	})
}

// Cancel stops a task by name, periodic or one-shot. For periodic tasks it
// waits until the task goroutine has exited.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	task, hadPeriodic := s.periodic[name]
	if hadPeriodic {
		delete(s.periodic, name)
	}
	if t, ok := s.oneShots[name]; ok {
		t.Stop()
		delete(s.oneShots, name)
	}
	s.mu.Unlock()

	if hadPeriodic {
		close(task.stopCh)
		<-task.done
	}
}

// Stop halts every task and waits for periodic task goroutines to exit.
// Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	tasks := make([]*periodicTask, 0, len(s.periodic))
	for name, task := range s.periodic {
		tasks = append(tasks, task)
		delete(s.periodic, name)
	}
	for name, t := range s.oneShots {
		t.Stop()
		delete(s.oneShots, name)
	}
	s.mu.Unlock()

	for _, task := range tasks {
		<-task.done
	}
}

// Names returns the registered periodic task names.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.periodic))
	for name := range s.periodic {
		names = append(names, name)
	}
	return names
}
