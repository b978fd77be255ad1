package workers

import (
	"context"
	"eyesup/contract"
	"eyesup/errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultRestartInterval = 200 * time.Millisecond
	maxRestartInterval     = 10 * time.Second
)

// Supervisor runs the background workers of the relay (side-sink fan-out,
// health sampling, Redis consumer) and restarts the ones that crash.
// A worker returning nil is done and never restarted.
type Supervisor struct {
	Cancel          context.CancelFunc
	wg              *sync.WaitGroup
	log             *slog.Logger
	workers         []contract.Worker
	restartInterval time.Duration

	mu       sync.Mutex
	restarts map[string]int
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	if restartInterval <= 0 {
		restartInterval = defaultRestartInterval
	}
	return &Supervisor{
		wg:              &sync.WaitGroup{},
		log:             log,
		restartInterval: restartInterval,
		restarts:        make(map[string]int),
	}
}

// Run starts every added worker under a context it can cancel on its own,
// then blocks until all of them returned.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.Cancel = cancel
	defer s.Cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Start runs one worker in its own goroutine. Panics are recovered and
// turned into ErrWorkerPanic. Each consecutive crash doubles the wait
// before the next restart, up to maxRestartInterval.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	name := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()
		wait := s.restartInterval

		for {
			if ctx.Err() != nil {
				s.log.Info("Worker stopping", "name", name)
				return
			}

			err := runProtected(ctx, worker)
			if err == nil {
				s.log.Info("Worker finished", "name", name)
				return
			}
			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", name)
				return
			}

			count := s.recordRestart(name)
			s.log.Warn("Worker crashed, restarting", "name", name, "error", err, "restarts", count, "in", wait)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			wait = min(wait*2, maxRestartInterval)
		}
	}()
}

func runProtected(ctx context.Context, worker contract.Worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
		}
	}()
	return worker.Run(ctx)
}

func (s *Supervisor) recordRestart(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restarts[name]++
	return s.restarts[name]
}

// Restarts returns how many times each worker was restarted.
func (s *Supervisor) Restarts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.restarts))
	for name, count := range s.restarts {
		out[name] = count
	}
	return out
}

// Stop cancels every worker. Run returns once they are all done.
func (s *Supervisor) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
}
