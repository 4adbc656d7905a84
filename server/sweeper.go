package server

import (
	"context"
	"sync"
	"time"

	"github.com/hushbox/hushbox/server/logger"
)

// sweeper periodically removes expired secrets. Expired records are already
// unreachable through the API, so the sweep is hygiene, not correctness.
type sweeper struct {
	service  *SecretService
	logger   logger.Logger
	interval time.Duration

	started  bool
	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

func newSweeper(service *SecretService, l logger.Logger, interval time.Duration) *sweeper {
	return &sweeper{
		service:  service,
		logger:   l,
		interval: interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (s *sweeper) start() {
	s.started = true
	go s.run()
}

func (s *sweeper) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n, err := s.service.SweepExpired(context.Background())
			if err != nil {
				s.logger.Errorf("Failed to sweep expired secrets: %v", err)
				continue
			}
			if n > 0 {
				s.logger.Debugf("Swept %d expired secret(s)", n)
			}
		case <-s.done:
			return
		}
	}
}

// stop halts the sweep loop and waits for it to exit. Safe to call more
// than once and without a prior start.
func (s *sweeper) stop() {
	if !s.started {
		return
	}
	s.stopOnce.Do(func() {
		close(s.done)
		<-s.stopped
	})
}
