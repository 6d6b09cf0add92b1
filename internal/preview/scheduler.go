package preview

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/sassdoc-theme/internal/logfields"
)

// scheduler triggers periodic re-renders.
type scheduler struct {
	s gocron.Scheduler
}

func newScheduler(interval time.Duration, fn func()) (*scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName("preview-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create refresh job: %w", err)
	}
	return &scheduler{s: s}, nil
}

func (s *scheduler) Start() {
	slog.Debug("Starting refresh scheduler")
	s.s.Start()
}

func (s *scheduler) Stop() {
	if err := s.s.Shutdown(); err != nil {
		slog.Warn("Scheduler shutdown error", logfields.Error(err))
	}
}
