// Package scheduler периодически прогревает кеш условий дня,
// чтобы первый посетитель панели не ждал удалённое API.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
)

// Refresher обновляет кешированные данные.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Service запускает Refresh сразу и затем каждые interval.
type Service struct {
	refresher Refresher
	interval  time.Duration
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(refresher Refresher, interval time.Duration, log *slog.Logger) *Service {
	return &Service{
		refresher: refresher,
		interval:  interval,
		log:       log,
	}
}

// Run блокируется до отмены ctx.
func (s *Service) Run(ctx context.Context) {
	s.run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("conditions scheduler stopped")
			return
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Service) run(ctx context.Context) {
	const op = "services.scheduler.run"
	if err := s.refresher.Refresh(ctx); err != nil {
		if ctx.Err() == nil {
			s.log.Error("failed to refresh conditions", slog.String("op", op), sl.Err(err))
		}
		return
	}
	s.log.Debug("conditions refreshed", slog.String("op", op))
}
