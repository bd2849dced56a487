// Package conditions содержит бизнес-логику получения ежедневных условий передачи
// с кешированием по дате.
package conditions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
	"github.com/magabrotheeeer/bozo-bus/internal/models"
)

// Fetcher получает условия из удалённого API.
type Fetcher interface {
	GetConditions(ctx context.Context) (*models.Conditions, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service отдаёт условия дня, сначала заглядывая в кеш.
type Service struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
	log     *slog.Logger
	now     func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(fetcher Fetcher, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

func cacheKey(day time.Time) string {
	return "conditions:" + day.UTC().Format(time.DateOnly)
}

// GetConditions возвращает условия дня. Ошибки кеша не мешают запросу в API.
func (s *Service) GetConditions(ctx context.Context) (*models.Conditions, error) {
	const op = "services.conditions.GetConditions"
	log := s.log.With(slog.String("op", op))

	key := cacheKey(s.now())
	var cached models.Conditions
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("failed to read conditions from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	conditions, err := s.fetcher.GetConditions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(ctx, key, conditions, s.ttl); err != nil {
		log.Warn("failed to cache conditions", slog.String("key", key), sl.Err(err))
	}
	return conditions, nil
}

// Refresh заново получает условия из API и перезаписывает кеш.
func (s *Service) Refresh(ctx context.Context) error {
	const op = "services.conditions.Refresh"

	conditions, err := s.fetcher.GetConditions(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	key := cacheKey(s.now())
	if err := s.cache.Set(ctx, key, conditions, s.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
