package web

import (
	"context"
	"crypto/sha256"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/bozo-bus/internal/cache"
	"github.com/magabrotheeeer/bozo-bus/internal/config"
	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/bus/profile"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/jwt"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
	"github.com/magabrotheeeer/bozo-bus/internal/oracle"
	"github.com/magabrotheeeer/bozo-bus/internal/services/conditions"
	"github.com/magabrotheeeer/bozo-bus/internal/services/events"
	"github.com/magabrotheeeer/bozo-bus/internal/services/scheduler"
	"github.com/magabrotheeeer/bozo-bus/internal/session"
	"github.com/magabrotheeeer/bozo-bus/internal/view"
)

// App — HTTP сервер с внешними подключениями, которые надо закрыть при остановке.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	scheduler *scheduler.Service
	closers   []io.Closer
}

// New собирает приложение. Redis и RabbitMQ подключаются, только если заданы их адреса.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, err
	}

	app := &App{logger: logger}

	var conditionsCache conditions.Cache = cache.Nop{}
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, cacheRedis)
		conditionsCache = cacheRedis
	} else {
		logger.Info("redis address is empty, conditions cache disabled")
	}

	var emitter events.Emitter = events.Nop{}
	if cfg.AMQPURL != "" {
		conn, err := rabbitmq.Connect(cfg.AMQPURL, 5, 2*time.Second)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, conn)
		ch, err := rabbitmq.SetupExchange(conn, cfg.AMQPExchange)
		if err != nil {
			app.Close()
			return nil, err
		}
		emitter = events.NewPublisher(ch, cfg.AMQPExchange, logger)
	} else {
		logger.Info("amqp url is empty, funnel events disabled")
	}

	client := oracle.NewClient(cfg.OracleBaseURL, cfg.OracleTimeout)
	conditionsService := conditions.NewService(client, conditionsCache, cfg.ConditionsTTL, logger)
	if cfg.AddressRedis != "" && cfg.ConditionsRefresh > 0 {
		app.scheduler = scheduler.NewService(conditionsService, cfg.ConditionsRefresh, logger)
	}
	csrfKey := sha256.Sum256([]byte(cfg.CSRFKey))

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Log:        logger,
		Oracle:     client,
		Conditions: conditionsService,
		Sessions: session.NewCookieStore(
			jwt.NewJWTMaker(cfg.SessionSecret, cfg.SessionTTL),
			cfg.SessionCookie, cfg.SessionTTL, cfg.SessionSecure, logger,
		),
		Events:   emitter,
		Renderer: renderer,
		Limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		Origin: profile.Coordinates{
			Latitude:  cfg.DefaultLatitude,
			Longitude: cfg.DefaultLongitude,
		},
		CSRFKey:            csrfKey[:],
		CSRFSecure:         cfg.SessionSecure,
		CSRFTrustedOrigins: cfg.CSRFTrustedOrigins,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return app, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	if a.scheduler != nil {
		go a.scheduler.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.Close()
		return err
	}
}

// Close закрывает внешние подключения в обратном порядке.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close dependency", sl.Err(err))
		}
	}
	a.closers = nil
}
