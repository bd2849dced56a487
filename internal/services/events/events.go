// Package events публикует события воронки подписки: вход, начало оплаты,
// сохранение анкеты, выход. Публикация не влияет на ответ пользователю.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/bozo-bus/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
)

// Имена событий. Используются и как routing key.
const (
	LoggedIn        = "identity.logged_in"
	LoggedOut       = "identity.logged_out"
	CheckoutStarted = "checkout.started"
	PortalOpened    = "portal.opened"
	ProfileSaved    = "profile.saved"
)

// Event — тело сообщения в брокере.
type Event struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Emitter отправляет события; ошибки только логируются.
type Emitter interface {
	Emit(ctx context.Context, name, email, requestID string)
}

// Publisher публикует события в exchange RabbitMQ.
type Publisher struct {
	mu       sync.Mutex
	ch       rabbitmq.Channel
	exchange string
	log      *slog.Logger
	now      func() time.Time
}

// NewPublisher создаёт Publisher поверх открытого канала.
func NewPublisher(ch rabbitmq.Channel, exchange string, log *slog.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		log:      log,
		now:      time.Now,
	}
}

// Emit публикует событие name для посетителя email.
func (p *Publisher) Emit(_ context.Context, name, email, requestID string) {
	const op = "services.events.Emit"
	event := Event{
		Name:       name,
		Email:      email,
		RequestID:  requestID,
		OccurredAt: p.now().UTC(),
	}

	p.mu.Lock()
	err := rabbitmq.PublishJSON(p.ch, p.exchange, name, event)
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("failed to publish event",
			slog.String("op", op),
			slog.String("event", name),
			sl.Email(email),
			sl.Err(err),
		)
	}
}

// Nop не публикует ничего. Используется, когда брокер не настроен.
type Nop struct{}

// Emit ничего не делает.
func (Nop) Emit(context.Context, string, string, string) {}
