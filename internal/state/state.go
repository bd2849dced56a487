// Package state выбирает, какое представление показать посетителю страницы автобуса.
//
// Выбор — чистая функция от трёх значений: есть ли идентичность, активна ли подписка,
// заполнена ли анкета рождения. Другого скрытого состояния нет.
package state

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/bozo-bus/internal/models"
)

// View — представление страницы автобуса.
type View int

const (
	// ViewLogin — идентичности нет.
	ViewLogin View = iota
	// ViewSubscribe — идентичность есть, подписка не активна.
	ViewSubscribe
	// ViewBirthData — подписка активна, анкеты нет.
	ViewBirthData
	// ViewDashboard — подписка активна, анкета заполнена.
	ViewDashboard
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewSubscribe:
		return "subscribe"
	case ViewBirthData:
		return "birth_data"
	case ViewDashboard:
		return "dashboard"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// Select возвращает представление для заданных флагов.
func Select(hasIdentity bool, status models.SubscriptionStatus) View {
	switch {
	case !hasIdentity:
		return ViewLogin
	case !status.IsActive:
		return ViewSubscribe
	case !status.HasBirthData:
		return ViewBirthData
	default:
		return ViewDashboard
	}
}

// StatusFetcher получает статус подписки из удалённого API.
type StatusFetcher interface {
	GetUserStatus(ctx context.Context, email string) (*models.SubscriptionStatus, error)
}

// Decision — результат маршрутизации.
type Decision struct {
	View     View
	Identity models.Identity
	Status   models.SubscriptionStatus
}

// Router заново оценивает состояние посетителя на каждый запрос страницы.
type Router struct {
	fetcher StatusFetcher
}

// NewRouter создаёт Router.
func NewRouter(fetcher StatusFetcher) *Router {
	return &Router{fetcher: fetcher}
}

// Resolve выбирает представление. Без идентичности API не вызывается.
// Статус всегда запрашивается заново и не кешируется.
func (r *Router) Resolve(ctx context.Context, identity models.Identity) (Decision, error) {
	const op = "state.Resolve"
	if !identity.Present() {
		return Decision{View: ViewLogin}, nil
	}

	status, err := r.fetcher.GetUserStatus(ctx, identity.Email)
	if err != nil {
		return Decision{}, fmt.Errorf("%s: %w", op, err)
	}

	return Decision{
		View:     Select(true, *status),
		Identity: identity,
		Status:   *status,
	}, nil
}
