package oracle

import (
	"fmt"
)

// Запрос на получение чтения. Email == nil означает анонимный вопрос.
type readingRequest struct {
	Question string  `json:"question"`
	Email    *string `json:"email"`
}

// Запрос на создание сессии оплаты или портала управления подпиской
type emailRequest struct {
	Email string `json:"email"`
}

// Ответ API при создании сессии оплаты
type checkoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// Ответ API при создании ссылки на портал
type portalResponse struct {
	PortalURL string `json:"portal_url"`
}

// Тело ошибки, которое API возвращает вместе с не-2xx статусом
type errorResponse struct {
	Detail any `json:"detail"`
}

// APIError — не-2xx ответ удалённого API.
type APIError struct {
	Op         string // операция клиента, например "oracle.UpdateUser"
	StatusCode int    // HTTP статус ответа
	Detail     string // сообщение сервера из поля detail, может быть пустым
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}
