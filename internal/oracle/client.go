// Package oracle — HTTP клиент удалённого API чтений, подписок и портала оплаты.
//
// Каждый метод строит JSON запрос, ждёт ответ и превращает не-2xx статус в *APIError.
// Повторов нет: любую ошибку вызывающий код показывает пользователю как есть.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bozo-bus/internal/models"
)

// Client ходит в удалённое API по HTTP+JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиента API с базовым адресом baseURL и таймаутом на каждый вызов.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		var b bytes.Buffer
		if err := json.NewEncoder(&b).Encode(body); err != nil {
			return nil, err
		}
		buf = &b
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do выполняет запрос и декодирует 2xx ответ в out.
// endpoint — метка метрики, op — префикс ошибок.
func (c *Client) do(ctx context.Context, op, endpoint, method, path string, body, out any) error {
	start := time.Now()
	outcome := outcomeNetworkError
	defer func() { observe(endpoint, outcome, time.Since(start)) }()

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = statusOutcome(resp.StatusCode)
		return &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	if out != nil {
		if err := render.DecodeJSON(resp.Body, out); err != nil {
			outcome = outcomeDecodeError
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	outcome = outcomeOK
	return nil
}

// readDetail достаёт поле detail из тела ошибки. Строковый detail возвращается как есть,
// структурный (например, список ошибок валидации) — в виде JSON.
func readDetail(body io.Reader) string {
	var e errorResponse
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&e); err != nil || e.Detail == nil {
		return ""
	}
	if s, ok := e.Detail.(string); ok {
		return s
	}
	raw, err := json.Marshal(e.Detail)
	if err != nil {
		return ""
	}
	return string(raw)
}

// GetReading запрашивает чтение на вопрос. Пустой email — анонимный вопрос.
func (c *Client) GetReading(ctx context.Context, question, email string) (*models.Reading, error) {
	const op = "oracle.GetReading"
	req := readingRequest{Question: question}
	if email != "" {
		req.Email = &email
	}
	var reading models.Reading
	if err := c.do(ctx, op, "reading", http.MethodPost, "/api/reading", req, &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}

// GetConditions возвращает сегодняшние условия передачи.
func (c *Client) GetConditions(ctx context.Context) (*models.Conditions, error) {
	const op = "oracle.GetConditions"
	var conditions models.Conditions
	if err := c.do(ctx, op, "conditions", http.MethodGet, "/api/conditions", nil, &conditions); err != nil {
		return nil, err
	}
	return &conditions, nil
}

// CreateCheckout создаёт сессию оплаты и возвращает адрес для редиректа.
func (c *Client) CreateCheckout(ctx context.Context, email string) (string, error) {
	const op = "oracle.CreateCheckout"
	var resp checkoutResponse
	if err := c.do(ctx, op, "checkout", http.MethodPost, "/api/checkout", emailRequest{Email: email}, &resp); err != nil {
		return "", err
	}
	if resp.CheckoutURL == "" {
		return "", fmt.Errorf("%s: empty checkout_url", op)
	}
	return resp.CheckoutURL, nil
}

// CreatePortal создаёт ссылку на портал управления подпиской.
func (c *Client) CreatePortal(ctx context.Context, email string) (string, error) {
	const op = "oracle.CreatePortal"
	var resp portalResponse
	if err := c.do(ctx, op, "portal", http.MethodPost, "/api/portal", emailRequest{Email: email}, &resp); err != nil {
		return "", err
	}
	if resp.PortalURL == "" {
		return "", fmt.Errorf("%s: empty portal_url", op)
	}
	return resp.PortalURL, nil
}

// GetUserStatus возвращает статус подписки. 404 — не ошибка: аккаунта нет,
// и это то же самое, что неоплаченная подписка без анкеты.
func (c *Client) GetUserStatus(ctx context.Context, email string) (*models.SubscriptionStatus, error) {
	const op = "oracle.GetUserStatus"
	var status models.SubscriptionStatus
	err := c.do(ctx, op, "user_status", http.MethodGet, "/api/user_status/"+url.PathEscape(email), nil, &status)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			inactive := models.InactiveStatus()
			return &inactive, nil
		}
		return nil, err
	}
	return &status, nil
}

// UpdateUser сохраняет анкету рождения и возвращает обновлённого пользователя.
func (c *Client) UpdateUser(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	const op = "oracle.UpdateUser"
	var updated models.Profile
	if err := c.do(ctx, op, "user", http.MethodPost, "/api/user", profile, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
