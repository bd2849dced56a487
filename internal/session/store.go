// Package session хранит идентичность посетителя между запросами.
//
// Store — порт сохранения: обработчики получают идентичность явно из контекста
// запроса и меняют её только через Save/Clear.
package session

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/bozo-bus/internal/lib/jwt"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
	"github.com/magabrotheeeer/bozo-bus/internal/models"
)

// Store описывает сохранение идентичности посетителя.
type Store interface {
	// Load возвращает идентичность из запроса; пустую, если её нет или она невалидна.
	Load(r *http.Request) models.Identity
	// Save сохраняет email как идентичность посетителя.
	Save(w http.ResponseWriter, email string) error
	// Clear удаляет идентичность.
	Clear(w http.ResponseWriter)
}

// CookieStore хранит подписанный токен с email в одной cookie.
type CookieStore struct {
	maker  jwt.Maker
	name   string
	ttl    time.Duration
	secure bool
	log    *slog.Logger
}

// NewCookieStore создаёт CookieStore. name — имя cookie, ttl — срок её жизни.
func NewCookieStore(maker jwt.Maker, name string, ttl time.Duration, secure bool, log *slog.Logger) *CookieStore {
	return &CookieStore{
		maker:  maker,
		name:   name,
		ttl:    ttl,
		secure: secure,
		log:    log,
	}
}

// Load читает cookie и проверяет подпись токена.
func (s *CookieStore) Load(r *http.Request) models.Identity {
	const op = "session.Load"
	c, err := r.Cookie(s.name)
	if err != nil || c.Value == "" {
		return models.Identity{}
	}
	claims, err := s.maker.ParseToken(c.Value)
	if err != nil {
		s.log.Warn("discarding invalid identity cookie", slog.String("op", op), sl.Err(err))
		return models.Identity{}
	}
	return models.Identity{Email: claims.Email}
}

// Save подписывает токен и выставляет cookie.
func (s *CookieStore) Save(w http.ResponseWriter, email string) error {
	const op = "session.Save"
	token, err := s.maker.GenerateToken(email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear удаляет cookie.
func (s *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
