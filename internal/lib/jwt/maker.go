// Package jwt реализует подпись и проверку токена идентичности посетителя.
//
// Токен хранит email в поле Subject и кладётся в cookie. Подпись не делает
// email проверенным: она лишь не даёт подменить значение в браузере.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга токенов идентичности.
type Maker interface {
	// GenerateToken подписывает токен для указанного email.
	GenerateToken(email string) (string, error)
	// ParseToken проверяет подпись и срок жизни, возвращает claims.
	ParseToken(tokenStr string) (*IdentityClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
