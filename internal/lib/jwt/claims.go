package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IdentityClaims описывает данные, хранящиеся в токене идентичности.
type IdentityClaims struct {
	Email                string `json:"email"`
	jwt.RegisteredClaims        // Subject дублирует email, ID — случайный uuid
}

// GenerateToken создает токен с заданным email, подписывая его секретным ключом (HS256).
func (j *MakerImpl) GenerateToken(email string) (string, error) {
	const op = "jwt.GenerateToken"
	if email == "" {
		return "", fmt.Errorf("%s: empty email", op)
	}
	now := time.Now()
	claims := IdentityClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит токен, проверяет подпись, алгоритм и срок жизни.
func (j *MakerImpl) ParseToken(tokenStr string) (*IdentityClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &IdentityClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
