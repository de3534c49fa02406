package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTClaims - полезная нагрузка токена.
// Поле token_type исключает использование refresh токена как access и наоборот
type JWTClaims struct {
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager выпускает и проверяет access/refresh токены.
// Каждый вид подписывается собственным секретом, поэтому утечка
// одного ключа не позволяет подделать токены другого вида
type JWTManager struct {
	accessSecret         string
	refreshSecret        string
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
}

// NewJWTManager создает менеджер токенов.
// Пустой секрет - ошибка конфигурации, подписывать нечем
func NewJWTManager(accessSecret, refreshSecret string, accessDuration, refreshDuration time.Duration) (*JWTManager, error) {
	if accessSecret == "" {
		return nil, fmt.Errorf("access token secret is empty")
	}
	if refreshSecret == "" {
		return nil, fmt.Errorf("refresh token secret is empty")
	}

	return &JWTManager{
		accessSecret:         accessSecret,
		refreshSecret:        refreshSecret,
		accessTokenDuration:  accessDuration,
		refreshTokenDuration: refreshDuration,
	}, nil
}

// GenerateAccessToken выпускает короткоживущий access токен
func (m *JWTManager) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return m.generate(userID, email, TokenTypeAccess, m.accessSecret, m.accessTokenDuration)
}

// GenerateRefreshToken выпускает долгоживущий refresh токен
func (m *JWTManager) GenerateRefreshToken(userID uuid.UUID, email string) (string, error) {
	return m.generate(userID, email, TokenTypeRefresh, m.refreshSecret, m.refreshTokenDuration)
}

func (m *JWTManager) generate(userID uuid.UUID, email, tokenType, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken проверяет подпись, срок действия и вид токена.
// Любая причина отказа сворачивается в ErrInvalidToken, чтобы ответ
// клиенту не раскрывал деталей; истекший токен различим только для логов
func (m *JWTManager) ValidateToken(tokenString, tokenType string) (*JWTClaims, error) {
	secret := m.accessSecret
	if tokenType == TokenTypeRefresh {
		secret = m.refreshSecret
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (m *JWTManager) AccessTokenDuration() time.Duration {
	return m.accessTokenDuration
}

func (m *JWTManager) RefreshTokenDuration() time.Duration {
	return m.refreshTokenDuration
}
