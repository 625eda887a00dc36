package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/linemk/catalog-api/internal/domain/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenPair — пара access/refresh токенов, выдаваемая при логине
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// NewTokenPair генерирует пару JWT-токенов для пользователя.
// Секрет подписи передается явно из конфигурации, а не из глобального состояния
func NewTokenPair(user *models.User, secret string, accessTTL, refreshTTL time.Duration) (*TokenPair, error) {
	access, err := newToken(user, secret, accessTTL, TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := newToken(user, secret, refreshTTL, TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func newToken(user *models.User, secret string, ttl time.Duration, tokenType string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"email":    user.Email,
		"is_admin": user.IsAdmin,
		"typ":      tokenType,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Claims — разобранное содержимое токена
type Claims struct {
	UserID  int64
	Email   string
	IsAdmin bool
}

// ParseToken проверяет подпись и срок действия токена требуемого типа
func ParseToken(tokenStr, secret, wantType string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if typ, _ := claims["typ"].(string); typ != wantType {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return &Claims{UserID: userID, Email: email, IsAdmin: isAdmin}, nil
}
