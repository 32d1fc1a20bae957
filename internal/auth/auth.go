// Package auth проверяет токены операторов служебного API.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	cookieName   = "auth_token"
	bearerPrefix = "Bearer "
)

type ctxKey struct{}

type Auth struct {
	SecretKey string
}

func New(secret string) *Auth {
	return &Auth{SecretKey: secret}
}

// Создать подпись
func (a *Auth) sign(operatorID string) string {
	mac := hmac.New(sha256.New, []byte(a.SecretKey))
	mac.Write([]byte(operatorID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Token возвращает токен вида operatorID:signature.
func (a *Auth) Token(operatorID string) string {
	return fmt.Sprintf("%s:%s", operatorID, a.sign(operatorID))
}

// IssueToken выпускает токен для нового оператора.
func (a *Auth) IssueToken() (operatorID, token string) {
	operatorID = uuid.NewString()
	return operatorID, a.Token(operatorID)
}

// Verify проверяет токен и возвращает идентификатор оператора.
func (a *Auth) Verify(token string) (string, bool) {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", false
	}
	if !hmac.Equal([]byte(a.sign(parts[0])), []byte(parts[1])) {
		return "", false
	}
	return parts[0], true
}

// tokenFrom ищет токен в заголовке Authorization, затем в куке.
func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// ValidateOperator проверяет, авторизован ли запрос.
func (a *Auth) ValidateOperator(r *http.Request) (string, bool) {
	if a.SecretKey == "" {
		return "", false
	}
	token := tokenFrom(r)
	if token == "" {
		return "", false
	}
	return a.Verify(token)
}

// Require пропускает только запросы с валидным токеном оператора.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.ValidateOperator(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// OperatorID возвращает оператора, положенного в контекст Require.
func OperatorID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}
