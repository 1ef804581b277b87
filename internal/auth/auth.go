package auth

import (
	"context"
	"errors"
	"net/http"

	"mcid/internal/models"
)

var (
	// ErrInvalidKey — ключ не найден (или формат не тот).
	ErrInvalidKey = errors.New("invalid api key")
	// ErrKeyForbidden — ключ есть, но отозван/истёк/не хватает прав.
	ErrKeyForbidden = errors.New("api key forbidden")
)

// Permissions — требуемые права: ресурс → действия.
// Пример: {"codes": {"request", "verify"}}.
type Permissions map[string][]string

// Covers — проверка, что granted покрывает все требуемые пары ресурс/действие.
func (granted Permissions) Covers(required Permissions) bool {
	for resource, actions := range required {
		have := map[string]bool{}
		for _, a := range granted[resource] {
			have[a] = true
		}
		for _, a := range actions {
			if !have[a] {
				return false
			}
		}
	}
	return true
}

// Verifier — контракт аутентификатора по API-ключу.
// Реализуется хранилищем ключей (repo.APIKeyStore).
type Verifier interface {
	VerifyKey(ctx context.Context, presented string, required Permissions) (*models.APIKey, error)
}

type ctxKey string

const apiKeyCtxKey ctxKey = "apikey"

// KeyFrom достаёт проверенный ключ из контекста запроса.
func KeyFrom(r *http.Request) *models.APIKey {
	if k, ok := r.Context().Value(apiKeyCtxKey).(*models.APIKey); ok {
		return k
	}
	return nil
}

func withKey(r *http.Request, k *models.APIKey) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), apiKeyCtxKey, k))
}
