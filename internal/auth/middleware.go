package auth

import (
	"errors"
	"net/http"

	"mcid/internal/logs"
	"mcid/internal/models"

	"github.com/gorilla/mux"
)

// HeaderName — откуда берём ключ приложения.
const HeaderName = "X-API-Key"

// Require — middleware поверх сабраутера: пускает дальше только запросы
// с валидным ключом, покрывающим required. Отсутствие заголовка — отдельный
// отказ (missing_api_key), не то же самое, что невалидный ключ.
func Require(v Verifier, required Permissions) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(HeaderName)
			if presented == "" {
				models.WriteKind(w, http.StatusUnauthorized, "missing_api_key",
					"Authentication required", "no API key provided (X-API-Key header)")
				return
			}

			key, err := v.VerifyKey(r.Context(), presented, required)
			switch {
			case errors.Is(err, ErrInvalidKey):
				logs.Logger.Warnf("auth: invalid api key uri=%s", r.RequestURI)
				models.WriteKind(w, http.StatusUnauthorized, "invalid_api_key",
					"Authentication required", "the provided API key is invalid")
				return
			case errors.Is(err, ErrKeyForbidden):
				logs.Logger.Warnf("auth: forbidden api key uri=%s", r.RequestURI)
				models.WriteKind(w, http.StatusForbidden, "forbidden",
					"Insufficient permissions", "API key revoked, expired or missing required permissions")
				return
			case err != nil:
				logs.Logger.Errorf("auth: verify failed: %v", err)
				models.WriteKind(w, http.StatusInternalServerError, "internal_error",
					"Internal Server Error", "API key verification failed")
				return
			}

			next.ServeHTTP(w, withKey(r, key))
		})
	}
}
