package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/FGV-BookingService/internal/api/handlers"
)

const adminTokenHeader = "X-Admin-Token"

const msgAdminTokenRequired = "требуется действительный административный токен"

// AdminAuth проверяет административный токен в заголовке X-Admin-Token
func AdminAuth(token string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(adminTokenHeader)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				handlers.RespondForbidden(w, msgAdminTokenRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
