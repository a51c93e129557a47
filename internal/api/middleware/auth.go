package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
)

// AdminTokenHeader заголовок с токеном администратора студии
const AdminTokenHeader = "X-Admin-Token"

const msgUnauthorized = "требуется токен администратора"

// AdminAuth пропускает запрос только с корректным X-Admin-Token
func AdminAuth(token string) func(http.Handler) http.Handler {
	expected := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(AdminTokenHeader))
			if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
