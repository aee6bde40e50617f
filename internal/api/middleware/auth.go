package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

type contextKey string

const (
	adminIDKey   contextKey = "adminID"
	requestIDKey contextKey = "requestID"

	// AdminIDHeader заголовок, который проставляет внешний шлюз аутентификации
	AdminIDHeader = "X-Admin-ID"

	msgMissingAdminID = "отсутствует ID администратора"
	msgInvalidAdminID = "некорректный ID администратора"
)

// AdminAuth пропускает запрос только с валидным X-Admin-ID и кладёт его в контекст
func AdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(AdminIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingAdminID)
			return
		}

		adminID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || adminID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidAdminID)
			return
		}

		ctx := context.WithValue(r.Context(), adminIDKey, adminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAdminID достаёт ID администратора из контекста
func GetAdminID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(adminIDKey).(int64)
	return id, ok
}
