package middleware

import (
	"net/http"
	"time"

	"cashapp-gateway/internal/utils"

	"github.com/google/uuid"
)

const (
	CartSessionCookie = "cart_session"
	cartSessionMaxAge = 30 * 24 * time.Hour
)

// CartSession gives guests a cart session id, reusing the cookie when present.
func CartSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if c, err := r.Cookie(CartSessionCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sessionID = c.Value
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CartSessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(cartSessionMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(utils.SetCartSession(r.Context(), sessionID)))
	})
}
