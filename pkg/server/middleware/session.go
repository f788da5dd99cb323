package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/veya/analytics-dashboard/pkg/server/sessions"
)

const SessionCookie = "veya_dashboard_session"

type sessionKey struct{}

// Session attaches the browser's dashboard session, creating one and
// setting its cookie when the request carries none.
func Session(registry *sessions.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			var id string
			if c, err := req.Cookie(SessionCookie); err == nil {
				id = c.Value
			}

			sess, created := registry.Get(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			logger := zerolog.Ctx(req.Context()).With().Str("session", sess.ID).Logger()
			ctx := logger.WithContext(req.Context())
			ctx = context.WithValue(ctx, sessionKey{}, sess)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// SessionFrom returns the session attached by Session.
func SessionFrom(ctx context.Context) (*sessions.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(*sessions.Session)
	return sess, ok
}
