package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	inHttp "github.com/tbestore/storefront/internal/common/http"
	"github.com/tbestore/storefront/internal/log"
	"github.com/tbestore/storefront/internal/session"
)

// Session assigns every request a session id. New sessions get a generated
// id echoed back in the response header so the client can persist it.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(inHttp.HeaderSessionID)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		w.Header().Set(inHttp.HeaderSessionID, sessionID)

		logger := zerolog.Ctx(r.Context()).
			With().
			Str(log.KeySessionID, sessionID).
			Logger()
		c := session.AttachIDToContext(r.Context(), sessionID)
		c = logger.WithContext(c)

		next.ServeHTTP(w, r.WithContext(c))
	})
}
