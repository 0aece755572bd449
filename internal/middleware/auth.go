package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tbestore/storefront/internal/common"
	inErrors "github.com/tbestore/storefront/internal/common/errors"
	inHttp "github.com/tbestore/storefront/internal/common/http"
	"github.com/tbestore/storefront/internal/config"
	"github.com/tbestore/storefront/internal/log"
	"github.com/tbestore/storefront/internal/session"
)

// Auth requires a bearer session token; the verified token subject becomes
// the session id for the rest of the request, overriding any header value.
func Auth(cfg config.Application) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(log.KeyTag, "middleware Auth").
				Logger()
			c := logger.WithContext(r.Context())

			authorization := r.Header.Get("Authorization")
			if authorization == "" {
				logger.Error().Err(inErrors.ErrEmptyAuth).Msg(inErrors.ErrEmptyAuth.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrEmptyAuth.Error(),
				})
				return
			}

			token := strings.TrimPrefix(authorization, "Bearer ")
			token = strings.TrimPrefix(token, "bearer ")
			sessionID, err := common.VerifyToken(c, token, cfg)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrTokenInvalid.Error(),
				})
				return
			}

			logger = logger.With().Str(log.KeySessionID, sessionID).Logger()
			c = session.AttachIDToContext(logger.WithContext(c), sessionID)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}

// Admin gates a route on the cached session customer holding the reserved
// admin username. Run after Auth.
func Admin(store *session.Store, cfg config.Application) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(log.KeyTag, "middleware Admin").
				Logger()
			c := logger.WithContext(r.Context())

			sessionID := session.IDFromContext(c)
			customer, err := store.Customer(c, sessionID)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusInternalServerError,
					"message":    "Internal Server Error",
				})
				return
			}
			if customer == nil || customer.Username != cfg.AdminUsername {
				logger.Error().Err(inErrors.ErrNotAdmin).Msg(inErrors.ErrNotAdmin.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusForbidden,
					"message":    inErrors.ErrNotAdmin.Error(),
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
