package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	jwttoken "ahwr/internal/jwt_token"
	dErrors "ahwr/pkg/domain-errors"
	"ahwr/pkg/platform/httputil"
	"ahwr/pkg/requestcontext"
)

// AdminCaller is the principal recorded for the static admin token.
const AdminCaller = "admin"

// TokenValidator validates service bearer tokens for an audience.
type TokenValidator interface {
	ValidateToken(tokenString, audience string) (*jwttoken.ServiceClaims, error)
}

// AdminAuth accepts either the static X-Admin-Token or a service bearer
// token carrying the required scope. An empty admin token disables the
// static path; a nil validator disables the bearer path.
type AdminAuth struct {
	AdminToken string
	Validator  TokenValidator
	Audience   string
	Scope      string
}

// RequireAdmin rejects requests that present neither credential.
func RequireAdmin(auth AdminAuth, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			if token := r.Header.Get("X-Admin-Token"); token != "" && auth.AdminToken != "" {
				if subtle.ConstantTimeCompare([]byte(token), []byte(auth.AdminToken)) == 1 {
					next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(ctx, AdminCaller)))
					return
				}
				logger.WarnContext(ctx, "admin token mismatch", "request_id", requestID)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || auth.Validator == nil {
				logger.WarnContext(ctx, "unauthorized access - missing credentials", "request_id", requestID)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token or service token required"))
				return
			}
			claims, err := auth.Validator.ValidateToken(bearer, auth.Audience)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token", "request_id", requestID, "error", err)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}
			if auth.Scope != "" && !claims.HasScope(auth.Scope) {
				logger.WarnContext(ctx, "service token missing scope",
					"request_id", requestID,
					"service", claims.Service,
					"scope", auth.Scope,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "token lacks required scope"))
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(ctx, claims.Service)))
		})
	}
}
