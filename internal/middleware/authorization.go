package middleware

import (
	"net/http"

	"dscommerce/internal/domain"

	"go.uber.org/zap"
)

// RequireAdmin middleware ensures the principal holds the admin role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(domain.RoleAdmin, logger)
}

// RequireRole middleware ensures the principal holds the given role
func RequireRole(role string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				logger.Warn("Principal not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if !principal.HasRole(role) {
				logger.Warn("Principal lacks required role",
					zap.Strings("roles", principal.Roles),
					zap.String("required", role),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
