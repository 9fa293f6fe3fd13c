package middleware

import (
	"net/http"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequirePermission gates a route on the role permission table.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, user.ErrForbidden)
				return
			}

			role, ok := claims["role"].(string)
			if !ok || !user.HasPermission(user.Role(role), permission) {
				response.HandleError(w, user.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly requires the user management permission (admins only).
func AdminOnly(next http.Handler) http.Handler {
	return RequirePermission(user.PermissionUserManage)(next)
}

// ReviewerOnly requires the work plan review permission (managers and
// admins).
func ReviewerOnly(next http.Handler) http.Handler {
	return RequirePermission(user.PermissionWorkPlanReview)(next)
}
