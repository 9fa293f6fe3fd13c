package http

import (
	"net/http"
	"strconv"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// actorFromContext rebuilds the caller identity from the verified JWT
// claims.
func actorFromContext(r *http.Request) user.Actor {
	_, claims, _ := jwtauth.FromContext(r.Context())

	var actor user.Actor
	if id, ok := claims["user_id"].(string); ok {
		actor.ID = id
	}
	if name, ok := claims["name"].(string); ok {
		actor.Name = name
	}
	if role, ok := claims["role"].(string); ok {
		actor.Role = user.Role(role)
	}
	return actor
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
