package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/carmarket/carmarket-go/internal/crypto"
	"github.com/carmarket/carmarket-go/internal/identity"
	"github.com/carmarket/carmarket-go/internal/model"
)

// JWTAuth returns middleware that validates a Bearer token from the Authorization
// header and puts the actor it names on the request context.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			actor, err := actorFromHeader(authHeader, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithActor(r.Context(), actor)))
		})
	}
}

// OptionalAuth is JWTAuth for routes that also serve anonymous requests. A
// missing header passes through anonymously; a bad token is still rejected.
func OptionalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := actorFromHeader(authHeader, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithActor(r.Context(), actor)))
		})
	}
}

type authError string

func (e authError) Error() string { return string(e) }

func actorFromHeader(authHeader, secret string) (model.Actor, error) {
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		return model.Actor{}, authError("invalid authorization format")
	}

	claims, err := crypto.ValidateToken(token, secret)
	if err != nil {
		return model.Actor{}, authError("invalid or expired token")
	}

	return model.Actor{ID: claims.UserID, Email: claims.Email, Name: claims.Name}, nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
