package middleware

import (
	"context"
	"errors"
	"go-storefront/utils"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

var errBadAuthHeader = errors.New("invalid Authorization header format")

// parseBearer reads the bearer token if one was sent. The middle return
// reports whether an Authorization header was present at all.
func parseBearer(r *http.Request) (*utils.Claims, bool, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false, nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, true, errBadAuthHeader
	}

	claims := &utils.Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		return utils.JwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, true, err
	}
	return claims, true, nil
}

// AuthMiddleware verifies JWT tokens and attaches user information to the context
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, present, err := parseBearer(r)
		if !present {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}
		if err != nil || claims == nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthMiddleware attaches user information when a valid bearer
// token is present and lets the request through either way. Cart routes
// use it because they serve anonymous shoppers too.
func OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, present, err := parseBearer(r)
		if !present {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil || claims == nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware ensures that the user has admin privileges
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
		if !ok || claims.Role != "admin" {
			http.Error(w, "Forbidden: Admins only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
