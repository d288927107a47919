package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"dormbase/internal/auth"

	"github.com/golang-jwt/jwt/v5"
)

// authUser is what a verified bearer token asserts. Verification checks
// signature and expiry only; there is no revocation list and no per-request
// database lookup.
type authUser struct {
	ID    int64
	Email string
	Role  string
}

type userCtxKey string

const userCtx userCtxKey = "user"

func (app *application) AuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			app.unauthorizedErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
			return
		}

		user, err := app.userFromBearer(authHeader)
		if err != nil {
			app.invalidTokenResponse(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userCtx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthTokenMiddleware lets anonymous requests through but still
// rejects a malformed token outright: a client that sends credentials
// should learn they are bad, not silently post as anonymous.
func (app *application) OptionalAuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := app.userFromBearer(authHeader)
		if err != nil {
			app.invalidTokenResponse(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userCtx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := getUserFromContext(r)
		if user == nil || user.Role != auth.RoleAdmin {
			app.forbiddenResponse(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(r)); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter.String())
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (app *application) userFromBearer(authHeader string) (*authUser, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fmt.Errorf("authorization header is malformed")
	}

	jwtToken, err := app.authenticator.ValidateToken(parts[1])
	if err != nil {
		return nil, err
	}

	claims, ok := jwtToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, fmt.Errorf("missing sub claim")
	}
	email, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	// The allow-list applies at verification time too, so promoting an email
	// takes effect on the next request rather than the next login.
	role = auth.EffectiveRole(role, email, app.config.adminEmails)

	return &authUser{ID: int64(sub), Email: email, Role: role}, nil
}

func getUserFromContext(r *http.Request) *authUser {
	user, _ := r.Context().Value(userCtx).(*authUser)
	return user
}

func clientIP(r *http.Request) string {
	// chi's RealIP middleware already folded X-Forwarded-For into RemoteAddr.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
