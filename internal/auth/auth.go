// Package auth issues and validates the session tokens handed out after a
// successful OpenID login. The server is both issuer and verifier, so tokens
// are HMAC-signed JWTs carrying the user id as subject.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const tokenIssuer = "openlobby"

type contextKey string

const contextKeyViewer contextKey = "viewer"

// Viewer identifies the authenticated user of a request.
type Viewer struct {
	UserID int64
}

// FromContext extracts the viewer from a request context. Returns nil for
// anonymous requests.
func FromContext(ctx context.Context) *Viewer {
	if viewer, ok := ctx.Value(contextKeyViewer).(*Viewer); ok {
		return viewer
	}
	return nil
}

// WithViewer returns a context carrying the given viewer. Used by middleware
// and by tests building resolver contexts directly.
func WithViewer(ctx context.Context, viewer *Viewer) context.Context {
	return context.WithValue(ctx, contextKeyViewer, viewer)
}

// IssueToken creates a signed session token for the user.
func IssueToken(secret []byte, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates a session token and returns the user id it was issued
// for.
func ParseToken(secret []byte, tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return 0, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, fmt.Errorf("invalid claims type")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject %q: %w", claims.Subject, err)
	}

	return userID, nil
}

// Middleware resolves the Authorization header into a viewer on the request
// context. Requests without a token pass through anonymously; a token that
// fails validation is rejected so a client holding an expired session sees
// the failure instead of silently degraded results.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			userID, err := ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			ctx := WithViewer(c.Request().Context(), &Viewer{UserID: userID})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
