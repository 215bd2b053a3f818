// Package auth resolves opaque bearer credentials into actors. Token
// issuance, password handling, and session management live elsewhere; this
// side only verifies.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brightpath-labs/vendoreval/internal/access"
)

var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrInvalidCredential = errors.New("invalid credential")
)

// Claims is the token payload the identity provider issues for panel members.
type Claims struct {
	Name            string `json:"name,omitempty"`
	Role            string `json:"role"`
	CanAccessChat   bool   `json:"can_access_chat,omitempty"`
	CanPrintReports bool   `json:"can_print_reports,omitempty"`
	CanExportData   bool   `json:"can_export_data,omitempty"`
	jwt.RegisteredClaims
}

type Resolver struct {
	hmac []byte
}

func NewResolver(secret string) *Resolver {
	return &Resolver{hmac: []byte(secret)}
}

// Resolve verifies the token and maps its claims onto an Actor. Expiry is
// checked by the parser; a token with an unknown role or a malformed subject
// is an invalid credential, not a permission problem.
func (r *Resolver) Resolve(tokenStr string) (access.Actor, error) {
	if tokenStr == "" {
		return access.Actor{}, ErrUnauthenticated
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return r.hmac, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return access.Actor{}, ErrInvalidCredential
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return access.Actor{}, ErrInvalidCredential
	}

	role, ok := access.ParseRole(claims.Role)
	if !ok {
		return access.Actor{}, ErrInvalidCredential
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return access.Actor{}, ErrInvalidCredential
	}

	return access.Actor{
		ID:   id,
		Name: claims.Name,
		Role: role,
		Flags: access.PermissionFlags{
			CanAccessChat:   claims.CanAccessChat,
			CanPrintReports: claims.CanPrintReports,
			CanExportData:   claims.CanExportData,
		},
	}, nil
}

// ---- actor in context ----

type ctxKey struct{}

var ctxKeyActor = ctxKey{}

func WithActor(ctx context.Context, a access.Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

func ActorFromContext(ctx context.Context) (access.Actor, bool) {
	a, ok := ctx.Value(ctxKeyActor).(access.Actor)
	return a, ok
}

// Middleware extracts the bearer token, resolves the actor, and attaches it
// to the request context. Requests without a resolvable actor stop here.
func Middleware(r *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			h := req.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
				return
			}
			actor, err := r.Resolve(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, `{"error":"invalid credential"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, req.WithContext(WithActor(req.Context(), actor)))
		})
	}
}
