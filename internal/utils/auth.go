package utils

import (
	"context"
	"net/http"

	"github.com/AngelCh415/attributely-go/internal/auth"
)

const claimsKey ctxKey = "claims"

func JWTAuth(m *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}
			claims, err := m.Validate(tok)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

func Claims(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}
