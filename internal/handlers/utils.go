package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/damas-online/damas/internal/auth"
	"github.com/damas-online/damas/internal/models"
)

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// requestToken finds the bearer token on a request: the Authorization
// header first, then the auth_token cookie, then a token query param
// (websocket clients cannot always set headers).
func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if tok := extractCookieToken(r.Header.Get("Cookie"), "auth_token"); tok != "" {
		return tok
	}
	return r.URL.Query().Get("token")
}

// authenticateRequest resolves the verified identity for a request.
func authenticateRequest(r *http.Request) (models.Identity, error) {
	token := requestToken(r)
	if token == "" {
		return models.Identity{}, fmt.Errorf("missing auth token")
	}
	return auth.AuthenticateJWT(token)
}
