package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"campus-portal/internal/auth"
	"campus-portal/internal/models"
)

func respond(w http.ResponseWriter, status int, env models.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func respondData(w http.ResponseWriter, status int, data any) {
	respond(w, status, models.OK(data))
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, models.Fail(message))
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", fmt.Errorf("malformed Authorization header")
	}
	return token, nil
}

// requireRole verifies the bearer token and checks the caller holds one of
// the allowed roles.
func requireRole(authService *auth.Service, r *http.Request, allowed ...models.Role) (*auth.Identity, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}

	identity, err := authService.IdentityFromToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token")
	}

	for _, role := range allowed {
		if identity.Role == role {
			return identity, nil
		}
	}
	return nil, fmt.Errorf("forbidden for role %s", identity.Role)
}
