package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/celosave/savings/internal/ctxkeys"
	"github.com/celosave/savings/internal/service"
)

// RequireAddress accepts "Authorization: Bearer <jwt>" and puts the token's wallet
// address in the request context. Requests without a valid token get 401.
func RequireAddress(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			addr, err := authService.Address(token)
			if err != nil {
				slog.Debug("rejected token", "error", err, "path", r.URL.Path)
				unauthorized(w, "invalid token")
				return
			}

			ctx := ctxkeys.WithAddress(r.Context(), addr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="savings"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
