package router

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// SecretHeader carries the shared editor secret on curation mutations.
const SecretHeader = "X-Curation-Token"

// requireSecretMiddleware gates curation mutations behind a shared secret.
// An empty configured secret disables the surface entirely (503). The
// comparison runs over fixed-length digests so it takes constant time
// regardless of how much of the secret matches.
func requireSecretMiddleware(secret string) func(http.Handler) http.Handler {
	want := sha256.Sum256([]byte(secret))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeAuthError(w, http.StatusServiceUnavailable, "Curation is not configured")
				return
			}

			got := sha256.Sum256([]byte(r.Header.Get(SecretHeader)))
			if subtle.ConstantTimeCompare(want[:], got[:]) != 1 {
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
