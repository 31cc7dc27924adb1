package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Probe routes stay reachable without credentials so orchestrators can scrape them.
var publicRoutes = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// apiKeyHeader is accepted alongside Authorization: Bearer for clients that cannot set it.
const apiKeyHeader = "X-API-Key"

// BearerAuthMiddleware rejects catalog requests that carry no known API key.
// The key is read from "Authorization: Bearer <key>" (scheme matched case-insensitively)
// or from X-API-Key. An empty key list disables authentication.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicRoutes[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := credential(r)
			if msg == "" && !knownKey(keys, []byte(token)) {
				msg = "invalid api key"
			}
			if msg != "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="catalog"`)
				writeError(w, http.StatusUnauthorized, codeUnauthorized, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// credential extracts the presented key, or a client-facing reason it is missing.
func credential(r *http.Request) (token, problem string) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, rest, ok := strings.Cut(auth, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return "", "authorization header must use Bearer scheme"
		}
		if rest = strings.TrimSpace(rest); rest == "" {
			return "", "empty bearer token"
		}
		return rest, ""
	}
	if key := r.Header.Get(apiKeyHeader); key != "" {
		return key, ""
	}
	return "", "missing authorization header"
}

// knownKey compares token against every key in constant time.
func knownKey(keys [][]byte, token []byte) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, token)
	}
	return found == 1
}
