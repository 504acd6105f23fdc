package chi

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/folianet/foliant/internal/domain"
)

type identityCtxKey struct{}

// exemptPaths are routes that bypass identity resolution (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// IdentityMiddleware resolves the caller from the trusted header set by
// the authenticating reverse proxy. Requests without the header are
// rejected; the proxy is the only authentication authority.
func IdentityMiddleware(userHeader string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			user := r.Header.Get(userHeader)
			if user == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing identity header")
				return
			}

			id := domain.Identity{User: user, IP: clientIP(r)}
			next.ServeHTTP(w, r.WithContext(contextWithIdentity(r.Context(), id)))
		})
	}
}

func contextWithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// identityFromContext returns the caller identity placed by
// IdentityMiddleware. Zero value when absent.
func identityFromContext(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(identityCtxKey{}).(domain.Identity)
	return id
}

// clientIP is best-effort: the first X-Forwarded-For entry when the
// proxy provides one, otherwise the socket peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
