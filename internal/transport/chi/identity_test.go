package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/folianet/foliant/internal/domain"
)

func identityProbe(captured *domain.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = identityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityMiddleware_ResolvesUserAndIP(t *testing.T) {
	var got domain.Identity
	handler := IdentityMiddleware("X-Auth-User")(identityProbe(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set("X-Auth-User", "chana")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.User != "chana" {
		t.Errorf("unexpected user %q", got.User)
	}
	if got.IP != "203.0.113.9" {
		t.Errorf("expected first forwarded address, got %q", got.IP)
	}
}

func TestIdentityMiddleware_FallsBackToPeerAddress(t *testing.T) {
	var got domain.Identity
	handler := IdentityMiddleware("X-Auth-User")(identityProbe(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set("X-Auth-User", "chana")
	req.RemoteAddr = "192.0.2.7:54321"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got.IP != "192.0.2.7" {
		t.Errorf("expected peer host, got %q", got.IP)
	}
}

func TestIdentityMiddleware_RejectsAnonymous(t *testing.T) {
	handler := IdentityMiddleware("X-Auth-User")(identityProbe(&domain.Identity{}))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestIdentityMiddleware_CustomHeader(t *testing.T) {
	var got domain.Identity
	handler := IdentityMiddleware("X-Remote-User")(identityProbe(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set("X-Remote-User", "dovid")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got.User != "dovid" {
		t.Errorf("unexpected user %q", got.User)
	}
}

func TestIdentityMiddleware_ExemptPaths(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		handler := IdentityMiddleware("X-Auth-User")(http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
		))

		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s: expected pass-through, got %d", path, w.Code)
		}
	}
}
