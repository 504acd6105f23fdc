// Package chi is the inbound HTTP API. Handlers stay thin: normalize
// the request, call a use case, translate the result to JSON.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/folianet/foliant/internal/domain"
	"github.com/folianet/foliant/internal/domain/query"
	contentsuc "github.com/folianet/foliant/internal/usecase/contents"
	healthuc "github.com/folianet/foliant/internal/usecase/health"
	keyboarduc "github.com/folianet/foliant/internal/usecase/keyboard"
	prefsuc "github.com/folianet/foliant/internal/usecase/prefs"
	searchuc "github.com/folianet/foliant/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the API handlers and their use case dependencies.
type Server struct {
	search        *searchuc.Service
	contents      *contentsuc.Service
	prefs         *prefsuc.Service
	keyboard      *keyboarduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	contents *contentsuc.Service,
	prefs *prefsuc.Service,
	keyboard *keyboarduc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		contents: contents,
		prefs:    prefs,
		keyboard: keyboard,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidLanguage, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidPreference, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUpstreamUnreachable, http.StatusBadGateway, codeUpstreamUnavailable),
	}
	return s
}

// Routes mounts all API endpoints on a chi router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/search", s.SearchDocuments)
	r.Get("/api/contents", s.GetContents)
	r.Get("/api/preferences", s.GetPreferences)
	r.Post("/api/preferences", s.UpdatePreferences)
	r.Get("/api/keyboard", s.GetKeyboard)
	r.Post("/api/keyboard", s.UpdateKeyboard)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchDocuments handles GET /api/search. A query the search service
// cannot parse still answers 200: the notice rides in parseException
// and the result list is empty.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identityFromContext(ctx)

	prefs, err := s.prefs.Get(ctx, id.User)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	desc := query.Normalize(r.URL.Query())
	resp := searchResponse{
		Query:          echoQuery(desc),
		AdvancedSearch: desc.IsAdvanced(),
	}

	page, err := s.search.Search(ctx, desc, prefs, id)
	var parseErr *domain.QueryParseError
	switch {
	case errors.As(err, &parseErr):
		resp.ParseException = parseErr.Message
	case err != nil:
		s.handleDomainError(w, err)
		return
	default:
		resp.TotalHits = page.TotalHits
		resp.MaxResults = page.MaxResults
		resp.Start = page.Start
		resp.End = page.End
		resp.Results, resp.PageLinks = pageToResponse(page)
	}

	// The corpus size is decoration on every search render; losing it
	// must not fail the search.
	count, err := s.search.BookCount(ctx, id)
	if err != nil {
		s.logger.Warn("book count unavailable", zap.Error(err))
	}
	resp.BookCount = count

	writeJSON(w, http.StatusOK, resp)
}

// GetContents handles GET /api/contents.
func (s *Server) GetContents(w http.ResponseWriter, r *http.Request) {
	docName := r.URL.Query().Get("doc")
	if docName == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "doc parameter is required")
		return
	}

	res := s.contents.Fetch(r.Context(), docName, identityFromContext(r.Context()))
	writeJSON(w, http.StatusOK, res)
}

// GetPreferences handles GET /api/preferences.
func (s *Server) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identityFromContext(ctx)

	p, err := s.prefs.Get(ctx, id.User)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, preferencesResponse{
		DocsPerPage:    p.ResultsPerPage,
		SnippetsPerDoc: p.SnippetsPerDoc,
		Lang:           p.Language,
	})
}

// UpdatePreferences handles POST /api/preferences. The body is a form:
// docsPerPage, snippetsPerDoc, interfaceLanguage, or action=default to
// reset.
func (s *Server) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identityFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid form body")
		return
	}

	if r.PostForm.Get("action") == "default" {
		if _, err := s.prefs.Reset(ctx, id.User); err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resultResponse{Result: "success"})
		return
	}

	patch, err := prefsPatchFromForm(r.PostForm)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if _, err := s.prefs.Update(ctx, id.User, patch); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Result: "success"})
}

// GetKeyboard handles GET /api/keyboard.
func (s *Server) GetKeyboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identityFromContext(ctx)

	m, err := s.keyboard.Get(ctx, id.User)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	mapping := m.Mapping
	if mapping == nil {
		mapping = map[string]string{}
	}
	writeJSON(w, http.StatusOK, keyboardResponse{Mapping: mapping, Enabled: m.Enabled})
}

// UpdateKeyboard handles POST /api/keyboard. The body is a form with
// repeated from/to fields, an enabled flag whose presence means true,
// or action=default to reset.
func (s *Server) UpdateKeyboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identityFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid form body")
		return
	}

	if r.PostForm.Get("action") == "default" {
		if _, err := s.keyboard.Reset(ctx, id.User); err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resultResponse{Result: "success"})
		return
	}

	_, enabled := r.PostForm["enabled"]
	_, err := s.keyboard.Update(ctx, id.User, r.PostForm["from"], r.PostForm["to"], enabled)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Result: "success"})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// prefsPatchFromForm builds a partial update from legacy form fields.
func prefsPatchFromForm(form map[string][]string) (domain.PreferencesPatch, error) {
	var patch domain.PreferencesPatch

	if vs, ok := form["docsPerPage"]; ok && len(vs) > 0 {
		n, err := strconv.Atoi(vs[0])
		if err != nil {
			return domain.PreferencesPatch{}, errors.New("docsPerPage must be an integer")
		}
		patch.ResultsPerPage = &n
	}
	if vs, ok := form["snippetsPerDoc"]; ok && len(vs) > 0 {
		n, err := strconv.Atoi(vs[0])
		if err != nil {
			return domain.PreferencesPatch{}, errors.New("snippetsPerDoc must be an integer")
		}
		patch.SnippetsPerDoc = &n
	}
	if vs, ok := form["interfaceLanguage"]; ok && len(vs) > 0 {
		lang := vs[0]
		patch.Language = &lang
	}

	return patch, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidLanguage,
		domain.ErrInvalidPreference,
		domain.ErrUpstreamUnreachable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
