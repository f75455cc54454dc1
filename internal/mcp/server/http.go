package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"hello-mcp/internal/config"
	"hello-mcp/internal/tools"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxCallBody bounds the JSON body accepted by the call endpoint.
const maxCallBody = 1 << 20

// CallRequest is the body of POST /tools/{name}/call.
type CallRequest struct {
	Arguments tools.Arguments `json:"arguments"`
}

type httpAPI struct {
	config   *config.Config
	registry *tools.Registry
	logger   *slog.Logger
}

// NewHTTPHandler builds the HTTP surface: health, a REST mirror of the tool registry, and
// the MCP SSE endpoints (when sse is non-nil) mounted under MCPBasePath.
func NewHTTPHandler(cfg *config.Config, registry *tools.Registry, sse http.Handler, logger *slog.Logger) http.Handler {
	api := &httpAPI{config: cfg, registry: registry, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", api.handleHealth)

	r.Route("/tools", func(r chi.Router) {
		r.Get("/", api.handleListTools)
		r.Post("/{name}/call", api.handleCall)
	})

	if sse != nil {
		r.Mount(MCPBasePath, sse)
	}

	return r
}

func (a *httpAPI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.logger.Debug("http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (a *httpAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": a.config.Name,
		"version": a.config.Version,
	})
}

func (a *httpAPI) handleListTools(w http.ResponseWriter, r *http.Request) {
	list, err := ListMCPTools(a.registry)
	if err != nil {
		a.logger.Error("failed to list tools", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": list})
}

func (a *httpAPI) handleCall(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req CallRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxCallBody))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := a.registry.Call(r.Context(), name, req.Arguments)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, tools.ErrUnknownTool):
		writeError(w, http.StatusNotFound, err.Error())
	case tools.IsArgumentError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error("tool call failed", "tool", name, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
