package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ppiankov/yojana/internal/catalog"
	"github.com/ppiankov/yojana/internal/logging"
)

const (
	defaultLatest = 5
	maxLatest     = 50
)

// SchemeHandler serves scheme lookups
type SchemeHandler struct {
	catalog *catalog.Catalog
	logger  *logging.Logger
}

// NewSchemeHandler creates a new scheme handler
func NewSchemeHandler(cat *catalog.Catalog, logger *logging.Logger) *SchemeHandler {
	return &SchemeHandler{catalog: cat, logger: logger}
}

// HealthResponse reports service status and loaded languages
type HealthResponse struct {
	Status    string         `json:"status"`
	Service   string         `json:"service"`
	Languages []string       `json:"languages"`
	Schemes   map[string]int `json:"schemes"`
}

// ListResponse wraps a list of schemes
type ListResponse struct {
	Language string          `json:"language"`
	Level    string          `json:"level,omitempty"`
	Count    int             `json:"count"`
	Schemes  []catalog.Entry `json:"schemes"`
}

// Health handles GET /health
func (h *SchemeHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Service:   "yojana",
		Languages: h.catalog.Languages(),
		Schemes:   make(map[string]int),
	}
	for _, lang := range resp.Languages {
		n, _ := h.catalog.Count(lang)
		resp.Schemes[lang] = n
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// List handles GET /schemes?lang=&level=
func (h *SchemeHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := languageParam(r)
	level := r.URL.Query().Get("level")

	entries, err := h.catalog.List(lang, level)
	if err != nil {
		h.writeCatalogError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ListResponse{
		Language: lang,
		Level:    level,
		Count:    len(entries),
		Schemes:  entries,
	})
}

// Latest handles GET /schemes/latest?lang=&n=
func (h *SchemeHandler) Latest(w http.ResponseWriter, r *http.Request) {
	lang := languageParam(r)

	n := defaultLatest
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxLatest {
			h.writeError(w, http.StatusBadRequest, "invalid n", "n must be an integer between 1 and 50")
			return
		}
		n = parsed
	}

	entries, err := h.catalog.Latest(lang, n)
	if err != nil {
		h.writeCatalogError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ListResponse{
		Language: lang,
		Count:    len(entries),
		Schemes:  entries,
	})
}

// Get handles GET /schemes/{schemeId}?lang=
func (h *SchemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "schemeId")

	entry, err := h.catalog.Get(id, languageParam(r))
	if err != nil {
		h.writeCatalogError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, entry)
}

func languageParam(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return catalog.SourceLanguage
}

func (h *SchemeHandler) writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnsupportedLanguage):
		h.writeError(w, http.StatusBadRequest, "unsupported language", err.Error())
	case errors.Is(err, catalog.ErrInvalidLevel):
		h.writeError(w, http.StatusBadRequest, "invalid level", err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "scheme not found", err.Error())
	default:
		h.logger.Error().Err(err).Msg("catalog lookup failed")
		h.writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}

func (h *SchemeHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		h.logger.Debug().Err(err).Msg("write response failed")
	}
}

func (h *SchemeHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{"error": message}
	if detail != "" {
		resp["detail"] = detail
	}
	h.writeJSON(w, status, resp)
}
