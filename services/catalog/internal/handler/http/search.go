package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ArnoldEsquivel/palindrome-web/pkg/httputil"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/pagination"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/service"
)

// SearchHandler handles HTTP requests for product search endpoints.
type SearchHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.CatalogService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// ReindexResponse is the body returned by POST /api/products/reindex.
type ReindexResponse struct {
	Indexed int `json:"indexed"`
}

// Search handles GET /api/products/search?q=<term>[&page=&limit=].
// The body is the bare search result; totalItems always counts every match.
// Paged responses also carry X-Total-Count and X-Total-Pages.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if p := pagination.FromRequest(r); p.Paged() {
		w.Header().Set("X-Total-Count", strconv.Itoa(result.TotalItems))
		w.Header().Set("X-Total-Pages", strconv.Itoa(pagination.TotalPages(result.TotalItems, p)))
		result = result.WithItems(pagination.Apply(result.Items, p))
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Reindex handles POST /api/products/reindex.
func (h *SearchHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Reindex(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ReindexResponse{Indexed: n})
}
