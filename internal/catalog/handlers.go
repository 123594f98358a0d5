package catalog

import (
	"net/http"

	"github.com/jj-oyna/glass-pos/internal/common"
)

// Handler exposes read-only catalog endpoints.
type Handler struct {
	Catalog *Catalog
}

// List responds with the full price card.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	common.JSONData(w, http.StatusOK, h.Catalog.List())
}
