package archive

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jj-oyna/glass-pos/internal/common"
	"github.com/jj-oyna/glass-pos/internal/order"
)

// Handler exposes the order archive over HTTP.
type Handler struct {
	Store *Store
}

// List returns all archived orders, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	common.JSONData(w, http.StatusOK, h.Store.All())
}

// Receipt returns the grouped receipt breakdown for one archived order:
// per-glass-type groups plus the notification caption.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	o, err := h.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load order", nil)
		return
	}
	common.JSONData(w, http.StatusOK, map[string]any{
		"order":   o,
		"groups":  order.GroupByGlass(o.Items),
		"caption": order.Caption(o),
	})
}
