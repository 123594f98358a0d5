package terminal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/jj-oyna/glass-pos/internal/catalog"
	"github.com/jj-oyna/glass-pos/internal/common"
	"github.com/jj-oyna/glass-pos/internal/entry"
	"github.com/jj-oyna/glass-pos/internal/gate"
	"github.com/jj-oyna/glass-pos/internal/order"
	"github.com/jj-oyna/glass-pos/internal/pricing"
)

// Handler wires the terminal service to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// Create opens a new terminal session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	common.JSONData(w, http.StatusCreated, h.Svc.CreateSession())
}

// Get returns the live session snapshot.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// Key routes one key press on the session pad.
func (h *Handler) Key(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key" validate:"required"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	view, err := h.Svc.HandleKey(chi.URLParam(r, "id"), payload.Key)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// Field jumps the pad to a specific entry field.
func (h *Handler) Field(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Field string `json:"field" validate:"required,oneof=width height quantity"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	view, err := h.Svc.SelectField(chi.URLParam(r, "id"), entry.Field(payload.Field))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// Glass switches the session's selected glass type.
func (h *Handler) Glass(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		GlassTypeID string `json:"glassTypeId" validate:"required"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	view, err := h.Svc.SelectGlass(chi.URLParam(r, "id"), payload.GlassTypeID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// Customer records the customer name.
func (h *Handler) Customer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	view, err := h.Svc.SetCustomer(chi.URLParam(r, "id"), payload.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// AddItem prices explicit dimensions and appends the line item.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		GlassTypeID string  `json:"glassTypeId" validate:"required"`
		HeightCm    float64 `json:"heightCm" validate:"gt=0"`
		WidthCm     float64 `json:"widthCm" validate:"gt=0"`
		Quantity    int     `json:"quantity" validate:"gt=0"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	item, err := h.Svc.AddItem(chi.URLParam(r, "id"), payload.GlassTypeID,
		payload.HeightCm, payload.WidthCm, payload.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, item)
}

// RemoveItem drops one line item from the cart.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.RemoveItem(chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// ClearItems empties the cart.
func (h *Handler) ClearItems(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.ClearItems(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view)
}

// Checkout finalizes the session into an archived order.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Secret string `json:"secret" validate:"required"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	o, err := h.Svc.Checkout(r.Context(), chi.URLParam(r, "id"), payload.Secret)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, o)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, payload any) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
			return false
		}
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "session not found", nil)
	case errors.Is(err, catalog.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "glass type not found", nil)
	case errors.Is(err, gate.ErrDenied):
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "secret mismatch", nil)
	case errors.Is(err, order.ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_CART", "cart is empty", nil)
	case errors.Is(err, order.ErrNoCustomer):
		common.JSONError(w, http.StatusUnprocessableEntity, "NO_CUSTOMER", "customer name is required", nil)
	case errors.Is(err, ErrUnknownKey), errors.Is(err, pricing.ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
	}
}
