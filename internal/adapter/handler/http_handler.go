package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
	"github.com/rl1809/restaurant-cart/internal/core/service"
)

const (
	sessionHeader  = "X-Session-ID"
	sessionCookie  = "cart_session"
	maxRequestBody = 1 << 20
)

type HTTPHandler struct {
	sessions     *Sessions
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewHTTPHandler(sessions *Sessions, orderService *service.OrderService, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{sessions: sessions, orderService: orderService, logger: logger}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxRequestBody))

	r.Get("/health", h.HealthCheck)
	r.Route("/api", func(r chi.Router) {
		r.Get("/cart", h.GetCart)
		r.Delete("/cart", h.ClearCart)
		r.Post("/cart/items", h.AddItem)
		r.Put("/cart/items", h.SetQuantity)
		r.Delete("/cart/items", h.RemoveItem)
		r.Get("/cart/totals", h.GetTotals)
		r.Put("/cart/tip", h.SelectTip)
		r.Post("/orders", h.PlaceOrder)
	})
	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	writeJSON(w, http.StatusOK, toCartResponse(sess.Cart.GetCart(r.Context())))
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	sess := h.session(w, r)
	item := domain.MenuItem{ID: req.ID, Name: req.Name, Price: req.Price, Image: req.Image}
	if err := sess.Cart.AddItem(r.Context(), item, req.Options, req.Instructions); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(sess.Cart.GetCart(r.Context())))
}

func (h *HTTPHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	sess := h.session(w, r)
	key := domain.NewItemKey(req.ID, req.Options, req.Instructions)
	if err := sess.Cart.SetQuantity(r.Context(), key, req.Quantity); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(sess.Cart.GetCart(r.Context())))
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("id") == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	sess := h.session(w, r)
	key := domain.NewItemKey(q.Get("id"), q.Get("options"), q.Get("instructions"))
	if err := sess.Cart.RemoveItem(r.Context(), key); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(sess.Cart.GetCart(r.Context())))
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if err := sess.Cart.Clear(r.Context()); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(domain.Cart{}))
}

func (h *HTTPHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	writeJSON(w, http.StatusOK, toTotalsResponse(sess.Checkout.Totals(r.Context()), sess.Checkout.Tip()))
}

func (h *HTTPHandler) SelectTip(w http.ResponseWriter, r *http.Request) {
	var req TipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := h.session(w, r)
	var totals domain.OrderTotals
	switch {
	case req.Percent != nil:
		p, ok := parsePercent(*req.Percent)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid tip percent")
			return
		}
		totals = sess.Checkout.SelectTipPercent(r.Context(), p)
	case req.Custom != nil:
		totals = sess.Checkout.SetCustomTip(r.Context(), *req.Custom)
	default:
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	writeJSON(w, http.StatusOK, toTotalsResponse(totals, sess.Checkout.Tip()))
}

// PlaceOrder blocks until the order is submitted. If the client goes away
// first the submission is cancelled and the cart is kept.
func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RequestID == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	sess := h.session(w, r)
	sub, err := h.orderService.PlaceOrder(r.Context(), service.PlaceOrderRequest{
		RequestID:   req.RequestID,
		SessionID:   sess.ID,
		Checkout:    sess.Checkout,
		Fulfillment: req.fulfillment(),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	order, err := sub.Wait(r.Context())
	if err != nil && order.Status != domain.OrderStatusConfirmed {
		if errors.Is(err, context.Canceled) {
			h.logger.Info("order abandoned by client", zap.String("order_id", order.ID))
			return
		}
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *HTTPHandler) session(w http.ResponseWriter, r *http.Request) *Session {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	w.Header().Set(sessionHeader, id)
	return h.sessions.Get(id)
}

// parsePercent accepts a tip fraction such as "0.2"; values outside the
// money range are rejected before any arithmetic.
func parsePercent(raw string) (decimal.Decimal, bool) {
	p, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !domain.InMoneyRange(p) {
		return decimal.Zero, false
	}
	return p, true
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
		message = "cart could not be saved"
	case errors.Is(err, service.ErrInvalidItem):
		status = http.StatusBadRequest
		message = "invalid menu item"
	case errors.Is(err, service.ErrInvalidFulfillment):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrDuplicateRequest):
		status = http.StatusConflict
		message = "duplicate request"
	case errors.Is(err, service.ErrEmptyCart):
		status = http.StatusUnprocessableEntity
		message = "cart is empty"
	case errors.Is(err, service.ErrQueueFull), errors.Is(err, service.ErrServiceClosed):
		status = http.StatusServiceUnavailable
		message = "ordering temporarily unavailable"
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	writeError(w, status, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
