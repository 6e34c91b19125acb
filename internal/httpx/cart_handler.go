package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/enkhjin/monshop/internal/cart"
	"github.com/enkhjin/monshop/internal/catalog"
	"github.com/enkhjin/monshop/internal/checkout"
	"github.com/enkhjin/monshop/internal/order"
	"github.com/enkhjin/monshop/internal/session"
)

const sessionCookie = "cart_session"

type CartHandler struct {
	Sessions *session.Manager
	Store    CatalogStore
	Checkout *checkout.Service
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Patch("/cart/items/{id}", h.updateQuantity)
	r.Delete("/cart/items/{id}", h.removeItem)
	r.Delete("/cart", h.clearCart)
	r.Post("/checkout", h.submitOrder)
}

// session resolves the shopper's session from the cookie, minting one (and
// setting the cookie) on first touch.
func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	s := h.Sessions.GetOrCreate(id)
	if s.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

type cartView struct {
	Items      []cart.Entry `json:"items"`
	TotalItems int          `json:"totalItems"`
	TotalPrice int64        `json:"totalPrice"`
}

func viewOf(c *cart.Cart) cartView {
	items := c.Items()
	if items == nil {
		items = []cart.Entry{}
	}
	return cartView{Items: items, TotalItems: c.TotalItems(), TotalPrice: c.TotalPrice()}
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	var v cartView
	s.With(func(c *cart.Cart) { v = viewOf(c) })
	writeJSON(w, http.StatusOK, v)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.GetProduct(ctx, req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s := h.session(w, r)
	var v cartView
	s.With(func(c *cart.Cart) {
		c.AddItem(p)
		v = viewOf(c)
	})
	writeJSON(w, http.StatusOK, v)
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	s := h.session(w, r)
	var v cartView
	s.With(func(c *cart.Cart) {
		c.UpdateQuantity(chi.URLParam(r, "id"), req.Quantity)
		v = viewOf(c)
	})
	writeJSON(w, http.StatusOK, v)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	var v cartView
	s.With(func(c *cart.Cart) {
		c.RemoveItem(chi.URLParam(r, "id"))
		v = viewOf(c)
	})
	writeJSON(w, http.StatusOK, v)
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	var v cartView
	s.With(func(c *cart.Cart) {
		c.Clear()
		v = viewOf(c)
	})
	writeJSON(w, http.StatusOK, v)
}

type submitOrderReq struct {
	Contact order.ContactForm `json:"contact"`
}

type submitOrderResp struct {
	OrderID     string `json:"order_id"`
	TotalPrice  int64  `json:"totalPrice"`
	DeliveryFee int64  `json:"deliveryFee"`
}

func (h *CartHandler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	s := h.session(w, r)
	if !s.BeginCheckout() {
		writeError(w, http.StatusConflict, "checkout already in progress")
		return
	}
	defer s.EndCheckout()

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	res, err := h.Checkout.Submit(ctx, s, req.Contact)
	var verr order.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusUnprocessableEntity, verr.Error())
		return
	}
	var terr *order.TransportError
	if errors.As(err, &terr) {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":     "order could not be sent, please try again",
			"retryable": true,
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, submitOrderResp{
		OrderID:     res.OrderID,
		TotalPrice:  res.Order.TotalPrice,
		DeliveryFee: res.Order.DeliveryFee,
	})
}
