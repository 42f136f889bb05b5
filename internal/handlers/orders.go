package handlers

import (
	"net/http"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/shop"
)

// CalculateOrder prices a selection. It needs no login so the storefront
// can show a running total.
func (a *API) CalculateOrder(w http.ResponseWriter, r *http.Request) {
	var sel models.Selection
	if !decodeJSON(w, r, &sel) {
		return
	}
	calc, err := a.Orders.Calculate(r.Context(), sel)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

func (a *API) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req shop.PlaceOrder
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := a.Orders.Place(r.Context(), currentUser(r).ID, req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// GetOrder is open to the order's owner and to admins.
func (a *API) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := a.Orders.Get(r.Context(), currentUser(r), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
