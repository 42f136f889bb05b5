package handlers

import (
	"net/http"

	"github.com/Harikrish-25/period-care/internal/models"
)

func (a *API) ListOrders(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := paging(w, r)
	if !ok {
		return
	}
	orders, err := a.Orders.ListAll(r.Context(), offset, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(orders))
}

func (a *API) OrdersByStatus(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := paging(w, r)
	if !ok {
		return
	}
	status := models.OrderStatus(r.PathValue("status"))
	orders, err := a.Orders.ListByStatus(r.Context(), status, offset, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(orders))
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (a *API) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := a.Orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// RenotifyOrder resends the admin's new order message.
func (a *API) RenotifyOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sent, err := a.Orders.Renotify(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if !sent {
		writeDetail(w, http.StatusBadGateway, "Failed to send notification")
		return
	}
	writeMessage(w, "Notification sent successfully")
}

func (a *API) RecentOrders(w http.ResponseWriter, r *http.Request) {
	days, ok := queryInt(w, r, "days", 7)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", 50)
	if !ok {
		return
	}
	orders, err := a.Orders.Recent(r.Context(), days, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(orders))
}
