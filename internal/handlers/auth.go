package handlers

import (
	"net/http"

	"github.com/Harikrish-25/period-care/internal/shop"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req shop.Registration
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := a.Accounts.Register(r.Context(), req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pair, err := a.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (a *API) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pair, err := a.Accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// Logout is stateless; clients drop their tokens.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, "Successfully logged out")
}

func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (a *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd shop.ProfileUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	u, err := a.Accounts.UpdateProfile(r.Context(), currentUser(r).ID, upd)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) MyOrders(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := paging(w, r)
	if !ok {
		return
	}
	orders, err := a.Orders.ListForUser(r.Context(), currentUser(r).ID, offset, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(orders))
}
