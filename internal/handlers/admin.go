package handlers

import (
	"log/slog"
	"net/http"
)

func (a *API) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Admin.Stats(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := paging(w, r)
	if !ok {
		return
	}
	users, err := a.Accounts.List(r.Context(), offset, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(users))
}

// ToggleUserStatus flips a user's active flag. Admins cannot lock
// themselves out.
func (a *API) ToggleUserStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if id == currentUser(r).ID {
		writeDetail(w, http.StatusBadRequest, "Cannot change your own status")
		return
	}
	u, err := a.Accounts.ToggleActive(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	state := "deactivated"
	if u.IsActive {
		state = "activated"
	}
	slog.Info("User status changed", "user_id", id, "state", state)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "User " + state + " successfully",
		"is_active": u.IsActive,
	})
}

func (a *API) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", 10)
	if !ok {
		return
	}
	top, err := a.Admin.TopProducts(r.Context(), limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}
