package handlers

import (
	"fmt"
	"net/http"

	"github.com/Harikrish-25/period-care/internal/models"
)

func (a *API) ListReminders(w http.ResponseWriter, r *http.Request) {
	status := models.ReminderStatus(r.URL.Query().Get("status"))
	reminders, err := a.Reminders.List(r.Context(), status)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(reminders))
}

// SendReminders runs the same scan as the daily scheduler, on demand.
func (a *API) SendReminders(w http.ResponseWriter, r *http.Request) {
	res, err := a.Reminders.Scan(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Reminder check completed. %d reminders sent.", res.RemindersSent),
		"result":  res,
	})
}

func (a *API) UsersDue(w http.ResponseWriter, r *http.Request) {
	users, err := a.Reminders.DueUsers(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(users),
		"users": orEmpty(users),
	})
}

func (a *API) CompleteReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rem, err := a.Reminders.Complete(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

func (a *API) SendManualReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	sent, err := a.Reminders.SendManual(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if !sent {
		writeDetail(w, http.StatusBadGateway, "Failed to send reminder")
		return
	}
	writeMessage(w, "Reminder sent successfully")
}

func (a *API) CleanupReminders(w http.ResponseWriter, r *http.Request) {
	days, ok := queryInt(w, r, "days", 90)
	if !ok {
		return
	}
	n, err := a.Reminders.Cleanup(r.Context(), days)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Cleaned up %d old reminders", n),
		"deleted": n,
	})
}

func (a *API) ReminderStats(w http.ResponseWriter, r *http.Request) {
	st, err := a.Reminders.Stats(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
