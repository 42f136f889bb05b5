// Package handlers exposes the storefront as a JSON API under /api/v1.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Harikrish-25/period-care/internal/auth"
	"github.com/Harikrish-25/period-care/internal/cache"
	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/shop"
)

const (
	apiPrefix    = "/api/v1"
	maxJSONBody  = 1 << 20
	defaultLimit = 100
)

type API struct {
	Catalog   *shop.Catalog
	Orders    *shop.Orders
	Reminders *shop.Reminders
	Accounts  *shop.Accounts
	Admin     *shop.Admin
	CMS       *shop.CMS
	Auth      *auth.Middleware
	Limiter   cache.Limiter
	Chat      ChatNotifier
	Uploads   *Uploads
	Ping      func(ctx context.Context) error
	Logger    *slog.Logger
}

func (a *API) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// Routes registers every endpoint on a fresh mux.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	user, admin := a.Auth.RequireUser, a.Auth.RequireAdmin
	limit := func(name string, h http.HandlerFunc) http.HandlerFunc {
		return RateLimit(a.Limiter, name, h)
	}
	handle := func(pattern string, h http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(method+" "+apiPrefix+path, h)
	}

	mux.HandleFunc("GET /healthz", a.Health)
	mux.HandleFunc("GET /{$}", a.Root)
	if a.Uploads != nil {
		mux.Handle("GET "+a.Uploads.URLPrefix+"/", http.StripPrefix(a.Uploads.URLPrefix, http.FileServer(http.Dir(a.Uploads.Dir))))
	}

	// Auth
	handle("POST /auth/register", limit("register", a.Register))
	handle("POST /auth/login", limit("login", a.Login))
	handle("POST /auth/refresh", a.RefreshToken)
	handle("POST /auth/logout", user(a.Logout))
	handle("GET /auth/me", user(a.Me))

	// Users
	handle("GET /users/profile", user(a.Me))
	handle("PUT /users/profile", user(a.UpdateProfile))
	handle("GET /users/orders", user(a.MyOrders))
	handle("GET /users/order-history", user(a.MyOrders))

	// Catalog
	handle("GET /kits", a.ListKits)
	handle("GET /kits/type/{type}", a.KitsByType)
	handle("GET /kits/{id}", a.GetKit)
	handle("POST /kits", admin(a.CreateKit))
	handle("PUT /kits/{id}", admin(a.UpdateKit))
	handle("DELETE /kits/{id}", admin(a.DeleteKit))
	handle("PATCH /kits/{id}/toggle-availability", admin(a.ToggleKit))
	handle("POST /kits/{id}/image", admin(a.UploadKitImage))
	for _, kind := range []models.AddOnKind{models.Fruits, models.Nutrients} {
		base := "/" + string(kind)
		handle("GET "+base, a.ListAddOns(kind))
		handle("GET "+base+"/{id}", a.GetAddOn(kind))
		handle("POST "+base, admin(a.CreateAddOn(kind)))
		handle("PUT "+base+"/{id}", admin(a.UpdateAddOn(kind)))
		handle("DELETE "+base+"/{id}", admin(a.DeleteAddOn(kind)))
		handle("PATCH "+base+"/{id}/toggle-availability", admin(a.ToggleAddOn(kind)))
	}

	// Orders
	handle("POST /orders/calculate", a.CalculateOrder)
	handle("POST /orders", user(limit("orders", a.PlaceOrder)))
	handle("GET /orders/{id}", user(a.GetOrder))
	handle("GET /orders", admin(a.ListOrders))
	handle("GET /orders/status/{status}", admin(a.OrdersByStatus))
	handle("PUT /orders/{id}/status", admin(a.UpdateOrderStatus))
	handle("POST /orders/{id}/notify", admin(a.RenotifyOrder))

	// Reminders
	handle("GET /reminders", admin(a.ListReminders))
	handle("POST /reminders/send", admin(a.SendReminders))
	handle("GET /reminders/users-due", admin(a.UsersDue))
	handle("PUT /reminders/{id}/complete", admin(a.CompleteReminder))
	handle("POST /reminders/send-manual/{userID}", admin(a.SendManualReminder))
	handle("POST /reminders/cleanup", admin(a.CleanupReminders))
	handle("GET /reminders/stats", admin(a.ReminderStats))

	// Admin
	handle("GET /admin/dashboard/stats", admin(a.DashboardStats))
	handle("GET /admin/users", admin(a.ListUsers))
	handle("GET /admin/users-due-reminder", admin(a.UsersDue))
	handle("PUT /admin/users/{id}/status", admin(a.ToggleUserStatus))
	handle("GET /admin/orders/recent", admin(a.RecentOrders))
	handle("GET /admin/analytics/top-products", admin(a.TopProducts))

	// WhatsApp
	handle("POST /whatsapp/send-message", admin(a.SendChatMessage))
	handle("POST /whatsapp/test-admin-notification", admin(a.TestAdminNotification))
	handle("POST /whatsapp/test-reminder-notification", admin(a.TestReminderNotification))
	handle("GET /whatsapp/integration-guide", a.IntegrationGuide)

	// CMS
	handle("GET /cms/benefits", a.ListBenefits)
	handle("POST /cms/benefits", admin(a.CreateBenefit))
	handle("PUT /cms/benefits/{id}", admin(a.UpdateBenefit))
	handle("DELETE /cms/benefits/{id}", admin(a.DeleteBenefit))
	handle("GET /cms/testimonials", a.ListTestimonials)
	handle("POST /cms/testimonials", admin(a.CreateTestimonial))
	handle("PUT /cms/testimonials/{id}", admin(a.UpdateTestimonial))
	handle("DELETE /cms/testimonials/{id}", admin(a.DeleteTestimonial))

	return mux
}

func (a *API) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Period Care API",
		"docs":    apiPrefix,
	})
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	if a.Ping != nil {
		if err := a.Ping(r.Context()); err != nil {
			a.logger().Error("Health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// writeError maps business errors onto status codes. Anything unknown is
// logged and reported as a 500 without detail.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, shop.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shop.ErrInvalidSelection), errors.Is(err, shop.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, shop.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", "Bearer")
		status = http.StatusUnauthorized
	case errors.Is(err, shop.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, shop.ErrEmailTaken), errors.Is(err, shop.ErrInvalidTransition):
		status = http.StatusConflict
	default:
		a.logger().Error("Request failed", "method", r.Method, "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeDetail(w, status, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		writeDetail(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt reads a non-negative integer query parameter.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeDetail(w, http.StatusBadRequest, "Invalid query parameter "+name)
		return 0, false
	}
	return v, true
}

func queryBool(r *http.Request, name string, def bool) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

// paging reads the skip and limit query parameters.
func paging(w http.ResponseWriter, r *http.Request) (offset, limit int, ok bool) {
	if offset, ok = queryInt(w, r, "skip", 0); !ok {
		return 0, 0, false
	}
	limit, ok = queryInt(w, r, "limit", defaultLimit)
	return offset, limit, ok
}

func currentUser(r *http.Request) *models.User {
	u, _ := auth.UserFrom(r.Context())
	return u
}

// orEmpty keeps empty lists encoding as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
