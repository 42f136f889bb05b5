package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/notify"
)

// ChatNotifier is the part of the notifier the WhatsApp endpoints drive.
type ChatNotifier interface {
	Direct(ctx context.Context, phone, text string) bool
	OrderPlaced(ctx context.Context, msg notify.OrderMessage) bool
	ReminderChat(ctx context.Context, msg notify.ReminderMessage) bool
}

type chatRequest struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

// readChatRequest takes phone_number and message from the query string, then
// lets a JSON body override them.
func readChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	q := r.URL.Query()
	req := chatRequest{PhoneNumber: q.Get("phone_number"), Message: q.Get("message")}
	if r.ContentLength != 0 && r.Body != nil && r.Body != http.NoBody {
		if !decodeJSON(w, r, &req) {
			return req, false
		}
	}
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Message = strings.TrimSpace(req.Message)
	return req, true
}

func (a *API) chatReady(w http.ResponseWriter) bool {
	if a.Chat == nil {
		writeDetail(w, http.StatusServiceUnavailable, "WhatsApp notifications are not configured")
		return false
	}
	return true
}

// SendChatMessage sends a free-form WhatsApp message to any number.
func (a *API) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	if !a.chatReady(w) {
		return
	}
	req, ok := readChatRequest(w, r)
	if !ok {
		return
	}
	if req.PhoneNumber == "" || req.Message == "" {
		writeDetail(w, http.StatusBadRequest, "phone_number and message are required")
		return
	}
	if !a.Chat.Direct(r.Context(), req.PhoneNumber, req.Message) {
		writeDetail(w, http.StatusInternalServerError, "Failed to send WhatsApp message")
		return
	}
	writeMessage(w, "WhatsApp message sent successfully")
}

// TestAdminNotification sends the admin a new order message for a made-up
// order.
func (a *API) TestAdminNotification(w http.ResponseWriter, r *http.Request) {
	if !a.chatReady(w) {
		return
	}
	if !a.Chat.OrderPlaced(r.Context(), sampleOrder(time.Now())) {
		writeDetail(w, http.StatusInternalServerError, "Failed to send test notification")
		return
	}
	writeMessage(w, "Test WhatsApp notification sent successfully")
}

// TestReminderNotification sends a sample reorder reminder to phone_number.
func (a *API) TestReminderNotification(w http.ResponseWriter, r *http.Request) {
	if !a.chatReady(w) {
		return
	}
	req, ok := readChatRequest(w, r)
	if !ok {
		return
	}
	if req.PhoneNumber == "" {
		writeDetail(w, http.StatusBadRequest, "phone_number is required")
		return
	}
	msg := notify.ReminderMessage{
		Name:          "Test User",
		Mobile:        req.PhoneNumber,
		LastKitName:   "Comfort Care Kit",
		LastOrderDate: models.DateOf(time.Now().AddDate(0, 0, -30)).String(),
	}
	if !a.Chat.ReminderChat(r.Context(), msg) {
		writeDetail(w, http.StatusInternalServerError, "Failed to send test reminder")
		return
	}
	writeMessage(w, "Test reminder notification sent successfully")
}

func sampleOrder(now time.Time) notify.OrderMessage {
	return notify.OrderMessage{
		Order: models.OrderDetails{
			Order: models.Order{
				ScheduledDate:   models.DateOf(now.AddDate(0, 0, 4)),
				DeliveryAddress: "123 Test Street, Mumbai",
				TotalAmount:     1089,
				Status:          models.OrderPending,
				CreatedAt:       now,
			},
			KitName:      "Premium Wellness Kit",
			KitType:      models.KitPremium,
			KitBasePrice: 799,
			UserName:     "Test Customer",
			UserEmail:    "test@example.com",
			UserMobile:   "+919876543210",
		},
		Fruits: []models.AddOn{
			{Kind: models.Fruits, Name: "Apple Slices", EmojiIcon: "🍎", Price: 60},
			{Kind: models.Fruits, Name: "Banana Chips", EmojiIcon: "🍌", Price: 50},
		},
		Nutrients: []models.AddOn{
			{Kind: models.Nutrients, Name: "Iron Supplement", Price: 90},
			{Kind: models.Nutrients, Name: "Magnesium Complex", Price: 90},
		},
	}
}

type guideStep struct {
	Step        int           `json:"step"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Options     []guideOption `json:"options,omitempty"`
	Variables   []string      `json:"variables,omitempty"`
}

type guideOption struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Endpoint    string `json:"endpoint"`
}

var integrationGuide = struct {
	Title                  string      `json:"title"`
	Description            string      `json:"description"`
	Steps                  []guideStep `json:"steps"`
	CurrentStatus          string      `json:"current_status"`
	ProductionRequirements []string    `json:"production_requirements"`
}{
	Title:       "WhatsApp Integration Guide",
	Description: "How to connect the storefront to the WhatsApp Business API",
	Steps: []guideStep{
		{
			Step:        1,
			Title:       "Get WhatsApp Business API Access",
			Description: "Apply for WhatsApp Business API through Meta or a Business Solution Provider",
		},
		{
			Step:  2,
			Title: "Choose Integration Method",
			Options: []guideOption{
				{Name: "Twilio", Description: "Twilio's WhatsApp Business API", Endpoint: "https://api.twilio.com/2010-04-01/Accounts/{AccountSid}/Messages.json"},
				{Name: "Meta Cloud API", Description: "Direct integration with Meta's Cloud API", Endpoint: "https://graph.facebook.com/v17.0/{phone_number_id}/messages"},
				{Name: "360Dialog", Description: "European WhatsApp Business API provider", Endpoint: "https://waba.360dialog.io/v1/messages"},
			},
		},
		{
			Step:        3,
			Title:       "Run a Relay",
			Description: `Expose an HTTPS endpoint that accepts {"phone": "...", "message": "..."} and forwards it to your provider`,
		},
		{
			Step:      4,
			Title:     "Point the Server at the Relay",
			Variables: []string{"PERIODCARE_CHAT_WEBHOOK_URL", "PERIODCARE_CHAT_WEBHOOK_TOKEN", "PERIODCARE_ADMIN_WHATSAPP"},
		},
	},
	CurrentStatus: "Messages are logged with a wa.me link, and posted to PERIODCARE_CHAT_WEBHOOK_URL when it is set",
	ProductionRequirements: []string{
		"Valid WhatsApp Business Account",
		"Verified business profile",
		"Approved message templates",
		"API credentials and tokens",
	},
}

func (a *API) IntegrationGuide(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, integrationGuide)
}
