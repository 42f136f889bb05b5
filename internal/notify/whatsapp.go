package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Harikrish-25/period-care/internal/resilience"
)

// Chat delivers a short message to a phone number. An empty phone means the
// configured admin number.
type Chat interface {
	Send(ctx context.Context, phone, message string) error
}

var ErrNoRecipient = errors.New("no chat recipient")

type WhatsAppConfig struct {
	AdminNumber  string
	WebhookURL   string
	WebhookToken string
	Attempts     int
	RetryDelay   time.Duration
}

// WhatsApp logs every message with a wa.me deep link and, when a webhook is
// configured, posts it to the webhook through retry and a circuit breaker.
type WhatsApp struct {
	cfg     WhatsAppConfig
	client  *http.Client
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
}

func NewWhatsApp(cfg WhatsAppConfig, logger *slog.Logger) *WhatsApp {
	if cfg.Attempts < 1 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WhatsApp{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: resilience.NewCircuitBreaker("whatsapp-webhook", 5, time.Minute),
		logger:  logger,
	}
}

func (w *WhatsApp) Send(ctx context.Context, phone, message string) error {
	target := strings.TrimSpace(phone)
	if target == "" {
		target = w.cfg.AdminNumber
	}
	if target == "" {
		return ErrNoRecipient
	}
	w.logger.InfoContext(ctx, "WhatsApp message", "to", target, "link", DeepLink(target, message), "message", message)

	if w.cfg.WebhookURL == "" {
		return nil
	}
	return resilience.Retry(ctx, w.cfg.Attempts, w.cfg.RetryDelay, func() error {
		return w.breaker.Execute(func() error { return w.post(ctx, target, message) })
	})
}

func (w *WhatsApp) post(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(map[string]string{"phone": phone, "message": message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.cfg.WebhookToken != "" {
		req.Header.Set("Authorization", "Bearer "+w.cfg.WebhookToken)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post whatsapp webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp webhook returned %d", resp.StatusCode)
	}
	return nil
}

// DeepLink builds a wa.me link that opens a chat with message prefilled.
func DeepLink(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
}
