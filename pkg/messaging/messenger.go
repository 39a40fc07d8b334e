package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrMessagingDisabled signals that the chat gateway is not configured.
var ErrMessagingDisabled = errors.New("messaging: delivery disabled")

// Messenger defines behaviour for sending chat messages to a phone number.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
}

// GatewaySettings capture the runtime configuration for the chat gateway client.
type GatewaySettings struct {
	Enabled    bool
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	Timeout    time.Duration
}

type gatewayMessenger struct {
	cfg    GatewaySettings
	client *http.Client
}

// NewGatewayMessenger builds a Messenger that posts messages to a REST
// gateway using account-credential basic auth.
func NewGatewayMessenger(cfg GatewaySettings, client *http.Client) (Messenger, error) {
	if err := validateGatewayConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &gatewayMessenger{cfg: cfg, client: client}, nil
}

func validateGatewayConfig(cfg GatewaySettings) error {
	if !cfg.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.AccountSID) == "" {
		return errors.New("messaging: account sid is required when enabled")
	}
	if strings.TrimSpace(cfg.AuthToken) == "" {
		return errors.New("messaging: auth token is required when enabled")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return errors.New("messaging: sender number is required when enabled")
	}
	return nil
}

func (m *gatewayMessenger) SendText(ctx context.Context, to, body string) error {
	if !m.cfg.Enabled {
		return ErrMessagingDisabled
	}

	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("messaging: recipient is required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("messaging: message body is required")
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json",
		strings.TrimRight(m.cfg.BaseURL, "/"), url.PathEscape(m.cfg.AccountSID))

	form := url.Values{}
	form.Set("From", m.cfg.From)
	form.Set("To", to)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("messaging: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.cfg.AccountSID, m.cfg.AuthToken)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("messaging: send to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return fmt.Errorf("messaging: gateway returned %d: %s", resp.StatusCode, gatewayError(resp.Body))
}

func gatewayError(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}
