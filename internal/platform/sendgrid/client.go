package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/usr-annotation-backend/internal/pkg/ctxutil"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/httpx"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/platform/envutil"
)

const mailSendPath = "/v3/mail/send"

// Client sends transactional mail through the SendGrid v3 API.
type Client interface {
	Send(ctx context.Context, msg Message) (*Receipt, error)
}

type Config struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
	Timeout   time.Duration
	// MaxRetries bounds retries of 429/5xx and transport failures.
	MaxRetries int
	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey:     strings.TrimSpace(envutil.String("SENDGRID_API_KEY", "", log)),
		BaseURL:    strings.TrimSpace(envutil.String("SENDGRID_BASE_URL", "https://api.sendgrid.com", log)),
		FromEmail:  strings.TrimSpace(envutil.String("SENDGRID_FROM_EMAIL", "", log)),
		FromName:   strings.TrimSpace(envutil.String("SENDGRID_FROM_NAME", "USR Annotation", log)),
		Timeout:    envutil.Duration("SENDGRID_TIMEOUT", 15*time.Second, log),
		MaxRetries: envutil.Int("SENDGRID_MAX_RETRIES", 3, log),
	}
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("missing SENDGRID_FROM_EMAIL")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	return &client{
		log:  log.With("client", "SendGrid"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

// Message is a single-recipient plain-text email.
type Message struct {
	To       string
	Subject  string
	Text     string
	Category string
}

type Receipt struct {
	StatusCode int
	MessageID  string
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type personalization struct {
	To []address `json:"to"`
}

type mailSend struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
	Categories       []string          `json:"categories,omitempty"`
}

func (c *client) Send(ctx context.Context, msg Message) (*Receipt, error) {
	msg.To = strings.TrimSpace(msg.To)
	msg.Subject = strings.TrimSpace(msg.Subject)
	switch {
	case msg.To == "":
		return nil, fmt.Errorf("sendgrid: recipient required")
	case msg.Subject == "":
		return nil, fmt.Errorf("sendgrid: subject required")
	case strings.TrimSpace(msg.Text) == "":
		return nil, fmt.Errorf("sendgrid: text body required")
	}

	body := mailSend{
		Personalizations: []personalization{{To: []address{{Email: msg.To}}}},
		From:             address{Email: c.cfg.FromEmail, Name: c.cfg.FromName},
		Subject:          msg.Subject,
		Content:          []content{{Type: "text/plain", Value: msg.Text}},
	}
	if msg.Category != "" {
		body.Categories = []string{msg.Category}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}
	return &Receipt{StatusCode: resp.StatusCode, MessageID: resp.Header.Get("X-Message-Id")}, nil
}

// HTTPError is a non-2xx reply. Message is SendGrid's first error message,
// or the truncated body when it sent none.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

func newHTTPError(status int, raw []byte) *HTTPError {
	var parsed struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if json.Unmarshal(raw, &parsed) == nil && len(parsed.Errors) > 0 && parsed.Errors[0].Message != "" {
		return &HTTPError{StatusCode: status, Message: parsed.Errors[0].Message}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 512 {
		msg = msg[:512] + "..."
	}
	return &HTTPError{StatusCode: status, Message: msg}
}

func (c *client) post(ctx context.Context, payload []byte) (*http.Response, error) {
	ctx = ctxutil.Default(ctx)
	backoff := c.cfg.Backoff
	for attempt := 0; ; attempt++ {
		resp, err := c.postOnce(ctx, payload)
		if err == nil {
			return resp, nil
		}
		if !httpx.IsRetryableError(err) || attempt >= c.cfg.MaxRetries || ctx.Err() != nil {
			return nil, err
		}
		wait := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("SendGrid send retrying", "attempt", attempt+1, "wait", wait.String(), "error", err.Error())
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		backoff *= 2
	}
}

func (c *client) postOnce(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+mailSendPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
	if err != nil {
		return resp, err
	}
	if resp.StatusCode/100 != 2 {
		return resp, newHTTPError(resp.StatusCode, raw)
	}
	return resp, nil
}
