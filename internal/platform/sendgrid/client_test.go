package sendgrid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

func TestSendRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	var got mailSend
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer token")
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("X-Message-Id", "msg-1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{
		APIKey:     "key",
		BaseURL:    srv.URL,
		FromEmail:  "noreply@example.com",
		MaxRetries: 2,
		Backoff:    time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	res, err := c.Send(context.Background(), Message{
		To:       "annotator@example.com",
		Subject:  "Your code",
		Text:     "123456",
		Category: "otp",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}
	if res.MessageID != "msg-1" || res.StatusCode != http.StatusAccepted {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got.From.Email != "noreply@example.com" || len(got.Personalizations) != 1 || got.Personalizations[0].To[0].Email != "annotator@example.com" {
		t.Fatalf("unexpected wire body: %+v", got)
	}
	if got.Content[0].Type != "text/plain" || got.Content[0].Value != "123456" || len(got.Categories) != 1 || got.Categories[0] != "otp" {
		t.Fatalf("unexpected wire body: %+v", got)
	}
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad to"}]}`))
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{APIKey: "key", BaseURL: srv.URL, FromEmail: "a@example.com", MaxRetries: 3, Backoff: time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = c.Send(context.Background(), Message{To: "x", Subject: "s", Text: "t"})
	he, ok := err.(*HTTPError)
	if !ok || he.StatusCode != http.StatusBadRequest || he.Error() != "sendgrid http 400: bad to" {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected no retry, got %d calls", calls.Load())
	}
}

func TestNewRequiresKeyAndSender(t *testing.T) {
	if _, err := New(logger.Nop(), Config{FromEmail: "a@example.com"}); err == nil {
		t.Fatal("expected error without api key")
	}
	if _, err := New(logger.Nop(), Config{APIKey: "key"}); err == nil {
		t.Fatal("expected error without sender address")
	}
}

func TestSendRejectsIncompleteMessage(t *testing.T) {
	c, err := New(logger.Nop(), Config{APIKey: "key", BaseURL: "http://127.0.0.1:1", FromEmail: "a@example.com"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, msg := range []Message{
		{Subject: "s", Text: "t"},
		{To: "x@example.com", Text: "t"},
		{To: "x@example.com", Subject: "s", Text: "  "},
	} {
		if _, err := c.Send(context.Background(), msg); err == nil {
			t.Fatalf("expected validation error for %+v", msg)
		}
	}
}

func TestHTTPErrorFallsBackToBody(t *testing.T) {
	he := newHTTPError(http.StatusBadGateway, []byte("upstream down"))
	if he.Error() != "sendgrid http 502: upstream down" {
		t.Fatalf("unexpected message: %q", he.Error())
	}
	if newHTTPError(http.StatusBadGateway, nil).Message != "<empty body>" {
		t.Fatal("empty body should be labelled")
	}
}
