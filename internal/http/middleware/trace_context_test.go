package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/usr-annotation-backend/internal/pkg/ctxutil"
)

func traceEngine(seen **ctxutil.TraceData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/api/assignments/:id", func(c *gin.Context) {
		*seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r
}

func TestAttachTraceContextKeepsClientIDs(t *testing.T) {
	var seen *ctxutil.TraceData
	r := traceEngine(&seen)

	req := httptest.NewRequest(http.MethodGet, "/api/assignments/3", nil)
	req.Header.Set(headerRequestID, "ui-42.reassign")
	req.Header.Set(headerTraceID, "trace_abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "ui-42.reassign" || seen.TraceID != "trace_abc" {
		t.Fatalf("trace data: %+v", seen)
	}
	if got := rec.Header().Get(headerRequestID); got != "ui-42.reassign" {
		t.Fatalf("echoed request id: %q", got)
	}
}

func TestAttachTraceContextReplacesUnsafeIDs(t *testing.T) {
	var seen *ctxutil.TraceData
	r := traceEngine(&seen)

	req := httptest.NewRequest(http.MethodGet, "/api/assignments/3", nil)
	req.Header.Set(headerRequestID, "bad id\r\nX-Injected: 1")
	req.Header.Set(headerTraceID, strings.Repeat("a", maxRequestIDLen+1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || !validRequestID(seen.RequestID) || strings.Contains(seen.RequestID, " ") {
		t.Fatalf("request id should be regenerated: %+v", seen)
	}
	// Without a span or a usable header the trace id follows the request id.
	if seen.TraceID != seen.RequestID {
		t.Fatalf("trace id: got=%q want=%q", seen.TraceID, seen.RequestID)
	}
	if rec.Header().Get(headerTraceID) != seen.TraceID {
		t.Fatalf("echoed trace id: %q", rec.Header().Get(headerTraceID))
	}
}

func TestValidRequestID(t *testing.T) {
	cases := map[string]bool{
		"":                      false,
		"abc-123":               true,
		"a.b_c":                 true,
		"has space":             false,
		"ü":                     false,
		strings.Repeat("x", 64): true,
		strings.Repeat("x", 65): false,
	}
	for in, want := range cases {
		if got := validRequestID(in); got != want {
			t.Fatalf("validRequestID(%q) = %v, want %v", in, got, want)
		}
	}
}
