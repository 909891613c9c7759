package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/usr-annotation-backend/internal/http/response"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

func observedEngine() (*gin.Engine, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.Use(RequestLogger(log))
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/assignments/:id/transition", func(c *gin.Context) {
		response.RespondErr(c, fmt.Errorf("approve: %w", apperrors.ErrIllegalTransition))
	})
	return r, logs
}

func TestRequestLoggerRecordsRejectedTransition(t *testing.T) {
	r, logs := observedEngine()

	req := httptest.NewRequest(http.MethodPost, "/api/assignments/12/transition", nil)
	req.Header.Set(headerRequestID, "req-12")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log line, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel {
		t.Fatalf("level: got=%s want=warn", e.Level)
	}
	fields := e.ContextMap()
	if fields["route"] != "/api/assignments/:id/transition" {
		t.Fatalf("route: %v", fields["route"])
	}
	if fields["param_id"] != "12" {
		t.Fatalf("param_id: %v", fields["param_id"])
	}
	if fields["error_code"] != "illegal_transition" {
		t.Fatalf("error_code: %v", fields["error_code"])
	}
	if fields["request_id"] != "req-12" {
		t.Fatalf("request_id: %v", fields["request_id"])
	}
}

func TestRequestLoggerQuietsHealthcheck(t *testing.T) {
	r, logs := observedEngine()

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	if logs.FilterLevelExact(zapcore.DebugLevel).Len() != 1 || logs.Len() != 1 {
		t.Fatalf("healthcheck should log once at debug: %+v", logs.All())
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		route  string
		status int
		want   string
	}{
		{"/api/usrs", http.StatusOK, "info"},
		{"/metrics", http.StatusOK, "debug"},
		{"/metrics", http.StatusInternalServerError, "error"},
		{"/api/usrs/:id", http.StatusNotFound, "warn"},
	}
	for _, tc := range cases {
		if got := levelFor(tc.route, tc.status); got != tc.want {
			t.Fatalf("levelFor(%q, %d) = %q, want %q", tc.route, tc.status, got, tc.want)
		}
	}
}
