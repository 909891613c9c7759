package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsEngine(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(origins...))
	r.OPTIONS("/api/usrs/:id/lexical", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.PUT("/api/usrs/:id/lexical", func(c *gin.Context) {
		c.Header(headerRequestID, "req-1")
		c.Status(http.StatusOK)
	})
	return r
}

func preflight(r *gin.Engine, origin, method string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/usrs/7/lexical", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", method)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSDefaultsToLocalAnnotationUI(t *testing.T) {
	r := corsEngine()

	rec := preflight(r, "http://localhost:5173", http.MethodPut)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status: got=%d want=%d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin: got=%q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPut) {
		t.Fatalf("allow-methods should include PUT for sub-annotation replace, got=%q", got)
	}
}

func TestCORSConfiguredOriginsReplaceDefaults(t *testing.T) {
	r := corsEngine("https://annotate.example.org")

	rec := preflight(r, "https://annotate.example.org", http.MethodPut)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://annotate.example.org" {
		t.Fatalf("configured origin: got=%q", got)
	}

	rec = preflight(r, "http://localhost:5173", http.MethodPut)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("dev origin must be refused once origins are configured, got=%q", got)
	}
}

func TestCORSExposesRequestIDs(t *testing.T) {
	r := corsEngine("https://annotate.example.org")

	req := httptest.NewRequest(http.MethodPut, "/api/usrs/7/lexical", nil)
	req.Header.Set("Origin", "https://annotate.example.org")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	for _, h := range []string{headerRequestID, headerTraceID} {
		if !strings.Contains(strings.ToLower(exposed), strings.ToLower(h)) {
			t.Fatalf("expose-headers %q missing %s", exposed, h)
		}
	}
}
