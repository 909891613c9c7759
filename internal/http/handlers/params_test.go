package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/usr-annotation-backend/internal/http/response"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/ctxutil"
)

func TestPathIDRejectsNonNumeric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	cases := map[string]int{
		"/things/12":  http.StatusOK,
		"/things/abc": http.StatusUnprocessableEntity,
		"/things/0":   http.StatusUnprocessableEntity,
		"/things/-3":  http.StatusUnprocessableEntity,
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Fatalf("%s: got status %d want %d", path, rec.Code, want)
		}
	}
}

func TestRequireAdminRejectsOtherRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: 9, Role: c.GetHeader("X-Role")})
		c.Request = c.Request.WithContext(ctx)
	})
	r.GET("/admin", func(c *gin.Context) {
		if _, ok := requireAdmin(c); !ok {
			return
		}
		c.Status(http.StatusNoContent)
	})

	for role, want := range map[string]int{"admin": http.StatusNoContent, "annotator": http.StatusForbidden, "pending": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("X-Role", role)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("role %s: got status %d want %d", role, rec.Code, want)
		}
		if want == http.StatusForbidden {
			var env response.ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != "forbidden" {
				t.Fatalf("role %s: got code %q", role, env.Error.Code)
			}
		}
	}
}

func TestStatusesParamSplitsCommaLists(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/q?status=Assigned,%20InProgress&status=InReview", nil)

	got := statusesParam(c)
	if len(got) != 3 || got[0] != "Assigned" || got[1] != "InProgress" || got[2] != "InReview" {
		t.Fatalf("unexpected statuses: %v", got)
	}
}

func TestNewAssignmentHandlerWithDeps(t *testing.T) {
	h := NewAssignmentHandlerWithDeps(AssignmentHandlerDeps{})
	if h == nil || h.log == nil {
		t.Fatal("expected handler with a default logger")
	}
}
