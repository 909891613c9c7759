package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/usr-annotation-backend/internal/data/repos"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos/testutil"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	httpH "github.com/yungbote/usr-annotation-backend/internal/http/handlers"
	httpMW "github.com/yungbote/usr-annotation-backend/internal/http/middleware"
	"github.com/yungbote/usr-annotation-backend/internal/http/response"
	"github.com/yungbote/usr-annotation-backend/internal/platform/authz"
	"github.com/yungbote/usr-annotation-backend/internal/realtime"
	"github.com/yungbote/usr-annotation-backend/internal/services"
	"github.com/yungbote/usr-annotation-backend/internal/workflow"
)

type apiHarness struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	mailer *recordingMailer
}

type recordingMailer struct {
	codes map[string]string
}

func (m *recordingMailer) SendOTP(_ context.Context, email, code string, _ time.Duration) error {
	if m.codes == nil {
		m.codes = map[string]string{}
	}
	m.codes[email] = code
	return nil
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)
	machine := workflow.Load(log)
	enforcer, err := authz.ForWorkflow(log, machine)
	require.NoError(t, err)
	hub := realtime.NewHub(log)

	mailer := &recordingMailer{}
	authService := services.NewAuthService(db, log, r.User, "test-secret", time.Hour, 10*time.Minute)
	engine := NewRouter(RouterConfig{
		Log:               log,
		AuthHandler:       httpH.NewAuthHandler(log, authService, mailer),
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, authService),
		UserHandler:       httpH.NewUserHandler(services.NewUserService(db, log, r, enforcer)),
		RealtimeHandler:   httpH.NewRealtimeHandler(log, hub),
		ContentHandler:    httpH.NewContentHandler(services.NewContentService(db, log, r)),
		AnnotationHandler: httpH.NewAnnotationHandler(services.NewAnnotationService(db, log, r)),
		AssignmentHandler: httpH.NewAssignmentHandlerWithDeps(httpH.AssignmentHandlerDeps{
			Log:     log,
			Service: services.NewAssignmentService(db, log, r, machine, enforcer, &services.HubEmitter{Hub: hub}),
		}),
		ConceptHandler: httpH.NewConceptHandler(services.NewConceptService(db, log, r.Concept)),
		HealthHandler:  httpH.NewHealthHandler(),
	})
	return &apiHarness{t: t, db: db, engine: engine, mailer: mailer}
}

func (h *apiHarness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// account registers a user, promotes it directly in storage and logs in.
func (h *apiHarness) account(name string, role user.Role) (uint, string) {
	h.t.Helper()
	email := testutil.UniqueEmail(name)
	rec := h.do(http.MethodPost, "/api/register", "", map[string]string{
		"name": name, "email": email, "password": "correct horse",
	})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
	}](h.t, rec)
	require.NoError(h.t, h.db.Table("user").Where("id = ?", reg.User.ID).
		Updates(map[string]any{"role": role, "status": user.StatusActive}).Error)

	rec = h.do(http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": "correct horse"})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[struct {
		AccessToken string `json:"access_token"`
	}](h.t, rec)
	return reg.User.ID, login.AccessToken
}

type idEnvelope map[string]struct {
	ID uint `json:"id"`
}

func (h *apiHarness) create(path, token, key string, body any) uint {
	h.t.Helper()
	rec := h.do(http.MethodPost, path, token, body)
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[idEnvelope](h.t, rec)[key].ID
}

func TestHealthAndMetrics(t *testing.T) {
	h := newAPIHarness(t)
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/healthcheck", "", nil).Code)
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/metrics", "", nil).Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(http.MethodGet, "/api/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", decode[response.ErrorEnvelope](t, rec).Error.Code)

	rec = h.do(http.MethodGet, "/api/me", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h := newAPIHarness(t)
	rec := h.do(http.MethodPost, "/api/login", "", map[string]string{"email": "nobody@example.com", "password": "whatever1"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnnotationWorkflowOverHTTP(t *testing.T) {
	h := newAPIHarness(t)
	_, adminTok := h.account("admin", user.RoleAdmin)
	annotatorID, annotatorTok := h.account("annotator", user.RoleAnnotator)
	otherID, _ := h.account("other", user.RoleAnnotator)

	// Content writes are admin-only.
	rec := h.do(http.MethodPost, "/api/projects", annotatorTok, map[string]string{"title": "Geo"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	projectID := h.create("/api/projects", adminTok, "project", map[string]string{"title": "Geo"})
	chapterID := h.create(fmt.Sprintf("/api/projects/%d/chapters", projectID), adminTok, "chapter", map[string]string{"title": "ch3"})
	sentenceID := h.create(fmt.Sprintf("/api/chapters/%d/sentences", chapterID), adminTok, "sentence",
		map[string]string{"text": "raama ne khaanaa khaayaa", "external_id": "Geo_nios_3ch_0002"})
	segmentID := h.create(fmt.Sprintf("/api/sentences/%d/segments", sentenceID), adminTok, "segment", map[string]string{"text": "raama ne"})

	rec = h.do(http.MethodGet, "/api/sentences?external_id=Geo_nios_3ch_0002", annotatorTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	usrID := h.create(fmt.Sprintf("/api/segments/%d/usrs", segmentID), annotatorTok, "usr", nil)

	// A second live USR without new_revision conflicts.
	rec = h.do(http.MethodPost, fmt.Sprintf("/api/segments/%d/usrs", segmentID), annotatorTok, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Unresolved head_index is reported as a validation issue.
	rec = h.do(http.MethodPut, fmt.Sprintf("/api/usrs/%d/dependency", usrID), annotatorTok, map[string]any{
		"entries": []map[string]any{
			{"index": 1, "concept": "raama", "head_index": "2", "relation": "k1"},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode[response.ErrorEnvelope](t, rec)
	require.Equal(t, "validation_error", env.Error.Code)
	require.NotEmpty(t, env.Error.Issues)

	rec = h.do(http.MethodPut, fmt.Sprintf("/api/usrs/%d/lexical", usrID), annotatorTok, map[string]any{
		"entries": []map[string]any{
			{"index": 2, "concept": "KA_1"},
			{"index": 1, "concept": "rAma"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(http.MethodGet, fmt.Sprintf("/api/usrs/%d", usrID), annotatorTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[struct {
		Lexical []struct {
			Index int `json:"index"`
		} `json:"lexical_info"`
	}](t, rec)
	require.Len(t, doc.Lexical, 2)
	require.Equal(t, 1, doc.Lexical[0].Index)

	assignmentID := h.create("/api/assignments", adminTok, "assignment", map[string]any{
		"usr_id":       usrID,
		"annotator_id": annotatorID,
		"subtasks":     map[string]bool{"lexical": true},
	})

	rec = h.do(http.MethodPost, fmt.Sprintf("/api/assignments/%d/transitions/start", assignmentID), annotatorTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPost, fmt.Sprintf("/api/assignments/%d/transitions/approve", assignmentID), adminTok, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "illegal_transition", decode[response.ErrorEnvelope](t, rec).Error.Code)

	// Annotators read only their own queue.
	rec = h.do(http.MethodGet, fmt.Sprintf("/api/annotators/%d/assignments", otherID), annotatorTok, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = h.do(http.MethodGet, fmt.Sprintf("/api/annotators/%d/assignments?status=InProgress", annotatorID), annotatorTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	queue := decode[struct {
		Assignments []struct {
			ID uint `json:"id"`
		} `json:"assignments"`
	}](t, rec)
	require.Len(t, queue.Assignments, 1)
	require.Equal(t, assignmentID, queue.Assignments[0].ID)

	// Active work blocks a plain project delete and names the blocker.
	rec = h.do(http.MethodDelete, fmt.Sprintf("/api/projects/%d", projectID), adminTok, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, []uint{assignmentID}, decode[response.ErrorEnvelope](t, rec).Error.AssignmentIDs)

	rec = h.do(http.MethodDelete, fmt.Sprintf("/api/projects/%d?force=true", projectID), adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = h.do(http.MethodGet, fmt.Sprintf("/api/usrs/%d", usrID), annotatorTok, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserAdministrationOverHTTP(t *testing.T) {
	h := newAPIHarness(t)
	_, adminTok := h.account("admin", user.RoleAdmin)
	targetID, targetTok := h.account("target", user.RoleAnnotator)

	rec := h.do(http.MethodGet, "/api/users?role=annotator", targetTok, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodPatch, fmt.Sprintf("/api/users/%d/role", targetID), adminTok, map[string]string{"role": "reviewer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Existing tokens pick up the new role.
	rec = h.do(http.MethodGet, "/api/me", targetTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[struct {
		Me struct {
			Role string `json:"role"`
		} `json:"me"`
	}](t, rec)
	require.Equal(t, "reviewer", me.Me.Role)

	rec = h.do(http.MethodPost, fmt.Sprintf("/api/users/%d/suspend", targetID), adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = h.do(http.MethodGet, "/api/me", targetTok, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOTPIsMailedNotReturned(t *testing.T) {
	h := newAPIHarness(t)
	email := testutil.UniqueEmail("otp")
	rec := h.do(http.MethodPost, "/api/register", "", map[string]string{"name": "otp", "email": email, "password": "correct horse"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPost, "/api/otp", "", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	code := h.mailer.codes[email]
	require.Len(t, code, 6)
	require.NotContains(t, rec.Body.String(), code)

	rec = h.do(http.MethodPost, "/api/otp/verify", "", map[string]string{"email": email, "code": "000000x"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = h.do(http.MethodPost, "/api/otp/verify", "", map[string]string{"email": email, "code": code})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
