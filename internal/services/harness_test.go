package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/usr-annotation-backend/internal/data/repos"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos/testutil"
	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	"github.com/yungbote/usr-annotation-backend/internal/platform/authz"
	"github.com/yungbote/usr-annotation-backend/internal/realtime/bus"
	"github.com/yungbote/usr-annotation-backend/internal/workflow"
)

// harness wires every service against one migrated database. Seeds are
// committed directly so the services open their own transactions.
type harness struct {
	ctx   context.Context
	db    *gorm.DB
	repos repos.Repos
	bus   *bus.MemoryBus

	content     ContentService
	annotations AnnotationService
	users       UserService
	auth        AuthService
	concepts    ConceptService
	assignments AssignmentService

	admin      *types.User
	annotator  *types.User
	annotator2 *types.User
	reviewer   *types.User
	reviewer2  *types.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)

	machine := workflow.Load(log)
	enforcer, err := authz.ForWorkflow(log, machine)
	require.NoError(t, err)
	mem := bus.NewMemoryBus()

	return &harness{
		ctx:         ctx,
		db:          db,
		repos:       r,
		bus:         mem,
		content:     NewContentService(db, log, r),
		annotations: NewAnnotationService(db, log, r),
		users:       NewUserService(db, log, r, enforcer),
		auth:        NewAuthService(db, log, r.User, "test-secret", time.Hour, 10*time.Minute),
		concepts:    NewConceptService(db, log, r.Concept),
		assignments: NewAssignmentService(db, log, r, machine, enforcer, &BusEmitter{Bus: mem}),
		admin:       testutil.SeedUser(t, ctx, db, user.RoleAdmin),
		annotator:   testutil.SeedUser(t, ctx, db, user.RoleAnnotator),
		annotator2:  testutil.SeedUser(t, ctx, db, user.RoleAnnotator),
		reviewer:    testutil.SeedUser(t, ctx, db, user.RoleReviewer),
		reviewer2:   testutil.SeedUser(t, ctx, db, user.RoleReviewer),
	}
}

func (h *harness) dbc() dbctx.Context { return dbctx.Context{Ctx: h.ctx} }

// liveUSR seeds content and creates the segment's first USR through the store.
func (h *harness) liveUSR(t *testing.T) (testutil.Content, *types.USR) {
	t.Helper()
	c := testutil.SeedContent(t, h.ctx, h.db)
	usr, err := h.annotations.CreateUSR(h.dbc(), c.Segment.ID, USRInput{})
	require.NoError(t, err)
	return c, usr
}

func (h *harness) usrStatus(t *testing.T, id uint) string {
	t.Helper()
	u, err := h.repos.Annotation.USR.GetByID(h.dbc(), id)
	require.NoError(t, err)
	return string(u.Status)
}
