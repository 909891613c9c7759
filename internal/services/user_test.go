package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	repouser "github.com/yungbote/usr-annotation-backend/internal/data/repos/user"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos/testutil"
	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/ctxutil"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	email := testutil.UniqueEmail("Asha")

	_, err := h.auth.Register(h.dbc(), RegisterInput{Email: "nope", Password: "short"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Issues, 3)

	u, err := h.auth.Register(h.dbc(), RegisterInput{Name: "Asha", Email: "  " + email + " ", Password: "correct horse"})
	require.NoError(t, err)
	require.Equal(t, user.RolePending, u.Role)
	require.Equal(t, user.StatusPending, u.Status)
	require.Equal(t, repouser.NormalizeEmail(email), u.Email)
	require.NotEqual(t, "correct horse", u.PasswordHash)

	_, err = h.auth.Register(h.dbc(), RegisterInput{Name: "Asha", Email: email, Password: "correct horse"})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	_, _, err = h.auth.Login(h.dbc(), email, "wrong password")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, _, err = h.auth.Login(h.dbc(), "ghost@example.com", "whatever1")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	tok, got, err := h.auth.Login(h.dbc(), email, "correct horse")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	ctx, err := h.auth.SetContextFromToken(h.ctx, tok)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(ctx)
	require.NotNil(t, rd)
	require.Equal(t, u.ID, rd.UserID)
	require.Equal(t, string(user.RolePending), rd.Role)

	// The token reflects the current role, not the one at issue time.
	_, err = h.users.SetRole(h.dbc(), h.admin.Actor(), u.ID, user.RoleAnnotator)
	require.NoError(t, err)
	actor, err := h.auth.Actor(h.dbc(), tok)
	require.NoError(t, err)
	require.Equal(t, user.RoleAnnotator, actor.Role)

	_, err = h.auth.Actor(h.dbc(), tok+"x")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSuspendedUserCannotAuthenticate(t *testing.T) {
	h := newHarness(t)
	email := testutil.UniqueEmail("suspend")
	u, err := h.auth.Register(h.dbc(), RegisterInput{Name: "S", Email: email, Password: "password1"})
	require.NoError(t, err)
	tok, _, err := h.auth.Login(h.dbc(), email, "password1")
	require.NoError(t, err)

	_, err = h.users.Suspend(h.dbc(), h.annotator.Actor(), u.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = h.users.Suspend(h.dbc(), h.admin.Actor(), h.admin.ID)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	s, err := h.users.Suspend(h.dbc(), h.admin.Actor(), u.ID)
	require.NoError(t, err)
	require.Equal(t, user.StatusSuspended, s.Status)

	_, _, err = h.auth.Login(h.dbc(), email, "password1")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = h.auth.Actor(h.dbc(), tok)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// A role change does not lift a suspension.
	s, err = h.users.SetRole(h.dbc(), h.admin.Actor(), u.ID, user.RoleReviewer)
	require.NoError(t, err)
	require.Equal(t, user.StatusSuspended, s.Status)
}

func TestSetRoleAndList(t *testing.T) {
	h := newHarness(t)
	u, err := h.auth.Register(h.dbc(), RegisterInput{Name: "R", Email: testutil.UniqueEmail("role"), Password: "password1"})
	require.NoError(t, err)

	_, err = h.users.SetRole(h.dbc(), h.reviewer.Actor(), u.ID, user.RoleAdmin)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = h.users.SetRole(h.dbc(), h.admin.Actor(), u.ID, "owner")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = h.users.SetRole(h.dbc(), h.admin.Actor(), 999999, user.RoleReviewer)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := h.users.SetRole(h.dbc(), h.admin.Actor(), u.ID, user.RoleReviewer)
	require.NoError(t, err)
	require.Equal(t, user.RoleReviewer, got.Role)
	require.Equal(t, user.StatusActive, got.Status)

	reviewers, err := h.users.List(h.dbc(), repouser.ListFilter{Role: user.RoleReviewer})
	require.NoError(t, err)
	var found bool
	for _, r := range reviewers {
		require.Equal(t, user.RoleReviewer, r.Role)
		if r.ID == u.ID {
			found = true
		}
	}
	require.True(t, found)

	_, err = h.users.List(h.dbc(), repouser.ListFilter{Role: "owner"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDeleteUserBlockedByActiveAssignments(t *testing.T) {
	h := newHarness(t)
	_, usr := h.liveUSR(t)
	a, err := h.assignments.Create(h.dbc(), h.admin.Actor(), CreateAssignmentInput{
		USRID:       &usr.ID,
		AnnotatorID: h.annotator.ID,
		ReviewerID:  &h.reviewer.ID,
		Subtasks:    lexical(),
	})
	require.NoError(t, err)

	err = h.users.Delete(h.dbc(), h.annotator.Actor(), h.annotator2.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	for _, id := range []uint{h.annotator.ID, h.reviewer.ID} {
		err = h.users.Delete(h.dbc(), h.admin.Actor(), id)
		require.ErrorIs(t, err, apperrors.ErrConflict)
		require.Equal(t, []uint{a.ID}, apperrors.BlockingIDs(err))
	}

	require.NoError(t, h.users.Delete(h.dbc(), h.admin.Actor(), h.annotator2.ID))
	_, err = h.users.Get(h.dbc(), h.annotator2.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	err = h.users.Delete(h.dbc(), h.admin.Actor(), h.annotator2.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOTPFlow(t *testing.T) {
	h := newHarness(t)
	email := testutil.UniqueEmail("otp")
	_, err := h.auth.Register(h.dbc(), RegisterInput{Name: "O", Email: email, Password: "password1"})
	require.NoError(t, err)

	err = h.auth.VerifyOTP(h.dbc(), email, "123456")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	code, err := h.auth.IssueOTP(h.dbc(), email)
	require.NoError(t, err)
	require.Len(t, code, 6)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	require.ErrorIs(t, h.auth.VerifyOTP(h.dbc(), email, wrong), apperrors.ErrUnauthorized)
	require.NoError(t, h.auth.VerifyOTP(h.dbc(), email, code))
	require.ErrorIs(t, h.auth.VerifyOTP(h.dbc(), email, code), apperrors.ErrUnauthorized, "codes are single use")

	code, err = h.auth.IssueOTP(h.dbc(), email)
	require.NoError(t, err)
	as := h.auth.(*authService)
	as.now = func() time.Time { return time.Now().Add(time.Hour) }
	require.ErrorIs(t, h.auth.VerifyOTP(h.dbc(), email, code), apperrors.ErrUnauthorized)

	_, err = h.auth.IssueOTP(h.dbc(), "ghost@example.com")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConceptDictionary(t *testing.T) {
	h := newHarness(t)
	label := "KA_" + time.Now().Format("150405.000000")
	_, err := h.concepts.Create(h.dbc(), &types.Concept{ConceptLabel: " " + label + " ", HindiLabel: "खा", EnglishLabel: "eat"})
	require.NoError(t, err)
	_, err = h.concepts.Create(h.dbc(), &types.Concept{ConceptLabel: label})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = h.concepts.Create(h.dbc(), &types.Concept{})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	got, err := h.concepts.GetByLabel(h.dbc(), label)
	require.NoError(t, err)
	require.Equal(t, "eat", got.EnglishLabel)

	hits, err := h.concepts.Search(h.dbc(), label[:3], 0)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
}
