package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/workflow"
)

func TestAuthorize(t *testing.T) {
	svc, err := NewService(logger.Nop(), append([]Policy{
		{Role: user.RoleReviewer, Object: ObjectAssignment, Action: "approve"},
	}, DirectoryPolicies...))
	require.NoError(t, err)

	require.NoError(t, svc.Authorize(user.Actor{UserID: 1, Role: user.RoleReviewer}, ObjectAssignment, "approve"))

	err = svc.Authorize(user.Actor{UserID: 2, Role: user.RoleAnnotator}, ObjectAssignment, "approve")
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.Authorize(user.Actor{UserID: 3, Role: user.RoleAdmin}, ObjectUser, "set_role"))
	require.ErrorIs(t, svc.Authorize(user.Actor{UserID: 4, Role: user.RolePending}, ObjectUser, "set_role"), apperrors.ErrForbidden)
}

func TestForWorkflow(t *testing.T) {
	svc, err := ForWorkflow(logger.Nop(), workflow.Fallback())
	require.NoError(t, err)

	ok, err := svc.Check(user.RoleAnnotator, ObjectAssignment, "start")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Check(user.RoleAnnotator, ObjectAssignment, "reassign")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = svc.Check(user.RoleAdmin, ObjectAssignment, "create")
	require.NoError(t, err)
	require.True(t, ok)
}
