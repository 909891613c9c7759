package workflow

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/usr-annotation-backend/internal/domain/assignment"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

var edges = map[assignment.Status]map[assignment.Action]assignment.Status{
	assignment.StatusUnassigned: {assignment.ActionAssign: assignment.StatusAssigned},
	assignment.StatusAssigned: {
		assignment.ActionStart:    assignment.StatusInProgress,
		assignment.ActionReassign: assignment.StatusAssigned,
		assignment.ActionWiden:    assignment.StatusAssigned,
	},
	assignment.StatusInProgress: {
		assignment.ActionSubmit:   assignment.StatusSubmitted,
		assignment.ActionReassign: assignment.StatusInProgress,
		assignment.ActionWiden:    assignment.StatusInProgress,
	},
	assignment.StatusSubmitted: {assignment.ActionAssignReviewer: assignment.StatusInReview},
	assignment.StatusInReview: {
		assignment.ActionApprove: assignment.StatusApproved,
		assignment.ActionReject:  assignment.StatusInProgress,
	},
}

var allActions = []assignment.Action{
	assignment.ActionAssign,
	assignment.ActionStart,
	assignment.ActionSubmit,
	assignment.ActionAssignReviewer,
	assignment.ActionApprove,
	assignment.ActionReject,
	assignment.ActionReassign,
	assignment.ActionWiden,
	assignment.ActionCreate,
	assignment.Action("delete"),
}

func checkEveryPair(t *testing.T, m *Machine) {
	t.Helper()
	for _, from := range assignment.Statuses {
		for _, action := range allActions {
			want, ok := edges[from][action]
			tr, err := m.Next(from, action)
			if !ok {
				require.Error(t, err, "%s --%s--> should be illegal", from, action)
				require.True(t, errors.Is(err, apperrors.ErrIllegalTransition), "%s --%s--> got %v", from, action, err)
				continue
			}
			require.NoError(t, err, "%s --%s-->", from, action)
			require.Equal(t, want, tr.Final(from), "%s --%s-->", from, action)
		}
	}
}

func TestEmbeddedWorkflowMatchesStateTable(t *testing.T) {
	t.Setenv(workflowEnv, "")
	checkEveryPair(t, Load(logger.Nop()))
}

func TestFallbackMatchesStateTable(t *testing.T) {
	checkEveryPair(t, Fallback())
}

func TestRejectPassesThroughRejected(t *testing.T) {
	tr, err := Fallback().Next(assignment.StatusInReview, assignment.ActionReject)
	require.NoError(t, err)
	require.Equal(t, assignment.StatusRejected, tr.To)
	require.Equal(t, assignment.StatusInProgress, tr.Final(assignment.StatusInReview))
}

func TestApprovedIsTerminal(t *testing.T) {
	require.Empty(t, Fallback().Enabled(assignment.StatusApproved))
}

func TestRoles(t *testing.T) {
	m := Load(logger.Nop())
	start, ok := m.Rule(assignment.ActionStart)
	require.True(t, ok)
	require.True(t, start.AllowsRole(user.RoleAnnotator))
	require.False(t, start.AllowsRole(user.RoleReviewer))
	require.Equal(t, OwnerAnnotator, start.Owner)

	reassign, ok := m.Rule(assignment.ActionReassign)
	require.True(t, ok)
	require.Equal(t, []user.Role{user.RoleAdmin}, reassign.Roles)

	require.Contains(t, m.Policies(), [2]string{"reviewer", "approve"})
	require.NotContains(t, m.Policies(), [2]string{"annotator", "approve"})
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wf.yaml")
	doc := `
workflow: assignment
version: 2
transitions:
  - action: start
    from: [Assigned]
    to: InProgress
    roles: [annotator, admin]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv(workflowEnv, path)

	m := Load(logger.Nop())
	tr, err := m.Next(assignment.StatusAssigned, assignment.ActionStart)
	require.NoError(t, err)
	require.True(t, tr.AllowsRole(user.RoleAdmin))
	_, err = m.Next(assignment.StatusInProgress, assignment.ActionSubmit)
	require.ErrorIs(t, err, apperrors.ErrIllegalTransition)
}

func TestParseRejectsBadSpecs(t *testing.T) {
	cases := map[string]string{
		"wrong workflow": "workflow: other\ntransitions:\n  - action: start\n    roles: [admin]\n",
		"unknown status": "workflow: assignment\ntransitions:\n  - action: start\n    from: [Nope]\n    roles: [admin]\n",
		"unknown role":   "workflow: assignment\ntransitions:\n  - action: start\n    roles: [guest]\n",
		"from terminal":  "workflow: assignment\ntransitions:\n  - action: start\n    from: [Approved]\n    roles: [admin]\n",
		"duplicate":      "workflow: assignment\ntransitions:\n  - action: start\n    roles: [admin]\n  - action: start\n    roles: [admin]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestInvalidOverrideFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workflow: [unclosed"), 0o600))
	t.Setenv(workflowEnv, path)
	checkEveryPair(t, Load(logger.Nop()))
}
