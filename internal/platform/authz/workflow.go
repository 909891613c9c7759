package authz

import (
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/workflow"
)

// AssignmentPolicies turns the workflow role table into enforcer policies.
func AssignmentPolicies(m *workflow.Machine) []Policy {
	pairs := m.Policies()
	out := make([]Policy, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Policy{Role: user.Role(p[0]), Object: ObjectAssignment, Action: p[1]})
	}
	return out
}

// ForWorkflow builds an enforcer holding the workflow and directory policies.
func ForWorkflow(log *logger.Logger, m *workflow.Machine) (*Service, error) {
	policies := append(AssignmentPolicies(m), DirectoryPolicies...)
	return NewService(log, policies)
}
