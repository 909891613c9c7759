package authz

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Objects guarded by the enforcer.
const (
	ObjectAssignment = "assignment"
	ObjectUser       = "user"
)

// Policy is one allow rule: role may perform action on object.
type Policy struct {
	Role   user.Role
	Object string
	Action string
}

// DirectoryPolicies are the admin-only user directory actions.
var DirectoryPolicies = []Policy{
	{Role: user.RoleAdmin, Object: ObjectUser, Action: "set_role"},
	{Role: user.RoleAdmin, Object: ObjectUser, Action: "suspend"},
	{Role: user.RoleAdmin, Object: ObjectUser, Action: "delete"},
}

// Service wraps a casbin enforcer holding role-to-action policies.
type Service struct {
	enforcer *casbin.Enforcer
	log      *logger.Logger
	mu       sync.RWMutex
}

func NewService(log *logger.Logger, policies []Policy) (*Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: parse model: %w", err)
	}
	enf, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	for _, p := range policies {
		if _, err := enf.AddPolicy(string(p.Role), p.Object, p.Action); err != nil {
			return nil, fmt.Errorf("authz: add policy %v: %w", p, err)
		}
	}
	return &Service{enforcer: enf, log: log.With("component", "authz")}, nil
}

// Check evaluates a request without returning an authorization error.
func (s *Service) Check(role user.Role, object, action string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ok, err := s.enforcer.Enforce(string(role), object, action)
	if err != nil {
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	return ok, nil
}

// Authorize returns a Forbidden error if the role may not perform action.
func (s *Service) Authorize(actor user.Actor, object, action string) error {
	ok, err := s.Check(actor.Role, object, action)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("authz denied request", "user_id", actor.UserID, "role", actor.Role, "object", object, "action", action)
		return apperrors.Forbidden("role %q may not %s %s", actor.Role, action, object)
	}
	return nil
}
