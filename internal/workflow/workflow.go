package workflow

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/usr-annotation-backend/internal/domain/assignment"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

const workflowEnv = "ASSIGNMENT_WORKFLOW_YAML"

//go:embed assignment.yaml
var workflowFS embed.FS

// Owner names which assignment field a non-admin actor must match.
type Owner string

const (
	OwnerNone      Owner = ""
	OwnerAnnotator Owner = "annotator"
	OwnerReviewer  Owner = "reviewer"
	// OwnerSelf means the actor may only name themselves as the target user.
	OwnerSelf Owner = "self"
)

type Transition struct {
	Action assignment.Action
	From   []assignment.Status
	To     assignment.Status
	Resume assignment.Status
	Roles  []user.Role
	Owner  Owner
}

// Final is the state the assignment rests in after the transition.
func (t Transition) Final(current assignment.Status) assignment.Status {
	switch {
	case t.Resume != "":
		return t.Resume
	case t.To != "":
		return t.To
	default:
		return current
	}
}

func (t Transition) enabledFrom(s assignment.Status) bool {
	for _, f := range t.From {
		if f == s {
			return true
		}
	}
	return false
}

func (t Transition) AllowsRole(r user.Role) bool {
	for _, role := range t.Roles {
		if role == r {
			return true
		}
	}
	return false
}

var fallbackTransitions = []Transition{
	{Action: assignment.ActionAssign, From: []assignment.Status{assignment.StatusUnassigned}, To: assignment.StatusAssigned, Roles: []user.Role{user.RoleAdmin}},
	{Action: assignment.ActionStart, From: []assignment.Status{assignment.StatusAssigned}, To: assignment.StatusInProgress, Roles: []user.Role{user.RoleAnnotator}, Owner: OwnerAnnotator},
	{Action: assignment.ActionSubmit, From: []assignment.Status{assignment.StatusInProgress}, To: assignment.StatusSubmitted, Roles: []user.Role{user.RoleAnnotator}, Owner: OwnerAnnotator},
	{Action: assignment.ActionAssignReviewer, From: []assignment.Status{assignment.StatusSubmitted}, To: assignment.StatusInReview, Roles: []user.Role{user.RoleAdmin, user.RoleReviewer}, Owner: OwnerSelf},
	{Action: assignment.ActionApprove, From: []assignment.Status{assignment.StatusInReview}, To: assignment.StatusApproved, Roles: []user.Role{user.RoleReviewer}, Owner: OwnerReviewer},
	{Action: assignment.ActionReject, From: []assignment.Status{assignment.StatusInReview}, To: assignment.StatusRejected, Resume: assignment.StatusInProgress, Roles: []user.Role{user.RoleReviewer}, Owner: OwnerReviewer},
	{Action: assignment.ActionReassign, From: []assignment.Status{assignment.StatusAssigned, assignment.StatusInProgress}, Roles: []user.Role{user.RoleAdmin}},
	{Action: assignment.ActionWiden, From: []assignment.Status{assignment.StatusAssigned, assignment.StatusInProgress}, Roles: []user.Role{user.RoleAdmin}},
	{Action: assignment.ActionCreate, To: assignment.StatusAssigned, Roles: []user.Role{user.RoleAdmin}},
}

// Machine is the assignment state table.
type Machine struct {
	transitions map[assignment.Action]Transition
	order       []assignment.Action
}

// Load reads the workflow from ASSIGNMENT_WORKFLOW_YAML or the embedded
// document, falling back to the compiled-in table when either fails.
func Load(log *logger.Logger) *Machine {
	data, err := readWorkflowSpec()
	if err == nil {
		var m *Machine
		m, err = Parse(data)
		if err == nil {
			return m
		}
	}
	if log != nil {
		log.Warn("workflow: spec load failed; using fallback", "error", err)
	}
	return Fallback()
}

func Fallback() *Machine {
	return newMachine(fallbackTransitions)
}

func readWorkflowSpec() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(workflowEnv)); path != "" {
		return os.ReadFile(path)
	}
	return workflowFS.ReadFile("assignment.yaml")
}

type yamlWorkflowSpec struct {
	Workflow    string               `yaml:"workflow"`
	Version     int                  `yaml:"version"`
	Transitions []yamlTransitionSpec `yaml:"transitions"`
}

type yamlTransitionSpec struct {
	Action string   `yaml:"action"`
	From   []string `yaml:"from"`
	To     string   `yaml:"to"`
	Resume string   `yaml:"resume"`
	Roles  []string `yaml:"roles"`
	Owner  string   `yaml:"owner"`
}

func Parse(data []byte) (*Machine, error) {
	var spec yamlWorkflowSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if err := validateWorkflowSpec(&spec); err != nil {
		return nil, err
	}
	out := make([]Transition, 0, len(spec.Transitions))
	for _, t := range spec.Transitions {
		tr := Transition{
			Action: assignment.Action(strings.TrimSpace(t.Action)),
			To:     assignment.Status(strings.TrimSpace(t.To)),
			Resume: assignment.Status(strings.TrimSpace(t.Resume)),
			Owner:  Owner(strings.TrimSpace(t.Owner)),
		}
		for _, f := range t.From {
			tr.From = append(tr.From, assignment.Status(strings.TrimSpace(f)))
		}
		for _, r := range t.Roles {
			tr.Roles = append(tr.Roles, user.Role(strings.TrimSpace(r)))
		}
		out = append(out, tr)
	}
	return newMachine(out), nil
}

func validateWorkflowSpec(spec *yamlWorkflowSpec) error {
	if spec == nil {
		return errors.New("missing spec")
	}
	if strings.TrimSpace(spec.Workflow) != "assignment" {
		return fmt.Errorf("unexpected workflow: %s", spec.Workflow)
	}
	if len(spec.Transitions) == 0 {
		return errors.New("no transitions defined")
	}
	seen := map[string]bool{}
	for _, t := range spec.Transitions {
		name := strings.TrimSpace(t.Action)
		if name == "" {
			return errors.New("transition action is required")
		}
		if seen[name] {
			return fmt.Errorf("duplicate transition: %s", name)
		}
		seen[name] = true
		for _, s := range append(append([]string{}, t.From...), t.To, t.Resume) {
			s = strings.TrimSpace(s)
			if s != "" && !assignment.Status(s).Valid() {
				return fmt.Errorf("transition %s: unknown status %s", name, s)
			}
		}
		if len(t.Roles) == 0 {
			return fmt.Errorf("transition %s: no roles", name)
		}
		for _, r := range t.Roles {
			if !user.Role(strings.TrimSpace(r)).Valid() {
				return fmt.Errorf("transition %s: unknown role %s", name, r)
			}
		}
		switch Owner(strings.TrimSpace(t.Owner)) {
		case OwnerNone, OwnerAnnotator, OwnerReviewer, OwnerSelf:
		default:
			return fmt.Errorf("transition %s: unknown owner %s", name, t.Owner)
		}
	}
	for _, t := range spec.Transitions {
		for _, f := range t.From {
			if assignment.Status(strings.TrimSpace(f)).Terminal() {
				return fmt.Errorf("transition %s: enabled from terminal status %s", t.Action, f)
			}
		}
	}
	return nil
}

func newMachine(ts []Transition) *Machine {
	m := &Machine{transitions: make(map[assignment.Action]Transition, len(ts))}
	for _, t := range ts {
		m.transitions[t.Action] = t
		m.order = append(m.order, t.Action)
	}
	return m
}

// Rule returns the transition definition for action, regardless of state.
func (m *Machine) Rule(action assignment.Action) (Transition, bool) {
	t, ok := m.transitions[action]
	return t, ok
}

// Next resolves action from state. Unknown actions and disabled edges both
// yield a TransitionError.
func (m *Machine) Next(from assignment.Status, action assignment.Action) (Transition, error) {
	t, ok := m.transitions[action]
	if !ok || !t.enabledFrom(from) {
		return Transition{}, &apperrors.TransitionError{From: string(from), Action: string(action)}
	}
	return t, nil
}

// Enabled lists the actions available from state in definition order.
func (m *Machine) Enabled(from assignment.Status) []assignment.Action {
	var out []assignment.Action
	for _, a := range m.order {
		if m.transitions[a].enabledFrom(from) {
			out = append(out, a)
		}
	}
	return out
}

// Policies flattens the role table into (role, action) pairs.
func (m *Machine) Policies() [][2]string {
	var out [][2]string
	for _, a := range m.order {
		for _, r := range m.transitions[a].Roles {
			out = append(out, [2]string{string(r), string(a)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}
