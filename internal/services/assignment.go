package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dbpkg "github.com/yungbote/usr-annotation-backend/internal/data/db"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos"
	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/assignment"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	"github.com/yungbote/usr-annotation-backend/internal/observability"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/pointers"
	"github.com/yungbote/usr-annotation-backend/internal/platform/authz"
	"github.com/yungbote/usr-annotation-backend/internal/realtime"
	"github.com/yungbote/usr-annotation-backend/internal/workflow"
)

type CreateAssignmentInput struct {
	USRID       *uint               `json:"usr_id,omitempty"`
	SegmentID   *uint               `json:"segment_id,omitempty"`
	AnnotatorID uint                `json:"annotator_id"`
	ReviewerID  *uint               `json:"reviewer_id,omitempty"`
	Subtasks    assignment.Subtasks `json:"subtasks"`
	// Hold leaves the assignment Unassigned until an explicit assign.
	Hold bool `json:"hold,omitempty"`
}

type TransitionInput struct {
	// ReviewerID is the reviewer named by assign_reviewer.
	ReviewerID *uint  `json:"reviewer_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

type AssignmentService interface {
	Create(dbc dbctx.Context, actor user.Actor, in CreateAssignmentInput) (*types.Assignment, error)
	Transition(dbc dbctx.Context, actor user.Actor, id uint, action assignment.Action, in TransitionInput) (*types.Assignment, error)

	Assign(dbc dbctx.Context, actor user.Actor, id uint) (*types.Assignment, error)
	Start(dbc dbctx.Context, actor user.Actor, id uint) (*types.Assignment, error)
	Submit(dbc dbctx.Context, actor user.Actor, id uint) (*types.Assignment, error)
	AssignReviewer(dbc dbctx.Context, actor user.Actor, id uint, reviewerID *uint) (*types.Assignment, error)
	Approve(dbc dbctx.Context, actor user.Actor, id uint) (*types.Assignment, error)
	Reject(dbc dbctx.Context, actor user.Actor, id uint, reason string) (*types.Assignment, error)

	Reassign(dbc dbctx.Context, actor user.Actor, id uint, annotatorID uint) (*types.Assignment, error)
	WidenSubtasks(dbc dbctx.Context, actor user.Actor, id uint, add assignment.Subtasks) (*types.Assignment, error)

	Get(dbc dbctx.Context, id uint) (*types.Assignment, error)
	Enabled(dbc dbctx.Context, id uint) ([]assignment.Action, error)
	Events(dbc dbctx.Context, id uint) ([]*types.AssignmentEvent, error)
	ListByAnnotator(dbc dbctx.Context, annotatorID uint, statuses []assignment.Status) ([]*types.Assignment, error)
	ListByReviewer(dbc dbctx.Context, reviewerID uint, statuses []assignment.Status) ([]*types.Assignment, error)
	WorkloadSummary(dbc dbctx.Context, annotatorID uint) (*assignment.Summary, error)
}

type assignmentService struct {
	db       *gorm.DB
	log      *logger.Logger
	repos    repos.Repos
	machine  *workflow.Machine
	enforcer *authz.Service
	emitter  Emitter
	now      func() time.Time
}

func NewAssignmentService(
	db *gorm.DB,
	log *logger.Logger,
	r repos.Repos,
	machine *workflow.Machine,
	enforcer *authz.Service,
	emitter Emitter,
) AssignmentService {
	return &assignmentService{
		db:       db,
		log:      log.With("service", "AssignmentService"),
		repos:    r,
		machine:  machine,
		enforcer: enforcer,
		emitter:  emitter,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// run wraps one coordinator mutation: span, transaction, metrics and
// post-commit publishing.
func (s *assignmentService) run(dbc dbctx.Context, action assignment.Action, id uint, fn func(inner dbctx.Context, box *outbox) error) error {
	ctx, span := observability.Tracer().Start(ctxOf(dbc), "assignment."+string(action),
		trace.WithAttributes(attribute.String("assignment.action", string(action))))
	defer span.End()
	if id != 0 {
		span.SetAttributes(attribute.Int64("assignment.id", int64(id)))
	}

	box := &outbox{}
	err := inTx(s.db, dbctx.Context{Ctx: ctx, Tx: dbc.Tx}, func(inner dbctx.Context) error {
		return fn(inner, box)
	})
	observability.ObserveAssignmentAction(string(action), outcome(err))
	if err != nil {
		span.RecordError(err)
		s.log.Debug("Assignment action rejected", "action", action, "assignment_id", id, "error", err)
		return err
	}
	box.flush(ctx, s.log, s.emitter)
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrValidation):
		return "validation"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	case errors.Is(err, apperrors.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, apperrors.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}

func eventData(fields map[string]any) datatypes.JSON {
	if len(fields) == 0 {
		return nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// checkUser records a validation issue unless id names a usable account holding role.
func (s *assignmentService) checkUser(dbc dbctx.Context, v *apperrors.ValidationError, field string, id uint, role user.Role) {
	if id == 0 {
		v.Add("%s is required", field)
		return
	}
	u, err := s.repos.User.GetByID(dbc, id)
	if err != nil {
		v.Add("%s %d does not exist", field, id)
		return
	}
	if u.Role != role {
		v.Add("%s %d has role %q, want %q", field, id, u.Role, role)
	}
	if u.Status == user.StatusSuspended {
		v.Add("%s %d is suspended", field, id)
	}
}

// authorize applies the role table, then ownership for non-admin actors.
func (s *assignmentService) authorize(actor user.Actor, rule workflow.Transition, a *types.Assignment, target *uint) error {
	if err := s.enforcer.Authorize(actor, authz.ObjectAssignment, string(rule.Action)); err != nil {
		return err
	}
	if actor.Role == user.RoleAdmin {
		return nil
	}
	switch rule.Owner {
	case workflow.OwnerAnnotator:
		if a.AnnotatorID != actor.UserID {
			return apperrors.Forbidden("user %d is not the annotator of assignment %d", actor.UserID, a.ID)
		}
	case workflow.OwnerReviewer:
		if pointers.UintValue(a.ReviewerID) != actor.UserID {
			return apperrors.Forbidden("user %d is not the reviewer of assignment %d", actor.UserID, a.ID)
		}
	case workflow.OwnerSelf:
		if target != nil && *target != actor.UserID {
			return apperrors.Forbidden("user %d may only name themselves for %s", actor.UserID, rule.Action)
		}
	}
	return nil
}

// claim reserves subtasks for a's annotator. Existing holders are reported by id.
func (s *assignmentService) claim(dbc dbctx.Context, a *types.Assignment, subtasks assignment.Subtasks) error {
	key := a.Unit().Key()
	list := subtasks.List()
	held, err := s.repos.Claim.ConflictingAssignmentIDs(dbc, key, a.AnnotatorID, list, a.ID)
	if err != nil {
		return err
	}
	if len(held) > 0 {
		return apperrors.NewConflict(fmt.Sprintf("annotator %d already holds %s on %s", a.AnnotatorID, joinSubtasks(list), key), held...)
	}
	if err := s.repos.Claim.Insert(dbc, assignment.ClaimsFor(a, subtasks)); err != nil {
		return dbpkg.TranslateError(err, fmt.Sprintf("concurrent claim on %s", key))
	}
	return nil
}

func joinSubtasks(list []assignment.Subtask) string {
	parts := make([]string, 0, len(list))
	for _, st := range list {
		parts = append(parts, string(st))
	}
	return strings.Join(parts, ",")
}

func (s *assignmentService) Create(dbc dbctx.Context, actor user.Actor, in CreateAssignmentInput) (*types.Assignment, error) {
	var out *types.Assignment
	err := s.run(dbc, assignment.ActionCreate, 0, func(inner dbctx.Context, box *outbox) error {
		rule, ok := s.machine.Rule(assignment.ActionCreate)
		if !ok {
			return &apperrors.TransitionError{From: "", Action: string(assignment.ActionCreate)}
		}
		if err := s.enforcer.Authorize(actor, authz.ObjectAssignment, string(rule.Action)); err != nil {
			return err
		}

		v := apperrors.NewValidation()
		if in.USRID == nil && in.SegmentID == nil {
			v.Add("usr_id or segment_id is required")
		}
		if !in.Subtasks.Any() {
			v.Add("at least one subtask is required")
		}
		s.checkUser(inner, v, "annotator", in.AnnotatorID, user.RoleAnnotator)
		if in.ReviewerID != nil {
			s.checkUser(inner, v, "reviewer", *in.ReviewerID, user.RoleReviewer)
			if *in.ReviewerID == in.AnnotatorID {
				v.Add("reviewer must differ from annotator")
			}
		}

		segmentID := in.SegmentID
		var liveErr error
		if in.USRID != nil {
			usr, err := s.repos.Annotation.USR.LockByID(inner, *in.USRID)
			switch {
			case errors.Is(err, apperrors.ErrNotFound):
				v.Add("usr %d does not exist", *in.USRID)
			case err != nil:
				return err
			default:
				if in.SegmentID != nil && *in.SegmentID != usr.SegmentID {
					v.Add("usr %d belongs to segment %d, not %d", usr.ID, usr.SegmentID, *in.SegmentID)
				}
				if !usr.Live() {
					liveErr = apperrors.NewConflict(fmt.Sprintf("usr %d is not the live revision", usr.ID))
				}
				segmentID = &usr.SegmentID
			}
		} else if in.SegmentID != nil {
			if _, err := s.repos.Segment.GetByID(inner, *in.SegmentID); errors.Is(err, apperrors.ErrNotFound) {
				v.Add("segment %d does not exist", *in.SegmentID)
			} else if err != nil {
				return err
			}
		}
		if err := v.OrNil(); err != nil {
			return err
		}
		if liveErr != nil {
			return liveErr
		}

		status := rule.Final(assignment.StatusUnassigned)
		if in.Hold {
			status = assignment.StatusUnassigned
		}
		a := &types.Assignment{
			USRID:            in.USRID,
			SegmentID:        segmentID,
			AnnotatorID:      in.AnnotatorID,
			ReviewerID:       in.ReviewerID,
			AnnotationStatus: status,
		}
		a.SetSubtasks(in.Subtasks)

		created, err := s.repos.Assignment.Create(inner, a)
		if err != nil {
			return err
		}
		if err := s.claim(inner, created, in.Subtasks); err != nil {
			return err
		}
		if err := s.repos.Event.Append(inner, &types.AssignmentEvent{
			AssignmentID: created.ID,
			Action:       assignment.ActionCreate,
			ToStatus:     created.AnnotationStatus,
			ActorID:      actor.UserID,
			Data:         eventData(map[string]any{"subtasks": in.Subtasks, "unit": created.Unit().Key()}),
		}); err != nil {
			return err
		}
		if err := propagateUSRStatus(inner, s.repos, created, box); err != nil {
			return err
		}
		box.assignment(realtime.EventAssignmentCreated, created, assignment.ActionCreate, nil)
		out = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Created assignment", "assignment_id", out.ID, "annotator_id", out.AnnotatorID, "unit", out.Unit().Key())
	return out, nil
}

func (s *assignmentService) Transition(dbc dbctx.Context, actor user.Actor, id uint, action assignment.Action, in TransitionInput) (*types.Assignment, error) {
	switch action {
	case assignment.ActionReassign, assignment.ActionWiden, assignment.ActionCreate:
		return nil, apperrors.NewValidation(fmt.Sprintf("action %q has its own operation", action))
	}

	var out *types.Assignment
	err := s.run(dbc, action, id, func(inner dbctx.Context, box *outbox) error {
		a, err := s.repos.Assignment.LockByID(inner, id)
		if err != nil {
			return err
		}
		from := a.AnnotationStatus
		rule, err := s.machine.Next(from, action)
		if err != nil {
			return err
		}

		target := in.ReviewerID
		if action == assignment.ActionAssignReviewer && target == nil && actor.Role == user.RoleReviewer {
			target = pointers.Uint(actor.UserID)
		}
		if action == assignment.ActionAssignReviewer && target == nil {
			target = a.ReviewerID
		}
		if err := s.authorize(actor, rule, a, target); err != nil {
			return err
		}

		now := s.now()
		to := rule.Final(from)
		updates := map[string]interface{}{"annotation_status": to}
		data := map[string]any{}

		switch action {
		case assignment.ActionSubmit:
			updates["submitted_at"] = now
			updates["needs_rework"] = false
		case assignment.ActionAssignReviewer:
			v := apperrors.NewValidation()
			if target == nil {
				v.Add("reviewer_id is required")
			} else {
				s.checkUser(inner, v, "reviewer", *target, user.RoleReviewer)
				if *target == a.AnnotatorID {
					v.Add("reviewer must differ from annotator")
				}
			}
			if err := v.OrNil(); err != nil {
				return err
			}
			updates["reviewer_id"] = *target
			data["reviewer_id"] = *target
		case assignment.ActionApprove:
			updates["approved_at"] = now
			updates["needs_rework"] = false
			// Approved segment-only work is recorded against the revision it
			// reviewed so later revisions start clean.
			if a.USRID == nil && a.SegmentID != nil {
				live, err := s.repos.Annotation.USR.GetLiveBySegment(inner, *a.SegmentID)
				if err != nil {
					return err
				}
				if live != nil {
					updates["usr_id"] = live.ID
					data["usr_id"] = live.ID
				}
			}
		case assignment.ActionReject:
			reason := strings.TrimSpace(in.Reason)
			updates["revision_count"] = a.RevisionCount + 1
			updates["needs_rework"] = true
			updates["rejection_reason"] = reason
			data["via"] = rule.To
			data["reason"] = reason
			data["revision_count"] = a.RevisionCount + 1
		}

		if err := s.repos.Assignment.UpdateFields(inner, id, updates); err != nil {
			return err
		}
		if to.Terminal() {
			if _, err := s.repos.Claim.DeleteByAssignments(inner, []uint{id}); err != nil {
				return err
			}
		}
		if err := s.repos.Event.Append(inner, &types.AssignmentEvent{
			AssignmentID: id,
			Action:       action,
			FromStatus:   from,
			ToStatus:     to,
			ActorID:      actor.UserID,
			Data:         eventData(data),
		}); err != nil {
			return err
		}

		updated, err := s.repos.Assignment.GetByID(inner, id)
		if err != nil {
			return err
		}
		if err := propagateUSRStatus(inner, s.repos, updated, box); err != nil {
			return err
		}
		box.assignment(realtime.EventAssignmentTransitioned, updated, action, map[string]any{"from": from, "to": to})
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Assignment transitioned", "assignment_id", id, "action", action, "status", out.AnnotationStatus, "actor_id", actor.UserID)
	return out, nil
}

func (s *assignmentService) Assign(dbc dbctx.Context, actor user.Actor, id uint) (*types.Assignment, error) {
	return s.Transition(dbc, actor, id, assignment.ActionAssign, TransitionInput{})
}

func (s *assignmentService) Start(dbc dbctx.Context, actor user.Actor, id uint) (*types.Assignment, error) {
	return s.Transition(dbc, actor, id, assignment.ActionStart, TransitionInput{})
}

func (s *assignmentService) Submit(dbc dbctx.Context, actor user.Actor, id uint) (*types.Assignment, error) {
	return s.Transition(dbc, actor, id, assignment.ActionSubmit, TransitionInput{})
}

func (s *assignmentService) AssignReviewer(dbc dbctx.Context, actor user.Actor, id uint, reviewerID *uint) (*types.Assignment, error) {
	return s.Transition(dbc, actor, id, assignment.ActionAssignReviewer, TransitionInput{ReviewerID: reviewerID})
}

func (s *assignmentService) Approve(dbc dbctx.Context, actor user.Actor, id uint) (*types.Assignment, error) {
	return s.Transition(dbc, actor, id, assignment.ActionApprove, TransitionInput{})
}

func (s *assignmentService) Reject(dbc dbctx.Context, actor user.Actor, id uint, reason string) (*types.Assignment, error) {
	return s.Transition(dbc, actor, id, assignment.ActionReject, TransitionInput{Reason: reason})
}

func (s *assignmentService) Reassign(dbc dbctx.Context, actor user.Actor, id uint, annotatorID uint) (*types.Assignment, error) {
	var out *types.Assignment
	err := s.run(dbc, assignment.ActionReassign, id, func(inner dbctx.Context, box *outbox) error {
		a, err := s.repos.Assignment.LockByID(inner, id)
		if err != nil {
			return err
		}
		rule, err := s.machine.Next(a.AnnotationStatus, assignment.ActionReassign)
		if err != nil {
			return err
		}
		if err := s.authorize(actor, rule, a, nil); err != nil {
			return err
		}

		v := apperrors.NewValidation()
		s.checkUser(inner, v, "annotator", annotatorID, user.RoleAnnotator)
		if annotatorID == a.AnnotatorID {
			v.Add("assignment %d is already held by annotator %d", id, annotatorID)
		}
		if pointers.UintValue(a.ReviewerID) == annotatorID {
			v.Add("annotator must differ from reviewer")
		}
		if err := v.OrNil(); err != nil {
			return err
		}

		key := a.Unit().Key()
		held, err := s.repos.Claim.ConflictingAssignmentIDs(inner, key, annotatorID, a.Subtasks().List(), id)
		if err != nil {
			return err
		}
		if len(held) > 0 {
			return apperrors.NewConflict(fmt.Sprintf("annotator %d already holds overlapping work on %s", annotatorID, key), held...)
		}
		if err := s.repos.Claim.MoveToAnnotator(inner, id, annotatorID); err != nil {
			return dbpkg.TranslateError(err, fmt.Sprintf("concurrent claim on %s", key))
		}
		previous := a.AnnotatorID
		if err := s.repos.Assignment.UpdateFields(inner, id, map[string]interface{}{"annotator_id": annotatorID}); err != nil {
			return err
		}
		if err := s.repos.Event.Append(inner, &types.AssignmentEvent{
			AssignmentID: id,
			Action:       assignment.ActionReassign,
			FromStatus:   a.AnnotationStatus,
			ToStatus:     rule.Final(a.AnnotationStatus),
			ActorID:      actor.UserID,
			Data:         eventData(map[string]any{"from_annotator": previous, "to_annotator": annotatorID}),
		}); err != nil {
			return err
		}

		updated, err := s.repos.Assignment.GetByID(inner, id)
		if err != nil {
			return err
		}
		extra := map[string]any{"from_annotator": previous, "to_annotator": annotatorID}
		box.assignment(realtime.EventAssignmentReassigned, updated, assignment.ActionReassign, extra)
		box.also(realtime.UserChannel(previous), realtime.Message{
			Event: realtime.EventAssignmentReassigned,
			Data:  map[string]any{"assignment_id": id, "action": assignment.ActionReassign, "status": updated.AnnotationStatus, "from_annotator": previous, "to_annotator": annotatorID},
		})
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Reassigned assignment", "assignment_id", id, "annotator_id", annotatorID, "actor_id", actor.UserID)
	return out, nil
}

func (s *assignmentService) WidenSubtasks(dbc dbctx.Context, actor user.Actor, id uint, add assignment.Subtasks) (*types.Assignment, error) {
	var out *types.Assignment
	err := s.run(dbc, assignment.ActionWiden, id, func(inner dbctx.Context, box *outbox) error {
		a, err := s.repos.Assignment.LockByID(inner, id)
		if err != nil {
			return err
		}
		rule, err := s.machine.Next(a.AnnotationStatus, assignment.ActionWiden)
		if err != nil {
			return err
		}
		if err := s.authorize(actor, rule, a, nil); err != nil {
			return err
		}

		current := a.Subtasks()
		fresh := add.Minus(current)
		if !fresh.Any() {
			return apperrors.NewValidation(fmt.Sprintf("assignment %d already covers every requested subtask", id))
		}
		if err := s.claim(inner, a, fresh); err != nil {
			return err
		}
		widened := current.Union(fresh)
		if err := s.repos.Assignment.UpdateFields(inner, id, map[string]interface{}{
			"assign_lexical":      widened.Lexical,
			"assign_construction": widened.Construction,
			"assign_dependency":   widened.Dependency,
			"assign_discourse":    widened.Discourse,
		}); err != nil {
			return err
		}
		if err := s.repos.Event.Append(inner, &types.AssignmentEvent{
			AssignmentID: id,
			Action:       assignment.ActionWiden,
			FromStatus:   a.AnnotationStatus,
			ToStatus:     rule.Final(a.AnnotationStatus),
			ActorID:      actor.UserID,
			Data:         eventData(map[string]any{"added": fresh.List()}),
		}); err != nil {
			return err
		}

		updated, err := s.repos.Assignment.GetByID(inner, id)
		if err != nil {
			return err
		}
		box.assignment(realtime.EventAssignmentWidened, updated, assignment.ActionWiden, map[string]any{"added": fresh.List()})
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Widened assignment subtasks", "assignment_id", id, "actor_id", actor.UserID)
	return out, nil
}

func (s *assignmentService) Get(dbc dbctx.Context, id uint) (*types.Assignment, error) {
	return s.repos.Assignment.GetByID(read(dbc), id)
}

func (s *assignmentService) Enabled(dbc dbctx.Context, id uint) ([]assignment.Action, error) {
	a, err := s.repos.Assignment.GetByID(read(dbc), id)
	if err != nil {
		return nil, err
	}
	return s.machine.Enabled(a.AnnotationStatus), nil
}

func (s *assignmentService) Events(dbc dbctx.Context, id uint) ([]*types.AssignmentEvent, error) {
	if _, err := s.repos.Assignment.GetByID(read(dbc), id); err != nil {
		return nil, err
	}
	return s.repos.Event.ListByAssignment(read(dbc), id)
}

func (s *assignmentService) ListByAnnotator(dbc dbctx.Context, annotatorID uint, statuses []assignment.Status) ([]*types.Assignment, error) {
	if err := validStatuses(statuses); err != nil {
		return nil, err
	}
	return s.repos.Assignment.ListByAnnotator(read(dbc), annotatorID, statuses)
}

func (s *assignmentService) ListByReviewer(dbc dbctx.Context, reviewerID uint, statuses []assignment.Status) ([]*types.Assignment, error) {
	if err := validStatuses(statuses); err != nil {
		return nil, err
	}
	return s.repos.Assignment.ListByReviewer(read(dbc), reviewerID, statuses)
}

func validStatuses(statuses []assignment.Status) error {
	v := apperrors.NewValidation()
	for _, st := range statuses {
		if !st.Valid() {
			v.Add("unknown status %q", st)
		}
	}
	return v.OrNil()
}

func (s *assignmentService) WorkloadSummary(dbc dbctx.Context, annotatorID uint) (*assignment.Summary, error) {
	rdc := read(dbc)
	if _, err := s.repos.User.GetByID(rdc, annotatorID); err != nil {
		return nil, err
	}
	counts, err := s.repos.Assignment.CountByStatus(rdc, annotatorID)
	if err != nil {
		return nil, err
	}
	cycles, err := s.repos.Assignment.SumRevisionCount(rdc, annotatorID)
	if err != nil {
		return nil, err
	}
	sum := &assignment.Summary{AnnotatorID: annotatorID, ByStatus: counts, RejectionCycles: cycles}
	for st, n := range counts {
		if !st.Terminal() {
			sum.Active += n
		}
	}
	return sum, nil
}
