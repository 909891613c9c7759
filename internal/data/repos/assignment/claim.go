package assignment

import (
	"gorm.io/gorm"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/assignment"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

// ClaimRepo maintains the (unit, annotator, subtask) reservations of active assignments.
// Inserts and moves surface duplicate keys unchanged; callers translate them.
type ClaimRepo interface {
	Insert(dbc dbctx.Context, claims []*types.AssignmentSubtaskClaim) error
	ListByAssignment(dbc dbctx.Context, assignmentID uint) ([]*types.AssignmentSubtaskClaim, error)
	// ConflictingAssignmentIDs lists other assignments already holding any of the claims.
	ConflictingAssignmentIDs(dbc dbctx.Context, unitKey string, annotatorID uint, subtasks []assignment.Subtask, excludeAssignmentID uint) ([]uint, error)
	MoveToAnnotator(dbc dbctx.Context, assignmentID, annotatorID uint) error
	DeleteByAssignments(dbc dbctx.Context, assignmentIDs []uint) (int64, error)
}

type claimRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClaimRepo(db *gorm.DB, baseLog *logger.Logger) ClaimRepo {
	return &claimRepo{db: db, log: baseLog.With("repo", "ClaimRepo")}
}

func (r *claimRepo) Insert(dbc dbctx.Context, claims []*types.AssignmentSubtaskClaim) error {
	if len(claims) == 0 {
		return nil
	}
	return dbc.Handle(r.db).Create(&claims).Error
}

func (r *claimRepo) ListByAssignment(dbc dbctx.Context, assignmentID uint) ([]*types.AssignmentSubtaskClaim, error) {
	var out []*types.AssignmentSubtaskClaim
	if err := dbc.Handle(r.db).
		Where("assignment_id = ?", assignmentID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *claimRepo) ConflictingAssignmentIDs(dbc dbctx.Context, unitKey string, annotatorID uint, subtasks []assignment.Subtask, excludeAssignmentID uint) ([]uint, error) {
	out := []uint{}
	if len(subtasks) == 0 {
		return out, nil
	}
	if err := dbc.Handle(r.db).
		Model(&types.AssignmentSubtaskClaim{}).
		Distinct("assignment_id").
		Where("unit_key = ? AND annotator_id = ? AND subtask IN ? AND assignment_id <> ?",
			unitKey, annotatorID, subtasks, excludeAssignmentID).
		Order("assignment_id ASC").
		Pluck("assignment_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *claimRepo) MoveToAnnotator(dbc dbctx.Context, assignmentID, annotatorID uint) error {
	return dbc.Handle(r.db).
		Model(&types.AssignmentSubtaskClaim{}).
		Where("assignment_id = ?", assignmentID).
		Update("annotator_id", annotatorID).Error
}

func (r *claimRepo) DeleteByAssignments(dbc dbctx.Context, assignmentIDs []uint) (int64, error) {
	if len(assignmentIDs) == 0 {
		return 0, nil
	}
	res := dbc.Handle(r.db).
		Where("assignment_id IN ?", assignmentIDs).
		Delete(&types.AssignmentSubtaskClaim{})
	return res.RowsAffected, res.Error
}
