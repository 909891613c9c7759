package assignment

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/assignment"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type AssignmentRepo interface {
	Create(dbc dbctx.Context, a *types.Assignment) (*types.Assignment, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Assignment, error)
	LockByID(dbc dbctx.Context, id uint) (*types.Assignment, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	ListByAnnotator(dbc dbctx.Context, annotatorID uint, statuses []assignment.Status) ([]*types.Assignment, error)
	ListByReviewer(dbc dbctx.Context, reviewerID uint, statuses []assignment.Status) ([]*types.Assignment, error)
	// ListCovering returns assignments bound to usrID, plus unapproved
	// segment-only assignments on segmentID when segmentID is non-zero.
	ListCovering(dbc dbctx.Context, usrID, segmentID uint) ([]*types.Assignment, error)
	// IDsByUnits returns every assignment referencing one of the USRs or segments.
	IDsByUnits(dbc dbctx.Context, usrIDs, segmentIDs []uint) ([]uint, error)
	// ActiveIDsByUnits is IDsByUnits restricted to non-terminal assignments.
	ActiveIDsByUnits(dbc dbctx.Context, usrIDs, segmentIDs []uint) ([]uint, error)
	ActiveIDsByUser(dbc dbctx.Context, userID uint) ([]uint, error)
	CountByStatus(dbc dbctx.Context, annotatorID uint) (map[assignment.Status]int, error)
	SumRevisionCount(dbc dbctx.Context, annotatorID uint) (int, error)
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return &assignmentRepo{db: db, log: baseLog.With("repo", "AssignmentRepo")}
}

func (r *assignmentRepo) Create(dbc dbctx.Context, a *types.Assignment) (*types.Assignment, error) {
	if a == nil {
		return nil, apperrors.NewValidation("assignment is required")
	}
	if a.AnnotationStatus == "" {
		a.AnnotationStatus = assignment.StatusUnassigned
	}
	if err := dbc.Handle(r.db).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assignmentRepo) GetByID(dbc dbctx.Context, id uint) (*types.Assignment, error) {
	return r.first(dbc.Handle(r.db).Where("id = ?", id), id)
}

// LockByID reads the assignment with FOR UPDATE so concurrent transitions serialize.
func (r *assignmentRepo) LockByID(dbc dbctx.Context, id uint) (*types.Assignment, error) {
	return r.first(dbc.Handle(r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id), id)
}

func (r *assignmentRepo) first(q *gorm.DB, id uint) (*types.Assignment, error) {
	var a types.Assignment
	err := q.First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("assignment", id)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.Handle(r.db).
		Model(&types.Assignment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *assignmentRepo) ListByAnnotator(dbc dbctx.Context, annotatorID uint, statuses []assignment.Status) ([]*types.Assignment, error) {
	return r.listBy(dbc, "annotator_id", annotatorID, statuses)
}

func (r *assignmentRepo) ListByReviewer(dbc dbctx.Context, reviewerID uint, statuses []assignment.Status) ([]*types.Assignment, error) {
	return r.listBy(dbc, "reviewer_id", reviewerID, statuses)
}

func (r *assignmentRepo) listBy(dbc dbctx.Context, column string, userID uint, statuses []assignment.Status) ([]*types.Assignment, error) {
	q := dbc.Handle(r.db).Where(column+" = ?", userID)
	if len(statuses) > 0 {
		q = q.Where("annotation_status IN ?", statuses)
	}
	var out []*types.Assignment
	if err := q.Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) ListCovering(dbc dbctx.Context, usrID, segmentID uint) ([]*types.Assignment, error) {
	q := dbc.Handle(r.db)
	if segmentID != 0 {
		q = q.Where("usr_id = ? OR (usr_id IS NULL AND segment_id = ? AND annotation_status <> ?)",
			usrID, segmentID, assignment.StatusApproved)
	} else {
		q = q.Where("usr_id = ?", usrID)
	}
	var out []*types.Assignment
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) unitScope(q *gorm.DB, usrIDs, segmentIDs []uint) *gorm.DB {
	switch {
	case len(usrIDs) > 0 && len(segmentIDs) > 0:
		return q.Where("usr_id IN ? OR segment_id IN ?", usrIDs, segmentIDs)
	case len(usrIDs) > 0:
		return q.Where("usr_id IN ?", usrIDs)
	default:
		return q.Where("segment_id IN ?", segmentIDs)
	}
}

func (r *assignmentRepo) IDsByUnits(dbc dbctx.Context, usrIDs, segmentIDs []uint) ([]uint, error) {
	out := []uint{}
	if len(usrIDs) == 0 && len(segmentIDs) == 0 {
		return out, nil
	}
	q := r.unitScope(dbc.Handle(r.db).Model(&types.Assignment{}), usrIDs, segmentIDs)
	if err := q.Order("id ASC").Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) ActiveIDsByUnits(dbc dbctx.Context, usrIDs, segmentIDs []uint) ([]uint, error) {
	out := []uint{}
	if len(usrIDs) == 0 && len(segmentIDs) == 0 {
		return out, nil
	}
	q := r.unitScope(dbc.Handle(r.db).Model(&types.Assignment{}), usrIDs, segmentIDs).
		Where("annotation_status NOT IN ?", assignment.TerminalStatuses)
	if err := q.Order("id ASC").Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) ActiveIDsByUser(dbc dbctx.Context, userID uint) ([]uint, error) {
	out := []uint{}
	if err := dbc.Handle(r.db).
		Model(&types.Assignment{}).
		Where("annotator_id = ? OR reviewer_id = ?", userID, userID).
		Where("annotation_status NOT IN ?", assignment.TerminalStatuses).
		Order("id ASC").
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) CountByStatus(dbc dbctx.Context, annotatorID uint) (map[assignment.Status]int, error) {
	type row struct {
		Status assignment.Status
		N      int
	}
	var rows []row
	if err := dbc.Handle(r.db).
		Model(&types.Assignment{}).
		Select("annotation_status AS status, COUNT(*) AS n").
		Where("annotator_id = ?", annotatorID).
		Group("annotation_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[assignment.Status]int, len(rows))
	for _, rw := range rows {
		out[rw.Status] = rw.N
	}
	return out, nil
}

func (r *assignmentRepo) SumRevisionCount(dbc dbctx.Context, annotatorID uint) (int, error) {
	var total int64
	if err := dbc.Handle(r.db).
		Model(&types.Assignment{}).
		Select("COALESCE(SUM(revision_count), 0)").
		Where("annotator_id = ?", annotatorID).
		Row().
		Scan(&total); err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *assignmentRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.Handle(r.db).Where("id IN ?", ids).Delete(&types.Assignment{})
	return res.RowsAffected, res.Error
}
