package assignment

import (
	"gorm.io/gorm"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type EventRepo interface {
	Append(dbc dbctx.Context, events ...*types.AssignmentEvent) error
	ListByAssignment(dbc dbctx.Context, assignmentID uint) ([]*types.AssignmentEvent, error)
	DeleteByAssignments(dbc dbctx.Context, assignmentIDs []uint) (int64, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (r *eventRepo) Append(dbc dbctx.Context, events ...*types.AssignmentEvent) error {
	if len(events) == 0 {
		return nil
	}
	return dbc.Handle(r.db).Create(&events).Error
}

func (r *eventRepo) ListByAssignment(dbc dbctx.Context, assignmentID uint) ([]*types.AssignmentEvent, error) {
	var out []*types.AssignmentEvent
	if err := dbc.Handle(r.db).
		Where("assignment_id = ?", assignmentID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventRepo) DeleteByAssignments(dbc dbctx.Context, assignmentIDs []uint) (int64, error) {
	if len(assignmentIDs) == 0 {
		return 0, nil
	}
	res := dbc.Handle(r.db).
		Where("assignment_id IN ?", assignmentIDs).
		Delete(&types.AssignmentEvent{})
	return res.RowsAffected, res.Error
}
