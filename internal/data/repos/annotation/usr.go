package annotation

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/annotation"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type USRRepo interface {
	Create(dbc dbctx.Context, usr *types.USR) (*types.USR, error)
	GetByID(dbc dbctx.Context, id uint) (*types.USR, error)
	LockByID(dbc dbctx.Context, id uint) (*types.USR, error)
	GetLiveBySegment(dbc dbctx.Context, segmentID uint) (*types.USR, error)
	LatestRevision(dbc dbctx.Context, segmentID uint) (int, error)
	ListBySegment(dbc dbctx.Context, segmentID uint) ([]*types.USR, error)
	IDsBySegments(dbc dbctx.Context, segmentIDs []uint) ([]uint, error)
	UpdateStatus(dbc dbctx.Context, id uint, status annotation.Status) error
	Supersede(dbc dbctx.Context, id uint, at time.Time) error
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type usrRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUSRRepo(db *gorm.DB, baseLog *logger.Logger) USRRepo {
	return &usrRepo{db: db, log: baseLog.With("repo", "USRRepo")}
}

func (r *usrRepo) Create(dbc dbctx.Context, usr *types.USR) (*types.USR, error) {
	if usr == nil {
		return nil, apperrors.NewValidation("usr is required")
	}
	if err := dbc.Handle(r.db).Create(usr).Error; err != nil {
		return nil, err
	}
	return usr, nil
}

func (r *usrRepo) GetByID(dbc dbctx.Context, id uint) (*types.USR, error) {
	return r.first(dbc.Handle(r.db).Where("id = ?", id), id)
}

// LockByID reads the USR with a row lock held until the transaction ends.
func (r *usrRepo) LockByID(dbc dbctx.Context, id uint) (*types.USR, error) {
	q := dbc.Handle(r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
	return r.first(q, id)
}

func (r *usrRepo) first(q *gorm.DB, id uint) (*types.USR, error) {
	var row types.USR
	err := q.First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("usr", id)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetLiveBySegment returns the segment's open revision, or nil when there is none.
func (r *usrRepo) GetLiveBySegment(dbc dbctx.Context, segmentID uint) (*types.USR, error) {
	var rows []*types.USR
	if err := dbc.Handle(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("segment_id = ? AND superseded_at IS NULL AND status <> ?", segmentID, annotation.StatusReviewed).
		Order("revision DESC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *usrRepo) LatestRevision(dbc dbctx.Context, segmentID uint) (int, error) {
	var rev sql.NullInt64
	if err := dbc.Handle(r.db).
		Model(&types.USR{}).
		Where("segment_id = ?", segmentID).
		Select("MAX(revision)").
		Row().
		Scan(&rev); err != nil {
		return 0, err
	}
	return int(rev.Int64), nil
}

func (r *usrRepo) ListBySegment(dbc dbctx.Context, segmentID uint) ([]*types.USR, error) {
	var out []*types.USR
	if err := dbc.Handle(r.db).
		Where("segment_id = ?", segmentID).
		Order("revision ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *usrRepo) IDsBySegments(dbc dbctx.Context, segmentIDs []uint) ([]uint, error) {
	out := []uint{}
	if len(segmentIDs) == 0 {
		return out, nil
	}
	if err := dbc.Handle(r.db).
		Model(&types.USR{}).
		Where("segment_id IN ?", segmentIDs).
		Order("id ASC").
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *usrRepo) UpdateStatus(dbc dbctx.Context, id uint, status annotation.Status) error {
	return dbc.Handle(r.db).
		Model(&types.USR{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *usrRepo) Supersede(dbc dbctx.Context, id uint, at time.Time) error {
	return dbc.Handle(r.db).
		Model(&types.USR{}).
		Where("id = ? AND superseded_at IS NULL", id).
		Updates(map[string]interface{}{
			"superseded_at": at,
			"updated_at":    at,
		}).Error
}

func (r *usrRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.Handle(r.db).Where("id IN ?", ids).Delete(&types.USR{})
	return res.RowsAffected, res.Error
}
