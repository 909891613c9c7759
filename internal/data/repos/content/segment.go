package content

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type SegmentRepo interface {
	Create(dbc dbctx.Context, segments []*types.Segment) ([]*types.Segment, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Segment, error)
	GetByExternalID(dbc dbctx.Context, externalID string) (*types.Segment, error)
	ListBySentence(dbc dbctx.Context, sentenceID uint) ([]*types.Segment, error)
	IDsBySentences(dbc dbctx.Context, sentenceIDs []uint) ([]uint, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type segmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSegmentRepo(db *gorm.DB, baseLog *logger.Logger) SegmentRepo {
	return &segmentRepo{db: db, log: baseLog.With("repo", "SegmentRepo")}
}

func (r *segmentRepo) Create(dbc dbctx.Context, segments []*types.Segment) ([]*types.Segment, error) {
	if len(segments) == 0 {
		return []*types.Segment{}, nil
	}
	if err := dbc.Handle(r.db).Create(&segments).Error; err != nil {
		return nil, err
	}
	return segments, nil
}

func (r *segmentRepo) GetByID(dbc dbctx.Context, id uint) (*types.Segment, error) {
	return getByID[types.Segment](dbc.Handle(r.db), "segment", id)
}

func (r *segmentRepo) GetByExternalID(dbc dbctx.Context, externalID string) (*types.Segment, error) {
	var row types.Segment
	err := dbc.Handle(r.db).Where("external_id = ?", externalID).Order("id ASC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("segment", externalID)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *segmentRepo) ListBySentence(dbc dbctx.Context, sentenceID uint) ([]*types.Segment, error) {
	var out []*types.Segment
	if err := dbc.Handle(r.db).
		Where("sentence_id = ?", sentenceID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *segmentRepo) IDsBySentences(dbc dbctx.Context, sentenceIDs []uint) ([]uint, error) {
	return idsWhereIn[types.Segment](dbc.Handle(r.db), "sentence_id", sentenceIDs)
}

func (r *segmentRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.Handle(r.db).Model(&types.Segment{}).Where("id = ?", id).Updates(updates).Error
}

func (r *segmentRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	return deleteByIDs[types.Segment](dbc.Handle(r.db), ids)
}
