package content

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type SentenceRepo interface {
	Create(dbc dbctx.Context, sentences []*types.Sentence) ([]*types.Sentence, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Sentence, error)
	GetByExternalID(dbc dbctx.Context, externalID string) (*types.Sentence, error)
	ListByChapter(dbc dbctx.Context, chapterID uint) ([]*types.Sentence, error)
	IDsByChapters(dbc dbctx.Context, chapterIDs []uint) ([]uint, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type sentenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSentenceRepo(db *gorm.DB, baseLog *logger.Logger) SentenceRepo {
	return &sentenceRepo{db: db, log: baseLog.With("repo", "SentenceRepo")}
}

func (r *sentenceRepo) Create(dbc dbctx.Context, sentences []*types.Sentence) ([]*types.Sentence, error) {
	if len(sentences) == 0 {
		return []*types.Sentence{}, nil
	}
	if err := dbc.Handle(r.db).Create(&sentences).Error; err != nil {
		return nil, err
	}
	return sentences, nil
}

func (r *sentenceRepo) GetByID(dbc dbctx.Context, id uint) (*types.Sentence, error) {
	return getByID[types.Sentence](dbc.Handle(r.db), "sentence", id)
}

func (r *sentenceRepo) GetByExternalID(dbc dbctx.Context, externalID string) (*types.Sentence, error) {
	var row types.Sentence
	err := dbc.Handle(r.db).Where("external_id = ?", externalID).Order("id ASC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("sentence", externalID)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *sentenceRepo) ListByChapter(dbc dbctx.Context, chapterID uint) ([]*types.Sentence, error) {
	var out []*types.Sentence
	if err := dbc.Handle(r.db).
		Where("chapter_id = ?", chapterID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sentenceRepo) IDsByChapters(dbc dbctx.Context, chapterIDs []uint) ([]uint, error) {
	return idsWhereIn[types.Sentence](dbc.Handle(r.db), "chapter_id", chapterIDs)
}

func (r *sentenceRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.Handle(r.db).Model(&types.Sentence{}).Where("id = ?", id).Updates(updates).Error
}

func (r *sentenceRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	return deleteByIDs[types.Sentence](dbc.Handle(r.db), ids)
}
