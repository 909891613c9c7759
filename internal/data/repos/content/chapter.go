package content

import (
	"gorm.io/gorm"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type ChapterRepo interface {
	Create(dbc dbctx.Context, chapters []*types.Chapter) ([]*types.Chapter, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Chapter, error)
	ListByProject(dbc dbctx.Context, projectID uint) ([]*types.Chapter, error)
	IDsByProjects(dbc dbctx.Context, projectIDs []uint) ([]uint, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

func (r *chapterRepo) Create(dbc dbctx.Context, chapters []*types.Chapter) ([]*types.Chapter, error) {
	if len(chapters) == 0 {
		return []*types.Chapter{}, nil
	}
	if err := dbc.Handle(r.db).Create(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepo) GetByID(dbc dbctx.Context, id uint) (*types.Chapter, error) {
	return getByID[types.Chapter](dbc.Handle(r.db), "chapter", id)
}

func (r *chapterRepo) ListByProject(dbc dbctx.Context, projectID uint) ([]*types.Chapter, error) {
	var out []*types.Chapter
	if err := dbc.Handle(r.db).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chapterRepo) IDsByProjects(dbc dbctx.Context, projectIDs []uint) ([]uint, error) {
	return idsWhereIn[types.Chapter](dbc.Handle(r.db), "project_id", projectIDs)
}

func (r *chapterRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.Handle(r.db).Model(&types.Chapter{}).Where("id = ?", id).Updates(updates).Error
}

func (r *chapterRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	return deleteByIDs[types.Chapter](dbc.Handle(r.db), ids)
}
