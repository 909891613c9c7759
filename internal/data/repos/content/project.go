package content

import (
	"gorm.io/gorm"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type ProjectRepo interface {
	Create(dbc dbctx.Context, projects []*types.Project) ([]*types.Project, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Project, error)
	List(dbc dbctx.Context) ([]*types.Project, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{db: db, log: baseLog.With("repo", "ProjectRepo")}
}

func (r *projectRepo) Create(dbc dbctx.Context, projects []*types.Project) ([]*types.Project, error) {
	if len(projects) == 0 {
		return []*types.Project{}, nil
	}
	if err := dbc.Handle(r.db).Create(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) GetByID(dbc dbctx.Context, id uint) (*types.Project, error) {
	return getByID[types.Project](dbc.Handle(r.db), "project", id)
}

func (r *projectRepo) List(dbc dbctx.Context) ([]*types.Project, error) {
	var out []*types.Project
	if err := dbc.Handle(r.db).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *projectRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.Handle(r.db).Model(&types.Project{}).Where("id = ?", id).Updates(updates).Error
}

func (r *projectRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	return deleteByIDs[types.Project](dbc.Handle(r.db), ids)
}
