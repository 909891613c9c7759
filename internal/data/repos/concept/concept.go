package concept

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type ConceptRepo interface {
	Create(dbc dbctx.Context, concepts []*types.Concept) ([]*types.Concept, error)
	GetByLabel(dbc dbctx.Context, label string) (*types.Concept, error)
	SearchByPrefix(dbc dbctx.Context, prefix string, limit int) ([]*types.Concept, error)
}

type conceptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptRepo(db *gorm.DB, baseLog *logger.Logger) ConceptRepo {
	return &conceptRepo{db: db, log: baseLog.With("repo", "ConceptRepo")}
}

func (r *conceptRepo) Create(dbc dbctx.Context, concepts []*types.Concept) ([]*types.Concept, error) {
	if len(concepts) == 0 {
		return []*types.Concept{}, nil
	}
	if err := dbc.Handle(r.db).Create(&concepts).Error; err != nil {
		return nil, err
	}
	return concepts, nil
}

func (r *conceptRepo) GetByLabel(dbc dbctx.Context, label string) (*types.Concept, error) {
	var c types.Concept
	err := dbc.Handle(r.db).Where("concept_label = ?", label).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("concept", label)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SearchByPrefix matches concept_label or any of the language labels.
func (r *conceptRepo) SearchByPrefix(dbc dbctx.Context, prefix string, limit int) ([]*types.Concept, error) {
	prefix = strings.TrimSpace(prefix)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	like := escapeLike(prefix) + "%"
	var out []*types.Concept
	if err := dbc.Handle(r.db).
		Where("concept_label LIKE ? ESCAPE '\\' OR hindi_label LIKE ? ESCAPE '\\' OR english_label LIKE ? ESCAPE '\\'", like, like, like).
		Order("concept_label ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
