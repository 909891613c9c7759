package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	dbpkg "github.com/yungbote/usr-annotation-backend/internal/data/db"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos"
	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

const (
	defaultConceptSearchLimit = 20
	maxConceptSearchLimit     = 100
)

type ConceptService interface {
	Create(dbc dbctx.Context, c *types.Concept) (*types.Concept, error)
	GetByLabel(dbc dbctx.Context, label string) (*types.Concept, error)
	Search(dbc dbctx.Context, prefix string, limit int) ([]*types.Concept, error)
}

type conceptService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ConceptRepo
}

func NewConceptService(db *gorm.DB, log *logger.Logger, repo repos.ConceptRepo) ConceptService {
	return &conceptService{db: db, log: log.With("service", "ConceptService"), repo: repo}
}

func (cs *conceptService) Create(dbc dbctx.Context, c *types.Concept) (*types.Concept, error) {
	if c == nil {
		return nil, apperrors.NewValidation("concept is required")
	}
	c.ConceptLabel = strings.TrimSpace(c.ConceptLabel)
	v := apperrors.NewValidation()
	required(v, "concept_label", c.ConceptLabel)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	created, err := cs.repo.Create(read(dbc), []*types.Concept{c})
	if err != nil {
		return nil, dbpkg.TranslateError(err, fmt.Sprintf("concept %q already exists", c.ConceptLabel))
	}
	return created[0], nil
}

func (cs *conceptService) GetByLabel(dbc dbctx.Context, label string) (*types.Concept, error) {
	return cs.repo.GetByLabel(read(dbc), strings.TrimSpace(label))
}

func (cs *conceptService) Search(dbc dbctx.Context, prefix string, limit int) ([]*types.Concept, error) {
	switch {
	case limit <= 0:
		limit = defaultConceptSearchLimit
	case limit > maxConceptSearchLimit:
		limit = maxConceptSearchLimit
	}
	return cs.repo.SearchByPrefix(read(dbc), strings.TrimSpace(prefix), limit)
}
