package services

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/usr-annotation-backend/internal/data/repos"
	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/content"
	"github.com/yungbote/usr-annotation-backend/internal/observability"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

// ContentPatch carries optional field updates; fields a level does not have are ignored.
type ContentPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Text        *string `json:"text,omitempty"`
	WXText      *string `json:"wxtext,omitempty"`
	EnglishText *string `json:"englishtext,omitempty"`
	ExternalID  *string `json:"external_id,omitempty"`
	Language    *string `json:"language,omitempty"`
}

type ContentService interface {
	CreateProject(dbc dbctx.Context, p *types.Project) (*types.Project, error)
	GetProject(dbc dbctx.Context, id uint) (*types.Project, error)
	ListProjects(dbc dbctx.Context) ([]*types.Project, error)
	UpdateProject(dbc dbctx.Context, id uint, patch ContentPatch) (*types.Project, error)
	DeleteProject(dbc dbctx.Context, id uint, force bool) (*content.DeleteReport, error)

	CreateChapter(dbc dbctx.Context, c *types.Chapter) (*types.Chapter, error)
	GetChapter(dbc dbctx.Context, id uint) (*types.Chapter, error)
	ListChapters(dbc dbctx.Context, projectID uint) ([]*types.Chapter, error)
	UpdateChapter(dbc dbctx.Context, id uint, patch ContentPatch) (*types.Chapter, error)
	DeleteChapter(dbc dbctx.Context, id uint, force bool) (*content.DeleteReport, error)

	CreateSentence(dbc dbctx.Context, s *types.Sentence) (*types.Sentence, error)
	GetSentence(dbc dbctx.Context, id uint) (*types.Sentence, error)
	GetSentenceByExternalID(dbc dbctx.Context, externalID string) (*types.Sentence, error)
	ListSentences(dbc dbctx.Context, chapterID uint) ([]*types.Sentence, error)
	UpdateSentence(dbc dbctx.Context, id uint, patch ContentPatch) (*types.Sentence, error)
	DeleteSentence(dbc dbctx.Context, id uint, force bool) (*content.DeleteReport, error)

	CreateSegment(dbc dbctx.Context, s *types.Segment) (*types.Segment, error)
	GetSegment(dbc dbctx.Context, id uint) (*types.Segment, error)
	ListSegments(dbc dbctx.Context, sentenceID uint) ([]*types.Segment, error)
	UpdateSegment(dbc dbctx.Context, id uint, patch ContentPatch) (*types.Segment, error)
	// DeleteSegment always cascades; in-flight assignments on the segment are discarded.
	DeleteSegment(dbc dbctx.Context, id uint) (*content.DeleteReport, error)
}

type contentService struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Repos
	sweep cascader
}

func NewContentService(db *gorm.DB, log *logger.Logger, r repos.Repos) ContentService {
	return &contentService{
		db:    db,
		log:   log.With("service", "ContentService"),
		repos: r,
		sweep: cascader{repos: r},
	}
}

func languageOr(lang, parent string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang != "" {
		return lang
	}
	if parent != "" {
		return parent
	}
	return content.DefaultLanguage
}

func required(v *apperrors.ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add("%s is required", field)
	}
}

func (cs *contentService) CreateProject(dbc dbctx.Context, p *types.Project) (*types.Project, error) {
	if p == nil {
		return nil, apperrors.NewValidation("project is required")
	}
	v := apperrors.NewValidation()
	required(v, "title", p.Title)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	p.ID = 0
	p.Title = strings.TrimSpace(p.Title)
	p.Language = languageOr(p.Language, "")
	created, err := cs.repos.Project.Create(read(dbc), []*types.Project{p})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created[0], nil
}

func (cs *contentService) GetProject(dbc dbctx.Context, id uint) (*types.Project, error) {
	return cs.repos.Project.GetByID(read(dbc), id)
}

func (cs *contentService) ListProjects(dbc dbctx.Context) ([]*types.Project, error) {
	return cs.repos.Project.List(read(dbc))
}

func (cs *contentService) UpdateProject(dbc dbctx.Context, id uint, patch ContentPatch) (*types.Project, error) {
	var out *types.Project
	err := inTx(cs.db, dbc, func(inner dbctx.Context) error {
		if _, err := cs.repos.Project.GetByID(inner, id); err != nil {
			return err
		}
		updates, err := patchUpdates(patch, "title", "description", "language")
		if err != nil {
			return err
		}
		if err := cs.repos.Project.UpdateFields(inner, id, updates); err != nil {
			return err
		}
		out, err = cs.repos.Project.GetByID(inner, id)
		return err
	})
	return out, err
}

func (cs *contentService) CreateChapter(dbc dbctx.Context, c *types.Chapter) (*types.Chapter, error) {
	if c == nil {
		return nil, apperrors.NewValidation("chapter is required")
	}
	v := apperrors.NewValidation()
	required(v, "title", c.Title)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	var out *types.Chapter
	err := inTx(cs.db, dbc, func(inner dbctx.Context) error {
		parent, err := cs.repos.Project.GetByID(inner, c.ProjectID)
		if err != nil {
			return err
		}
		c.ID = 0
		c.Title = strings.TrimSpace(c.Title)
		c.Language = languageOr(c.Language, parent.Language)
		created, err := cs.repos.Chapter.Create(inner, []*types.Chapter{c})
		if err != nil {
			return fmt.Errorf("create chapter: %w", err)
		}
		out = created[0]
		return nil
	})
	return out, err
}

func (cs *contentService) GetChapter(dbc dbctx.Context, id uint) (*types.Chapter, error) {
	return cs.repos.Chapter.GetByID(read(dbc), id)
}

func (cs *contentService) ListChapters(dbc dbctx.Context, projectID uint) ([]*types.Chapter, error) {
	if _, err := cs.repos.Project.GetByID(read(dbc), projectID); err != nil {
		return nil, err
	}
	return cs.repos.Chapter.ListByProject(read(dbc), projectID)
}

func (cs *contentService) UpdateChapter(dbc dbctx.Context, id uint, patch ContentPatch) (*types.Chapter, error) {
	var out *types.Chapter
	err := inTx(cs.db, dbc, func(inner dbctx.Context) error {
		if _, err := cs.repos.Chapter.GetByID(inner, id); err != nil {
			return err
		}
		updates, err := patchUpdates(patch, "title", "language")
		if err != nil {
			return err
		}
		if err := cs.repos.Chapter.UpdateFields(inner, id, updates); err != nil {
			return err
		}
		out, err = cs.repos.Chapter.GetByID(inner, id)
		return err
	})
	return out, err
}

func (cs *contentService) CreateSentence(dbc dbctx.Context, s *types.Sentence) (*types.Sentence, error) {
	if s == nil {
		return nil, apperrors.NewValidation("sentence is required")
	}
	v := apperrors.NewValidation()
	required(v, "text", s.Text)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	var out *types.Sentence
	err := inTx(cs.db, dbc, func(inner dbctx.Context) error {
		parent, err := cs.repos.Chapter.GetByID(inner, s.ChapterID)
		if err != nil {
			return err
		}
		s.ID = 0
		s.ExternalID = strings.TrimSpace(s.ExternalID)
		s.Language = languageOr(s.Language, parent.Language)
		created, err := cs.repos.Sentence.Create(inner, []*types.Sentence{s})
		if err != nil {
			return fmt.Errorf("create sentence: %w", err)
		}
		out = created[0]
		return nil
	})
	return out, err
}

func (cs *contentService) GetSentence(dbc dbctx.Context, id uint) (*types.Sentence, error) {
	return cs.repos.Sentence.GetByID(read(dbc), id)
}

func (cs *contentService) GetSentenceByExternalID(dbc dbctx.Context, externalID string) (*types.Sentence, error) {
	return cs.repos.Sentence.GetByExternalID(read(dbc), strings.TrimSpace(externalID))
}

func (cs *contentService) ListSentences(dbc dbctx.Context, chapterID uint) ([]*types.Sentence, error) {
	if _, err := cs.repos.Chapter.GetByID(read(dbc), chapterID); err != nil {
		return nil, err
	}
	return cs.repos.Sentence.ListByChapter(read(dbc), chapterID)
}

func (cs *contentService) UpdateSentence(dbc dbctx.Context, id uint, patch ContentPatch) (*types.Sentence, error) {
	var out *types.Sentence
	err := inTx(cs.db, dbc, func(inner dbctx.Context) error {
		if _, err := cs.repos.Sentence.GetByID(inner, id); err != nil {
			return err
		}
		updates, err := patchUpdates(patch, "text", "external_id", "language")
		if err != nil {
			return err
		}
		if err := cs.repos.Sentence.UpdateFields(inner, id, updates); err != nil {
			return err
		}
		out, err = cs.repos.Sentence.GetByID(inner, id)
		return err
	})
	return out, err
}

func (cs *contentService) CreateSegment(dbc dbctx.Context, s *types.Segment) (*types.Segment, error) {
	if s == nil {
		return nil, apperrors.NewValidation("segment is required")
	}
	v := apperrors.NewValidation()
	required(v, "text", s.Text)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	var out *types.Segment
	err := inTx(cs.db, dbc, func(inner dbctx.Context) error {
		parent, err := cs.repos.Sentence.GetByID(inner, s.SentenceID)
		if err != nil {
			return err
		}
		s.ID = 0
		s.ExternalID = strings.TrimSpace(s.ExternalID)
		s.Language = languageOr(s.Language, parent.Language)
		created, err := cs.repos.Segment.Create(inner, []*types.Segment{s})
		if err != nil {
			return fmt.Errorf("create segment: %w", err)
		}
		out = created[0]
		return nil
	})
	return out, err
}

func (cs *contentService) GetSegment(dbc dbctx.Context, id uint) (*types.Segment, error) {
	return cs.repos.Segment.GetByID(read(dbc), id)
}

func (cs *contentService) ListSegments(dbc dbctx.Context, sentenceID uint) ([]*types.Segment, error) {
	if _, err := cs.repos.Sentence.GetByID(read(dbc), sentenceID); err != nil {
		return nil, err
	}
	return cs.repos.Segment.ListBySentence(read(dbc), sentenceID)
}

func (cs *contentService) UpdateSegment(dbc dbctx.Context, id uint, patch ContentPatch) (*types.Segment, error) {
	var out *types.Segment
	err := inTx(cs.db, dbc, func(inner dbctx.Context) error {
		if _, err := cs.repos.Segment.GetByID(inner, id); err != nil {
			return err
		}
		updates, err := patchUpdates(patch, "text", "wxtext", "englishtext", "external_id", "language")
		if err != nil {
			return err
		}
		if err := cs.repos.Segment.UpdateFields(inner, id, updates); err != nil {
			return err
		}
		out, err = cs.repos.Segment.GetByID(inner, id)
		return err
	})
	return out, err
}

// patchUpdates maps the set fields of patch onto the columns a level allows.
func patchUpdates(patch ContentPatch, allowed ...string) (map[string]interface{}, error) {
	fields := map[string]*string{
		"title":       patch.Title,
		"description": patch.Description,
		"text":        patch.Text,
		"wxtext":      patch.WXText,
		"englishtext": patch.EnglishText,
		"external_id": patch.ExternalID,
		"language":    patch.Language,
	}
	v := apperrors.NewValidation()
	updates := map[string]interface{}{}
	for _, col := range allowed {
		val := fields[col]
		if val == nil {
			continue
		}
		switch col {
		case "title", "text":
			if strings.TrimSpace(*val) == "" {
				v.Add("%s cannot be empty", col)
				continue
			}
			updates[col] = strings.TrimSpace(*val)
		case "language":
			updates[col] = languageOr(*val, "")
		default:
			updates[col] = *val
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return updates, nil
}

func (cs *contentService) DeleteProject(dbc dbctx.Context, id uint, force bool) (*content.DeleteReport, error) {
	return cs.cascadeDelete(dbc, "project", id, force, func(inner dbctx.Context) (*sweep, error) {
		if _, err := cs.repos.Project.GetByID(inner, id); err != nil {
			return nil, err
		}
		return cs.sweep.fromProjects(inner, []uint{id})
	})
}

func (cs *contentService) DeleteChapter(dbc dbctx.Context, id uint, force bool) (*content.DeleteReport, error) {
	return cs.cascadeDelete(dbc, "chapter", id, force, func(inner dbctx.Context) (*sweep, error) {
		if _, err := cs.repos.Chapter.GetByID(inner, id); err != nil {
			return nil, err
		}
		return cs.sweep.fromChapters(inner, []uint{id})
	})
}

func (cs *contentService) DeleteSentence(dbc dbctx.Context, id uint, force bool) (*content.DeleteReport, error) {
	return cs.cascadeDelete(dbc, "sentence", id, force, func(inner dbctx.Context) (*sweep, error) {
		if _, err := cs.repos.Sentence.GetByID(inner, id); err != nil {
			return nil, err
		}
		return cs.sweep.fromSentences(inner, []uint{id})
	})
}

func (cs *contentService) DeleteSegment(dbc dbctx.Context, id uint) (*content.DeleteReport, error) {
	return cs.cascadeDelete(dbc, "segment", id, true, func(inner dbctx.Context) (*sweep, error) {
		if _, err := cs.repos.Segment.GetByID(inner, id); err != nil {
			return nil, err
		}
		return cs.sweep.fromSegments(inner, []uint{id})
	})
}

func (cs *contentService) cascadeDelete(dbc dbctx.Context, kind string, id uint, force bool, collect func(dbctx.Context) (*sweep, error)) (*content.DeleteReport, error) {
	ctx, span := observability.Tracer().Start(ctxOf(dbc), "content.delete_"+kind)
	defer span.End()
	span.SetAttributes(attribute.Int64("content.id", int64(id)), attribute.Bool("content.force", force))

	var rep *content.DeleteReport
	err := inTx(cs.db, dbctx.Context{Ctx: ctx, Tx: dbc.Tx}, func(inner dbctx.Context) error {
		sw, err := collect(inner)
		if err != nil {
			return err
		}
		if !force {
			blocking, err := cs.sweep.blocking(inner, sw)
			if err != nil {
				return err
			}
			if len(blocking) > 0 {
				return apperrors.NewConflict(fmt.Sprintf("%s %d has active assignments", kind, id), blocking...)
			}
		}
		rep, err = cs.sweep.execute(inner, sw)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	observeReport(rep)
	cs.log.Info("Cascade delete", "kind", kind, "id", id, "force", force, "removed", rep.Total())
	return rep, nil
}
