package services

import (
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	dbpkg "github.com/yungbote/usr-annotation-backend/internal/data/db"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos"
	repoannotation "github.com/yungbote/usr-annotation-backend/internal/data/repos/annotation"
	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/annotation"
	"github.com/yungbote/usr-annotation-backend/internal/domain/content"
	"github.com/yungbote/usr-annotation-backend/internal/observability"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type USRInput struct {
	SentenceType string `json:"sentence_type"`
	Language     string `json:"language"`
	// NewRevision supersedes the segment's live USR instead of failing.
	NewRevision bool `json:"new_revision"`
}

type AnnotationService interface {
	CreateUSR(dbc dbctx.Context, segmentID uint, in USRInput) (*types.USR, error)
	GetUSR(dbc dbctx.Context, id uint) (*annotation.Document, error)
	ListUSRs(dbc dbctx.Context, segmentID uint) ([]*types.USR, error)

	ReplaceLexical(dbc dbctx.Context, usrID uint, rows []*types.LexicalInfo) ([]*types.LexicalInfo, error)
	ReplaceDependency(dbc dbctx.Context, usrID uint, rows []*types.DependencyInfo) ([]*types.DependencyInfo, error)
	ReplaceDiscourseCoref(dbc dbctx.Context, usrID uint, rows []*types.DiscourseCorefInfo) ([]*types.DiscourseCorefInfo, error)
	ReplaceConstruction(dbc dbctx.Context, usrID uint, rows []*types.ConstructionInfo) ([]*types.ConstructionInfo, error)
	ReplaceSentenceTypes(dbc dbctx.Context, usrID uint, rows []*types.SentenceTypeInfo) ([]*types.SentenceTypeInfo, error)

	// DeleteUSR removes the USR, its sub-annotations and every assignment bound to it.
	DeleteUSR(dbc dbctx.Context, id uint) (*content.DeleteReport, error)
}

type annotationService struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Repos
	sweep cascader
}

func NewAnnotationService(db *gorm.DB, log *logger.Logger, r repos.Repos) AnnotationService {
	return &annotationService{
		db:    db,
		log:   log.With("service", "AnnotationService"),
		repos: r,
		sweep: cascader{repos: r},
	}
}

func (as *annotationService) CreateUSR(dbc dbctx.Context, segmentID uint, in USRInput) (*types.USR, error) {
	ctx, span := observability.Tracer().Start(ctxOf(dbc), "annotation.create_usr")
	defer span.End()
	span.SetAttributes(attribute.Int64("segment.id", int64(segmentID)), attribute.Bool("usr.new_revision", in.NewRevision))

	var out *types.USR
	err := inTx(as.db, dbctx.Context{Ctx: ctx, Tx: dbc.Tx}, func(inner dbctx.Context) error {
		seg, err := as.repos.Segment.GetByID(inner, segmentID)
		if err != nil {
			return err
		}
		live, err := as.repos.Annotation.USR.GetLiveBySegment(inner, segmentID)
		if err != nil {
			return err
		}
		if live != nil {
			if !in.NewRevision {
				return apperrors.NewConflict(fmt.Sprintf("segment %d already has live usr %d", segmentID, live.ID))
			}
			if err := as.repos.Annotation.USR.Supersede(inner, live.ID, time.Now().UTC()); err != nil {
				return err
			}
		}
		rev, err := as.repos.Annotation.USR.LatestRevision(inner, segmentID)
		if err != nil {
			return err
		}
		usr := &types.USR{
			SegmentID:    segmentID,
			Revision:     rev + 1,
			Status:       annotation.StatusPending,
			SentenceType: strings.TrimSpace(in.SentenceType),
			Language:     languageOr(in.Language, seg.Language),
		}
		created, err := as.repos.Annotation.USR.Create(inner, usr)
		if err != nil {
			return dbpkg.TranslateError(err, fmt.Sprintf("segment %d already has a live usr", segmentID))
		}
		// Segment-only work already in flight covers the new revision.
		if err := refreshUSRStatus(inner, as.repos, created, nil); err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	as.log.Info("Created USR", "usr_id", out.ID, "segment_id", segmentID, "revision", out.Revision)
	return out, nil
}

func (as *annotationService) GetUSR(dbc dbctx.Context, id uint) (*annotation.Document, error) {
	rdc := read(dbc)
	usr, err := as.repos.Annotation.USR.GetByID(rdc, id)
	if err != nil {
		return nil, err
	}
	doc := &annotation.Document{USR: *usr}
	if doc.Lexical, err = as.repos.Annotation.Lexical.ListByUSR(rdc, id); err != nil {
		return nil, err
	}
	if doc.Dependency, err = as.repos.Annotation.Dependency.ListByUSR(rdc, id); err != nil {
		return nil, err
	}
	if doc.DiscourseCoref, err = as.repos.Annotation.DiscourseCoref.ListByUSR(rdc, id); err != nil {
		return nil, err
	}
	if doc.Construction, err = as.repos.Annotation.Construction.ListByUSR(rdc, id); err != nil {
		return nil, err
	}
	if doc.SentenceTypes, err = as.repos.Annotation.SentenceType.ListByUSR(rdc, id); err != nil {
		return nil, err
	}
	return doc, nil
}

func (as *annotationService) ListUSRs(dbc dbctx.Context, segmentID uint) ([]*types.USR, error) {
	if _, err := as.repos.Segment.GetByID(read(dbc), segmentID); err != nil {
		return nil, err
	}
	return as.repos.Annotation.USR.ListBySegment(read(dbc), segmentID)
}

func (as *annotationService) ReplaceLexical(dbc dbctx.Context, usrID uint, rows []*types.LexicalInfo) ([]*types.LexicalInfo, error) {
	return replaceEntries(as, dbc, usrID, as.repos.Annotation.Lexical, rows, func(r *types.LexicalInfo) []string {
		if blank(r.Concept) {
			return []string{"concept"}
		}
		return nil
	})
}

func (as *annotationService) ReplaceDependency(dbc dbctx.Context, usrID uint, rows []*types.DependencyInfo) ([]*types.DependencyInfo, error) {
	return replaceEntries(as, dbc, usrID, as.repos.Annotation.Dependency, rows, func(r *types.DependencyInfo) []string {
		var missing []string
		if blank(r.Concept) {
			missing = append(missing, "concept")
		}
		if blank(r.Relation) {
			missing = append(missing, "relation")
		}
		return missing
	})
}

func (as *annotationService) ReplaceDiscourseCoref(dbc dbctx.Context, usrID uint, rows []*types.DiscourseCorefInfo) ([]*types.DiscourseCorefInfo, error) {
	return replaceEntries(as, dbc, usrID, as.repos.Annotation.DiscourseCoref, rows, func(r *types.DiscourseCorefInfo) []string {
		var missing []string
		if blank(r.Concept) {
			missing = append(missing, "concept")
		}
		if blank(r.Relation) {
			missing = append(missing, "relation")
		}
		return missing
	})
}

func (as *annotationService) ReplaceConstruction(dbc dbctx.Context, usrID uint, rows []*types.ConstructionInfo) ([]*types.ConstructionInfo, error) {
	return replaceEntries(as, dbc, usrID, as.repos.Annotation.Construction, rows, func(r *types.ConstructionInfo) []string {
		var missing []string
		if blank(r.Concept) {
			missing = append(missing, "concept")
		}
		if blank(r.ComponentType) {
			missing = append(missing, "component_type")
		}
		return missing
	})
}

func (as *annotationService) ReplaceSentenceTypes(dbc dbctx.Context, usrID uint, rows []*types.SentenceTypeInfo) ([]*types.SentenceTypeInfo, error) {
	return replaceEntries(as, dbc, usrID, as.repos.Annotation.SentenceType, rows, func(r *types.SentenceTypeInfo) []string {
		if blank(r.SentenceType) {
			return []string{"sentence_type"}
		}
		return nil
	})
}

// replaceEntries validates the whole batch, then swaps the stored collection in one transaction.
func replaceEntries[T any](as *annotationService, dbc dbctx.Context, usrID uint, repo repoannotation.EntryRepo[T], rows []*T, fields func(*T) []string) ([]*T, error) {
	kind := repo.Kind()
	ctx, span := observability.Tracer().Start(ctxOf(dbc), "annotation.replace_"+string(kind))
	defer span.End()
	span.SetAttributes(attribute.Int64("usr.id", int64(usrID)), attribute.Int("entries", len(rows)))

	if err := ValidateEntries(kind, rows, fields); err != nil {
		span.RecordError(err)
		return nil, err
	}
	sortByIndex(rows)

	var out []*T
	err := inTx(as.db, dbctx.Context{Ctx: ctx, Tx: dbc.Tx}, func(inner dbctx.Context) error {
		usr, err := as.repos.Annotation.USR.LockByID(inner, usrID)
		if err != nil {
			return err
		}
		if !usr.Live() {
			return apperrors.NewConflict(fmt.Sprintf("usr %d is not the live revision", usrID))
		}
		out, err = repo.Replace(inner, usrID, rows)
		if err != nil {
			return dbpkg.TranslateError(err, fmt.Sprintf("concurrent %s replace on usr %d", kind, usrID))
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	as.log.Debug("Replaced sub-annotations", "usr_id", usrID, "kind", kind, "count", len(out))
	return out, nil
}

func (as *annotationService) DeleteUSR(dbc dbctx.Context, id uint) (*content.DeleteReport, error) {
	ctx, span := observability.Tracer().Start(ctxOf(dbc), "annotation.delete_usr")
	defer span.End()

	var rep *content.DeleteReport
	err := inTx(as.db, dbctx.Context{Ctx: ctx, Tx: dbc.Tx}, func(inner dbctx.Context) error {
		if _, err := as.repos.Annotation.USR.LockByID(inner, id); err != nil {
			return err
		}
		sw, err := as.sweep.fromUSRs(inner, []uint{id})
		if err != nil {
			return err
		}
		rep, err = as.sweep.execute(inner, sw)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	observeReport(rep)
	as.log.Info("Deleted USR", "usr_id", id, "removed", rep.Total())
	return rep, nil
}
