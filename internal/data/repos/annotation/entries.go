package annotation

import (
	"gorm.io/gorm"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/annotation"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

// EntryRepo stores one sub-annotation collection kind.
type EntryRepo[T any] interface {
	Kind() annotation.Kind
	// Replace deletes every row of this kind for usrID and inserts rows in order.
	Replace(dbc dbctx.Context, usrID uint, rows []*T) ([]*T, error)
	ListByUSR(dbc dbctx.Context, usrID uint) ([]T, error)
	DeleteByUSRs(dbc dbctx.Context, usrIDs []uint) (int64, error)
}

type entryRepo[T any] struct {
	db   *gorm.DB
	log  *logger.Logger
	kind annotation.Kind
}

func newEntryRepo[T any](db *gorm.DB, baseLog *logger.Logger, kind annotation.Kind) EntryRepo[T] {
	return &entryRepo[T]{db: db, log: baseLog.With("repo", "EntryRepo", "kind", string(kind)), kind: kind}
}

func NewLexicalRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo[types.LexicalInfo] {
	return newEntryRepo[types.LexicalInfo](db, baseLog, annotation.KindLexical)
}

func NewDependencyRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo[types.DependencyInfo] {
	return newEntryRepo[types.DependencyInfo](db, baseLog, annotation.KindDependency)
}

func NewDiscourseCorefRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo[types.DiscourseCorefInfo] {
	return newEntryRepo[types.DiscourseCorefInfo](db, baseLog, annotation.KindDiscourseCoref)
}

func NewConstructionRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo[types.ConstructionInfo] {
	return newEntryRepo[types.ConstructionInfo](db, baseLog, annotation.KindConstruction)
}

func NewSentenceTypeRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo[types.SentenceTypeInfo] {
	return newEntryRepo[types.SentenceTypeInfo](db, baseLog, annotation.KindSentenceType)
}

func (r *entryRepo[T]) Kind() annotation.Kind { return r.kind }

func (r *entryRepo[T]) Replace(dbc dbctx.Context, usrID uint, rows []*T) ([]*T, error) {
	tx := dbc.Handle(r.db)
	var model T
	if err := tx.Where("usr_id = ?", usrID).Delete(&model).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*T{}, nil
	}
	for _, row := range rows {
		if e, ok := any(row).(annotation.Entry); ok {
			e.SetUSR(usrID)
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}
	r.log.Debug("Replaced entries", "usr_id", usrID, "count", len(rows))
	return rows, nil
}

func (r *entryRepo[T]) ListByUSR(dbc dbctx.Context, usrID uint) ([]T, error) {
	out := []T{}
	if err := dbc.Handle(r.db).
		Where("usr_id = ?", usrID).
		Order("idx ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *entryRepo[T]) DeleteByUSRs(dbc dbctx.Context, usrIDs []uint) (int64, error) {
	if len(usrIDs) == 0 {
		return 0, nil
	}
	var model T
	res := dbc.Handle(r.db).Where("usr_id IN ?", usrIDs).Delete(&model)
	return res.RowsAffected, res.Error
}
