package annotation

import (
	"gorm.io/gorm"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

// Repos groups the USR repo with one repo per sub-annotation kind.
type Repos struct {
	USR            USRRepo
	Lexical        EntryRepo[types.LexicalInfo]
	Dependency     EntryRepo[types.DependencyInfo]
	DiscourseCoref EntryRepo[types.DiscourseCorefInfo]
	Construction   EntryRepo[types.ConstructionInfo]
	SentenceType   EntryRepo[types.SentenceTypeInfo]
}

func NewRepos(db *gorm.DB, baseLog *logger.Logger) Repos {
	return Repos{
		USR:            NewUSRRepo(db, baseLog),
		Lexical:        NewLexicalRepo(db, baseLog),
		Dependency:     NewDependencyRepo(db, baseLog),
		DiscourseCoref: NewDiscourseCorefRepo(db, baseLog),
		Construction:   NewConstructionRepo(db, baseLog),
		SentenceType:   NewSentenceTypeRepo(db, baseLog),
	}
}

// DeleteEntries removes every sub-annotation row owned by usrIDs.
func (r Repos) DeleteEntries(dbc dbctx.Context, usrIDs []uint) (int64, error) {
	var total int64
	for _, del := range []func(dbctx.Context, []uint) (int64, error){
		r.Lexical.DeleteByUSRs,
		r.Dependency.DeleteByUSRs,
		r.DiscourseCoref.DeleteByUSRs,
		r.Construction.DeleteByUSRs,
		r.SentenceType.DeleteByUSRs,
	} {
		n, err := del(dbc, usrIDs)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
