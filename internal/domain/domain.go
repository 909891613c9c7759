package domain

import (
	"github.com/yungbote/usr-annotation-backend/internal/domain/annotation"
	"github.com/yungbote/usr-annotation-backend/internal/domain/assignment"
	"github.com/yungbote/usr-annotation-backend/internal/domain/concept"
	"github.com/yungbote/usr-annotation-backend/internal/domain/content"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
)

type User = user.User

type Project = content.Project
type Chapter = content.Chapter
type Sentence = content.Sentence
type Segment = content.Segment

type USR = annotation.USR
type LexicalInfo = annotation.LexicalInfo
type DependencyInfo = annotation.DependencyInfo
type DiscourseCorefInfo = annotation.DiscourseCorefInfo
type ConstructionInfo = annotation.ConstructionInfo
type SentenceTypeInfo = annotation.SentenceTypeInfo

type Assignment = assignment.Assignment
type AssignmentSubtaskClaim = assignment.SubtaskClaim
type AssignmentEvent = assignment.Event

type Concept = concept.Concept

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&User{},

		&Project{},
		&Chapter{},
		&Sentence{},
		&Segment{},

		&USR{},
		&LexicalInfo{},
		&DependencyInfo{},
		&DiscourseCorefInfo{},
		&ConstructionInfo{},
		&SentenceTypeInfo{},

		&Assignment{},
		&AssignmentSubtaskClaim{},
		&AssignmentEvent{},

		&Concept{},
	}
}
