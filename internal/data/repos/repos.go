package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/usr-annotation-backend/internal/data/repos/annotation"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos/assignment"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos/concept"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos/content"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos/user"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo

type ProjectRepo = content.ProjectRepo
type ChapterRepo = content.ChapterRepo
type SentenceRepo = content.SentenceRepo
type SegmentRepo = content.SegmentRepo

type USRRepo = annotation.USRRepo
type AnnotationRepos = annotation.Repos

type AssignmentRepo = assignment.AssignmentRepo
type ClaimRepo = assignment.ClaimRepo
type EventRepo = assignment.EventRepo

type ConceptRepo = concept.ConceptRepo

// Repos is every repo the services need, built against one gorm handle.
type Repos struct {
	User UserRepo

	Project  ProjectRepo
	Chapter  ChapterRepo
	Sentence SentenceRepo
	Segment  SegmentRepo

	Annotation AnnotationRepos

	Assignment AssignmentRepo
	Claim      ClaimRepo
	Event      EventRepo

	Concept ConceptRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User: user.NewUserRepo(db, log),

		Project:  content.NewProjectRepo(db, log),
		Chapter:  content.NewChapterRepo(db, log),
		Sentence: content.NewSentenceRepo(db, log),
		Segment:  content.NewSegmentRepo(db, log),

		Annotation: annotation.NewRepos(db, log),

		Assignment: assignment.NewAssignmentRepo(db, log),
		Claim:      assignment.NewClaimRepo(db, log),
		Event:      assignment.NewEventRepo(db, log),

		Concept: concept.NewConceptRepo(db, log),
	}
}
