package assignment

import (
	"fmt"
	"time"
)

// Assignment binds a USR and/or Segment to one annotator and at most one reviewer.
type Assignment struct {
	ID          uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	USRID       *uint `gorm:"column:usr_id;index" json:"usr_id,omitempty"`
	SegmentID   *uint `gorm:"column:segment_id;index" json:"segment_id,omitempty"`
	AnnotatorID uint  `gorm:"column:annotator_id;not null;index" json:"annotator_id"`
	ReviewerID  *uint `gorm:"column:reviewer_id;index" json:"reviewer_id,omitempty"`

	AnnotationStatus Status `gorm:"column:annotation_status;size:50;not null;default:'Unassigned';index" json:"annotation_status"`

	AssignLexical      bool `gorm:"column:assign_lexical;not null;default:false" json:"assign_lexical"`
	AssignConstruction bool `gorm:"column:assign_construction;not null;default:false" json:"assign_construction"`
	AssignDependency   bool `gorm:"column:assign_dependency;not null;default:false" json:"assign_dependency"`
	AssignDiscourse    bool `gorm:"column:assign_discourse;not null;default:false" json:"assign_discourse"`

	// RevisionCount is the number of reject cycles this assignment went through.
	RevisionCount   int        `gorm:"column:revision_count;not null;default:0" json:"revision_count"`
	NeedsRework     bool       `gorm:"column:needs_rework;not null;default:false" json:"needs_rework"`
	RejectionReason string     `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Assignment) TableName() string { return "assignment" }

func (a *Assignment) Subtasks() Subtasks {
	return Subtasks{
		Lexical:      a.AssignLexical,
		Construction: a.AssignConstruction,
		Dependency:   a.AssignDependency,
		Discourse:    a.AssignDiscourse,
	}
}

func (a *Assignment) SetSubtasks(s Subtasks) {
	a.AssignLexical = s.Lexical
	a.AssignConstruction = s.Construction
	a.AssignDependency = s.Dependency
	a.AssignDiscourse = s.Discourse
}

// Unit identifies the work unit an assignment covers.
type Unit struct {
	USRID     *uint `json:"usr_id,omitempty"`
	SegmentID *uint `json:"segment_id,omitempty"`
}

func (u Unit) Empty() bool { return u.USRID == nil && u.SegmentID == nil }

// Key is the identity used for duplicate detection: the USR when set, else the segment.
func (u Unit) Key() string {
	if u.USRID != nil {
		return fmt.Sprintf("usr:%d", *u.USRID)
	}
	if u.SegmentID != nil {
		return fmt.Sprintf("segment:%d", *u.SegmentID)
	}
	return ""
}

func (a *Assignment) Unit() Unit {
	return Unit{USRID: a.USRID, SegmentID: a.SegmentID}
}
