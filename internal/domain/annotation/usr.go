package annotation

import "time"

type Status string

const (
	StatusPending     Status = "Pending"
	StatusInProgress  Status = "InProgress"
	StatusAnnotated   Status = "Annotated"
	StatusUnderReview Status = "UnderReview"
	StatusReviewed    Status = "Reviewed"
	StatusRejected    Status = "Rejected"
)

// USR is one semantic-representation revision for a Segment.
type USR struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SegmentID    uint       `gorm:"column:segment_id;not null;index" json:"segment_id"`
	Revision     int        `gorm:"column:revision;not null;default:1" json:"revision"`
	Status       Status     `gorm:"column:status;size:50;not null;default:'Pending';index" json:"status"`
	SentenceType string     `gorm:"column:sentence_type;size:100" json:"sentence_type,omitempty"`
	Language     string     `gorm:"column:language;size:50;not null;default:'hindi'" json:"language"`
	SupersededAt *time.Time `gorm:"column:superseded_at" json:"superseded_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (USR) TableName() string { return "usr" }

// Live reports whether the USR is the segment's current, still-open revision.
func (u *USR) Live() bool {
	return u != nil && u.SupersededAt == nil && u.Status != StatusReviewed
}

// Document is a USR with its five sub-annotation collections ordered by index.
type Document struct {
	USR            USR                  `json:"usr"`
	Lexical        []LexicalInfo        `json:"lexical_info"`
	Dependency     []DependencyInfo     `json:"dependency_info"`
	DiscourseCoref []DiscourseCorefInfo `json:"discourse_coref_info"`
	Construction   []ConstructionInfo   `json:"construction_info"`
	SentenceTypes  []SentenceTypeInfo   `json:"sentence_type_info"`
}
