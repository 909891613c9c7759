package content

import "time"

// Segment is the atomic translatable unit. USRs and assignments hang off it.
type Segment struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SentenceID  uint   `gorm:"column:sentence_id;not null;index" json:"sentence_id"`
	Text        string `gorm:"column:text;type:text;not null" json:"text"`
	WXText      string `gorm:"column:wxtext;type:text" json:"wxtext,omitempty"`
	EnglishText string `gorm:"column:englishtext;type:text" json:"englishtext,omitempty"`
	ExternalID  string `gorm:"column:external_id;size:100;index" json:"external_id,omitempty"`
	Language    string `gorm:"column:language;size:50;not null;default:'hindi'" json:"language"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Segment) TableName() string { return "segment" }

// DeleteReport counts every record removed by a cascading delete.
type DeleteReport struct {
	Projects       int64 `json:"projects"`
	Chapters       int64 `json:"chapters"`
	Sentences      int64 `json:"sentences"`
	Segments       int64 `json:"segments"`
	USRs           int64 `json:"usrs"`
	SubAnnotations int64 `json:"sub_annotations"`
	Assignments    int64 `json:"assignments"`
	Claims         int64 `json:"claims"`
	Events         int64 `json:"events"`
}

// Total is the number of removed rows, excluding bookkeeping claims and events.
func (r DeleteReport) Total() int64 {
	return r.Projects + r.Chapters + r.Sentences + r.Segments + r.USRs + r.SubAnnotations + r.Assignments
}
