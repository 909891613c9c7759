package content

import "time"

type Sentence struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ChapterID uint   `gorm:"column:chapter_id;not null;index" json:"chapter_id"`
	Text      string `gorm:"column:text;type:text;not null" json:"text"`
	// ExternalID is the corpus identifier, e.g. Geo_nios_3ch_0002.
	ExternalID string `gorm:"column:external_id;size:100;index" json:"external_id,omitempty"`
	Language   string `gorm:"column:language;size:50;not null;default:'hindi'" json:"language"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Sentence) TableName() string { return "sentence" }
