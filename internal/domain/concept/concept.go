package concept

import "time"

// Concept is a dictionary entry that lexical annotations draw their labels from.
type Concept struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ConceptLabel  string `gorm:"column:concept_label;size:200;not null;uniqueIndex" json:"concept_label"`
	HindiLabel    string `gorm:"column:hindi_label;size:200" json:"hindi_label,omitempty"`
	SanskritLabel string `gorm:"column:sanskrit_label;size:200" json:"sanskrit_label,omitempty"`
	EnglishLabel  string `gorm:"column:english_label;size:200" json:"english_label,omitempty"`
	MRSC          string `gorm:"column:mrsc;size:200" json:"mrsc,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Concept) TableName() string { return "concept" }
