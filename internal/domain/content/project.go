package content

import "time"

// DefaultLanguage is stored on every level when the caller does not supply one.
const DefaultLanguage = "hindi"

type Project struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"column:title;size:200;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
	Language    string `gorm:"column:language;size:50;not null;default:'hindi'" json:"language"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Project) TableName() string { return "project" }
