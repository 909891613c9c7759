package content

import "time"

type Chapter struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uint   `gorm:"column:project_id;not null;index" json:"project_id"`
	Title     string `gorm:"column:title;size:200;not null" json:"title"`
	Language  string `gorm:"column:language;size:50;not null;default:'hindi'" json:"language"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapter" }
