package assignment

import (
	"time"

	"gorm.io/datatypes"
)

// Event is an append-only ledger row for every change to an assignment.
type Event struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	AssignmentID uint           `gorm:"column:assignment_id;not null;index" json:"assignment_id"`
	Action       Action         `gorm:"column:action;size:32;not null;index" json:"action"`
	FromStatus   Status         `gorm:"column:from_status;size:50" json:"from_status,omitempty"`
	ToStatus     Status         `gorm:"column:to_status;size:50;not null" json:"to_status"`
	ActorID      uint           `gorm:"column:actor_id;not null;index" json:"actor_id"`
	Data         datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Event) TableName() string { return "assignment_event" }

// Summary is an annotator's workload broken down by status.
type Summary struct {
	AnnotatorID     uint           `json:"annotator_id"`
	ByStatus        map[Status]int `json:"by_status"`
	Active          int            `json:"active"`
	RejectionCycles int            `json:"rejection_cycles"`
}
