package assignment

import "time"

// SubtaskClaim reserves one subtask of one unit for one annotator while an
// assignment is active. The unique index is what rejects concurrent duplicates.
type SubtaskClaim struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UnitKey      string  `gorm:"column:unit_key;size:64;not null;uniqueIndex:idx_subtask_claim_unit_annotator_subtask,priority:1" json:"unit_key"`
	AnnotatorID  uint    `gorm:"column:annotator_id;not null;uniqueIndex:idx_subtask_claim_unit_annotator_subtask,priority:2" json:"annotator_id"`
	Subtask      Subtask `gorm:"column:subtask;size:32;not null;uniqueIndex:idx_subtask_claim_unit_annotator_subtask,priority:3" json:"subtask"`
	AssignmentID uint    `gorm:"column:assignment_id;not null;index" json:"assignment_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (SubtaskClaim) TableName() string { return "assignment_subtask_claim" }

func ClaimsFor(a *Assignment, subtasks Subtasks) []*SubtaskClaim {
	key := a.Unit().Key()
	out := make([]*SubtaskClaim, 0, 4)
	for _, st := range subtasks.List() {
		out = append(out, &SubtaskClaim{
			UnitKey:      key,
			AnnotatorID:  a.AnnotatorID,
			Subtask:      st,
			AssignmentID: a.ID,
		})
	}
	return out
}
