package annotation

type DependencyInfo struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	USRID     uint   `gorm:"column:usr_id;not null;uniqueIndex:idx_dependency_info_usr_idx,priority:1" json:"usr_id"`
	Index     int    `gorm:"column:idx;not null;uniqueIndex:idx_dependency_info_usr_idx,priority:2" json:"index"`
	Concept   string `gorm:"column:concept;size:100;not null" json:"concept"`
	HeadIndex string `gorm:"column:head_index;size:20" json:"head_index"`
	Relation  string `gorm:"column:relation;size:100;not null" json:"relation"`
}

func (DependencyInfo) TableName() string { return "dependency_info" }

func (e *DependencyInfo) Position() int     { return e.Index }
func (e *DependencyInfo) SetUSR(usrID uint) { e.USRID = usrID; e.ID = 0 }
func (e *DependencyInfo) Reference() string { return e.HeadIndex }
