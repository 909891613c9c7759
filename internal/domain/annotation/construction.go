package annotation

type ConstructionInfo struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	USRID         uint   `gorm:"column:usr_id;not null;uniqueIndex:idx_construction_info_usr_idx,priority:1" json:"usr_id"`
	Index         int    `gorm:"column:idx;not null;uniqueIndex:idx_construction_info_usr_idx,priority:2" json:"index"`
	Concept       string `gorm:"column:concept;size:100;not null" json:"concept"`
	CxnIndex      string `gorm:"column:cxn_index;size:20" json:"cxn_index"`
	ComponentType string `gorm:"column:component_type;size:100;not null" json:"component_type"`
}

func (ConstructionInfo) TableName() string { return "construction_info" }

func (e *ConstructionInfo) Position() int     { return e.Index }
func (e *ConstructionInfo) SetUSR(usrID uint) { e.USRID = usrID; e.ID = 0 }
func (e *ConstructionInfo) Reference() string { return e.CxnIndex }
