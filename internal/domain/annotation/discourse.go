package annotation

type DiscourseCorefInfo struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	USRID     uint   `gorm:"column:usr_id;not null;uniqueIndex:idx_discourse_coref_info_usr_idx,priority:1" json:"usr_id"`
	Index     int    `gorm:"column:idx;not null;uniqueIndex:idx_discourse_coref_info_usr_idx,priority:2" json:"index"`
	Concept   string `gorm:"column:concept;size:100;not null" json:"concept"`
	HeadIndex string `gorm:"column:head_index;size:20" json:"head_index"`
	Relation  string `gorm:"column:relation;size:100;not null" json:"relation"`
}

func (DiscourseCorefInfo) TableName() string { return "discourse_coref_info" }

func (e *DiscourseCorefInfo) Position() int     { return e.Index }
func (e *DiscourseCorefInfo) SetUSR(usrID uint) { e.USRID = usrID; e.ID = 0 }
func (e *DiscourseCorefInfo) Reference() string { return e.HeadIndex }
