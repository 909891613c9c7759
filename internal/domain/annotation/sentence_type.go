package annotation

type SentenceTypeInfo struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	USRID        uint   `gorm:"column:usr_id;not null;uniqueIndex:idx_sentence_type_info_usr_idx,priority:1" json:"usr_id"`
	Index        int    `gorm:"column:idx;not null;uniqueIndex:idx_sentence_type_info_usr_idx,priority:2" json:"index"`
	SentenceType string `gorm:"column:sentence_type;size:100;not null" json:"sentence_type"`
	Scope        string `gorm:"column:scope;size:100" json:"scope,omitempty"`
}

func (SentenceTypeInfo) TableName() string { return "sentence_type_info" }

func (e *SentenceTypeInfo) Position() int     { return e.Index }
func (e *SentenceTypeInfo) SetUSR(usrID uint) { e.USRID = usrID; e.ID = 0 }
