package annotation

type LexicalInfo struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	USRID            uint   `gorm:"column:usr_id;not null;uniqueIndex:idx_lexical_info_usr_idx,priority:1" json:"usr_id"`
	Index            int    `gorm:"column:idx;not null;uniqueIndex:idx_lexical_info_usr_idx,priority:2" json:"index"`
	Concept          string `gorm:"column:concept;size:100;not null" json:"concept"`
	SemanticCategory string `gorm:"column:semantic_category;size:100" json:"semantic_category,omitempty"`
	MorphoSemantic   string `gorm:"column:morpho_semantic;size:100" json:"morpho_semantic,omitempty"`
	SpeakersView     string `gorm:"column:speakers_view;size:100" json:"speakers_view,omitempty"`
}

func (LexicalInfo) TableName() string { return "lexical_info" }

func (e *LexicalInfo) Position() int     { return e.Index }
func (e *LexicalInfo) SetUSR(usrID uint) { e.USRID = usrID; e.ID = 0 }
