package models

// Study ist eine Studie im Ziel-CRM, über ihre extern vergebene
// Studiennummer auffindbar.
type Study struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	StudyNumber string `json:"study_number" gorm:"uniqueIndex;not null"`
	Title       string `json:"title"`
}

// TableName gibt explizit den Tabellennamen an.
func (Study) TableName() string {
	return "crm_studies"
}
