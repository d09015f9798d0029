package models

// ParticipationImport ist eine Staging-Zeile für Teilnahme-Episoden
// (Participation-Cases) aus dem Starfish-Export.
type ParticipationImport struct {
	ID uint `json:"id" gorm:"primaryKey"`

	SampleID    string `json:"sample_id" gorm:"index"`
	StudyNumber string `json:"study_number"`
	Status      string `json:"status"`

	AnonStudyParticipationID string `json:"anon_study_participation_id"`
	DateInvited              string `json:"date_invited"`
	RecallGroup              string `json:"recall_group"`

	DateSentToResearcher string `json:"date_sent_to_researcher"`
	DateAnswered         string `json:"date_answered"`
	Notes                string `json:"notes" gorm:"type:text"`

	Processed bool `json:"processed" gorm:"default:false;index"`
}

// TableName gibt explizit den Tabellennamen an.
func (ParticipationImport) TableName() string {
	return "nbr_participation_import"
}
