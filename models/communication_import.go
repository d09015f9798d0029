package models

// CommunicationImport ist eine Staging-Zeile aus dem Starfish-Export für
// Kommunikations-Aktivitäten. Die Felder kommen unverändert aus dem Altsystem,
// Datums- und Zeitwerte bleiben deshalb Freitext und werden erst bei der
// Migration geparst.
type CommunicationImport struct {
	ID uint `json:"id" gorm:"primaryKey"`

	ParticipantID string `json:"participant_id" gorm:"index"`
	// 1 = Recruitment-Case, 2 = Participation-Case (über study_number), sonst stand-alone.
	CommunicationType int    `json:"communication_type"`
	StudyNumber       string `json:"study_number"`

	TemplateType           string `json:"template_type"`
	TemplateName           string `json:"template_name"`
	CommunicationDirection string `json:"communication_direction"`
	CommunicationCategory  string `json:"communication_category"`
	CommunicationNotes     string `json:"communication_notes" gorm:"type:text"`
	ContactDetail          string `json:"contact_detail"`
	Status                 string `json:"status"`

	CommunicationDate string `json:"communication_date"`
	CommunicationTime string `json:"communication_time"`

	// Processed gehört dem Batch-Driver, nicht der Migrationslogik.
	Processed bool `json:"processed" gorm:"default:false;index"`
}

// TableName gibt explizit den Tabellennamen an.
func (CommunicationImport) TableName() string {
	return "nbr_communication_import"
}
