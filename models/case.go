package models

import "time"

// Case ist ein Workflow-Vorgang (Recruitment oder Participation) im Ziel-CRM.
// CaseType trägt den Wert aus der case_type-Optionsgruppe.
type Case struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseType  string `json:"case_type" gorm:"index;not null"`
	Subject   string `json:"subject"`
	IsDeleted bool   `json:"is_deleted" gorm:"default:false;index"`
}

// TableName gibt explizit den Tabellennamen an.
func (Case) TableName() string {
	return "crm_cases"
}

// CaseContact verbindet einen Case mit dem zugehörigen Kontakt.
type CaseContact struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CaseID    uint `json:"case_id" gorm:"index"`
	ContactID uint `json:"contact_id" gorm:"index"`
}

// TableName gibt explizit den Tabellennamen an.
func (CaseContact) TableName() string {
	return "crm_case_contacts"
}

// CaseStudyDetail sind die studienbezogenen Custom-Felder eines
// Participation-Case.
type CaseStudyDetail struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	CaseID uint `json:"case_id" gorm:"uniqueIndex"`

	StudyID            uint   `json:"study_id" gorm:"index"`
	StudyParticipantID string `json:"study_participant_id"`
	// Wert aus der Optionsgruppe für Teilnahme-Status.
	ParticipationStatus string     `json:"participation_status"`
	DateInvited         *time.Time `json:"date_invited,omitempty"`
	RecallGroup         string     `json:"recall_group"`
}

// TableName gibt explizit den Tabellennamen an.
func (CaseStudyDetail) TableName() string {
	return "crm_case_study_details"
}
