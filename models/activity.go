package models

import "time"

// Activity ist ein datiertes Ereignis im Ziel-CRM, an einen Ziel-Kontakt und
// optional an einen Case gehängt. Typ, Status, Medium und Priorität tragen
// Werte aus den jeweiligen Optionsgruppen.
type Activity struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ActivityType string `json:"activity_type" gorm:"index;not null"`
	Status       string `json:"status" gorm:"index"`
	Medium       string `json:"medium"`
	Priority     string `json:"priority"`

	CaseID          *uint `json:"case_id,omitempty" gorm:"index"`
	SourceContactID uint  `json:"source_contact_id"`
	TargetContactID uint  `json:"target_contact_id" gorm:"index"`

	Subject          string    `json:"subject"`
	Details          string    `json:"details" gorm:"type:text"`
	Location         string    `json:"location"`
	ActivityDateTime time.Time `json:"activity_date_time" gorm:"index"`
}

// TableName gibt explizit den Tabellennamen an.
func (Activity) TableName() string {
	return "crm_activities"
}

// ActivityVisitDetail sind die Custom-Felder einer Visit-Aktivität.
type ActivityVisitDetail struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ActivityID uint `json:"activity_id" gorm:"uniqueIndex"`

	Attempts              string `json:"attempts"`
	IncidentFormCompleted string `json:"incident_form_completed"`
	Mileage               string `json:"mileage"`
	Parking               string `json:"parking"`
	OtherExpenses         string `json:"other_expenses"`
	ClaimReceivedDate     string `json:"claim_received_date"`
	ClaimSubmittedDate    string `json:"claim_submitted_date"`
	ExpensesNotes         string `json:"expenses_notes"`
	ToLabDate             string `json:"to_lab_date"`

	CollectedByID *uint `json:"collected_by_id,omitempty"`

	SampleSite        string `json:"sample_site"`
	BleedDifficulties string `json:"bleed_difficulties"`
	StudyPayment      string `json:"study_payment"`
}

// TableName gibt explizit den Tabellennamen an.
func (ActivityVisitDetail) TableName() string {
	return "crm_activity_visit_details"
}

// ActivityConsentDetail sind die Custom-Felder einer Consent-Aktivität.
// ConsentVersion wird auch beim Matching in der Consent-Link-Migration benutzt.
type ActivityConsentDetail struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ActivityID uint `json:"activity_id" gorm:"uniqueIndex"`

	ConsentVersion       string `json:"consent_version" gorm:"index"`
	QuestionnaireVersion string `json:"questionnaire_version"`
}

// TableName gibt explizit den Tabellennamen an.
func (ActivityConsentDetail) TableName() string {
	return "crm_activity_consent_details"
}
