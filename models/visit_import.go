package models

// VisitImport ist eine Staging-Zeile für Besuche (Recruitment- oder
// Participation-Visits) aus dem Starfish-Export. Beträge und Datumswerte
// bleiben Freitext, das Altsystem liefert u.a. "0.00" für leere Beträge.
type VisitImport struct {
	ID uint `json:"id" gorm:"primaryKey"`

	SampleID    string `json:"sample_id" gorm:"index"`
	StudyNumber string `json:"study_number"`

	VisitDate string `json:"visit_date"`
	VisitTime string `json:"visit_time"`
	Location  string `json:"location"`
	Status    string `json:"status"`

	Attempts              string `json:"attempts"`
	IncidentFormCompleted string `json:"incident_form_completed"`
	Mileage               string `json:"mileage"`
	Parking               string `json:"parking"`
	OtherExpenses         string `json:"other_expenses"`
	ClaimReceivedDate     string `json:"claim_received_date"`
	ClaimSubmittedDate    string `json:"claim_submitted_date"`
	ExpensesNotes         string `json:"expenses_notes"`
	ToLabDate             string `json:"to_lab_date"`

	CollectedBy              string `json:"collected_by"`
	DifficultiesWithTheBleed string `json:"difficulties_with_the_bleed"`
	SampleSite               string `json:"sample_site"`
	StudyPayment             string `json:"study_payment"`

	LabReceivedDate            string `json:"lab_received_date"`
	Stage2ConsentVersion       string `json:"stage2_consent_version"`
	Stage2QuestionnaireVersion string `json:"stage2_questionnaire_version"`

	Notes string `json:"notes" gorm:"type:text"`

	Processed bool `json:"processed" gorm:"default:false;index"`
}

// TableName gibt explizit den Tabellennamen an.
func (VisitImport) TableName() string {
	return "nbr_visit_import"
}
