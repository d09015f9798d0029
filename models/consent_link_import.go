package models

// ConsentLinkImport ist eine Staging-Zeile für die Verknüpfung von
// Consent-Aktivitäten mit Consent-Packs und Centre/Panel/Site.
type ConsentLinkImport struct {
	ID uint `json:"id" gorm:"primaryKey"`

	ParticipantID  string `json:"participant_id" gorm:"index"`
	ConsentVersion string `json:"consent_version"`
	ConsentDate    string `json:"consent_date"`

	PackID     string `json:"pack_id"`
	PackIDType string `json:"pack_id_type"`

	Centre string `json:"centre"`
	Panel  string `json:"panel"`
	Site   string `json:"site"`

	Processed bool `json:"processed" gorm:"default:false;index"`
}

// TableName gibt explizit den Tabellennamen an.
func (ConsentLinkImport) TableName() string {
	return "nbr_consent_link_import"
}
