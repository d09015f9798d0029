package models

import "time"

// Bekannte Identifier-Typen in der Identitäts-Historie.
const (
	IdentifierTypeParticipantID      = "cih_type_participant_id"
	IdentifierTypeStudyParticipantID = "cih_type_study_participant_id"
)

// Contact ist ein Personen- oder Organisationsdatensatz im Ziel-CRM.
// Contacts werden von der Migration nie angelegt, nur aufgelöst.
type Contact struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContactType    string `json:"contact_type" gorm:"index"` // Individual / Organization
	ContactSubType string `json:"contact_sub_type" gorm:"index"`

	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`

	DisplayName      string `json:"display_name" gorm:"index"`
	OrganizationName string `json:"organization_name" gorm:"index"`
}

// TableName gibt explizit den Tabellennamen an.
func (Contact) TableName() string {
	return "crm_contacts"
}

// ContactIdentity ist ein Eintrag in der Identitäts-Historie eines Kontakts:
// ein extern vergebener Identifier (z.B. participant_id) mit Typ-Tag.
type ContactIdentity struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ContactID      uint   `json:"contact_id" gorm:"index:idx_contact_identity_lookup"`
	IdentifierType string `json:"identifier_type" gorm:"index:idx_contact_identity_lookup"`
	Identifier     string `json:"identifier" gorm:"index"`

	UsedFrom *time.Time `json:"used_from,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (ContactIdentity) TableName() string {
	return "crm_contact_id_history"
}
