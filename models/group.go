package models

// Group ist eine benannte Kontaktgruppe im Ziel-CRM (z.B. "BioResourcers").
type Group struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"uniqueIndex;not null"`
}

// TableName gibt explizit den Tabellennamen an.
func (Group) TableName() string {
	return "crm_groups"
}

// GroupContact ist die Mitgliedschaft eines Kontakts in einer Gruppe.
type GroupContact struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	GroupID   uint   `json:"group_id" gorm:"index"`
	ContactID uint   `json:"contact_id" gorm:"index"`
	Status    string `json:"status"` // Added / Removed
}

// TableName gibt explizit den Tabellennamen an.
func (GroupContact) TableName() string {
	return "crm_group_contacts"
}
