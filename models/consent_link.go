package models

import "time"

// ConsentPackLink verknüpft eine Consent-Aktivität mit einem Consent-Pack.
// Pro (activity, contact, pack) existiert höchstens ein Link.
type ConsentPackLink struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ActivityID uint   `json:"activity_id" gorm:"index:idx_pack_link_triple"`
	ContactID  uint   `json:"contact_id" gorm:"index:idx_pack_link_triple"`
	PackID     string `json:"pack_id" gorm:"index:idx_pack_link_triple"`
	PackIDType string `json:"pack_id_type"`

	CreatedFrom string `json:"created_from"`
}

// TableName gibt explizit den Tabellennamen an.
func (ConsentPackLink) TableName() string {
	return "crm_consent_pack_links"
}

// ConsentPanelLink verknüpft eine Consent-Aktivität mit einem
// Centre/Panel/Site-Eintrag des Kontakts.
type ConsentPanelLink struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ActivityID uint `json:"activity_id" gorm:"index:idx_panel_link_triple"`
	ContactID  uint `json:"contact_id" gorm:"index:idx_panel_link_triple"`
	PanelEtcID uint `json:"panel_etc_id" gorm:"index:idx_panel_link_triple"`

	CreatedFrom string `json:"created_from"`
}

// TableName gibt explizit den Tabellennamen an.
func (ConsentPanelLink) TableName() string {
	return "crm_consent_panel_links"
}

// VolunteerPanel ist die Centre/Panel/Site-Zuordnung eines Freiwilligen.
// Die drei Spalten referenzieren Organisations-Kontakte und sind einzeln
// optional.
type VolunteerPanel struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ContactID uint `json:"contact_id" gorm:"index"`

	CentreID *uint `json:"centre_id,omitempty"`
	PanelID  *uint `json:"panel_id,omitempty"`
	SiteID   *uint `json:"site_id,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (VolunteerPanel) TableName() string {
	return "crm_volunteer_panels"
}
