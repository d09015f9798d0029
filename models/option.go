package models

// Namen der Optionsgruppen, die von der Migration benutzt werden.
const (
	OptionGroupActivityType         = "activity_type"
	OptionGroupActivityStatus       = "activity_status"
	OptionGroupPriority             = "priority"
	OptionGroupEncounterMedium      = "encounter_medium"
	OptionGroupCaseType             = "case_type"
	OptionGroupParticipationStatus  = "nbr_study_participation_status"
	OptionGroupBleedDifficulties    = "nbr_bleed_difficulties"
	OptionGroupSampleSite           = "nbr_visit_bleed_site"
	OptionGroupConsentVersion       = "nbr_visit_participation_consent_version"
	OptionGroupQuestionnaireVersion = "nbr_visit_participation_questionnaire_version"
	OptionGroupStudyPayment         = "nbr_visit_participation_study_payment"
)

// OptionGroup ist eine benannte Enumeration im Ziel-CRM.
type OptionGroup struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"uniqueIndex;not null"`
	Title string `json:"title"`
}

// TableName gibt explizit den Tabellennamen an.
func (OptionGroup) TableName() string {
	return "crm_option_groups"
}

// OptionValue ist ein Wert innerhalb einer Optionsgruppe. Value ist der
// maschinenlesbare Code, Label der Anzeigetext aus dem Altsystem.
type OptionValue struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	OptionGroupID uint   `json:"option_group_id" gorm:"index:idx_option_value_group"`
	Name          string `json:"name"`
	Value         string `json:"value" gorm:"index:idx_option_value_group"`
	Label         string `json:"label"`
	IsActive      bool   `json:"is_active" gorm:"default:true"`
	IsReserved    bool   `json:"is_reserved" gorm:"default:false"`
	Weight        int    `json:"weight"`
}

// TableName gibt explizit den Tabellennamen an.
func (OptionValue) TableName() string {
	return "crm_option_values"
}
