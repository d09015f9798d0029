package crm

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"starfish-migrate/models"
)

// Backbone hält alle festen Enumerationswerte, die die Migration braucht.
// Die Werte werden einmal pro Prozess aus den Optionsgruppen aufgelöst und
// danach explizit an jede Komponente gereicht.
type Backbone struct {
	// activity_type
	EmailActivityType            string
	IncomingActivityType         string
	LetterActivityType           string
	MeetingActivityType          string
	PhoneActivityType            string
	SmsActivityType              string
	SampleReceivedActivityType   string
	VisitStage1ActivityType      string
	VisitStage2ActivityType      string
	ConsentStage2ActivityType    string
	SentToResearcherActivityType string
	StatusChangeActivityType     string
	NoteActivityType             string

	// activity_status
	CompletedActivityStatus      string
	ScheduledActivityStatus      string
	ReturnToSenderActivityStatus string

	// priority / encounter_medium
	NormalPriority string
	EmailMedium    string
	InPersonMedium string
	LetterMedium   string
	PhoneMedium    string
	SmsMedium      string

	// case_type
	RecruitmentCaseType   string
	ParticipationCaseType string

	// Teilnahme-Status: Default und Synonym-Ziel.
	SelectedParticipationStatus string
	RefusedParticipationStatus  string

	// Fallback-Werte für offene Besuchs-Enumerationen.
	OtherSampleSiteValue        string
	OtherBleedDifficultiesValue string

	// Kontakt, der als Quelle aller migrierten Aktivitäten eingetragen wird.
	MigrationContactID uint
}

// LoadBackbone löst alle festen Werte aus den Optionsgruppen der Ziel-Datenbank
// auf. Fehlt einer davon, ist das CRM nicht für die Migration vorbereitet und
// der Start schlägt fehl.
func LoadBackbone(db *gorm.DB) (*Backbone, error) {
	b := &Backbone{}
	fields := []struct {
		dst   *string
		group string
		label string
	}{
		{&b.EmailActivityType, models.OptionGroupActivityType, "Email"},
		{&b.IncomingActivityType, models.OptionGroupActivityType, "Incoming communication"},
		{&b.LetterActivityType, models.OptionGroupActivityType, "Letter"},
		{&b.MeetingActivityType, models.OptionGroupActivityType, "Meeting"},
		{&b.PhoneActivityType, models.OptionGroupActivityType, "Phone"},
		{&b.SmsActivityType, models.OptionGroupActivityType, "SMS"},
		{&b.SampleReceivedActivityType, models.OptionGroupActivityType, "Sample received"},
		{&b.VisitStage1ActivityType, models.OptionGroupActivityType, "Visit stage 1"},
		{&b.VisitStage2ActivityType, models.OptionGroupActivityType, "Visit stage 2"},
		{&b.ConsentStage2ActivityType, models.OptionGroupActivityType, "Consent stage 2"},
		{&b.SentToResearcherActivityType, models.OptionGroupActivityType, "Sent to researcher"},
		{&b.StatusChangeActivityType, models.OptionGroupActivityType, "Study status changed"},
		{&b.NoteActivityType, models.OptionGroupActivityType, "Note"},
		{&b.CompletedActivityStatus, models.OptionGroupActivityStatus, "Completed"},
		{&b.ScheduledActivityStatus, models.OptionGroupActivityStatus, "Scheduled"},
		{&b.ReturnToSenderActivityStatus, models.OptionGroupActivityStatus, "Return to sender"},
		{&b.NormalPriority, models.OptionGroupPriority, "Normal"},
		{&b.EmailMedium, models.OptionGroupEncounterMedium, "Email"},
		{&b.InPersonMedium, models.OptionGroupEncounterMedium, "In person"},
		{&b.LetterMedium, models.OptionGroupEncounterMedium, "Letter"},
		{&b.PhoneMedium, models.OptionGroupEncounterMedium, "Phone"},
		{&b.SmsMedium, models.OptionGroupEncounterMedium, "Text"},
		{&b.RecruitmentCaseType, models.OptionGroupCaseType, "Recruitment"},
		{&b.ParticipationCaseType, models.OptionGroupCaseType, "Participation"},
		{&b.SelectedParticipationStatus, models.OptionGroupParticipationStatus, "Selected"},
		{&b.RefusedParticipationStatus, models.OptionGroupParticipationStatus, "Refused"},
		{&b.OtherSampleSiteValue, models.OptionGroupSampleSite, "Other"},
		{&b.OtherBleedDifficultiesValue, models.OptionGroupBleedDifficulties, "Other"},
	}
	for _, f := range fields {
		value, err := optionValueByLabel(db, f.group, f.label)
		if err != nil {
			return nil, fmt.Errorf("backbone: option %q in group %q: %w", f.label, f.group, err)
		}
		*f.dst = value
	}
	return b, nil
}

// optionValueByLabel löst einen einzelnen Optionswert über Gruppenname und
// Label auf (case-insensitiv wie die Mapper).
func optionValueByLabel(db *gorm.DB, groupName, label string) (string, error) {
	var value string
	err := db.Table("crm_option_values").
		Select("crm_option_values.value").
		Joins("JOIN crm_option_groups ON crm_option_groups.id = crm_option_values.option_group_id").
		Where("crm_option_groups.name = ?", groupName).
		Where("LOWER(crm_option_values.label) = ?", strings.ToLower(label)).
		Where("crm_option_values.is_active = ?", true).
		Limit(1).
		Scan(&value).Error
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}
