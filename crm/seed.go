package crm

import (
	"gorm.io/gorm"

	"starfish-migrate/models"
)

// defaultOptions sind die Optionswerte, die das Ziel-CRM mindestens braucht,
// damit LoadBackbone und die Mapper arbeiten können. Labels entsprechen den
// Anzeigetexten des Ziel-CRM, Values den daraus abgeleiteten Maschinennamen.
var defaultOptions = map[string][]string{
	models.OptionGroupActivityType: {
		"Email", "Incoming communication", "Letter", "Meeting", "Phone", "SMS",
		"Sample received", "Visit stage 1", "Visit stage 2", "Consent stage 2",
		"Sent to researcher", "Study status changed", "Note",
	},
	models.OptionGroupActivityStatus: {
		"Completed", "Scheduled", "Return to sender", "Cancelled", "Not required",
	},
	models.OptionGroupPriority:        {"Urgent", "Normal", "Low"},
	models.OptionGroupEncounterMedium: {"Email", "In person", "Letter", "Phone", "Text"},
	models.OptionGroupCaseType:        {"Recruitment", "Participation"},
	models.OptionGroupParticipationStatus: {
		"Accepted", "Excluded", "Invitation pending", "Invited", "No response",
		"Not participated", "Participated", "Refused", "Reneged",
		"Return to sender", "Selected", "Withdrawn",
	},
	models.OptionGroupBleedDifficulties: {"None", "Difficult access", "Fainted", "Other"},
	models.OptionGroupSampleSite:        {"Left arm", "Right arm", "Hand", "Other"},
	// Offene Gruppen: wachsen zur Laufzeit über LookupOrCreate.
	models.OptionGroupConsentVersion:       {},
	models.OptionGroupQuestionnaireVersion: {},
	models.OptionGroupStudyPayment:         {"Voucher", "Bank transfer", "Cash"},
}

// SeedDefaults legt fehlende Optionsgruppen, deren Standardwerte und die
// BioResourcers-Gruppe an. Bestehende Gruppen werden nicht angefasst, der
// Aufruf ist beliebig wiederholbar.
func SeedDefaults(db *gorm.DB) error {
	for groupName, labels := range defaultOptions {
		var group models.OptionGroup
		err := db.Where("name = ?", groupName).First(&group).Error
		if err == gorm.ErrRecordNotFound {
			group = models.OptionGroup{Name: groupName}
			if err := db.Create(&group).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var count int64
		if err := db.Model(&models.OptionValue{}).Where("option_group_id = ?", group.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		for i, label := range labels {
			value := models.OptionValue{
				OptionGroupID: group.ID,
				Name:          MachineName(label),
				Value:         MachineName(label),
				Label:         label,
				IsActive:      true,
				Weight:        i + 1,
			}
			if err := db.Create(&value).Error; err != nil {
				return err
			}
		}
	}

	var groupCount int64
	if err := db.Model(&models.Group{}).Where("title = ?", CollectorGroupTitle).Count(&groupCount).Error; err != nil {
		return err
	}
	if groupCount == 0 {
		if err := db.Create(&models.Group{Title: CollectorGroupTitle}).Error; err != nil {
			return err
		}
	}
	return nil
}
