package crm

import (
	"time"

	"gorm.io/gorm"

	"starfish-migrate/models"
)

// FindConsentActivityID sucht die Einwilligungs-Aktivität eines Kontakts mit
// passender Version am angegebenen Tag. Gibt es mehrere, gewinnt die jüngste.
func FindConsentActivityID(db *gorm.DB, contactID uint, consentVersion string, consentDate time.Time) (uint, error) {
	dayStart := time.Date(consentDate.Year(), consentDate.Month(), consentDate.Day(), 0, 0, 0, 0, consentDate.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	var ids []uint
	err := db.Model(&models.Activity{}).
		Joins("JOIN crm_activity_consent_details ON crm_activity_consent_details.activity_id = crm_activities.id").
		Where("crm_activities.target_contact_id = ?", contactID).
		Where("crm_activities.activity_date_time BETWEEN ? AND ?", dayStart, dayEnd).
		Where("crm_activity_consent_details.consent_version = ?", consentVersion).
		Order("crm_activities.id DESC").
		Limit(1).
		Pluck("crm_activities.id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	return ids[0], nil
}
