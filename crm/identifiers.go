package crm

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"starfish-migrate/models"
)

// AppendIdentifier hängt dem Kontakt eine Kennung an, sofern sie noch nicht
// in der Identitätshistorie steht. Gibt zurück, ob ein Eintrag erstellt wurde.
func AppendIdentifier(db *gorm.DB, contactID uint, identifierType, identifier string, usedFrom *time.Time) (bool, error) {
	if strings.TrimSpace(identifier) == "" {
		return false, nil
	}
	var count int64
	err := db.Model(&models.ContactIdentity{}).
		Where("contact_id = ? AND identifier_type = ? AND identifier = ?", contactID, identifierType, identifier).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	identity := models.ContactIdentity{
		ContactID:      contactID,
		IdentifierType: identifierType,
		Identifier:     identifier,
		UsedFrom:       usedFrom,
	}
	if err := db.Create(&identity).Error; err != nil {
		return false, err
	}
	return true, nil
}
