package crm

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"starfish-migrate/models"
)

// CollectorGroupTitle ist die Kontaktgruppe, aus der Blutabnehmer
// per Namensvergleich aufgelöst werden.
const CollectorGroupTitle = "BioResourcers"

// Resolver bündelt alle Lookups von Import-Schlüsseln auf CRM-IDs.
type Resolver struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewResolver erstellt einen neuen Resolver.
func NewResolver(db *gorm.DB, logger *zap.Logger) *Resolver {
	return &Resolver{DB: db, Logger: logger}
}

// ContactIDByIdentifier sucht einen Kontakt über die Identitätshistorie.
// Leere Werte lösen nie einen Treffer aus.
func (r *Resolver) ContactIDByIdentifier(identifierType, identifier string) (uint, error) {
	if strings.TrimSpace(identifier) == "" {
		return 0, ErrNotFound
	}
	var identity models.ContactIdentity
	err := r.DB.Where("identifier_type = ? AND identifier = ?", identifierType, identifier).
		Order("id ASC").
		First(&identity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return identity.ContactID, nil
}

// StudyIDByNumber löst eine Studiennummer auf die Studien-ID auf.
func (r *Resolver) StudyIDByNumber(studyNumber string) (uint, error) {
	if strings.TrimSpace(studyNumber) == "" {
		return 0, ErrNotFound
	}
	var study models.Study
	err := r.DB.Where("study_number = ?", studyNumber).First(&study).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return study.ID, nil
}

// ContactIDByTypedName sucht eine Organisation über Subtyp und Namen,
// etwa ein Zentrum, Panel oder eine Abnahmestelle.
func (r *Resolver) ContactIDByTypedName(contactSubType, organizationName string) (uint, error) {
	if strings.TrimSpace(organizationName) == "" {
		return 0, ErrNotFound
	}
	var contact models.Contact
	err := r.DB.Where("contact_type = ? AND contact_sub_type = ? AND organization_name = ?",
		"Organization", contactSubType, organizationName).
		First(&contact).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return contact.ID, nil
}

// CollectedByID löst den Freitextnamen eines Blutabnehmers auf die Kontakt-ID
// auf. Kandidaten kommen nur aus der BioResourcers-Gruppe; der Rohname wird
// zunächst per LIKE gesucht, danach muss genau ein Kandidat übrig bleiben,
// dessen normalisierter Name ("vorname [zweitname] nachname") exakt passt.
// Mehr als ein LIKE-Treffer gilt als nicht auflösbar.
func (r *Resolver) CollectedByID(name string) (uint, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, ErrNotFound
	}
	var candidates []models.Contact
	err := r.DB.Model(&models.Contact{}).
		Joins("JOIN crm_group_contacts ON crm_group_contacts.contact_id = crm_contacts.id").
		Joins("JOIN crm_groups ON crm_groups.id = crm_group_contacts.group_id").
		Where("crm_groups.title = ? AND crm_group_contacts.status = ?", CollectorGroupTitle, "Added").
		Where("crm_contacts.display_name LIKE ?", "%"+trimmed+"%").
		Find(&candidates).Error
	if err != nil {
		return 0, err
	}
	if len(candidates) != 1 {
		if len(candidates) > 1 {
			r.Logger.Warn("Mehrdeutiger Blutabnehmer-Name, keine Zuordnung",
				zap.String("name", trimmed), zap.Int("candidates", len(candidates)))
		}
		return 0, ErrNotFound
	}
	candidate := candidates[0]
	parts := []string{candidate.FirstName}
	if strings.TrimSpace(candidate.MiddleName) != "" {
		parts = append(parts, candidate.MiddleName)
	}
	parts = append(parts, candidate.LastName)
	normalized := strings.ToLower(strings.Join(parts, " "))
	if normalized != strings.ToLower(trimmed) {
		return 0, ErrNotFound
	}
	return candidate.ID, nil
}
