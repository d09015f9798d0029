package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"starfish-migrate/crm"
	"starfish-migrate/models"
)

// createdFromMigration markiert Verknüpfungen, die aus der Migration stammen.
const createdFromMigration = "migration"

// ConsentLinkService verknüpft Einwilligungs-Aktivitäten mit Packs und
// Panels. Beide Verknüpfungen haben Existenzprüfungen, ein zweiter Lauf
// über dieselben Zeilen legt also nichts doppelt an.
type ConsentLinkService struct {
	DB       *gorm.DB
	Resolver *crm.Resolver
	Linker   *crm.Linker
}

// NewConsentLinkService erstellt einen neuen ConsentLinkService.
func NewConsentLinkService(db *gorm.DB, resolver *crm.Resolver, linker *crm.Linker) *ConsentLinkService {
	return &ConsentLinkService{DB: db, Resolver: resolver, Linker: linker}
}

// Migrate verarbeitet eine Importzeile und gibt das Ergebnis als Text zurück.
func (s *ConsentLinkService) Migrate(row *models.ConsentLinkImport, log *RunLog) string {
	contactID, err := s.Resolver.ContactIDByIdentifier(models.IdentifierTypeParticipantID, row.ParticipantID)
	if err != nil {
		outcome := "No contact found for participant " + row.ParticipantID
		log.Error(outcome)
		return outcome
	}

	activityID, err := s.findConsentActivity(row, contactID, log)
	if err != nil {
		outcome := "No consent activity found for participant " + row.ParticipantID
		log.Error(outcome)
		return outcome
	}

	if strings.TrimSpace(row.PackID) != "" {
		exists, err := s.Linker.PackLinkExists(activityID, contactID, row.PackID)
		if err != nil {
			log.Error(fmt.Sprintf("Could not check pack link for participant %s: %v", row.ParticipantID, err))
		} else if !exists {
			if err := s.Linker.CreatePackLink(activityID, contactID, row.PackID, row.PackIDType, createdFromMigration); err != nil {
				log.Error(fmt.Sprintf("Could not create pack link for participant %s: %v", row.ParticipantID, err))
			}
		}
	}

	panelEtcID, err := s.Linker.PanelSiteCentreID(contactID, row.Centre, row.Panel, row.Site)
	if err != nil {
		return "No centre/panel/site found for participant " + row.ParticipantID
	}
	exists, err := s.Linker.PanelLinkExists(activityID, contactID, panelEtcID)
	if err != nil {
		log.Error(fmt.Sprintf("Could not check panel link for participant %s: %v", row.ParticipantID, err))
		return "migrated"
	}
	if !exists {
		if err := s.Linker.CreatePanelLink(activityID, contactID, panelEtcID, createdFromMigration); err != nil {
			log.Error(fmt.Sprintf("Could not create panel link for participant %s: %v", row.ParticipantID, err))
		}
	}
	return "migrated"
}

// findConsentActivity sucht die passende Einwilligungs-Aktivität über
// Version und Einwilligungstag.
func (s *ConsentLinkService) findConsentActivity(row *models.ConsentLinkImport, contactID uint, log *RunLog) (uint, error) {
	if strings.TrimSpace(row.ConsentVersion) == "" || strings.TrimSpace(row.ConsentDate) == "" {
		return 0, crm.ErrNotFound
	}
	consentDate, err := parseDateTime(row.ConsentDate, "")
	if err != nil {
		log.Error(fmt.Sprintf("Could not parse date %s, no consent activity found.", row.ConsentDate))
		return 0, crm.ErrNotFound
	}
	activityID, err := crm.FindConsentActivityID(s.DB, contactID, row.ConsentVersion, consentDate)
	if err != nil {
		log.Error(fmt.Sprintf("Could not find a consent activity id for contact ID %d and consent version %s on consent date %s",
			contactID, row.ConsentVersion, row.ConsentDate))
		return 0, err
	}
	return activityID, nil
}
