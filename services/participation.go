package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"starfish-migrate/crm"
	"starfish-migrate/models"
)

// ParticipationService migriert Starfish-Teilnahmeepisoden zu Teilnahmefällen
// mit Studiendetails. Abhängige Aktivitäten und die Studienteilnehmer-Kennung
// werden nach dem Fall angelegt; scheitert eine davon, bleibt der Fall stehen
// und der Fehler landet nur im Protokoll.
type ParticipationService struct {
	DB       *gorm.DB
	Backbone *crm.Backbone
	Resolver *crm.Resolver
	Cases    *crm.CaseLocator
	Statuses *crm.OptionSet
}

// NewParticipationService erstellt einen neuen ParticipationService.
func NewParticipationService(db *gorm.DB, bb *crm.Backbone, resolver *crm.Resolver, cases *crm.CaseLocator, statuses *crm.OptionSet) *ParticipationService {
	return &ParticipationService{DB: db, Backbone: bb, Resolver: resolver, Cases: cases, Statuses: statuses}
}

// Migrate verarbeitet eine Importzeile.
func (s *ParticipationService) Migrate(row *models.ParticipationImport, log *RunLog) bool {
	if !s.isDataValid(row, log) {
		return false
	}
	contactID, err := s.Resolver.ContactIDByIdentifier(models.IdentifierTypeParticipantID, row.SampleID)
	if err != nil {
		log.Error("No contact found with sample_id: " + row.SampleID)
		return false
	}
	studyID, err := s.Resolver.StudyIDByNumber(row.StudyNumber)
	if err != nil {
		log.Error("No study found with study_number: " + row.StudyNumber)
		return false
	}
	onStudy, err := s.Cases.IsOnStudy(contactID, studyID)
	if err != nil {
		log.Error(fmt.Sprintf("Could not check existing participation for contact_id %d: %v", contactID, err))
		return false
	}
	if onStudy {
		log.Warn(fmt.Sprintf("Contact %d already has a participation case on study %s, record skipped.", contactID, row.StudyNumber))
		return false
	}

	caseID, err := s.createCase(row, contactID, studyID, log)
	if err != nil {
		log.Error(fmt.Sprintf("Error when trying to create participation case: %v", err))
		return false
	}

	s.addSentToResearcherActivity(row, contactID, caseID, log)
	s.addAnsweredActivity(row, contactID, caseID, log)
	s.addNoteActivity(row, contactID, caseID, log)
	s.appendStudyParticipantID(row, contactID, log)
	return true
}

// createCase legt Fall, Fallkontakt und Studiendetail in einer Transaktion an.
func (s *ParticipationService) createCase(row *models.ParticipationImport, contactID, studyID uint, log *RunLog) (uint, error) {
	var caseID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		c := models.Case{
			CaseType: s.Backbone.ParticipationCaseType,
			Subject:  row.StudyNumber + " (Starfish migration)",
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.CaseContact{CaseID: c.ID, ContactID: contactID}).Error; err != nil {
			return err
		}
		detail := models.CaseStudyDetail{
			CaseID:              c.ID,
			StudyID:             studyID,
			StudyParticipantID:  row.AnonStudyParticipationID,
			ParticipationStatus: s.transformStatus(row.Status, log),
			RecallGroup:         row.RecallGroup,
		}
		if row.DateInvited != "" {
			if invited, err := parseDateTime(row.DateInvited, ""); err == nil {
				detail.DateInvited = &invited
			}
		}
		if err := tx.Create(&detail).Error; err != nil {
			return err
		}
		caseID = c.ID
		return nil
	})
	return caseID, err
}

// transformStatus übersetzt den Quellstatus in einen Teilnahmestatus-Wert.
// "declined" ist ein Synonym für "refused"; Unbekanntes fällt mit Warnung
// auf den Selected-Status zurück.
func (s *ParticipationService) transformStatus(status string, log *RunLog) string {
	trimmed := strings.ToLower(strings.TrimSpace(status))
	if trimmed == "declined" {
		trimmed = "refused"
	}
	if value, ok := s.Statuses.Lookup(trimmed); ok {
		return value
	}
	log.Warn(fmt.Sprintf("Unknown participation status %q, falling back to selected.", status))
	return s.Backbone.SelectedParticipationStatus
}

func (s *ParticipationService) addSentToResearcherActivity(row *models.ParticipationImport, contactID, caseID uint, log *RunLog) {
	if strings.TrimSpace(row.DateSentToResearcher) == "" {
		return
	}
	sent, err := parseDateTime(row.DateSentToResearcher, "")
	if err != nil {
		log.Warn(fmt.Sprintf("Could not parse date_sent_to_researcher for sample_id %s, activity skipped: %v", row.SampleID, err))
		return
	}
	s.addDependentActivity(contactID, caseID, s.Backbone.SentToResearcherActivityType,
		"Sent to researcher (Starfish migration)", "", sent, log)
}

func (s *ParticipationService) addAnsweredActivity(row *models.ParticipationImport, contactID, caseID uint, log *RunLog) {
	if strings.TrimSpace(row.DateAnswered) == "" {
		return
	}
	answered, err := parseDateTime(row.DateAnswered, "")
	if err != nil {
		log.Warn(fmt.Sprintf("Could not parse date_answered for sample_id %s, activity skipped: %v", row.SampleID, err))
		return
	}
	s.addDependentActivity(contactID, caseID, s.Backbone.StatusChangeActivityType,
		"Study status changed to answered (Starfish migration)", "", answered, log)
}

func (s *ParticipationService) addNoteActivity(row *models.ParticipationImport, contactID, caseID uint, log *RunLog) {
	if strings.TrimSpace(row.Notes) == "" {
		return
	}
	s.addDependentActivity(contactID, caseID, s.Backbone.NoteActivityType,
		"Note (Starfish migration)", row.Notes, time.Now(), log)
}

func (s *ParticipationService) addDependentActivity(contactID, caseID uint, activityType, subject, details string, at time.Time, log *RunLog) {
	draft := activityDraft{
		ActivityType: activityType,
		CaseID:       &caseID,
		TargetID:     contactID,
		Subject:      subject,
		Details:      details,
		DateTime:     at,
	}
	// Fehler sind hier bereits protokolliert, der Fall bleibt gültig.
	_, _ = writeActivity(s.DB, s.Backbone, log, draft)
}

func (s *ParticipationService) appendStudyParticipantID(row *models.ParticipationImport, contactID uint, log *RunLog) {
	if strings.TrimSpace(row.AnonStudyParticipationID) == "" {
		return
	}
	if _, err := crm.AppendIdentifier(s.DB, contactID, models.IdentifierTypeStudyParticipantID, row.AnonStudyParticipationID, nil); err != nil {
		log.Error(fmt.Sprintf("Could not add study participant id %s to contact %d: %v", row.AnonStudyParticipationID, contactID, err))
	}
}

func (s *ParticipationService) isDataValid(row *models.ParticipationImport, log *RunLog) bool {
	valid := true
	if strings.TrimSpace(row.SampleID) == "" {
		log.Error(fmt.Sprintf("Empty sample_id or no sample_id in source data with id: %d", row.ID))
		valid = false
	}
	if strings.TrimSpace(row.StudyNumber) == "" {
		log.Error(fmt.Sprintf("Empty study_number or no study_number in source data with id: %d", row.ID))
		valid = false
	}
	if strings.TrimSpace(row.Status) == "" {
		log.Error(fmt.Sprintf("Empty status or no status in source data with id: %d", row.ID))
		valid = false
	} else if strings.ToLower(strings.TrimSpace(row.Status)) != "selected" {
		if strings.TrimSpace(row.AnonStudyParticipationID) == "" {
			log.Error(fmt.Sprintf("Empty anon_study_participation_id or no anon_study_participation_id whilst status is not selected in source data with id: %d", row.ID))
			valid = false
		}
	}
	return valid
}
