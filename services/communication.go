package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"starfish-migrate/crm"
	"starfish-migrate/models"
)

// CommunicationService migriert Starfish-Kommunikationszeilen zu Aktivitäten.
// Typ 1 hängt an den Rekrutierungsfall, Typ 2 an den Teilnahmefall der Studie,
// alles andere wird als fallfreie Aktivität angelegt.
type CommunicationService struct {
	DB       *gorm.DB
	Backbone *crm.Backbone
	Resolver *crm.Resolver
	Cases    *crm.CaseLocator
}

// NewCommunicationService erstellt einen neuen CommunicationService.
func NewCommunicationService(db *gorm.DB, bb *crm.Backbone, resolver *crm.Resolver, cases *crm.CaseLocator) *CommunicationService {
	return &CommunicationService{DB: db, Backbone: bb, Resolver: resolver, Cases: cases}
}

// Migrate verarbeitet eine Importzeile. Gibt zurück, ob die Zeile migriert
// wurde; Gründe für ein Nein stehen im Laufprotokoll.
func (s *CommunicationService) Migrate(row *models.CommunicationImport, log *RunLog) bool {
	if !s.isDataValid(row, log) {
		return false
	}
	contactID, err := s.Resolver.ContactIDByIdentifier(models.IdentifierTypeParticipantID, row.ParticipantID)
	if err != nil {
		log.Error("No contact found with participant_id: " + row.ParticipantID)
		return false
	}

	switch row.CommunicationType {
	case 1:
		caseID, err := s.Cases.RecruitmentCaseID(contactID)
		if err != nil {
			log.Error(fmt.Sprintf("No recruitment case for contact_id: %d, communication not migrated.", contactID))
			return false
		}
		return s.writeCommunicationActivity(row, contactID, &caseID, log)
	case 2:
		studyID, err := s.Resolver.StudyIDByNumber(row.StudyNumber)
		if err != nil {
			log.Error("No study found with study_number: " + row.StudyNumber)
			return false
		}
		caseID, err := s.Cases.ParticipationCaseID(contactID, studyID)
		if err != nil {
			log.Error(fmt.Sprintf("No participation case for contact_id: %d and study_id: %d, communication not migrated.", contactID, studyID))
			return false
		}
		return s.writeCommunicationActivity(row, contactID, &caseID, log)
	default:
		return s.writeCommunicationActivity(row, contactID, nil, log)
	}
}

func (s *CommunicationService) writeCommunicationActivity(row *models.CommunicationImport, contactID uint, caseID *uint, log *RunLog) bool {
	activityDate, err := parseDateTime(row.CommunicationDate, row.CommunicationTime)
	if err != nil {
		log.Error(fmt.Sprintf("Could not parse communication date for participant_id %s: %v", row.ParticipantID, err))
		return false
	}
	draft := activityDraft{
		ActivityType: s.determineActivityType(row),
		Status:       s.determineStatus(row.Status),
		CaseID:       caseID,
		TargetID:     contactID,
		Subject:      row.TemplateName + " (migration)",
		Location:     row.ContactDetail,
		Details:      s.buildDetails(row),
		DateTime:     activityDate,
	}
	if caseID != nil {
		draft.Medium = s.determineMedium(row.TemplateType)
	}
	if _, err := writeActivity(s.DB, s.Backbone, log, draft); err != nil {
		return false
	}
	return true
}

// determineMedium bestimmt das Medium einer Fallaktivität aus dem Vorlagentyp.
func (s *CommunicationService) determineMedium(templateType string) string {
	switch strings.ToLower(templateType) {
	case "email":
		return s.Backbone.EmailMedium
	case "in person":
		return s.Backbone.InPersonMedium
	case "letter":
		return s.Backbone.LetterMedium
	case "phone":
		return s.Backbone.PhoneMedium
	case "text":
		return s.Backbone.SmsMedium
	default:
		return ""
	}
}

// determineActivityType bestimmt den Aktivitätstyp: eingehende Richtung
// gewinnt immer, danach entscheidet der Vorlagentyp, Rückfall ist Meeting.
func (s *CommunicationService) determineActivityType(row *models.CommunicationImport) string {
	if row.TemplateType == "" {
		return s.Backbone.MeetingActivityType
	}
	if row.CommunicationDirection == "Incoming" {
		return s.Backbone.IncomingActivityType
	}
	switch row.TemplateType {
	case "Email":
		return s.Backbone.EmailActivityType
	case "Letter":
		return s.Backbone.LetterActivityType
	case "Phone":
		return s.Backbone.PhoneActivityType
	case "Text":
		return s.Backbone.SmsActivityType
	default:
		return s.Backbone.MeetingActivityType
	}
}

func (s *CommunicationService) determineStatus(status string) string {
	switch strings.ToLower(status) {
	case "return to sender":
		return s.Backbone.ReturnToSenderActivityStatus
	case "scheduled":
		return s.Backbone.ScheduledActivityStatus
	default:
		return s.Backbone.CompletedActivityStatus
	}
}

func (s *CommunicationService) buildDetails(row *models.CommunicationImport) string {
	var parts []string
	if row.CommunicationCategory != "" {
		parts = append(parts, "Communication category: "+row.CommunicationCategory)
	}
	if row.CommunicationNotes != "" {
		parts = append(parts, "Communication note: "+row.CommunicationNotes)
	}
	return strings.Join(parts, "\r\n")
}

func (s *CommunicationService) isDataValid(row *models.CommunicationImport, log *RunLog) bool {
	if strings.TrimSpace(row.ParticipantID) == "" {
		log.Error(fmt.Sprintf("Empty participant_id or no participant_id in source data with id: %d", row.ID))
		return false
	}
	return true
}
