package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"starfish-migrate/crm"
	"starfish-migrate/models"
)

// VisitService migriert Starfish-Besuche zu Fallaktivitäten mit
// Besuchsdetails. Eine Studiennummer macht den Besuch zu einem
// Stufe-2-Besuch auf dem Teilnahmefall, ohne Studiennummer ist es ein
// Stufe-1-Besuch auf dem Rekrutierungsfall.
type VisitService struct {
	DB       *gorm.DB
	Backbone *crm.Backbone
	Resolver *crm.Resolver
	Cases    *crm.CaseLocator

	ActivityStatuses      *crm.OptionSet
	SampleSites           *crm.OptionSet
	BleedDifficulties     *crm.OptionSet
	ConsentVersions       *crm.OptionSet
	QuestionnaireVersions *crm.OptionSet
	StudyPayments         *crm.OptionSet
}

// NewVisitService erstellt einen neuen VisitService und lädt die benötigten
// Optionsgruppen.
func NewVisitService(db *gorm.DB, bb *crm.Backbone, resolver *crm.Resolver, cases *crm.CaseLocator) (*VisitService, error) {
	s := &VisitService{DB: db, Backbone: bb, Resolver: resolver, Cases: cases}
	sets := []struct {
		target **crm.OptionSet
		group  string
	}{
		{&s.ActivityStatuses, models.OptionGroupActivityStatus},
		{&s.SampleSites, models.OptionGroupSampleSite},
		{&s.BleedDifficulties, models.OptionGroupBleedDifficulties},
		{&s.ConsentVersions, models.OptionGroupConsentVersion},
		{&s.QuestionnaireVersions, models.OptionGroupQuestionnaireVersion},
		{&s.StudyPayments, models.OptionGroupStudyPayment},
	}
	for _, set := range sets {
		loaded, err := crm.LoadOptionSet(db, set.group)
		if err != nil {
			return nil, fmt.Errorf("Optionsgruppe %s konnte nicht geladen werden: %w", set.group, err)
		}
		*set.target = loaded
	}
	return s, nil
}

// Migrate verarbeitet eine Importzeile.
func (s *VisitService) Migrate(row *models.VisitImport, log *RunLog) bool {
	if !s.isDataValid(row, log) {
		return false
	}
	contactID, err := s.Resolver.ContactIDByIdentifier(models.IdentifierTypeParticipantID, row.SampleID)
	if err != nil {
		log.Error("No contact found with sample_id: " + row.SampleID)
		return false
	}

	var caseID uint
	if strings.TrimSpace(row.StudyNumber) != "" {
		studyID, err := s.Resolver.StudyIDByNumber(row.StudyNumber)
		if err != nil {
			log.Error("No study found with study_number: " + row.StudyNumber)
			return false
		}
		caseID, err = s.Cases.ParticipationCaseID(contactID, studyID)
		if err != nil {
			log.Error(fmt.Sprintf("No participation case for contact_id: %d and study_id: %d, visit not migrated.", contactID, studyID))
			return false
		}
	} else {
		caseID, err = s.Cases.RecruitmentCaseID(contactID)
		if err != nil {
			log.Error(fmt.Sprintf("No recruitment case for contact_id: %d, visit not migrated.", contactID))
			return false
		}
	}

	if !s.createVisitActivity(row, contactID, caseID, log) {
		return false
	}
	if strings.TrimSpace(row.LabReceivedDate) != "" {
		s.createSampleReceivedActivity(row, contactID, caseID, log)
	}
	if s.hasConsentData(row) {
		s.createConsentActivity(row, contactID, caseID, log)
	}
	return true
}

func (s *VisitService) createVisitActivity(row *models.VisitImport, contactID, caseID uint, log *RunLog) bool {
	activityDate, ok := s.visitDate(row, log)
	if !ok {
		activityDate = time.Now()
	}
	detail, detailLines := s.buildVisitDetail(row, log)
	draft := activityDraft{
		ActivityType: s.activityType(row.StudyNumber),
		Status:       s.determineStatus(row.Status),
		CaseID:       &caseID,
		TargetID:     contactID,
		Subject:      s.subject(row.StudyNumber, activityDate),
		Location:     row.Location,
		Details:      s.buildDetails(row.Notes, detailLines),
		DateTime:     activityDate,
	}
	activityID, err := writeActivity(s.DB, s.Backbone, log, draft)
	if err != nil || activityID == 0 {
		return false
	}
	detail.ActivityID = activityID
	if err := s.DB.Create(&detail).Error; err != nil {
		log.Error(fmt.Sprintf("Could not store visit details for activity %d: %v", activityID, err))
	}
	return true
}

// buildVisitDetail überträgt die Besuchsfelder, leere Werte und "0.00"
// werden nicht übernommen. Nicht auflösbare Blutabnehmer landen als
// Detailzeile in der Aktivität.
func (s *VisitService) buildVisitDetail(row *models.VisitImport, log *RunLog) (models.ActivityVisitDetail, []string) {
	var lines []string
	detail := models.ActivityVisitDetail{
		Attempts:              keepCustomValue(row.Attempts),
		IncidentFormCompleted: keepCustomValue(row.IncidentFormCompleted),
		Mileage:               keepCustomValue(row.Mileage),
		Parking:               keepCustomValue(row.Parking),
		OtherExpenses:         keepCustomValue(row.OtherExpenses),
		ClaimReceivedDate:     keepCustomValue(row.ClaimReceivedDate),
		ClaimSubmittedDate:    keepCustomValue(row.ClaimSubmittedDate),
		ExpensesNotes:         keepCustomValue(row.ExpensesNotes),
		ToLabDate:             keepCustomValue(row.ToLabDate),
	}
	if strings.TrimSpace(row.CollectedBy) != "" {
		collectorID, err := s.Resolver.CollectedByID(row.CollectedBy)
		if err == nil {
			detail.CollectedByID = &collectorID
		} else {
			lines = append(lines, "Collected by: "+row.CollectedBy)
		}
	}
	if row.DifficultiesWithTheBleed != "" {
		if value, ok := s.BleedDifficulties.Lookup(row.DifficultiesWithTheBleed); ok {
			detail.BleedDifficulties = value
		} else {
			detail.BleedDifficulties = s.Backbone.OtherBleedDifficultiesValue
		}
	}
	if row.SampleSite != "" {
		if value, ok := s.SampleSites.Lookup(row.SampleSite); ok {
			detail.SampleSite = value
		} else {
			detail.SampleSite = s.Backbone.OtherSampleSiteValue
		}
	}
	if row.StudyPayment != "" {
		if value, ok := s.StudyPayments.Lookup(row.StudyPayment); ok {
			detail.StudyPayment = value
		} else {
			log.Warn("Study payment from source data: " + strings.ToLower(row.StudyPayment) + " not found in option group, study payment ignored.")
		}
	}
	return detail, lines
}

func (s *VisitService) createSampleReceivedActivity(row *models.VisitImport, contactID, caseID uint, log *RunLog) {
	received, err := parseDateTime(row.LabReceivedDate, "")
	if err != nil {
		log.Warn(fmt.Sprintf("Could not parse lab_received_date for record with id %d, sample received activity skipped.", row.ID))
		return
	}
	draft := activityDraft{
		ActivityType: s.Backbone.SampleReceivedActivityType,
		CaseID:       &caseID,
		TargetID:     contactID,
		Subject:      "Sample received on " + received.Format("02-01-2006") + " (Starfish migration)",
		DateTime:     received,
	}
	_, _ = writeActivity(s.DB, s.Backbone, log, draft)
}

func (s *VisitService) createConsentActivity(row *models.VisitImport, contactID, caseID uint, log *RunLog) {
	activityDate, ok := s.visitDate(row, log)
	if !ok {
		activityDate = time.Now()
	}
	draft := activityDraft{
		ActivityType: s.Backbone.ConsentStage2ActivityType,
		CaseID:       &caseID,
		TargetID:     contactID,
		Subject:      "Consent stage2 on " + activityDate.Format("02-01-2006") + " (Starfish migration)",
		DateTime:     activityDate,
	}
	activityID, err := writeActivity(s.DB, s.Backbone, log, draft)
	if err != nil || activityID == 0 {
		return
	}
	detail := models.ActivityConsentDetail{ActivityID: activityID}
	if usableVersion(row.Stage2ConsentVersion) {
		value, err := s.ConsentVersions.LookupOrCreate(row.Stage2ConsentVersion)
		if err != nil {
			log.Error(fmt.Sprintf("Could not resolve consent version %s: %v", row.Stage2ConsentVersion, err))
		} else {
			detail.ConsentVersion = value
		}
	}
	if usableVersion(row.Stage2QuestionnaireVersion) {
		value, err := s.QuestionnaireVersions.LookupOrCreate(row.Stage2QuestionnaireVersion)
		if err != nil {
			log.Error(fmt.Sprintf("Could not resolve questionnaire version %s: %v", row.Stage2QuestionnaireVersion, err))
		} else {
			detail.QuestionnaireVersion = value
		}
	}
	if err := s.DB.Create(&detail).Error; err != nil {
		log.Error(fmt.Sprintf("Could not store consent details for activity %d: %v", activityID, err))
	}
}

// usableVersion prüft, ob eine Versionsangabe verwertbar ist; der
// Platzhalter "n/a" zählt nicht.
func usableVersion(version string) bool {
	trimmed := strings.TrimSpace(version)
	return trimmed != "" && !strings.EqualFold(trimmed, "n/a")
}

func (s *VisitService) hasConsentData(row *models.VisitImport) bool {
	return strings.TrimSpace(row.Stage2ConsentVersion) != "" || strings.TrimSpace(row.Stage2QuestionnaireVersion) != ""
}

// visitDate liefert den Besuchszeitpunkt; unlesbare Daten werden gewarnt
// und mit ok=false gemeldet.
func (s *VisitService) visitDate(row *models.VisitImport, log *RunLog) (time.Time, bool) {
	parsed, err := parseDateTime(row.VisitDate, row.VisitTime)
	if err != nil {
		log.Warn(fmt.Sprintf("Could not create valid time for migration record with id %d, used today", row.ID))
		return time.Time{}, false
	}
	return parsed, true
}

func (s *VisitService) activityType(studyNumber string) string {
	if strings.TrimSpace(studyNumber) == "" {
		return s.Backbone.VisitStage1ActivityType
	}
	return s.Backbone.VisitStage2ActivityType
}

func (s *VisitService) subject(studyNumber string, activityDate time.Time) string {
	if strings.TrimSpace(studyNumber) == "" {
		return "Visit on " + activityDate.Format("02-01-2006") + " on recruitment case (Starfish migration)"
	}
	return "Visit on " + activityDate.Format("02-01-2006") + " on " + studyNumber + " (Starfish migration)"
}

func (s *VisitService) determineStatus(status string) string {
	if value, ok := s.ActivityStatuses.Lookup(status); ok {
		return value
	}
	return s.Backbone.CompletedActivityStatus
}

func (s *VisitService) buildDetails(notes string, lines []string) string {
	if strings.TrimSpace(notes) != "" {
		lines = append(lines, "Notes: "+notes)
	}
	return strings.Join(lines, "\r\n")
}

// keepCustomValue übernimmt einen Quellwert nur, wenn er weder leer noch
// der Platzhalter "0.00" ist.
func keepCustomValue(value string) string {
	if value == "" || value == "0.00" {
		return ""
	}
	return value
}

func (s *VisitService) isDataValid(row *models.VisitImport, log *RunLog) bool {
	if strings.TrimSpace(row.SampleID) == "" {
		log.Error(fmt.Sprintf("Empty sample_id or no sample_id in source data with id: %d", row.ID))
		return false
	}
	return true
}
