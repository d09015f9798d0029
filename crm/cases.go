package crm

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"starfish-migrate/models"
)

// CaseLocator sucht Rekrutierungs- und Teilnahmefälle eines Kontakts.
type CaseLocator struct {
	DB       *gorm.DB
	Backbone *Backbone
	Logger   *zap.Logger
}

// NewCaseLocator erstellt einen neuen CaseLocator.
func NewCaseLocator(db *gorm.DB, bb *Backbone, logger *zap.Logger) *CaseLocator {
	return &CaseLocator{DB: db, Backbone: bb, Logger: logger}
}

// RecruitmentCaseID liefert den nicht gelöschten Rekrutierungsfall des Kontakts.
func (l *CaseLocator) RecruitmentCaseID(contactID uint) (uint, error) {
	var row models.Case
	err := l.DB.Model(&models.Case{}).
		Joins("JOIN crm_case_contacts ON crm_case_contacts.case_id = crm_cases.id").
		Where("crm_case_contacts.contact_id = ?", contactID).
		Where("crm_cases.case_type = ? AND crm_cases.is_deleted = ?", l.Backbone.RecruitmentCaseType, false).
		Order("crm_cases.id DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return row.ID, nil
}

// ParticipationCaseID liefert den Teilnahmefall des Kontakts auf der Studie.
// Existieren mehrere, gewinnt der jüngste Fall (höchste ID); das wird als
// Datenanomalie protokolliert.
func (l *CaseLocator) ParticipationCaseID(contactID, studyID uint) (uint, error) {
	var ids []uint
	err := l.DB.Model(&models.Case{}).
		Joins("JOIN crm_case_contacts ON crm_case_contacts.case_id = crm_cases.id").
		Joins("JOIN crm_case_study_details ON crm_case_study_details.case_id = crm_cases.id").
		Where("crm_case_contacts.contact_id = ?", contactID).
		Where("crm_case_study_details.study_id = ?", studyID).
		Where("crm_cases.case_type = ? AND crm_cases.is_deleted = ?", l.Backbone.ParticipationCaseType, false).
		Order("crm_cases.id DESC").
		Pluck("crm_cases.id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	if len(ids) > 1 {
		l.Logger.Warn("Mehrere Teilnahmefälle auf derselben Studie, nehme den jüngsten",
			zap.Uint("contact_id", contactID), zap.Uint("study_id", studyID), zap.Int("cases", len(ids)))
	}
	return ids[0], nil
}

// IsOnStudy prüft, ob der Kontakt bereits einen Teilnahmefall auf der Studie hat.
func (l *CaseLocator) IsOnStudy(contactID, studyID uint) (bool, error) {
	_, err := l.ParticipationCaseID(contactID, studyID)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
