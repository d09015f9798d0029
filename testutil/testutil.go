// Package testutil stellt eine in-memory Testdatenbank mit dem kompletten
// Schema und den Standard-Optionswerten bereit, plus Seeder für die
// CRM-Datensätze, die die Migration nur auflöst und nie selbst anlegt.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"starfish-migrate/crm"
	"starfish-migrate/models"
)

// DB öffnet eine frische in-memory SQLite-Datenbank mit migriertem Schema
// und gesäten Standardwerten.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(tb, err)

	err = db.AutoMigrate(
		&models.CommunicationImport{}, &models.ParticipationImport{},
		&models.VisitImport{}, &models.ConsentLinkImport{},
		&models.Contact{}, &models.ContactIdentity{},
		&models.Group{}, &models.GroupContact{},
		&models.Study{},
		&models.Case{}, &models.CaseContact{}, &models.CaseStudyDetail{},
		&models.Activity{}, &models.ActivityVisitDetail{}, &models.ActivityConsentDetail{},
		&models.OptionGroup{}, &models.OptionValue{},
		&models.VolunteerPanel{}, &models.ConsentPackLink{}, &models.ConsentPanelLink{},
	)
	require.NoError(tb, err)
	require.NoError(tb, crm.SeedDefaults(db))
	return db
}

// Backbone lädt die Backbone-Werte aus der Testdatenbank.
func Backbone(tb testing.TB, db *gorm.DB) *crm.Backbone {
	tb.Helper()
	bb, err := crm.LoadBackbone(db)
	require.NoError(tb, err)
	bb.MigrationContactID = 1
	return bb
}

// SeedContact legt einen Personenkontakt an.
func SeedContact(tb testing.TB, db *gorm.DB, firstName, middleName, lastName string) uint {
	tb.Helper()
	parts := []string{firstName}
	if middleName != "" {
		parts = append(parts, middleName)
	}
	parts = append(parts, lastName)
	contact := models.Contact{
		ContactType: "Individual",
		FirstName:   firstName,
		MiddleName:  middleName,
		LastName:    lastName,
		DisplayName: strings.Join(parts, " "),
	}
	require.NoError(tb, db.Create(&contact).Error)
	return contact.ID
}

// SeedOrganization legt einen Organisationskontakt mit Subtyp an.
func SeedOrganization(tb testing.TB, db *gorm.DB, subType, name string) uint {
	tb.Helper()
	contact := models.Contact{
		ContactType:      "Organization",
		ContactSubType:   subType,
		DisplayName:      name,
		OrganizationName: name,
	}
	require.NoError(tb, db.Create(&contact).Error)
	return contact.ID
}

// SeedIdentity hängt einem Kontakt eine Kennung in der Identitätshistorie an.
func SeedIdentity(tb testing.TB, db *gorm.DB, contactID uint, identifierType, identifier string) {
	tb.Helper()
	identity := models.ContactIdentity{
		ContactID:      contactID,
		IdentifierType: identifierType,
		Identifier:     identifier,
	}
	require.NoError(tb, db.Create(&identity).Error)
}

// SeedStudy legt eine Studie an.
func SeedStudy(tb testing.TB, db *gorm.DB, studyNumber string) uint {
	tb.Helper()
	study := models.Study{StudyNumber: studyNumber, Title: "Study " + studyNumber}
	require.NoError(tb, db.Create(&study).Error)
	return study.ID
}

// SeedCase legt einen Fall samt Fallkontakt an.
func SeedCase(tb testing.TB, db *gorm.DB, contactID uint, caseType string) uint {
	tb.Helper()
	c := models.Case{CaseType: caseType, Subject: "seeded case"}
	require.NoError(tb, db.Create(&c).Error)
	require.NoError(tb, db.Create(&models.CaseContact{CaseID: c.ID, ContactID: contactID}).Error)
	return c.ID
}

// SeedParticipationCase legt einen Teilnahmefall mit Studiendetail an.
func SeedParticipationCase(tb testing.TB, db *gorm.DB, bb *crm.Backbone, contactID, studyID uint) uint {
	tb.Helper()
	caseID := SeedCase(tb, db, contactID, bb.ParticipationCaseType)
	detail := models.CaseStudyDetail{
		CaseID:              caseID,
		StudyID:             studyID,
		ParticipationStatus: bb.SelectedParticipationStatus,
	}
	require.NoError(tb, db.Create(&detail).Error)
	return caseID
}

// SeedCollector legt einen Blutabnehmer-Kontakt in der BioResourcers-Gruppe an.
func SeedCollector(tb testing.TB, db *gorm.DB, firstName, middleName, lastName string) uint {
	tb.Helper()
	contactID := SeedContact(tb, db, firstName, middleName, lastName)
	var group models.Group
	require.NoError(tb, db.Where("title = ?", crm.CollectorGroupTitle).First(&group).Error)
	membership := models.GroupContact{GroupID: group.ID, ContactID: contactID, Status: "Added"}
	require.NoError(tb, db.Create(&membership).Error)
	return contactID
}

// SeedConsentActivity legt eine Einwilligungs-Aktivität mit Detailsatz an.
func SeedConsentActivity(tb testing.TB, db *gorm.DB, bb *crm.Backbone, contactID uint, consentVersion string, at time.Time) uint {
	tb.Helper()
	activity := models.Activity{
		ActivityType:     bb.ConsentStage2ActivityType,
		Status:           bb.CompletedActivityStatus,
		Priority:         bb.NormalPriority,
		SourceContactID:  bb.MigrationContactID,
		TargetContactID:  contactID,
		Subject:          "seeded consent",
		ActivityDateTime: at,
	}
	require.NoError(tb, db.Create(&activity).Error)
	detail := models.ActivityConsentDetail{ActivityID: activity.ID, ConsentVersion: consentVersion}
	require.NoError(tb, db.Create(&detail).Error)
	return activity.ID
}

// SeedVolunteerPanel legt einen Centre/Panel/Site-Eintrag für einen Kontakt an.
func SeedVolunteerPanel(tb testing.TB, db *gorm.DB, contactID uint, centreID, panelID, siteID *uint) uint {
	tb.Helper()
	panel := models.VolunteerPanel{ContactID: contactID, CentreID: centreID, PanelID: panelID, SiteID: siteID}
	require.NoError(tb, db.Create(&panel).Error)
	return panel.ID
}

// Uint gibt einen *uint zurück, praktisch für optionale Spalten.
func Uint(v uint) *uint {
	return &v
}
