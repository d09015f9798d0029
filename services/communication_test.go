package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"starfish-migrate/crm"
	"starfish-migrate/models"
	"starfish-migrate/services"
	"starfish-migrate/testutil"
)

func newCommunicationService(t *testing.T, db *gorm.DB, bb *crm.Backbone) *services.CommunicationService {
	t.Helper()
	resolver := crm.NewResolver(db, zap.NewNop())
	cases := crm.NewCaseLocator(db, bb, zap.NewNop())
	return services.NewCommunicationService(db, bb, resolver, cases)
}

func nopRunLog() *services.RunLog {
	return &services.RunLog{Logger: zap.NewNop()}
}

func TestCommunicationRecruitmentCase(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newCommunicationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "PID-1")
	caseID := testutil.SeedCase(t, db, contactID, bb.RecruitmentCaseType)

	row := models.CommunicationImport{
		ParticipantID:          "PID-1",
		CommunicationType:      1,
		TemplateType:           "Email",
		TemplateName:           "Welcome pack",
		CommunicationDirection: "Outgoing",
		CommunicationCategory:  "Recruitment",
		CommunicationNotes:     "Sent with leaflet",
		ContactDetail:          "jane@example.org",
		Status:                 "Sent",
		CommunicationDate:      "2019-05-01",
		CommunicationTime:      "10:30",
	}
	assert.True(t, svc.Migrate(&row, nopRunLog()))

	var activity models.Activity
	require.NoError(t, db.First(&activity).Error)
	assert.Equal(t, bb.EmailActivityType, activity.ActivityType)
	assert.Equal(t, bb.EmailMedium, activity.Medium)
	assert.Equal(t, bb.CompletedActivityStatus, activity.Status)
	assert.Equal(t, bb.NormalPriority, activity.Priority)
	require.NotNil(t, activity.CaseID)
	assert.Equal(t, caseID, *activity.CaseID)
	assert.Equal(t, contactID, activity.TargetContactID)
	assert.Equal(t, bb.MigrationContactID, activity.SourceContactID)
	assert.Equal(t, "Welcome pack (migration)", activity.Subject)
	assert.Equal(t, "jane@example.org", activity.Location)
	assert.Contains(t, activity.Details, "Communication category: Recruitment")
	assert.Contains(t, activity.Details, "Communication note: Sent with leaflet")
	assert.Equal(t, 2019, activity.ActivityDateTime.Year())
	assert.Equal(t, 10, activity.ActivityDateTime.Hour())
}

func TestCommunicationParticipationCase(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newCommunicationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "P100")
	studyID := testutil.SeedStudy(t, db, "S1")
	caseID := testutil.SeedParticipationCase(t, db, bb, contactID, studyID)
	// Rekrutierungsfall desselben Kontakts darf Typ 2 nicht einfangen
	testutil.SeedCase(t, db, contactID, bb.RecruitmentCaseType)

	row := models.CommunicationImport{
		ParticipantID:          "P100",
		CommunicationType:      2,
		StudyNumber:            "S1",
		TemplateType:           "Email",
		TemplateName:           "Study update",
		CommunicationDirection: "Outgoing",
		Status:                 "Sent",
		CommunicationDate:      "2021-01-05",
		CommunicationTime:      "09:00",
	}
	assert.True(t, svc.Migrate(&row, nopRunLog()))

	var activity models.Activity
	require.NoError(t, db.First(&activity).Error)
	require.NotNil(t, activity.CaseID)
	assert.Equal(t, caseID, *activity.CaseID)
	assert.Equal(t, bb.EmailActivityType, activity.ActivityType)
	assert.Equal(t, bb.EmailMedium, activity.Medium)
	assert.Equal(t, bb.CompletedActivityStatus, activity.Status)
	assert.Equal(t, "Study update (migration)", activity.Subject)
	assert.Equal(t, contactID, activity.TargetContactID)
	assert.Equal(t, 9, activity.ActivityDateTime.Hour())
}

func TestCommunicationParticipationCaseMissingStudy(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newCommunicationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "P100")

	row := models.CommunicationImport{
		ParticipantID:     "P100",
		CommunicationType: 2,
		StudyNumber:       "UNKNOWN",
		TemplateType:      "Email",
		CommunicationDate: "2021-01-05",
	}
	assert.False(t, svc.Migrate(&row, nopRunLog()))

	var count int64
	require.NoError(t, db.Model(&models.Activity{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommunicationIncomingDirectionWins(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newCommunicationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "PID-1")

	row := models.CommunicationImport{
		ParticipantID:          "PID-1",
		TemplateType:           "Letter",
		TemplateName:           "Query",
		CommunicationDirection: "Incoming",
		Status:                 "Received",
		CommunicationDate:      "2019-05-01",
	}
	assert.True(t, svc.Migrate(&row, nopRunLog()))

	var activity models.Activity
	require.NoError(t, db.First(&activity).Error)
	assert.Equal(t, bb.IncomingActivityType, activity.ActivityType)
	// Kommunikation ohne Typ 1/2 hängt an keinem Fall und bekommt kein Medium
	assert.Nil(t, activity.CaseID)
	assert.Empty(t, activity.Medium)
}

func TestCommunicationStatusMapping(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newCommunicationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "PID-1")

	row := models.CommunicationImport{
		ParticipantID:     "PID-1",
		TemplateType:      "Letter",
		TemplateName:      "Invite",
		Status:            "Return to sender",
		CommunicationDate: "2019-05-01",
	}
	assert.True(t, svc.Migrate(&row, nopRunLog()))

	var activity models.Activity
	require.NoError(t, db.First(&activity).Error)
	assert.Equal(t, bb.ReturnToSenderActivityStatus, activity.Status)
}

func TestCommunicationUnresolvedContact(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newCommunicationService(t, db, bb)

	row := models.CommunicationImport{
		ParticipantID:     "PID-404",
		CommunicationDate: "2019-05-01",
	}
	assert.False(t, svc.Migrate(&row, nopRunLog()))

	var count int64
	require.NoError(t, db.Model(&models.Activity{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommunicationMissingRecruitmentCase(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newCommunicationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "PID-1")

	row := models.CommunicationImport{
		ParticipantID:     "PID-1",
		CommunicationType: 1,
		TemplateName:      "Invite",
		CommunicationDate: "2019-05-01",
	}
	assert.False(t, svc.Migrate(&row, nopRunLog()))
}

func TestCommunicationUnparseableDate(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newCommunicationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "PID-1")

	row := models.CommunicationImport{
		ParticipantID:     "PID-1",
		TemplateName:      "Invite",
		CommunicationDate: "not a date",
	}
	assert.False(t, svc.Migrate(&row, nopRunLog()))
}

func TestCommunicationEmptyParticipantID(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newCommunicationService(t, db, bb)

	row := models.CommunicationImport{CommunicationDate: "2019-05-01"}
	assert.False(t, svc.Migrate(&row, nopRunLog()))
}
