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

func newParticipationService(t *testing.T, db *gorm.DB, bb *crm.Backbone) *services.ParticipationService {
	t.Helper()
	resolver := crm.NewResolver(db, zap.NewNop())
	cases := crm.NewCaseLocator(db, bb, zap.NewNop())
	statuses, err := crm.LoadOptionSet(db, models.OptionGroupParticipationStatus)
	require.NoError(t, err)
	return services.NewParticipationService(db, bb, resolver, cases, statuses)
}

func TestParticipationCreatesCaseWithStudyDetail(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newParticipationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "SAMPLE-1")
	studyID := testutil.SeedStudy(t, db, "STU-1")

	row := models.ParticipationImport{
		SampleID:                 "SAMPLE-1",
		StudyNumber:              "STU-1",
		Status:                   "Invited",
		AnonStudyParticipationID: "ANON-7",
		DateInvited:              "2019-04-02",
		RecallGroup:              "Group B",
	}
	assert.True(t, svc.Migrate(&row, nopRunLog()))

	var c models.Case
	require.NoError(t, db.First(&c).Error)
	assert.Equal(t, bb.ParticipationCaseType, c.CaseType)

	var caseContact models.CaseContact
	require.NoError(t, db.First(&caseContact).Error)
	assert.Equal(t, contactID, caseContact.ContactID)

	var detail models.CaseStudyDetail
	require.NoError(t, db.First(&detail).Error)
	assert.Equal(t, c.ID, detail.CaseID)
	assert.Equal(t, studyID, detail.StudyID)
	assert.Equal(t, "ANON-7", detail.StudyParticipantID)
	assert.Equal(t, "invited", detail.ParticipationStatus)
	assert.Equal(t, "Group B", detail.RecallGroup)
	require.NotNil(t, detail.DateInvited)
	assert.Equal(t, "2019-04-02", detail.DateInvited.Format("2006-01-02"))

	// Studienteilnehmer-Kennung wird an die Identitätshistorie angehängt
	var identity models.ContactIdentity
	err := db.Where("identifier_type = ?", models.IdentifierTypeStudyParticipantID).First(&identity).Error
	require.NoError(t, err)
	assert.Equal(t, "ANON-7", identity.Identifier)
	assert.Equal(t, contactID, identity.ContactID)
}

func TestParticipationDeclinedMapsToRefused(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newParticipationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "SAMPLE-1")
	testutil.SeedStudy(t, db, "STU-1")

	row := models.ParticipationImport{
		SampleID:                 "SAMPLE-1",
		StudyNumber:              "STU-1",
		Status:                   "Declined",
		AnonStudyParticipationID: "ANON-7",
	}
	assert.True(t, svc.Migrate(&row, nopRunLog()))

	var detail models.CaseStudyDetail
	require.NoError(t, db.First(&detail).Error)
	assert.Equal(t, bb.RefusedParticipationStatus, detail.ParticipationStatus)
}

func TestParticipationUnknownStatusFallsBackToSelected(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newParticipationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "SAMPLE-1")
	testutil.SeedStudy(t, db, "STU-1")

	row := models.ParticipationImport{
		SampleID:                 "SAMPLE-1",
		StudyNumber:              "STU-1",
		Status:                   "Mystery",
		AnonStudyParticipationID: "ANON-7",
	}
	assert.True(t, svc.Migrate(&row, nopRunLog()))

	var detail models.CaseStudyDetail
	require.NoError(t, db.First(&detail).Error)
	assert.Equal(t, bb.SelectedParticipationStatus, detail.ParticipationStatus)
}

func TestParticipationValidation(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newParticipationService(t, db, bb)

	// Status ungleich selected verlangt eine anonyme Teilnahme-ID
	row := models.ParticipationImport{
		SampleID:    "SAMPLE-1",
		StudyNumber: "STU-1",
		Status:      "Invited",
	}
	assert.False(t, svc.Migrate(&row, nopRunLog()))

	// selected kommt ohne anonyme Teilnahme-ID aus
	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "SAMPLE-1")
	testutil.SeedStudy(t, db, "STU-1")
	row = models.ParticipationImport{
		SampleID:    "SAMPLE-1",
		StudyNumber: "STU-1",
		Status:      "Selected",
	}
	assert.True(t, svc.Migrate(&row, nopRunLog()))
}

func TestParticipationDuplicateGuard(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newParticipationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "SAMPLE-1")
	testutil.SeedStudy(t, db, "STU-1")

	row := models.ParticipationImport{
		SampleID:                 "SAMPLE-1",
		StudyNumber:              "STU-1",
		Status:                   "Invited",
		AnonStudyParticipationID: "ANON-7",
	}
	assert.True(t, svc.Migrate(&row, nopRunLog()))
	// zweite Zeile für dieselbe Studie legt keinen zweiten Fall an
	assert.False(t, svc.Migrate(&row, nopRunLog()))

	var count int64
	require.NoError(t, db.Model(&models.Case{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestParticipationDependentActivities(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)
	svc := newParticipationService(t, db, bb)

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "SAMPLE-1")
	testutil.SeedStudy(t, db, "STU-1")

	row := models.ParticipationImport{
		SampleID:                 "SAMPLE-1",
		StudyNumber:              "STU-1",
		Status:                   "Participated",
		AnonStudyParticipationID: "ANON-7",
		DateSentToResearcher:     "2019-06-01",
		DateAnswered:             "2019-06-20",
		Notes:                    "Rang twice before answer",
	}
	assert.True(t, svc.Migrate(&row, nopRunLog()))

	var types []string
	require.NoError(t, db.Model(&models.Activity{}).Order("id ASC").Pluck("activity_type", &types).Error)
	assert.Equal(t, []string{
		bb.SentToResearcherActivityType,
		bb.StatusChangeActivityType,
		bb.NoteActivityType,
	}, types)

	var note models.Activity
	require.NoError(t, db.Where("activity_type = ?", bb.NoteActivityType).First(&note).Error)
	assert.Equal(t, "Rang twice before answer", note.Details)
}
