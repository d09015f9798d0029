package crm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"starfish-migrate/crm"
	"starfish-migrate/models"
	"starfish-migrate/testutil"
)

func TestContactIDByIdentifier(t *testing.T) {
	db := testutil.DB(t)
	resolver := crm.NewResolver(db, zap.NewNop())

	contactID := testutil.SeedContact(t, db, "Jane", "", "Doe")
	testutil.SeedIdentity(t, db, contactID, models.IdentifierTypeParticipantID, "PID-100")

	found, err := resolver.ContactIDByIdentifier(models.IdentifierTypeParticipantID, "PID-100")
	require.NoError(t, err)
	assert.Equal(t, contactID, found)

	_, err = resolver.ContactIDByIdentifier(models.IdentifierTypeParticipantID, "PID-999")
	assert.ErrorIs(t, err, crm.ErrNotFound)

	// leere Kennungen treffen nie
	_, err = resolver.ContactIDByIdentifier(models.IdentifierTypeParticipantID, "  ")
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

func TestStudyIDByNumber(t *testing.T) {
	db := testutil.DB(t)
	resolver := crm.NewResolver(db, zap.NewNop())

	studyID := testutil.SeedStudy(t, db, "STU-1")

	found, err := resolver.StudyIDByNumber("STU-1")
	require.NoError(t, err)
	assert.Equal(t, studyID, found)

	_, err = resolver.StudyIDByNumber("STU-2")
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

func TestContactIDByTypedName(t *testing.T) {
	db := testutil.DB(t)
	resolver := crm.NewResolver(db, zap.NewNop())

	centreID := testutil.SeedOrganization(t, db, "nbr_centre", "Cambridge Centre")

	found, err := resolver.ContactIDByTypedName("nbr_centre", "Cambridge Centre")
	require.NoError(t, err)
	assert.Equal(t, centreID, found)

	// gleicher Name, falscher Subtyp
	_, err = resolver.ContactIDByTypedName("nbr_panel", "Cambridge Centre")
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

func TestCollectedByIDExactMatch(t *testing.T) {
	db := testutil.DB(t)
	resolver := crm.NewResolver(db, zap.NewNop())

	collectorID := testutil.SeedCollector(t, db, "Mary", "Ann", "Smith")

	found, err := resolver.CollectedByID("Mary Ann Smith")
	require.NoError(t, err)
	assert.Equal(t, collectorID, found)

	// Groß-/Kleinschreibung spielt keine Rolle
	found, err = resolver.CollectedByID("mary ann smith")
	require.NoError(t, err)
	assert.Equal(t, collectorID, found)
}

func TestCollectedByIDRejectsPartialMatch(t *testing.T) {
	db := testutil.DB(t)
	resolver := crm.NewResolver(db, zap.NewNop())

	testutil.SeedCollector(t, db, "Mary", "Ann", "Smith")

	// LIKE trifft, der normalisierte Name passt aber nicht exakt
	_, err := resolver.CollectedByID("Ann Smith")
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

func TestCollectedByIDRejectsAmbiguousName(t *testing.T) {
	db := testutil.DB(t)
	resolver := crm.NewResolver(db, zap.NewNop())

	testutil.SeedCollector(t, db, "John", "", "Smith")
	testutil.SeedCollector(t, db, "John", "", "Smithson")

	_, err := resolver.CollectedByID("John Smith")
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

func TestCollectedByIDIgnoresNonGroupMembers(t *testing.T) {
	db := testutil.DB(t)
	resolver := crm.NewResolver(db, zap.NewNop())

	// Kontakt existiert, ist aber kein BioResourcer
	testutil.SeedContact(t, db, "Paula", "", "Jones")

	_, err := resolver.CollectedByID("Paula Jones")
	assert.ErrorIs(t, err, crm.ErrNotFound)
}
