package crm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starfish-migrate/crm"
	"starfish-migrate/models"
	"starfish-migrate/testutil"
)

func TestMachineName(t *testing.T) {
	cases := map[string]string{
		"Bank transfer":       "bank_transfer",
		"Consent v1.2 (2019)": "consent_v1_2_2019",
		"  Padded  ":          "padded",
		"already_machine":     "already_machine",
		"Visit stage 2":       "visit_stage_2",
		"n/a":                 "n_a",
	}
	for label, want := range cases {
		assert.Equal(t, want, crm.MachineName(label))
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	db := testutil.DB(t)
	set, err := crm.LoadOptionSet(db, models.OptionGroupStudyPayment)
	require.NoError(t, err)

	value, ok := set.Lookup("BANK TRANSFER")
	require.True(t, ok)
	assert.Equal(t, "bank_transfer", value)

	_, ok = set.Lookup("no such payment")
	assert.False(t, ok)
}

func TestLookupOrCreateAssignsNextWeight(t *testing.T) {
	db := testutil.DB(t)
	set, err := crm.LoadOptionSet(db, models.OptionGroupStudyPayment)
	require.NoError(t, err)

	value, err := set.LookupOrCreate("Gift card")
	require.NoError(t, err)
	assert.Equal(t, "gift_card", value)

	var row models.OptionValue
	require.NoError(t, db.Where("value = ?", "gift_card").First(&row).Error)
	// drei gesäte Werte, der neue bekommt das nächste Gewicht
	assert.Equal(t, 4, row.Weight)
	assert.True(t, row.IsActive)
	assert.True(t, row.IsReserved)
	assert.Equal(t, "Gift card", row.Label)
}

func TestLookupOrCreateHitsCacheOnSecondCall(t *testing.T) {
	db := testutil.DB(t)
	set, err := crm.LoadOptionSet(db, models.OptionGroupConsentVersion)
	require.NoError(t, err)

	first, err := set.LookupOrCreate("Consent 1.4")
	require.NoError(t, err)
	second, err := set.LookupOrCreate("consent 1.4")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var count int64
	require.NoError(t, db.Model(&models.OptionValue{}).Where("value = ?", first).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLoadOptionSetUnknownGroup(t *testing.T) {
	db := testutil.DB(t)
	_, err := crm.LoadOptionSet(db, "no_such_group")
	assert.ErrorIs(t, err, crm.ErrNotFound)
}
