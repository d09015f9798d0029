package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"starfish-migrate/models"
	"starfish-migrate/testutil"
)

func TestParseDateTime(t *testing.T) {
	parsed, err := parseDateTime("2019-05-01", "10:30")
	require.NoError(t, err)
	assert.Equal(t, "2019-05-01 10:30:00", parsed.Format("2006-01-02 15:04:05"))

	// leere Zeit ergibt Mitternacht
	parsed, err = parseDateTime("2019-05-01", "")
	require.NoError(t, err)
	assert.Equal(t, "2019-05-01 00:00:00", parsed.Format("2006-01-02 15:04:05"))

	// britisches Exportformat
	parsed, err = parseDateTime("01/05/2019", "")
	require.NoError(t, err)
	assert.Equal(t, "2019-05-01", parsed.Format("2006-01-02"))

	_, err = parseDateTime("", "10:30")
	assert.Error(t, err)

	_, err = parseDateTime("soon", "")
	assert.Error(t, err)
}

func TestWriteActivitySkipsEmptyTypeWithPayload(t *testing.T) {
	db := testutil.DB(t)
	bb := testutil.Backbone(t, db)

	core, logs := observer.New(zap.WarnLevel)
	log := &RunLog{Logger: zap.New(core)}

	id, err := writeActivity(db, bb, log, activityDraft{
		TargetID: 7,
		Subject:  "Visit on 01-05-2019",
	})
	require.NoError(t, err)
	assert.Zero(t, id)

	var count int64
	require.NoError(t, db.Model(&models.Activity{}).Count(&count).Error)
	assert.Zero(t, count)

	// Warnung enthält die Vorlage als JSON zum Nachvollziehen
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "ohne Aktivitätstyp")
	assert.Contains(t, entries[0].Message, `"Subject":"Visit on 01-05-2019"`)
}

func TestKeepCustomValue(t *testing.T) {
	assert.Empty(t, keepCustomValue(""))
	assert.Empty(t, keepCustomValue("0.00"))
	assert.Equal(t, "4.50", keepCustomValue("4.50"))
}

func TestUsableVersion(t *testing.T) {
	assert.False(t, usableVersion(""))
	assert.False(t, usableVersion("  "))
	assert.False(t, usableVersion("n/a"))
	assert.False(t, usableVersion("N/A"))
	assert.True(t, usableVersion("1.2"))
}
