package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"starfish-migrate/crm"
	"starfish-migrate/models"
)

// dateTimeLayouts sind die Formate, in denen Starfish Datums- und
// Zeitangaben exportiert. Sie werden der Reihe nach probiert.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006",
}

// parseDateTime kombiniert die getrennten Datums- und Zeitfelder des Exports
// zu einem Zeitstempel. Eine leere Zeit ergibt Mitternacht.
func parseDateTime(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, fmt.Errorf("leeres Datum")
	}
	raw := date
	if clock != "" {
		raw = date + " " + clock
	}
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unlesbares Datum %q", raw)
}

// activityDraft ist die Vorlage für eine zu erstellende Aktivität.
// Fehlende Felder werden in writeActivity mit Standardwerten gefüllt.
type activityDraft struct {
	ActivityType string
	Status       string
	Medium       string
	CaseID       *uint
	TargetID     uint
	Subject      string
	Details      string
	Location     string
	DateTime     time.Time
}

// writeActivity erstellt eine Aktivität aus der Vorlage. Ohne Aktivitätstyp
// wird nichts geschrieben, nur gewarnt; Quelle ist immer der Migrationskontakt.
func writeActivity(db *gorm.DB, bb *crm.Backbone, log *RunLog, draft activityDraft) (uint, error) {
	if strings.TrimSpace(draft.ActivityType) == "" {
		payload, _ := json.Marshal(draft)
		log.Warn(fmt.Sprintf("Aktivität ohne Aktivitätstyp übersprungen, Vorlage: %s", payload))
		return 0, nil
	}
	if draft.DateTime.IsZero() {
		draft.DateTime = time.Now()
	}
	if strings.TrimSpace(draft.Subject) == "" {
		draft.Subject = "Starfish migration"
	}
	if strings.TrimSpace(draft.Status) == "" {
		draft.Status = bb.CompletedActivityStatus
	}
	activity := models.Activity{
		ActivityType:     draft.ActivityType,
		Status:           draft.Status,
		Medium:           draft.Medium,
		Priority:         bb.NormalPriority,
		CaseID:           draft.CaseID,
		SourceContactID:  bb.MigrationContactID,
		TargetContactID:  draft.TargetID,
		Subject:          draft.Subject,
		Details:          draft.Details,
		Location:         draft.Location,
		ActivityDateTime: draft.DateTime,
	}
	if err := db.Create(&activity).Error; err != nil {
		payload, _ := json.Marshal(draft)
		log.Error(fmt.Sprintf("Aktivität konnte nicht erstellt werden: %v, Vorlage: %s", err, payload))
		return 0, err
	}
	return activity.ID, nil
}
