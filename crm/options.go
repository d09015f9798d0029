package crm

import (
	"strings"
	"unicode"

	"gorm.io/gorm"

	"starfish-migrate/models"
)

// OptionSet ist der In-Memory-Cache einer Optionsgruppe: kleingeschriebenes
// Label → Wert. Er wird einmal pro Orchestrator-Lauf geladen und wächst nur,
// wenn LookupOrCreate für eine offene Gruppe neue Werte anlegt. Der Cache wird
// nie zwischen parallel laufenden Orchestratoren geteilt.
type OptionSet struct {
	db        *gorm.DB
	groupID   uint
	groupName string
	values    map[string]string
}

// LoadOptionSet lädt alle aktiven Werte einer Optionsgruppe.
func LoadOptionSet(db *gorm.DB, groupName string) (*OptionSet, error) {
	var group models.OptionGroup
	if err := db.Where("name = ?", groupName).First(&group).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var rows []models.OptionValue
	if err := db.Where("option_group_id = ? AND is_active = ?", group.ID, true).Find(&rows).Error; err != nil {
		return nil, err
	}
	set := &OptionSet{
		db:        db,
		groupID:   group.ID,
		groupName: groupName,
		values:    make(map[string]string, len(rows)),
	}
	for _, row := range rows {
		set.values[strings.ToLower(row.Label)] = row.Value
	}
	return set, nil
}

// Lookup sucht einen Wert über das kleingeschriebene Label.
func (s *OptionSet) Lookup(label string) (string, bool) {
	value, ok := s.values[strings.ToLower(strings.TrimSpace(label))]
	return value, ok
}

// LookupOrCreate liefert den Wert zum Label und legt ihn an, wenn er fehlt:
// neuer Maschinenname aus dem Label, Gewicht = bisheriges Maximum + 1,
// aktiv und reserviert. Der neue Wert landet sofort im Cache, ein zweiter
// Lookup desselben Labels legt also nichts mehr an.
func (s *OptionSet) LookupOrCreate(label string) (string, error) {
	if value, ok := s.Lookup(label); ok {
		return value, nil
	}
	name := MachineName(label)
	var maxWeight int
	if err := s.db.Model(&models.OptionValue{}).
		Where("option_group_id = ?", s.groupID).
		Select("COALESCE(MAX(weight), 0)").
		Scan(&maxWeight).Error; err != nil {
		return "", err
	}
	row := models.OptionValue{
		OptionGroupID: s.groupID,
		Name:          name,
		Value:         name,
		Label:         label,
		IsActive:      true,
		IsReserved:    true,
		Weight:        maxWeight + 1,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return "", err
	}
	s.values[strings.ToLower(strings.TrimSpace(label))] = name
	return name, nil
}

// MachineName leitet aus einem Freitext-Label einen maschinenlesbaren
// Namen ab: Kleinbuchstaben, alles andere wird zu Unterstrichen zusammengefasst.
func MachineName(label string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
