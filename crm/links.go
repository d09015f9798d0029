package crm

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"starfish-migrate/models"
)

// Linker legt Pack- und Panel-Verknüpfungen an und prüft, ob sie schon existieren.
type Linker struct {
	DB       *gorm.DB
	Resolver *Resolver
	Logger   *zap.Logger
}

// NewLinker erstellt einen neuen Linker.
func NewLinker(db *gorm.DB, resolver *Resolver, logger *zap.Logger) *Linker {
	return &Linker{DB: db, Resolver: resolver, Logger: logger}
}

// PackLinkExists prüft, ob die Pack-Verknüpfung schon vorhanden ist.
// Leere Pack-IDs werden ohne Datenbankzugriff verneint.
func (l *Linker) PackLinkExists(activityID, contactID uint, packID string) (bool, error) {
	if activityID == 0 || contactID == 0 || strings.TrimSpace(packID) == "" {
		return false, nil
	}
	var count int64
	err := l.DB.Model(&models.ConsentPackLink{}).
		Where("activity_id = ? AND contact_id = ? AND pack_id = ?", activityID, contactID, packID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreatePackLink legt die Pack-Verknüpfung an.
func (l *Linker) CreatePackLink(activityID, contactID uint, packID, packIDType, createdFrom string) error {
	link := models.ConsentPackLink{
		ActivityID:  activityID,
		ContactID:   contactID,
		PackID:      packID,
		PackIDType:  packIDType,
		CreatedFrom: createdFrom,
	}
	return l.DB.Create(&link).Error
}

// PanelLinkExists prüft, ob die Panel-Verknüpfung schon vorhanden ist.
func (l *Linker) PanelLinkExists(activityID, contactID, panelEtcID uint) (bool, error) {
	if activityID == 0 || contactID == 0 || panelEtcID == 0 {
		return false, nil
	}
	var count int64
	err := l.DB.Model(&models.ConsentPanelLink{}).
		Where("activity_id = ? AND contact_id = ? AND panel_etc_id = ?", activityID, contactID, panelEtcID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreatePanelLink legt die Panel-Verknüpfung an.
func (l *Linker) CreatePanelLink(activityID, contactID, panelEtcID uint, createdFrom string) error {
	link := models.ConsentPanelLink{
		ActivityID:  activityID,
		ContactID:   contactID,
		PanelEtcID:  panelEtcID,
		CreatedFrom: createdFrom,
	}
	return l.DB.Create(&link).Error
}

// PanelSiteCentreID sucht den Freiwilligen-Panel-Eintrag des Kontakts, der zu
// den angegebenen Namen passt. Alle angegebenen Namen müssen auflösbar sein;
// nicht angegebene Spalten müssen im Eintrag leer sein. Genau ein Treffer ist
// erlaubt, mehrere gelten als Datenanomalie. Ohne jeden Namen gibt es keine
// Zuordnung; ein komplett leerer Panel-Eintrag zählt nicht als Treffer.
func (l *Linker) PanelSiteCentreID(contactID uint, centre, panel, site string) (uint, error) {
	if strings.TrimSpace(centre) == "" && strings.TrimSpace(panel) == "" && strings.TrimSpace(site) == "" {
		return 0, ErrNotFound
	}
	query := l.DB.Model(&models.VolunteerPanel{}).Where("contact_id = ?", contactID)

	type namedFilter struct {
		raw     string
		subType string
		column  string
	}
	filters := []namedFilter{
		{centre, "nbr_centre", "centre_id"},
		{panel, "nbr_panel", "panel_id"},
		{site, "nbr_site", "site_id"},
	}
	for _, f := range filters {
		if strings.TrimSpace(f.raw) == "" {
			query = query.Where(f.column + " IS NULL")
			continue
		}
		id, err := l.Resolver.ContactIDByTypedName(f.subType, strings.TrimSpace(f.raw))
		if err != nil {
			return 0, err
		}
		query = query.Where(f.column+" = ?", id)
	}

	var ids []uint
	if err := query.Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	if len(ids) > 1 {
		l.Logger.Warn("Mehrere Freiwilligen-Panel-Einträge passen, keine Zuordnung",
			zap.Uint("contact_id", contactID),
			zap.String("centre", centre), zap.String("panel", panel), zap.String("site", site))
		return 0, ErrNotFound
	}
	return ids[0], nil
}
