package services

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"starfish-migrate/config"
	"starfish-migrate/crm"
	"starfish-migrate/models"
)

var (
	migratedRowsCounter *prometheus.CounterVec
	failedRowsCounter   *prometheus.CounterVec
)

func init() {
	migratedRowsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "migrated_rows_total",
			Help: "Total number of staging rows migrated into the CRM.",
		},
		[]string{"domain"},
	)
	failedRowsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "failed_rows_total",
			Help: "Total number of staging rows that could not be migrated.",
		},
		[]string{"domain"},
	)
	prometheus.MustRegister(migratedRowsCounter, failedRowsCounter)
}

// Driver fährt die Batch-Läufe über die Staging-Tabellen. Jeder Lauf holt
// höchstens BatchSize unverarbeitete Zeilen, markiert jede Zeile vor der
// Migration als verarbeitet und bricht bei Zeilenfehlern nie den Batch ab.
type Driver struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Logger *zap.Logger

	Communications *CommunicationService
	Participations *ParticipationService
	Visits         *VisitService
	ConsentLinks   *ConsentLinkService
}

// NewDriver verdrahtet alle Migrationsdienste.
func NewDriver(cfg *config.Config, db *gorm.DB, bb *crm.Backbone, logger *zap.Logger) (*Driver, error) {
	resolver := crm.NewResolver(db, logger)
	cases := crm.NewCaseLocator(db, bb, logger)
	linker := crm.NewLinker(db, resolver, logger)

	statuses, err := crm.LoadOptionSet(db, models.OptionGroupParticipationStatus)
	if err != nil {
		return nil, fmt.Errorf("Teilnahmestatus-Gruppe konnte nicht geladen werden: %w", err)
	}
	visits, err := NewVisitService(db, bb, resolver, cases)
	if err != nil {
		return nil, err
	}
	return &Driver{
		Cfg:            cfg,
		DB:             db,
		Logger:         logger,
		Communications: NewCommunicationService(db, bb, resolver, cases),
		Participations: NewParticipationService(db, bb, resolver, cases, statuses),
		Visits:         visits,
		ConsentLinks:   NewConsentLinkService(db, resolver, linker),
	}, nil
}

// RunCommunication migriert einen Batch Kommunikationszeilen.
func (d *Driver) RunCommunication() (string, error) {
	log, err := NewRunLog(d.Cfg.LogDir, "communication", d.Logger)
	if err != nil {
		return "", err
	}
	defer log.Close()

	var rows []models.CommunicationImport
	if err := d.fetchBatch(&rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "All communication records in table migrated", nil
	}
	for i := range rows {
		if err := d.markProcessed(&models.CommunicationImport{}, rows[i].ID); err != nil {
			return "", err
		}
		d.count("communication", d.Communications.Migrate(&rows[i], log))
	}
	return fmt.Sprintf("%d communication activities migrated, more runs required.", len(rows)), nil
}

// RunParticipation migriert einen Batch Teilnahmeepisoden.
func (d *Driver) RunParticipation() (string, error) {
	log, err := NewRunLog(d.Cfg.LogDir, "participation", d.Logger)
	if err != nil {
		return "", err
	}
	defer log.Close()

	var rows []models.ParticipationImport
	if err := d.fetchBatch(&rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "All participation records in table migrated", nil
	}
	for i := range rows {
		if err := d.markProcessed(&models.ParticipationImport{}, rows[i].ID); err != nil {
			return "", err
		}
		d.count("participation", d.Participations.Migrate(&rows[i], log))
	}
	return fmt.Sprintf("%d participation cases migrated, more runs required.", len(rows)), nil
}

// RunVisit migriert einen Batch Besuche.
func (d *Driver) RunVisit() (string, error) {
	log, err := NewRunLog(d.Cfg.LogDir, "visit", d.Logger)
	if err != nil {
		return "", err
	}
	defer log.Close()

	var rows []models.VisitImport
	if err := d.fetchBatch(&rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "All visit records in table migrated", nil
	}
	for i := range rows {
		if err := d.markProcessed(&models.VisitImport{}, rows[i].ID); err != nil {
			return "", err
		}
		d.count("visit", d.Visits.Migrate(&rows[i], log))
	}
	return fmt.Sprintf("%d visit activities migrated, more runs required.", len(rows)), nil
}

// RunConsentLink migriert einen Batch Einwilligungs-Verknüpfungen.
func (d *Driver) RunConsentLink() (string, error) {
	log, err := NewRunLog(d.Cfg.LogDir, "consent_link", d.Logger)
	if err != nil {
		return "", err
	}
	defer log.Close()

	var rows []models.ConsentLinkImport
	if err := d.fetchBatch(&rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "All consent link records in table migrated", nil
	}
	for i := range rows {
		if err := d.markProcessed(&models.ConsentLinkImport{}, rows[i].ID); err != nil {
			return "", err
		}
		outcome := d.ConsentLinks.Migrate(&rows[i], log)
		d.count("consentlink", outcome == "migrated")
		log.Info(outcome)
	}
	return fmt.Sprintf("%d consent link records migrated, more runs required.", len(rows)), nil
}

// RunAll fährt alle in der Konfiguration aktivierten Domains nacheinander.
func (d *Driver) RunAll() []string {
	runners := map[string]func() (string, error){
		"communication": d.RunCommunication,
		"participation": d.RunParticipation,
		"visit":         d.RunVisit,
		"consentlink":   d.RunConsentLink,
	}
	var results []string
	for _, domain := range strings.Split(d.Cfg.EnabledDomains, ",") {
		domain = strings.TrimSpace(domain)
		runner, ok := runners[domain]
		if !ok {
			d.Logger.Warn("Unbekannte Domain in ENABLED_DOMAINS", zap.String("domain", domain))
			continue
		}
		result, err := runner()
		if err != nil {
			d.Logger.Error("Migrationslauf fehlgeschlagen", zap.String("domain", domain), zap.Error(err))
			continue
		}
		d.Logger.Info("Migrationslauf abgeschlossen", zap.String("domain", domain), zap.String("result", result))
		results = append(results, result)
	}
	return results
}

func (d *Driver) fetchBatch(dest interface{}) error {
	return d.DB.Where("processed = ?", false).Limit(d.Cfg.BatchSize).Order("id ASC").Find(dest).Error
}

func (d *Driver) markProcessed(model interface{}, id uint) error {
	return d.DB.Model(model).Where("id = ?", id).Update("processed", true).Error
}

func (d *Driver) count(domain string, migrated bool) {
	if migrated {
		migratedRowsCounter.WithLabelValues(domain).Inc()
	} else {
		failedRowsCounter.WithLabelValues(domain).Inc()
	}
}
