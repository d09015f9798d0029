package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunLog schreibt pro Migrationslauf eine eigene Protokolldatei und spiegelt
// jede Zeile ins strukturierte Log. Die Datei heißt
// "<domain>_migration_<zeitstempel>.log" und listet Zeile für Zeile
// Schweregrad und Meldung, damit das Datenteam den Lauf ohne Logaggregator
// nachvollziehen kann.
type RunLog struct {
	RunID  string
	Domain string
	Logger *zap.Logger

	file *os.File
}

// NewRunLog öffnet die Protokolldatei für einen neuen Lauf.
func NewRunLog(logDir, domain string, logger *zap.Logger) (*RunLog, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("Log-Verzeichnis konnte nicht angelegt werden: %w", err)
	}
	runID := uuid.NewString()
	name := fmt.Sprintf("%s_migration_%s.log", domain, time.Now().Format("20060102_150405"))
	file, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("Protokolldatei konnte nicht geöffnet werden: %w", err)
	}
	return &RunLog{
		RunID:  runID,
		Domain: domain,
		Logger: logger.With(zap.String("run_id", runID), zap.String("domain", domain)),
		file:   file,
	}, nil
}

func (r *RunLog) write(severity, message string) {
	if r.file == nil {
		return
	}
	line := fmt.Sprintf("%s\t%s\t%s\n", time.Now().Format("2006-01-02 15:04:05"), severity, message)
	if _, err := r.file.WriteString(line); err != nil {
		r.Logger.Warn("Protokollzeile konnte nicht geschrieben werden", zap.Error(err))
	}
}

// Info protokolliert eine Meldung.
func (r *RunLog) Info(message string) {
	r.write("INFO", message)
	r.Logger.Info(message)
}

// Warn protokolliert eine Warnung.
func (r *RunLog) Warn(message string) {
	r.write("WARNING", message)
	r.Logger.Warn(message)
}

// Error protokolliert einen Fehler.
func (r *RunLog) Error(message string) {
	r.write("ERROR", message)
	r.Logger.Error(message)
}

// Debug protokolliert eine Detailmeldung nur in die Datei.
func (r *RunLog) Debug(message string) {
	r.write("DEBUG", message)
	r.Logger.Debug(message)
}

// Close schließt die Protokolldatei.
func (r *RunLog) Close() {
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			r.Logger.Warn("Protokolldatei konnte nicht geschlossen werden", zap.Error(err))
		}
		r.file = nil
	}
}
