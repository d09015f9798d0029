package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"*/15 * * * *"`

	// Kontakt, der als Quelle aller Migrationsaktivitäten eingetragen wird.
	MigrationContactID uint `envconfig:"MIGRATION_CONTACT_ID" default:"1"`

	// Batch-Größe pro Aufruf; die Migration läuft in wiederholten,
	// unabhängigen Durchläufen bis die Staging-Tabellen leer sind.
	BatchSize int `envconfig:"BATCH_SIZE" default:"5000"`

	// Domains, die beim geplanten Lauf migriert werden.
	EnabledDomains string `envconfig:"ENABLED_DOMAINS" default:"communication,participation,visit,consentlink"`

	// Verzeichnis für die Lauf-Logdateien (eine Datei pro Migrationslauf).
	LogDir string `envconfig:"LOG_DIR" default:"./migration-logs"`

	// S3-Archiv für die Lauf-Logdateien (cmd/logship).
	ArchiveS3Key    string `envconfig:"ARCHIVE_S3_KEY"`
	ArchiveS3Secret string `envconfig:"ARCHIVE_S3_SECRET"`
	ArchiveS3URL    string `envconfig:"ARCHIVE_S3_URL"`
	ArchiveS3Region string `envconfig:"ARCHIVE_S3_REGION"`
	ArchiveS3Bucket string `envconfig:"ARCHIVE_S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
