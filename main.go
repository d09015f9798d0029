package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"starfish-migrate/config"
	"starfish-migrate/crm"
	"starfish-migrate/models"
	"starfish-migrate/services"
	"starfish-migrate/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to migration database.")

	// Auto-Migration
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.CommunicationImport{}, &models.ParticipationImport{},
		&models.VisitImport{}, &models.ConsentLinkImport{},
		&models.Contact{}, &models.ContactIdentity{},
		&models.Group{}, &models.GroupContact{},
		&models.Study{},
		&models.Case{}, &models.CaseContact{}, &models.CaseStudyDetail{},
		&models.Activity{}, &models.ActivityVisitDetail{}, &models.ActivityConsentDetail{},
		&models.OptionGroup{}, &models.OptionValue{},
		&models.VolunteerPanel{}, &models.ConsentPackLink{}, &models.ConsentPanelLink{},
	)

	// Seeding
	if err := crm.SeedDefaults(db); err != nil {
		logging.Fatal("Option value seeding failed", zap.Error(err))
	}

	backbone, err := crm.LoadBackbone(db)
	if err != nil {
		logging.Fatal("Backbone values could not be resolved", zap.Error(err))
	}
	backbone.MigrationContactID = cfg.MigrationContactID

	driver, err := services.NewDriver(cfg, db, backbone, logging)
	if err != nil {
		logging.Fatal("Driver setup failed", zap.Error(err))
	}

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupMigrateRoutes(router, driver, db, logging)
	setupLogshipRoute(router, cfg, logging)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled migration job...")
		results := driver.RunAll()
		logging.Info("Scheduled migration job completed", zap.Strings("results", results))
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupMigrateRoutes(router *gin.Engine, driver *services.Driver, db *gorm.DB, logging *zap.Logger) {
	rg := router.Group("/migrate")

	runners := map[string]func() (string, error){
		"communication": driver.RunCommunication,
		"participation": driver.RunParticipation,
		"visit":         driver.RunVisit,
		"consent-link":  driver.RunConsentLink,
	}
	for domain, runner := range runners {
		run := runner
		rg.POST("/"+domain, func(c *gin.Context) {
			result, err := run()
			if err != nil {
				logging.Error("Migration run failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"result": result})
		})
	}

	rg.POST("/all", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"results": driver.RunAll()})
	})

	// Fortschritt: unverarbeitete Zeilen pro Staging-Tabelle
	rg.GET("/status", func(c *gin.Context) {
		tables := map[string]interface{}{
			"communication": &models.CommunicationImport{},
			"participation": &models.ParticipationImport{},
			"visit":         &models.VisitImport{},
			"consent_link":  &models.ConsentLinkImport{},
		}
		status := gin.H{}
		for name, model := range tables {
			var unprocessed int64
			if err := db.Model(model).Where("processed = ?", false).Count(&unprocessed).Error; err != nil {
				logging.Error("Database query for migration status failed", zap.String("table", name), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
				return
			}
			status[name] = unprocessed
		}
		c.JSON(http.StatusOK, status)
	})
}

// setupLogshipRoute lädt die Lauf-Logdateien einzeln ins S3-Archiv und räumt
// sie lokal weg. Für den regelmäßigen Versand gibt es cmd/logship.
func setupLogshipRoute(router *gin.Engine, cfg *config.Config, logging *zap.Logger) {
	router.POST("/logs/ship", func(c *gin.Context) {
		if cfg.ArchiveS3Bucket == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no log archive configured"})
			return
		}
		client, err := storage.NewS3Client(cfg)
		if err != nil {
			logging.Error("S3 client creation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "s3 client error"})
			return
		}
		entries, err := os.ReadDir(cfg.LogDir)
		if err != nil && !os.IsNotExist(err) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "log directory error"})
			return
		}
		var shipped []string
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
				continue
			}
			path := filepath.Join(cfg.LogDir, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				logging.Error("Could not read run log", zap.String("file", path), zap.Error(err))
				continue
			}
			if err := storage.UploadFile(c.Request.Context(), client, cfg.ArchiveS3Bucket, entry.Name(), data); err != nil {
				logging.Error("Could not upload run log", zap.String("file", path), zap.Error(err))
				continue
			}
			if err := os.Remove(path); err != nil {
				logging.Warn("Could not remove shipped run log", zap.String("file", path), zap.Error(err))
			}
			shipped = append(shipped, entry.Name())
		}
		c.JSON(http.StatusOK, gin.H{"shipped": shipped})
	})
}
