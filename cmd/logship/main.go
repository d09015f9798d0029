package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kelseyhightower/envconfig"
)

type LogshipConfig struct {
	LogDir           string `envconfig:"LOG_DIR" default:"./migration-logs"`
	ArchiveBucket    string `envconfig:"ARCHIVE_S3_BUCKET" required:"true"`
	ArchiveEndpoint  string `envconfig:"ARCHIVE_S3_URL" required:"true"`
	ArchiveAccessKey string `envconfig:"ARCHIVE_S3_KEY" required:"true"`
	ArchiveSecretKey string `envconfig:"ARCHIVE_S3_SECRET" required:"true"`
	ArchiveRegion    string `envconfig:"ARCHIVE_S3_REGION" required:"true"`
	KeepArchives     int    `envconfig:"KEEP_ARCHIVES" default:"8"`
	DeleteShipped    bool   `envconfig:"DELETE_SHIPPED" default:"true"`
}

func main() {
	log.Println("Starte Logversand...")

	var cfg LogshipConfig
	err := envconfig.Process("", &cfg)
	if err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}

	// 1. Lauf-Logdateien einsammeln und packen
	archive, files, err := packLogs(cfg.LogDir)
	if err != nil {
		log.Fatalf("Fehler beim Packen der Logdateien: %v", err)
	}
	if len(files) == 0 {
		log.Println("Keine Logdateien vorhanden, nichts zu tun.")
		return
	}

	// 2. S3-Client erstellen
	s3Client, err := createS3Client(cfg)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des S3-Clients: %v", err)
	}

	// 3. Archiv nach S3 hochladen
	fileName := fmt.Sprintf("migration-logs-%s.tar.gz", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	err = uploadToS3(s3Client, cfg, fileName, archive)
	if err != nil {
		log.Fatalf("Fehler beim Hochladen nach S3: %v", err)
	}
	log.Printf("Logarchiv erfolgreich nach s3://%s/%s hochgeladen (%d Dateien)", cfg.ArchiveBucket, fileName, len(files))

	// 4. Verschiffte Dateien lokal aufräumen
	if cfg.DeleteShipped {
		for _, file := range files {
			if err := os.Remove(file); err != nil {
				log.Printf("Fehler beim Löschen von %s: %v", file, err)
			}
		}
	}

	// 5. Alte Archive rotieren
	err = rotateArchives(s3Client, cfg)
	if err != nil {
		log.Fatalf("Fehler bei der Rotation alter Archive: %v", err)
	}

	log.Println("Logversand erfolgreich abgeschlossen.")
}

func packLogs(logDir string) ([]byte, []string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzipWriter)

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		path := filepath.Join(logDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return nil, nil, err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return nil, nil, err
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return nil, nil, err
		}
		file, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		if _, err := io.Copy(tarWriter, file); err != nil {
			file.Close()
			return nil, nil, err
		}
		file.Close()
		files = append(files, path)
	}

	if err := tarWriter.Close(); err != nil {
		return nil, nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), files, nil
}

func createS3Client(cfg LogshipConfig) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: cfg.ArchiveEndpoint,
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, "")),
		config.WithRegion(cfg.ArchiveRegion),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

func uploadToS3(client *s3.Client, cfg LogshipConfig, key string, data []byte) error {
	_, err := client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(cfg.ArchiveBucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	return err
}

func rotateArchives(client *s3.Client, cfg LogshipConfig) error {
	output, err := client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket: aws.String(cfg.ArchiveBucket),
	})
	if err != nil {
		return err
	}

	if len(output.Contents) <= cfg.KeepArchives {
		log.Printf("Weniger als %d Archive vorhanden, keine Rotation nötig.", cfg.KeepArchives)
		return nil
	}

	sort.Slice(output.Contents, func(i, j int) bool {
		return output.Contents[i].LastModified.After(*output.Contents[j].LastModified)
	})

	for _, obj := range output.Contents[cfg.KeepArchives:] {
		log.Printf("Lösche altes Archiv: %s", *obj.Key)
		_, err := client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
			Bucket: aws.String(cfg.ArchiveBucket),
			Key:    obj.Key,
		})
		if err != nil {
			log.Printf("Fehler beim Löschen von %s: %v", *obj.Key, err)
		}
	}

	return nil
}
