package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vnkhanh/questions-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// LoadEnv reads .env when present; real environment variables win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
}

// Env returns the variable or fallback when unset or blank.
func Env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// EnvInt parses an integer variable, falling back on absence or parse error.
func EnvInt(key string, fallback int) int {
	v := Env(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func EnvBool(key string) bool {
	b, err := strconv.ParseBool(Env(key, "false"))
	return err == nil && b
}

func IsProduction() bool {
	return strings.EqualFold(Env("ENVIRONMENT", "development"), "production")
}

func AllowDropData() bool {
	return EnvBool("ALLOW_DROP_DATA")
}

// CORSOrigins is the comma separated CORS_ORIGINS list.
func CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(Env("CORS_ORIGINS", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Open connects with the given dialector and migrates every table.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// ConnectDB opens PostgreSQL from DB_* variables, migrates and seeds reference rows.
func ConnectDB() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		Env("DB_HOST", "localhost"),
		Env("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		Env("DB_NAME", "questions"),
		Env("DB_PORT", "5432"),
		Env("DB_SSLMODE", "disable"),
	)

	db, err := Open(postgres.Open(dsn))
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := SeedReferenceData(db); err != nil {
		log.Fatalf("failed to seed reference data: %v", err)
	}

	DB = db
	log.Println("Connected to PostgreSQL & migrated successfully")
}
