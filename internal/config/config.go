package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds every setting of the application. All paths are relative to
// the working directory unless given absolute.
type Config struct {
	DBDriver   string
	DBPath     string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	ExportPath string
	ChartPath  string
	LogLevel   string
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		DBDriver:   DriverSQLite,
		DBPath:     "management_studenti.db",
		DBPort:     "5432",
		ExportPath: "management_studenti_export.xlsx",
		ChartPath:  "grafic_note.png",
		LogLevel:   "info",
	}
}

// Load reads an optional .env file from the working directory and then the
// process environment on top of Defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv applies environment variables over Defaults.
func FromEnv() Config {
	cfg := Defaults()
	setFromEnv(&cfg.DBDriver, "DB_DRIVER")
	setFromEnv(&cfg.DBPath, "DB_PATH")
	setFromEnv(&cfg.DBHost, "DB_HOST")
	setFromEnv(&cfg.DBUser, "DB_USER")
	setFromEnv(&cfg.DBPassword, "DB_PASSWORD")
	setFromEnv(&cfg.DBName, "DB_NAME")
	setFromEnv(&cfg.DBPort, "DB_PORT")
	setFromEnv(&cfg.ExportPath, "EXPORT_PATH")
	setFromEnv(&cfg.ChartPath, "CHART_PATH")
	setFromEnv(&cfg.LogLevel, "LOG_LEVEL")
	return cfg
}

// PostgresDSN builds the connection string for the postgres driver.
func (c Config) PostgresDSN() string {
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword + " dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable"
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
