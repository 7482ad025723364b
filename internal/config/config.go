package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const defaultDataFile = "accounts.dat"
const defaultTransactionFile = "transactions.txt"
const defaultBackupFile = "accounts.bak"
const defaultExportFile = "accounts_export.csv"
const defaultAdminUser = "admin"

// Default hash corresponds to the password "change-me". Override
// ADMIN_PASSWORD_HASH before any real use.
const defaultAdminPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type Config struct {
	DataFile          string
	TransactionFile   string
	BackupFile        string
	ExportFile        string
	AdminUser         string
	AdminPasswordHash string
}

// Load reads configuration from the environment, with a best-effort
// read of a local .env file first. Every key has a working default so
// the binary runs out of the box.
func Load() (Config, error) {
	if env, err := godotenv.Read(".env"); err == nil {
		for key, val := range env {
			if os.Getenv(key) == "" {
				os.Setenv(key, val)
			}
		}
	}

	cfg := Config{
		DataFile:          envOrDefault("LEDGER_DATA_FILE", defaultDataFile),
		TransactionFile:   envOrDefault("LEDGER_TRANSACTION_FILE", defaultTransactionFile),
		BackupFile:        envOrDefault("LEDGER_BACKUP_FILE", defaultBackupFile),
		ExportFile:        envOrDefault("LEDGER_EXPORT_FILE", defaultExportFile),
		AdminUser:         envOrDefault("ADMIN_USER", defaultAdminUser),
		AdminPasswordHash: envOrDefault("ADMIN_PASSWORD_HASH", defaultAdminPasswordHash),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var missing []string

	if c.DataFile == "" {
		missing = append(missing, "LEDGER_DATA_FILE")
	}
	if c.TransactionFile == "" {
		missing = append(missing, "LEDGER_TRANSACTION_FILE")
	}
	if c.BackupFile == "" {
		missing = append(missing, "LEDGER_BACKUP_FILE")
	}
	if c.AdminUser == "" {
		missing = append(missing, "ADMIN_USER")
	}
	if c.AdminPasswordHash == "" {
		missing = append(missing, "ADMIN_PASSWORD_HASH")
	}

	if len(missing) > 0 {
		return errors.New("missing required configuration values: " + strings.Join(missing, ", "))
	}

	if !strings.HasPrefix(c.AdminPasswordHash, "$2") {
		return errors.New("ADMIN_PASSWORD_HASH must be a bcrypt hash")
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
