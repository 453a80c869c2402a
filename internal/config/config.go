package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	applog "salesledger/internal/log"
)

type Config struct {
	Port          string
	DBDSN         string
	LogFile       string
	TemplatesDir  string
	AdminEmail    string
	AdminPassword string
	AuthRequired  bool
	CookieSecure  bool
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(env(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return v
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real env vars win over it.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:          env("PORT", "8080"),
		DBDSN:         env("DB_DSN", "salesledger.db"), // sqlite file in working dir
		LogFile:       env("LOG_FILE", "./salesledger.log"),
		TemplatesDir:  env("TEMPLATES_DIR", "./web/templates"),
		AdminEmail:    env("ADMIN_EMAIL", "admin@salesledger.local"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AuthRequired:  envBool("AUTH_REQUIRED", true),
		CookieSecure:  envBool("COOKIE_SECURE", false),
	}
	applog.L().WithFields(logrus.Fields{
		"port":          cfg.Port,
		"db_dsn":        cfg.DBDSN,
		"log_file":      cfg.LogFile,
		"templates_dir": cfg.TemplatesDir,
		"auth_required": cfg.AuthRequired,
		"admin_seeded":  cfg.AdminPassword != "",
	}).Info("config.load")
	return cfg
}
