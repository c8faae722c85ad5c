package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	SiteName string
	HTTPAddr string

	DBDriver string
	DBDSN    string

	AuthHMACSecret string

	// Exam settings
	ExamTimerEnabled  bool
	ExamTimerMinutes  int
	PassingPercentage float64
	AllowRetakes      bool
	ShowExplanations  bool

	// Security settings
	SessionTTLSeconds int
	MaxLoginAttempts  int
	LockoutSeconds    int

	// Pagination
	ItemsPerPage int

	CORSOrigins []string
}

// FromEnv loads configuration from an optional .env file and the process
// environment, falling back to installer defaults.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		SiteName: envOr("SITE_NAME", "Examination Website"),
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "examstack-dev-secret"),

		ExamTimerEnabled:  envBool("EXAM_TIMER_ENABLED", true),
		ExamTimerMinutes:  envInt("EXAM_TIMER_MINUTES", 30),
		PassingPercentage: envFloat("PASSING_PERCENTAGE", 70),
		AllowRetakes:      envBool("ALLOW_RETAKES", true),
		ShowExplanations:  envBool("SHOW_EXPLANATIONS", true),

		SessionTTLSeconds: envInt("SESSION_TTL_SECONDS", 1800),
		MaxLoginAttempts:  envInt("MAX_LOGIN_ATTEMPTS", 5),
		LockoutSeconds:    envInt("LOCKOUT_SECONDS", 900),

		ItemsPerPage: envInt("ITEMS_PER_PAGE", 20),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

// ExamTimerSeconds is the countdown served with the exam view. The timer is
// client-side only; the server never expires an attempt by elapsed time.
func (c Config) ExamTimerSeconds() int {
	if !c.ExamTimerEnabled {
		return 0
	}
	return c.ExamTimerMinutes * 60
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(k), 64); err == nil {
		return v
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
