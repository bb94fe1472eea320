package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration du serveur, lue une seule fois au démarrage
type Config struct {
	Port string

	DatabaseURL    string
	DBMaxOpenConns int
	DBLogLevel     string

	RedisHost     string
	RedisPassword string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	Order OrderConfig
	Rate  RateLimitConfig
	SMTP  SMTPConfig

	AdminEmail    string
	AdminPassword string
}

// OrderConfig pilote les choix de durcissement du moteur de commandes
type OrderConfig struct {
	TrustClientPrice bool
	EnforceStock     bool
	StrictStatus     bool
	TxRetries        int
}

type RateLimitConfig struct {
	APIPerMinute   int
	CartPerMinute  int
	LoginAttempts  int
	SignupAttempts int
	LoginCooldown  time.Duration
	SignupCooldown time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled indique si l'envoi d'e-mails est configuré
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// Load charge le fichier .env (optionnel) puis lit l'environnement
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
	return FromEnv()
}

// FromEnv construit la configuration à partir des variables d'environnement uniquement
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBLogLevel:     strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTTTL:         getEnvDuration("JWT_TTL", 24*time.Hour),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		Order: OrderConfig{
			TrustClientPrice: getEnvBool("ORDER_TRUST_CLIENT_PRICE", false),
			EnforceStock:     getEnvBool("ORDER_ENFORCE_STOCK", true),
			StrictStatus:     getEnvBool("ORDER_STRICT_STATUS", false),
			TxRetries:        getEnvInt("ORDER_TX_RETRIES", 0),
		},
		Rate: RateLimitConfig{
			APIPerMinute:   getEnvInt("RATE_LIMIT_API", 100),
			CartPerMinute:  getEnvInt("RATE_LIMIT_CART", 20),
			LoginAttempts:  getEnvInt("RATE_LIMIT_LOGIN", 5),
			SignupAttempts: getEnvInt("RATE_LIMIT_SIGNUP", 3),
			LoginCooldown:  getEnvDuration("RATE_LIMIT_LOGIN_COOLDOWN", 15*time.Minute),
			SignupCooldown: getEnvDuration("RATE_LIMIT_SIGNUP_COOLDOWN", 30*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "noreply@storefront.local"),
		},
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "storefront"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET manquant")
	}
	if cfg.Order.TxRetries < 0 {
		return nil, fmt.Errorf("ORDER_TX_RETRIES doit être positif ou nul (reçu %d)", cfg.Order.TxRetries)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %d utilisée", key, raw, fallback)
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %v utilisée", key, raw, fallback)
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %s utilisée", key, raw, fallback)
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
