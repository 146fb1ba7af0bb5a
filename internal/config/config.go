package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds process configuration read from the environment.
type Config struct {
	Addr          string
	DBPath        string
	BaseURL       string
	Env           string
	LogLevel      string
	SessionSecret []byte // 32 bytes; keys CSRF and flash signing
	SessionTTL    time.Duration
	AdminCode     string // empty disables admin signup
	BcryptCost    int
	ResendKey     string
	EmailFrom     string
	SlowQuery     time.Duration

	// TrustedProxies are addresses or CIDRs whose X-Forwarded-For header names the client.
	TrustedProxies []string

	// Warnings collects non-fatal problems found while loading, logged once logging is set up.
	Warnings []Warning
}

// Warning is a configuration problem that does not stop startup.
type Warning struct {
	Event  string
	Effect string
}

// IsProduction reports whether the process runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and then the environment.
// PRE: none
// POST: Returns a validated Config; production requires AURA_SESSION_SECRET
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// Existing environment variables win over file values.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		Addr:      get("AURA_ADDR", ":8080"),
		DBPath:    get("AURA_DB_PATH", "aura.db"),
		BaseURL:   get("AURA_BASE_URL", "http://localhost:8080"),
		Env:       get("AURA_ENV", "development"),
		LogLevel:  get("AURA_LOG_LEVEL", "info"),
		AdminCode: get("AURA_ADMIN_CODE", ""),
		ResendKey: get("AURA_RESEND_KEY", ""),
		EmailFrom: get("AURA_EMAIL_FROM", "AURA GYM <noreply@auragym.local>"),
	}

	for _, p := range strings.Split(get("AURA_TRUSTED_PROXIES", ""), ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.TrustedProxies = append(cfg.TrustedProxies, p)
		}
	}

	ttl, err := time.ParseDuration(get("AURA_SESSION_TTL", "168h"))
	if err != nil {
		return Config{}, fmt.Errorf("AURA_SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, errors.New("AURA_SESSION_TTL must be positive")
	}
	cfg.SessionTTL = ttl

	slow, err := time.ParseDuration(get("AURA_SLOW_QUERY", "50ms"))
	if err != nil {
		return Config{}, fmt.Errorf("AURA_SLOW_QUERY: %w", err)
	}
	cfg.SlowQuery = slow

	cost, err := strconv.Atoi(get("AURA_BCRYPT_COST", "12"))
	if err != nil {
		return Config{}, fmt.Errorf("AURA_BCRYPT_COST: %w", err)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("AURA_BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	cfg.BcryptCost = cost

	secret, generated, err := loadSecret(get("AURA_SESSION_SECRET", ""), cfg.IsProduction())
	if err != nil {
		return Config{}, err
	}
	cfg.SessionSecret = secret
	if generated {
		cfg.Warnings = append(cfg.Warnings, Warning{Event: "config_session_secret_generated", Effect: "sessions signed with an ephemeral key"})
	}

	if cfg.AdminCode == "" {
		cfg.Warnings = append(cfg.Warnings, Warning{Event: "config_admin_code_unset", Effect: "admin signup disabled"})
	}
	return cfg, nil
}

// loadSecret decodes a 64 hex character secret. In development a random key is generated
// per startup and generated reports true.
func loadSecret(keyHex string, production bool) (key []byte, generated bool, err error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, false, errors.New("AURA_SESSION_SECRET must be 64 hex characters (32 bytes)")
		}
		return key, false, nil
	}
	if production {
		return nil, false, errors.New("AURA_SESSION_SECRET must be set in production")
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("generate session secret: %w", err)
	}
	return key, true, nil
}
