package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

const ConfigFileName = "kmeta.yaml"

// Environment variables consulted by Resolve.
const (
	EnvAdminSecret = "KMETA_ADMIN_SECRET"
	EnvPartnerID   = "KMETA_PARTNER_ID"
	EnvServiceURL  = "KMETA_SERVICE_URL"
	EnvUserID      = "KMETA_USER_ID"
)

type ConnectionConfig struct {
	ServiceURL    string `yaml:"service_url,omitempty"`
	PartnerID     int    `yaml:"partner_id,omitempty"`
	UserID        string `yaml:"user_id,omitempty"`
	Privileges    string `yaml:"privileges,omitempty"`
	SessionExpiry string `yaml:"session_expiry,omitempty"`
}

type RetryConfig struct {
	MaxAttempts  int    `yaml:"max_attempts,omitempty"`
	InitialDelay string `yaml:"initial_delay,omitempty"`
	MaxDelay     string `yaml:"max_delay,omitempty"`
}

type ProjectConfig struct {
	Connection      ConnectionConfig `yaml:"connection"`
	Retry           RetryConfig      `yaml:"retry"`
	Timeout         string           `yaml:"timeout"`
	RootElement     string           `yaml:"root_element,omitempty"`
	SchemaCacheSize int              `yaml:"schema_cache_size,omitempty"`
	LocalStore      string           `yaml:"local_store,omitempty"`
}

// Load reads the project file at path.
func Load(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kmeta.ErrInvalidConfig, path, err)
	}
	return &cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing files
// are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Settings is the effective configuration after defaults, the project file and
// the environment have been applied.
type Settings struct {
	ServiceURL        string
	PartnerID         int
	AdminSecret       string
	UserID            string
	Privileges        string
	SessionExpiry     time.Duration
	Timeout           time.Duration
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	RetryMaxDelay     time.Duration
	RootElement       string
	SchemaCacheSize   int
	LocalStore        string
}

// Defaults returns Settings populated with built-in values only.
func Defaults() Settings {
	return Settings{
		ServiceURL:        kmeta.DefaultServiceURL,
		UserID:            kmeta.DefaultSessionUserID,
		Privileges:        kmeta.DefaultSessionPrivileges,
		SessionExpiry:     kmeta.DefaultSessionExpiry,
		Timeout:           kmeta.DefaultTimeout,
		RetryMaxAttempts:  kmeta.DefaultRetryMaxAttempts,
		RetryInitialDelay: kmeta.DefaultRetryInitialDelay,
		RetryMaxDelay:     kmeta.DefaultRetryMaxDelay,
		RootElement:       kmeta.RootElement,
		SchemaCacheSize:   kmeta.DefaultSchemaCacheSize,
	}
}

// Resolve layers cfg (may be nil) and then the environment over Defaults.
// lookup has the signature of os.LookupEnv; nil means os.LookupEnv.
// Command-line flags are applied by the caller on top of the result.
func Resolve(cfg *ProjectConfig, lookup func(string) (string, bool)) (Settings, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	s := Defaults()

	if cfg != nil {
		if err := s.applyFile(cfg); err != nil {
			return Settings{}, err
		}
	}

	if v, ok := lookup(EnvServiceURL); ok && v != "" {
		s.ServiceURL = v
	}
	if v, ok := lookup(EnvUserID); ok && v != "" {
		s.UserID = v
	}
	if v, ok := lookup(EnvAdminSecret); ok {
		s.AdminSecret = v
	}
	if v, ok := lookup(EnvPartnerID); ok && v != "" {
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %s must be an integer, got %q", kmeta.ErrInvalidConfig, EnvPartnerID, v)
		}
		s.PartnerID = id
	}
	return s, nil
}

func (s *Settings) applyFile(cfg *ProjectConfig) error {
	c := cfg.Connection
	if c.ServiceURL != "" {
		s.ServiceURL = c.ServiceURL
	}
	if c.PartnerID != 0 {
		s.PartnerID = c.PartnerID
	}
	if c.UserID != "" {
		s.UserID = c.UserID
	}
	if c.Privileges != "" {
		s.Privileges = c.Privileges
	}
	if cfg.RootElement != "" {
		s.RootElement = cfg.RootElement
	}
	if cfg.SchemaCacheSize > 0 {
		s.SchemaCacheSize = cfg.SchemaCacheSize
	}
	if cfg.Retry.MaxAttempts > 0 {
		s.RetryMaxAttempts = cfg.Retry.MaxAttempts
	}
	s.LocalStore = cfg.LocalStore

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"connection.session_expiry", c.SessionExpiry, &s.SessionExpiry},
		{"timeout", cfg.Timeout, &s.Timeout},
		{"retry.initial_delay", cfg.Retry.InitialDelay, &s.RetryInitialDelay},
		{"retry.max_delay", cfg.Retry.MaxDelay, &s.RetryMaxDelay},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%w: invalid %s in %s: %v", kmeta.ErrInvalidConfig, d.key, ConfigFileName, err)
		}
		*d.dst = parsed
	}
	return nil
}

// ValidateRemote reports whether s carries what a remote session needs.
func (s Settings) ValidateRemote() error {
	var missing []string
	if s.ServiceURL == "" {
		missing = append(missing, EnvServiceURL)
	}
	if s.PartnerID <= 0 {
		missing = append(missing, EnvPartnerID)
	}
	if s.AdminSecret == "" {
		missing = append(missing, EnvAdminSecret)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", kmeta.ErrInvalidConfig, strings.Join(missing, ", "))
	}
	return nil
}
