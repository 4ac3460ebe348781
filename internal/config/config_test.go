package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_AllFields(t *testing.T) {
	path := writeConfig(t, `connection:
  service_url: https://media.example.com/
  partner_id: 1234
  user_id: editor
  privileges: "*"
  session_expiry: 2h

retry:
  max_attempts: 5
  initial_delay: 50ms
  max_delay: 1s

timeout: 10m
root_element: record
schema_cache_size: 8
local_store: ./store
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://media.example.com/", cfg.Connection.ServiceURL)
	assert.Equal(t, 1234, cfg.Connection.PartnerID)
	assert.Equal(t, "editor", cfg.Connection.UserID)
	assert.Equal(t, "*", cfg.Connection.Privileges)
	assert.Equal(t, "2h", cfg.Connection.SessionExpiry)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, "10m", cfg.Timeout)
	assert.Equal(t, "record", cfg.RootElement)
	assert.Equal(t, 8, cfg.SchemaCacheSize)
	assert.Equal(t, "./store", cfg.LocalStore)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{{invalid"))
	assert.ErrorIs(t, err, kmeta.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ProjectConfig{}, *cfg)
}

func TestResolve_DefaultsOnly(t *testing.T) {
	s, err := Resolve(nil, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, kmeta.DefaultServiceURL, s.ServiceURL)
	assert.Equal(t, "metadata", s.RootElement)
}

func TestResolve_Precedence(t *testing.T) {
	cfg := &ProjectConfig{
		Connection: ConnectionConfig{ServiceURL: "https://file.example.com/", PartnerID: 1, UserID: "file-user", SessionExpiry: "1h"},
		Timeout:    "30s",
		Retry:      RetryConfig{MaxAttempts: 7, MaxDelay: "2s"},
	}
	s, err := Resolve(cfg, envMap(map[string]string{
		EnvServiceURL:  "https://env.example.com/",
		EnvPartnerID:   " 42 ",
		EnvAdminSecret: "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/", s.ServiceURL, "env wins over file")
	assert.Equal(t, 42, s.PartnerID)
	assert.Equal(t, "s3cret", s.AdminSecret)
	assert.Equal(t, "file-user", s.UserID, "file wins over default")
	assert.Equal(t, time.Hour, s.SessionExpiry)
	assert.Equal(t, 30*time.Second, s.Timeout)
	assert.Equal(t, 7, s.RetryMaxAttempts)
	assert.Equal(t, 2*time.Second, s.RetryMaxDelay)
	assert.Equal(t, kmeta.DefaultRetryInitialDelay, s.RetryInitialDelay)
}

func TestResolve_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  *ProjectConfig
		env  map[string]string
	}{
		{"bad timeout", &ProjectConfig{Timeout: "soon"}, nil},
		{"bad expiry", &ProjectConfig{Connection: ConnectionConfig{SessionExpiry: "1 day"}}, nil},
		{"bad partner", nil, map[string]string{EnvPartnerID: "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.cfg, envMap(tt.env))
			assert.ErrorIs(t, err, kmeta.ErrInvalidConfig)
		})
	}
}

func TestSettings_ValidateRemote(t *testing.T) {
	s := Defaults()
	err := s.ValidateRemote()
	require.ErrorIs(t, err, kmeta.ErrInvalidConfig)
	assert.Contains(t, err.Error(), EnvPartnerID)
	assert.Contains(t, err.Error(), EnvAdminSecret)

	s.PartnerID = 5
	s.AdminSecret = "x"
	assert.NoError(t, s.ValidateRemote())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("KMETA_TEST_DOTENV=from-file\n"), 0644))
	t.Setenv("KMETA_TEST_DOTENV_KEEP", "process")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.env"), []byte("KMETA_TEST_DOTENV_KEEP=file\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("KMETA_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "keep.env"), filepath.Join(dir, "missing.env")))

	assert.Equal(t, "from-file", os.Getenv("KMETA_TEST_DOTENV"))
	assert.Equal(t, "process", os.Getenv("KMETA_TEST_DOTENV_KEEP"), "existing variables are not overridden")
}
