package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		LDAP: LDAP{
			URL:    "ldap://localhost:389",
			BaseDN: "dc=example,dc=org",
			Scope:  "sub",
			Filter: "(objectClass=*)",
		},
		Storage: Storage{
			Backend: BackendSQLite,
			DSN:     "mirror.db",
		},
		Engine: Engine{PollTimeout: 3 * time.Second},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing ldap url",
			mutate:  func(c *Config) { c.LDAP.URL = "" },
			wantErr: ErrInvalidLDAPConfigs,
		},
		{
			name:    "missing base dn",
			mutate:  func(c *Config) { c.LDAP.BaseDN = "" },
			wantErr: ErrInvalidLDAPConfigs,
		},
		{
			name:    "unknown scope",
			mutate:  func(c *Config) { c.LDAP.Scope = "tree" },
			wantErr: ErrInvalidLDAPConfigs,
		},
		{
			name:    "missing dsn",
			mutate:  func(c *Config) { c.Storage.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "oracle" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "negative poll timeout",
			mutate:  func(c *Config) { c.Engine.PollTimeout = -time.Second },
			wantErr: ErrInvalidEngineConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.validate(), tt.wantErr)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{
		LDAP: LDAP{
			URL:    "ldap://localhost:389",
			BaseDN: "dc=example,dc=org",
		},
		Storage: Storage{DSN: "mirror.db"},
		HTTP:    HTTP{Address: "localhost:8080"},
		Webhook: Webhook{URL: "https://hooks.example.org/ldap"},
	}

	cfg.applyDefaults()

	assert.Equal(t, "sub", cfg.LDAP.Scope)
	assert.Equal(t, "(objectClass=*)", cfg.LDAP.Filter)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 3*time.Second, cfg.Engine.PollTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 15*time.Second, cfg.Webhook.Timeout)

	require.NoError(t, cfg.validate())
}

func TestApplyDefaults_LeavesDisabledSurfacesAlone(t *testing.T) {
	cfg := validConfig()
	cfg.applyDefaults()

	assert.Zero(t, cfg.HTTP.RequestTimeout)
	assert.Zero(t, cfg.Webhook.Timeout)
}
