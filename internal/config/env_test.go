// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG":   "/path/to/config.json",
		"LOG_FILE": "/var/log/ldapmirror.log",

		"LDAP_URL":           "ldap://ldap.example.org:389",
		"LDAP_BIND_DN":       "cn=mirror,dc=example,dc=org",
		"LDAP_BIND_PASSWORD": "secret",
		"LDAP_BASE_DN":       "ou=people,dc=example,dc=org",
		"LDAP_SCOPE":         "sub",
		"LDAP_FILTER":        "(objectClass=inetOrgPerson)",
		"LDAP_ATTRS":         "cn,uid,mail",

		"STORAGE_BACKEND": "sqlite",
		"STORAGE_DSN":     "/var/lib/ldapmirror/mirror.db",

		"ENGINE_POLL_TIMEOUT": "3s",

		"HTTP_ADDRESS":         "localhost:8080",
		"HTTP_REQUEST_TIMEOUT": "30s",

		"WEBHOOK_URL":     "https://hooks.example.org/ldap",
		"WEBHOOK_TIMEOUT": "15s",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &Config{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "/var/log/ldapmirror.log", cfg.LogFile)

	assert.Equal(t, "ldap://ldap.example.org:389", cfg.LDAP.URL)
	assert.Equal(t, "cn=mirror,dc=example,dc=org", cfg.LDAP.BindDN)
	assert.Equal(t, "secret", cfg.LDAP.BindPassword)
	assert.Equal(t, "ou=people,dc=example,dc=org", cfg.LDAP.BaseDN)
	assert.Equal(t, "sub", cfg.LDAP.Scope)
	assert.Equal(t, "(objectClass=inetOrgPerson)", cfg.LDAP.Filter)
	assert.Equal(t, []string{"cn", "uid", "mail"}, cfg.LDAP.Attrs)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/ldapmirror/mirror.db", cfg.Storage.DSN)

	assert.Equal(t, 3*time.Second, cfg.Engine.PollTimeout)

	assert.Equal(t, "localhost:8080", cfg.HTTP.Address)
	assert.Equal(t, 30*time.Second, cfg.HTTP.RequestTimeout)

	assert.Equal(t, "https://hooks.example.org/ldap", cfg.Webhook.URL)
	assert.Equal(t, 15*time.Second, cfg.Webhook.Timeout)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"LDAP_URL":    "ldap://localhost:389",
		"STORAGE_DSN": "mirror.db",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &Config{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ldap://localhost:389", cfg.LDAP.URL)
	assert.Equal(t, "mirror.db", cfg.Storage.DSN)
	assert.Empty(t, cfg.LDAP.BindDN)
	assert.Empty(t, cfg.HTTP.Address)
	assert.Zero(t, cfg.Engine.PollTimeout)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{
		"ENGINE_POLL_TIMEOUT": "not-a-duration",
	})

	cfg := &Config{}
	err := parseEnv(cfg)

	require.Error(t, err)
}

// setEnvVars sets the given variables for the duration of the test,
// restoring the previous environment on cleanup.
func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}
