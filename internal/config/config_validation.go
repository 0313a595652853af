// SPDX-License-Identifier: BSD-3-Clause

package config

import "time"

// Mirror database backends understood by the store layer.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// applyDefaults fills the fields that have sensible defaults and are
// allowed to be omitted from every source.
func (cfg *Config) applyDefaults() {
	if cfg.LDAP.Scope == "" {
		cfg.LDAP.Scope = "sub"
	}
	if cfg.LDAP.Filter == "" {
		cfg.LDAP.Filter = "(objectClass=*)"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendSQLite
	}
	if cfg.Engine.PollTimeout == 0 {
		cfg.Engine.PollTimeout = 3 * time.Second
	}
	if cfg.HTTP.Address != "" && cfg.HTTP.RequestTimeout == 0 {
		cfg.HTTP.RequestTimeout = 30 * time.Second
	}
	if cfg.Webhook.URL != "" && cfg.Webhook.Timeout == 0 {
		cfg.Webhook.Timeout = 15 * time.Second
	}
}

// validate checks that the final merged [Config] satisfies the daemon's
// startup invariants.
func (cfg *Config) validate() error {
	if cfg.LDAP.URL == "" || cfg.LDAP.BaseDN == "" {
		return ErrInvalidLDAPConfigs
	}

	switch cfg.LDAP.Scope {
	case "base", "one", "sub":
	default:
		return ErrInvalidLDAPConfigs
	}

	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Storage.Backend {
	case BackendSQLite, BackendPostgres:
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.Engine.PollTimeout < 0 {
		return ErrInvalidEngineConfigs
	}

	return nil
}
