// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"time"
)

// Config is the top-level configuration container for the ldapmirror
// daemon. It is populated by merging values from environment variables,
// command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type Config struct {
	// LDAP holds connection, bind, and search settings for the upstream
	// directory server.
	LDAP LDAP `envPrefix:"LDAP_"`

	// Storage holds the local mirror persistence settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Engine holds poll-loop settings for the synchronization engine.
	Engine Engine `envPrefix:"ENGINE_"`

	// HTTP holds the optional read-only status API settings. The API is
	// served only when Address is non-empty.
	HTTP HTTP `envPrefix:"HTTP_"`

	// Webhook holds the optional change-event forwarder settings. Events
	// are forwarded only when URL is non-empty.
	Webhook Webhook `envPrefix:"WEBHOOK_"`

	// LogFile is the optional path of a file to append JSON logs to.
	// Empty means stderr.
	// Env: LOG_FILE
	LogFile string `env:"LOG_FILE" json:"log_file"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG" json:"-"`
}

// LDAP holds everything needed to reach the directory and describe the
// synchronized search.
type LDAP struct {
	// URL is the directory server URL, e.g. "ldap://ldap.example.org:389"
	// or "ldaps://...". Env: LDAP_URL
	URL string `env:"URL" json:"url"`

	// BindDN is the simple-bind identity. Empty means anonymous bind.
	// Env: LDAP_BIND_DN
	BindDN string `env:"BIND_DN" json:"bind_dn"`

	// BindPassword is the simple-bind credential.
	// Env: LDAP_BIND_PASSWORD
	BindPassword string `env:"BIND_PASSWORD" json:"bind_password"`

	// BaseDN is the search base for the synchronized subtree.
	// Env: LDAP_BASE_DN
	BaseDN string `env:"BASE_DN" json:"base_dn"`

	// Scope is one of "base", "one", "sub". Defaults to "sub".
	// Env: LDAP_SCOPE
	Scope string `env:"SCOPE" json:"scope"`

	// Filter is the LDAP search filter. Defaults to "(objectClass=*)".
	// Env: LDAP_FILTER
	Filter string `env:"FILTER" json:"filter"`

	// Attrs is the attribute list to request. Empty means all user
	// attributes. Env: LDAP_ATTRS (comma-separated)
	Attrs []string `env:"ATTRS" json:"attrs"`
}

// Storage holds the local mirror persistence settings.
type Storage struct {
	// Backend selects the mirror database: "sqlite" (default, a local
	// file) or "postgres" (a shared mirror reachable by several readers).
	// Env: STORAGE_BACKEND
	Backend string `env:"BACKEND" json:"backend"`

	// DSN is the database source name: a file path for sqlite, a
	// postgres:// URL for postgres.
	// Env: STORAGE_DSN
	DSN string `env:"DSN" json:"dsn"`
}

// Engine holds poll-loop settings.
type Engine struct {
	// PollTimeout bounds a single blocking poll. Zero means block
	// indefinitely, which is only sensible for cancel-driven shutdown.
	// Env: ENGINE_POLL_TIMEOUT
	PollTimeout time.Duration `env:"POLL_TIMEOUT" json:"poll_timeout"`
}

// HTTP holds the optional status API listener settings.
type HTTP struct {
	// Address is the TCP listen address in "host:port" form. Empty
	// disables the API. Env: HTTP_ADDRESS
	Address string `env:"ADDRESS" json:"address"`

	// RequestTimeout bounds a single inbound request.
	// Env: HTTP_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
}

// Webhook holds the optional change-event forwarder settings.
type Webhook struct {
	// URL is the endpoint every entry event is POSTed to. Empty disables
	// forwarding. Env: WEBHOOK_URL
	URL string `env:"URL" json:"url"`

	// Timeout bounds a single delivery attempt.
	// Env: WEBHOOK_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT" json:"timeout"`
}

// Get loads, merges, and validates the daemon configuration from all
// available sources in priority order (later sources fill fields the
// earlier ones left zero):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Defaults are applied after the merge. Returns a fully populated
// *Config or an error if any source fails to load or the final config
// fails validation.
func Get() (*Config, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
