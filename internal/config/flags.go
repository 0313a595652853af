package config

import (
	"flag"
	"strings"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-u LDAP server URL (ldap://host:port or ldaps://host:port)
//	-bind-dn simple bind DN (empty for anonymous bind)
//	-bind-password simple bind password
//	-b search base DN
//	-scope search scope: base, one or sub
//	-filter LDAP search filter
//	-attrs comma-separated attribute list
//	-d mirror database DSN (file path for sqlite, URL for postgres)
//	-backend mirror database backend: sqlite or postgres
//	-poll-timeout single poll bound (e.g. "3s"; 0 blocks indefinitely)
//	-http-address status API listen address host:port (empty disables)
//	-webhook-url change event webhook endpoint (empty disables)
//	-log-file log file path (empty logs to stderr)
//	-c/-config json file path with configs
func ParseFlags() *Config {
	var ldapURL, bindDN, bindPassword string
	var baseDN, scope, filter, attrs string
	var dsn, backend string
	var pollTimeout time.Duration
	var httpAddress string
	var httpRequestTimeout time.Duration
	var webhookURL string
	var webhookTimeout time.Duration
	var logFile string
	var jsonConfigPath string

	flag.StringVar(&ldapURL, "u", "", "LDAP server URL")
	flag.StringVar(&bindDN, "bind-dn", "", "Simple bind DN")
	flag.StringVar(&bindPassword, "bind-password", "", "Simple bind password")
	flag.StringVar(&baseDN, "b", "", "Search base DN")
	flag.StringVar(&scope, "scope", "", "Search scope: base, one or sub")
	flag.StringVar(&filter, "filter", "", "LDAP search filter")
	flag.StringVar(&attrs, "attrs", "", "Comma-separated attribute list")
	flag.StringVar(&dsn, "d", "", "Mirror database DSN")
	flag.StringVar(&backend, "backend", "", "Mirror database backend: sqlite or postgres")
	flag.DurationVar(&pollTimeout, "poll-timeout", 0, "Single poll bound (e.g. 3s)")
	flag.StringVar(&httpAddress, "http-address", "", "Status API listen address host:port")
	flag.DurationVar(&httpRequestTimeout, "http-request-timeout", 0, "Status API request timeout")
	flag.StringVar(&webhookURL, "webhook-url", "", "Change event webhook endpoint")
	flag.DurationVar(&webhookTimeout, "webhook-timeout", 0, "Webhook delivery timeout")
	flag.StringVar(&logFile, "log-file", "", "Log file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &Config{
		LDAP: LDAP{
			URL:          ldapURL,
			BindDN:       bindDN,
			BindPassword: bindPassword,
			BaseDN:       baseDN,
			Scope:        scope,
			Filter:       filter,
			Attrs:        splitAttrs(attrs),
		},
		Storage: Storage{
			Backend: backend,
			DSN:     dsn,
		},
		Engine: Engine{
			PollTimeout: pollTimeout,
		},
		HTTP: HTTP{
			Address:        httpAddress,
			RequestTimeout: httpRequestTimeout,
		},
		Webhook: Webhook{
			URL:     webhookURL,
			Timeout: webhookTimeout,
		},
		LogFile:      logFile,
		JSONFilePath: jsonConfigPath,
	}
}

func splitAttrs(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	attrs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			attrs = append(attrs, p)
		}
	}
	return attrs
}
