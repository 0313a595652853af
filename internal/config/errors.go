package config

import "errors"

// Validation errors returned by [Config.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidLDAPConfigs indicates invalid directory settings (for
	// example, a missing server URL or base DN, or an unknown scope).
	ErrInvalidLDAPConfigs = errors.New("invalid ldap configuration")
	// ErrInvalidStorageConfigs indicates invalid mirror storage settings
	// (for example, an empty DSN or an unknown backend).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidEngineConfigs indicates invalid engine settings (for
	// example, a negative poll timeout).
	ErrInvalidEngineConfigs = errors.New("invalid engine configuration")
)
