// Package config provides configuration loading, merging, and validation
// facilities for the ldapmirror daemon.
//
// Configuration is assembled from multiple sources in the following
// priority order (later sources fill fields the earlier ones left zero):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry point is [Get].
package config
