// Package config provides configuration structures and utilities for svcping.
// It defines the options of a ping run, the YAML configuration file with
// per-protocol overrides, and report output preferences.
package config
