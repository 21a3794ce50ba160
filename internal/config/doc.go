// Package config loads and merges list-changed-files configuration from
// multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (LCF_BASE, LCF_GIT, LCF_FORMAT, LCF_ECHO, LCF_IGNORE_FILE)
//  3. Config file ($XDG_CONFIG_HOME/list-changed-files/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write a config file, and
// [SetField] to update a single key.
package config
