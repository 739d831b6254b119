// Package config loads pipekit configuration from YAML files and
// environment variables, with per-section defaults and validation.
package config
