// Package config handles configuration management for syplug.
// It layers embedded defaults, the user config file, an optional
// project config file, an explicit --config file and environment
// variables, later sources winning.
package config
