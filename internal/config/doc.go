// Package config loads, parses and validates the settings of the fitness log
// API from defaults, an optional config file, a .env file and FITLOG_*
// environment variables.
package config
