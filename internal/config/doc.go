// Package config loads and validates the YAML configuration file and
// watches it for changes. Missing optional fields are filled with
// defaults; webhook URLs resolve from environment variables so secrets
// stay out of the file.
package config
