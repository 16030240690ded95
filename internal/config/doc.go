// Package config loads journey's TOML configuration.
//
// Resolution order for the file: an explicit path, JOURNEY_CONFIG, then
// ~/.config/journey/config.toml, then ./journey.toml. A missing file is not an error;
// Default() values apply. Loaded paths are expanded (~ and relative paths) and the
// result is validated before it is returned.
package config
