// Package config loads, validates, and defaults the TOML configuration.
//
// Configuration is resolved from an explicit --config path,
// ~/.config/subforge/config.toml, or ./subforge.toml, in that order. All
// option parsing happens once at load time; downstream components consume
// already-validated values.
package config
