// Package config loads and validates the tracktidy TOML configuration.
//
// Configuration is resolved from an explicit --config path, then
// ~/.config/tracktidy/config.toml, then ./tracktidy.toml. All path fields
// are expanded and absolute after Load; no component reads ambient global
// state beyond this value.
package config
