// Package config loads meos settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, usually ~/.meos/config.toml
//  3. MEOS_* environment variables
//
// Example file:
//
//	[search]
//	max_results = 20
//	debounce = "40ms"
//
//	[usage]
//	store = "sqlite"
//	max_recent = 30
//
//	[catalog]
//	path = "~/portfolio/items.toml"
//	watch = true
//
//	[log]
//	level = "debug"
//	format = "json"
package config
