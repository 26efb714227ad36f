// Package file provides the TOML-backed configuration store.
//
// Settings live in config.toml inside the sanctrack config directory
// (~/.sanctrack by default). Keys are exposed in dot notation and written
// back as nested tables, so "store.github.owner" becomes:
//
//	[store.github]
//	owner = "example"
package file
