// Package config validates the plugin configuration surrounding a
// routing instance: bind address/port or socket path, connect timeouts,
// buffer sizes, and access mode, plus the cross-option invariants
// between them. Unknown options in a loaded section warn; a missing
// required option is a startup error.
package config
