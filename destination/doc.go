// Package destination implements the configuration-time parser that
// turns a user-supplied "destinations" value into a types.DestinationSpec:
// either a reference to the metadata cache for a named cluster command,
// or a literal, ordered address list.
package destination
