package destination

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shiyingzhe/mysql-router/types"
)

const defaultPort uint16 = 3306

// Parse turns the string value of the "destinations" plugin config
// option into a types.DestinationSpec.
//
// A value that parses as a URI with a non-empty scheme is interpreted
// as a metadata-cache reference; scheme "mysql" requires a "replicaset"
// command, scheme "fabric+cache" requires a "group" command, any other
// scheme is rejected. Anything else is parsed as a comma-separated
// address list.
func Parse(value string) (types.DestinationSpec, error) {
	// Bare "host:port" entries satisfy net/url's scheme grammar (a
	// leading alnum run followed by ':' looks like "host" scheme,
	// opaque "port"), so only attempt the URI branch when the value
	// carries an authority marker the way both recognized schemes do.
	if strings.Contains(value, "://") {
		if u, err := url.Parse(value); err == nil && u.Scheme != "" {
			return parseMetadataCacheURI(u)
		}
	}
	return parseAddressList(value)
}

func parseMetadataCacheURI(u *url.URL) (types.DestinationSpec, error) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return types.DestinationSpec{}, &types.ConfigError{
			Option: "destinations",
			Cause:  errInvalidDestination("missing metadata cache command in " + u.String()),
		}
	}
	command := strings.ToLower(segments[0])

	switch strings.ToLower(u.Scheme) {
	case "mysql":
		if command != "replicaset" {
			return types.DestinationSpec{}, &types.ConfigError{
				Option: "destinations",
				Cause:  errInvalidDestination("invalid mysql metadata cache command '" + command + "'"),
			}
		}
	case "fabric+cache":
		if command != "group" {
			return types.DestinationSpec{}, &types.ConfigError{
				Option: "destinations",
				Cause:  errInvalidDestination("invalid Fabric command"),
			}
		}
	default:
		return types.DestinationSpec{}, &types.ConfigError{
			Option: "destinations",
			Cause:  errInvalidDestination("unsupported destination scheme '" + u.Scheme + "'"),
		}
	}

	target := strings.Join(segments[1:], "/")
	if target == "" {
		target = u.Host
	}

	return types.DestinationSpec{
		Kind:    types.DestinationMetadataCache,
		Scheme:  strings.ToLower(u.Scheme),
		Command: command,
		Target:  target,
	}, nil
}

func parseAddressList(value string) (types.DestinationSpec, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.HasPrefix(trimmed, ",") || strings.HasSuffix(trimmed, ",") {
		return types.DestinationSpec{}, &types.ConfigError{
			Option: "destinations",
			Cause:  errInvalidDestination("empty address in destination list"),
		}
	}

	parts := strings.Split(trimmed, ",")
	addrs := make([]types.Address, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return types.DestinationSpec{}, &types.ConfigError{
				Option: "destinations",
				Cause:  errInvalidDestination("empty address in destination list"),
			}
		}
		addr, err := parseAddress(part)
		if err != nil {
			return types.DestinationSpec{}, &types.ConfigError{Option: "destinations", Cause: err}
		}
		addrs = append(addrs, addr)
	}

	return types.DestinationSpec{
		Kind:      types.DestinationAddressList,
		Addresses: addrs,
	}, nil
}

// parseAddress parses "host" or "host:port", defaulting port to 3306
// and validating the result.
func parseAddress(s string) (types.Address, error) {
	host, portStr, found := strings.Cut(s, ":")
	port := defaultPort
	if found {
		n, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil || n == 0 {
			return types.Address{}, errInvalidDestination("invalid port in address '" + s + "'")
		}
		port = uint16(n)
	}
	if host == "" {
		return types.Address{}, errInvalidDestination("empty host in address '" + s + "'")
	}
	return types.Address{Host: host, Port: port, PortExplicit: found}, nil
}

// errInvalidDestination wraps types.ErrInvalidDestination with a
// specific reason, so callers can both errors.Is against the sentinel
// and read a human-readable message.
func errInvalidDestination(reason string) error {
	return &invalidDestinationError{reason: reason}
}

type invalidDestinationError struct {
	reason string
}

func (e *invalidDestinationError) Error() string { return e.reason }

func (e *invalidDestinationError) Unwrap() error { return types.ErrInvalidDestination }
