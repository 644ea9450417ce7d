package destination

import (
	"fmt"
	"strings"

	"github.com/shiyingzhe/mysql-router/types"
)

// Render renders an AddressList destination spec back to its
// comma-separated textual form, in order, omitting the port for any
// address that didn't carry one explicitly. Used to verify the
// parser's round-trip invariant: Render(Parse(s)) == s, modulo the
// whitespace around each entry, which Parse trims and Render does not
// reproduce.
func Render(spec types.DestinationSpec) string {
	if spec.Kind != types.DestinationAddressList {
		return ""
	}
	parts := make([]string, len(spec.Addresses))
	for i, addr := range spec.Addresses {
		if addr.PortExplicit {
			parts[i] = fmt.Sprintf("%s:%d", addr.Host, addr.Port)
		} else {
			parts[i] = addr.Host
		}
	}
	return strings.Join(parts, ",")
}
