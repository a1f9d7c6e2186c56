package typescript

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CamelCase converts a string separated by underscores or slashes to
// camelCase, eg. `alpha/get_metadata` becomes `alphaGetMetadata`.
//
// Underscores are always converted before any slash is looked at.
func CamelCase(s string) string {
	for {
		idx := strings.IndexByte(s, '_')
		if idx == -1 {
			idx = strings.IndexByte(s, '/')
		}

		if idx == -1 {
			return s
		}

		next, size := utf8.DecodeRuneInString(s[idx+1:])
		if size == 0 {
			// Nothing left to capitalize after a trailing separator.
			return s[0:idx]
		}

		s = s[0:idx] + string(unicode.ToUpper(next)) + s[idx+1+size:]
	}
}

// RouteMethodName returns the client method name of route `route` in
// namespace `namespace`.
func RouteMethodName(namespace string, route string) string {
	return CamelCase(namespace + "_" + route)
}
