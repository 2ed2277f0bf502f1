package prefsink

import (
	"strings"
	"unicode"
)

// EnvVarName derives the environment variable consulted for key in
// namespace. The two are joined with an underscore, runs of hyphens and
// whitespace collapse to a single underscore, camelCase humps become
// underscores and the result is upper-cased:
//
//	EnvVarName("buster", "typeOfThing")    // BUSTER_TYPE_OF_THING
//	EnvVarName("buster", "type - of thing") // BUSTER_TYPE_OF_THING
func EnvVarName(namespace, key string) string {
	joined := namespace + "_" + key

	var b strings.Builder
	b.Grow(len(joined) + 8)
	inSeparator := false
	first := true
	for _, r := range joined {
		if r == '-' || unicode.IsSpace(r) {
			if !inSeparator {
				b.WriteByte('_')
				inSeparator = true
			}
			first = false
			continue
		}
		inSeparator = false
		if isASCIIUpper(r) {
			if first {
				r = unicode.ToLower(r)
			} else {
				b.WriteByte('_')
			}
		}
		first = false
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

func isASCIIUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
