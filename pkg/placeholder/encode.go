package placeholder

import "strings"

const upperhex = "0123456789ABCDEF"

// EncodeValue is the default Encoder: backslashes become forward slashes and
// the result is percent-encoded so it can never terminate a JSON string.
func EncodeValue(value string) string {
	return EncodeURIComponent(strings.ReplaceAll(value, `\`, "/"))
}

// EncodeURIComponent escapes every byte outside the unreserved set
// A-Z a-z 0-9 - _ . ! ~ * ' ( ) as UTF-8 percent triplets.
func EncodeURIComponent(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if isUnreserved(c) {
			builder.WriteByte(c)
			continue
		}
		builder.WriteByte('%')
		builder.WriteByte(upperhex[c>>4])
		builder.WriteByte(upperhex[c&15])
	}
	return builder.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
