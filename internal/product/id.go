package product

import (
	"strconv"
	"strings"
	"unicode"
)

// parseIDPrefix reads an integer the way a lenient number parser does:
// leading whitespace, an optional sign, then decimal digits or 0x/0X
// followed by hex digits. Anything after the digits is ignored.
func parseIDPrefix(raw string) (int64, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base, isDigit := 10, isDecimal
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit = 16, isHex
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	digits := s[:end]
	if neg {
		digits = "-" + digits
	}
	id, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
