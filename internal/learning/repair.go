package learning

import (
	"errors"
	"strings"
)

// DefaultMaxRepairClosers caps how many closing brackets a repair may append.
const DefaultMaxRepairClosers = 64

var errRepairLimit = errors.New("bracket imbalance exceeds repair limit")

// RepairSyntax applies the fixed textual repairs to truncated or sloppy JSON:
// an unterminated string is closed, trailing separators before a closer are
// removed and every unclosed '{' or '[' gets its closer appended in nesting
// order. Excess closers are left alone. The scan is string aware so brackets
// and commas inside string literals are not touched.
func RepairSyntax(s string, maxClosers int) (string, error) {
	s = strings.TrimSpace(s)

	var stack []byte
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if n := len(stack); n > 0 && stack[n-1] == c {
				stack = stack[:n-1]
			}
		}
	}

	if maxClosers > 0 && len(stack) > maxClosers {
		return "", errRepairLimit
	}

	var b strings.Builder
	b.Grow(len(s) + len(stack) + 1)
	if inString {
		if escaped {
			s = s[:len(s)-1]
		}
		b.WriteString(s)
		b.WriteByte('"')
	} else {
		b.WriteString(strings.TrimRight(s, ", \t\r\n"))
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return removeTrailingSeparators(b.String()), nil
}

// removeTrailingSeparators drops a ',' when the next non-space byte closes an
// object or array.
func removeTrailingSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}
		if c == '"' {
			inString = true
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isJSONSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// balancedPrefix returns s up to and including the closer that balances its
// first byte, or all of s when the input is truncated before that point.
func balancedPrefix(s string) string {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return s
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
