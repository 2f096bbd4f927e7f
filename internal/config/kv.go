package config

import (
	"errors"
	"strings"
)

// ErrMalformedLine is returned for a content line without a key.
var ErrMalformedLine = errors.New("malformed key=value line")

// SplitKeyValue splits line on its first '='. The value stops at the
// first line terminator. Both halves are trimmed.
func SplitKeyValue(line string) (key, value string, err error) {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return "", "", ErrMalformedLine
	}
	key = Trim(line[:i])
	if key == "" {
		return "", "", ErrMalformedLine
	}
	value = line[i+1:]
	if j := strings.IndexAny(value, "\r\n"); j >= 0 {
		value = value[:j]
	}
	return key, Trim(value), nil
}

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}
