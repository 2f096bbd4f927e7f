package config

import (
	"math"
)

// ParseLenientInt reads the leading integer of s the way C atoi does:
// leading whitespace, an optional sign, then digits up to the first
// non-digit. Input without digits yields 0. It never fails; values that
// overflow saturate.
func ParseLenientInt(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		d := int(s[i] - '0')
		if n > (math.MaxInt-d)/10 {
			if neg {
				return math.MinInt
			}
			return math.MaxInt
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}

// ParseLenientBool is ParseLenientInt(s) != 0, so "yes" is false.
func ParseLenientBool(s string) bool {
	return ParseLenientInt(s) != 0
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
