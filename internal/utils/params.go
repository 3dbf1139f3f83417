// Package utils holds the lenient integer parsing shared by the search and
// anchor parameter readers. Link parameters are user-editable, so malformed
// values fall back instead of failing the request.
package utils

import (
	"strconv"
	"strings"
)

// AtoiDefault parses s after trimming surrounding whitespace. Empty or
// malformed input yields def.
//
// Example:
//
//	n := utils.AtoiDefault(" 2 ", 1) // returns 2
//	n = utils.AtoiDefault("", 50)    // returns 50
//	n = utils.AtoiDefault("x", 1)    // returns 1
func AtoiDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// PositiveInt parses s as an integer greater than zero. It returns 0 and
// false for anything else, including "0" and "-3".
func PositiveInt(s string) (int, bool) {
	if n := AtoiDefault(s, 0); n > 0 {
		return n, true
	}
	return 0, false
}
