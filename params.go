package main

import (
	"strings"

	"qcomposer/internal/circuit"
)

// parseAngleInput parses the angle typed into the composer. An empty input
// means 0.
func parseAngleInput(input string) (float64, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, true
	}
	return circuit.ParseAngle(input)
}

// isAngleKey reports whether a key press may be part of an angle expression.
func isAngleKey(key string) bool {
	if len(key) != 1 {
		return false
	}
	ch := key[0]
	return (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == 'e' || ch == 'E' || ch == '+' ||
		ch == 'p' || ch == 'i' || ch == '*' || ch == '/'
}
