package utils

import "strings"

// MaskedAccount renders a bank account for display, keeping only the last
// four digits visible.
func MaskedAccount(lastFour string) string {
	return strings.Repeat("X", 6) + lastFour
}
