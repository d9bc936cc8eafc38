package utils

import (
	"regexp"
	"strings"
)

const maxPointerLength = 512

func IsValidAddress(v string) bool {
	re := regexp.MustCompile("^0x[0-9a-fA-F]{40}$")
	return re.MatchString(v)
}

// IsValidPointer accepts schemed URIs (https://..., ipfs://...) pointing at
// off-chain documents. The content behind the pointer is never fetched.
func IsValidPointer(v string) bool {
	if v == "" || len(v) > maxPointerLength {
		return false
	}
	if strings.ContainsAny(v, " \t\n") {
		return false
	}
	return strings.Contains(v, "://")
}
