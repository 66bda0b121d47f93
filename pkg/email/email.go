// Package email derives display data from account email addresses.
package email

import (
	"strings"
	"unicode"
)

// FallbackName is used when the local part has no usable words.
const FallbackName = "Registry User"

// DisplayName builds a title-cased name from the local part of an address:
// "jane.doe+lists@example.com" becomes "Jane Doe". Plus-suffixes are dropped.
func DisplayName(address string) string {
	local, _, _ := strings.Cut(address, "@")
	local, _, _ = strings.Cut(local, "+")

	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return FallbackName
	}
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
