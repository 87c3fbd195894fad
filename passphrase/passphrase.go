// Package passphrase implements the shared-secret gate in front of the claim
// and roster-mutation flows. It is a nominal gate, not a security control:
// there is no rate limiting and the rule is deliberately guessable by members.
package passphrase

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var initials = []rune{'B', 'A', 'R'}

// Accept reports whether the submitted text passes the challenge: exactly
// three whitespace-separated words whose first letters are B, A, R in order,
// case-insensitively.
func Accept(input string) bool {
	words := strings.Fields(strings.TrimSpace(input))
	if len(words) != len(initials) {
		return false
	}
	for i, word := range words {
		first, _ := utf8.DecodeRuneInString(word)
		if unicode.ToUpper(first) != initials[i] {
			return false
		}
	}
	return true
}
