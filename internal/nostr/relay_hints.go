package nostr

import (
	"strings"

	"github.com/nbd-wtf/go-nostr"
)

// ValidateRelayURL performs basic validation on a relay URL
func ValidateRelayURL(url string) bool {
	return nostr.IsValidRelayURL(url)
}

// RelayHint returns the normalized hint when it is a usable relay URL, otherwise fallback
func RelayHint(hint, fallback string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" || !ValidateRelayURL(hint) {
		return fallback
	}
	return nostr.NormalizeURL(hint)
}
