package zaps

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
)

var (
	ErrNoDescription  = errors.New("receipt has no description tag")
	ErrInvalidRequest = errors.New("invalid zap request")
)

// ParseZapRequest decodes the kind 9734 zap request embedded in a receipt's description tag
func ParseZapRequest(receipt *nostr.Event) (*nostr.Event, error) {
	desc, ok := TagValue(receipt.Tags, "description")
	if !ok {
		return nil, ErrNoDescription
	}

	var req nostr.Event
	if err := json.Unmarshal([]byte(desc), &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.PubKey == "" {
		return nil, fmt.Errorf("%w: missing pubkey", ErrInvalidRequest)
	}

	return &req, nil
}

// Payer returns the hex pubkey of whoever signed the zap request
func Payer(req *nostr.Event) string {
	if req == nil {
		return ""
	}
	return req.PubKey
}

// IsAnonymous reports whether the zap request carries an "anon" tag.
// Without a request anonymity cannot be asserted.
func IsAnonymous(req *nostr.Event) bool {
	if req == nil {
		return false
	}
	_, ok := FirstTag(req.Tags, "anon")
	return ok
}
