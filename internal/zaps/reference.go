package zaps

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	internalnostr "github.com/sandwichfarm/zaptop/internal/nostr"
	"github.com/sandwichfarm/zaptop/internal/ops"
)

// RefKind tells which shape of content reference a receipt carries
type RefKind int

const (
	RefNone RefKind = iota
	RefDirect
	RefAddressed
)

func (k RefKind) String() string {
	switch k {
	case RefDirect:
		return "direct"
	case RefAddressed:
		return "addressed"
	default:
		return "none"
	}
}

var (
	ErrNoReference        = errors.New("receipt references no event or address")
	ErrMalformedReference = errors.New("malformed content reference")
)

// Reference is the content a zap paid for: an event id or an address pointer
type Reference struct {
	Kind    RefKind
	EventID string
	Address nostr.EntityPointer
}

// HasReference reports whether a receipt carries an "e" or "a" tag
func HasReference(receipt *nostr.Event) bool {
	if _, ok := FirstTag(receipt.Tags, "e"); ok {
		return true
	}
	_, ok := FirstTag(receipt.Tags, "a")
	return ok
}

// ResolveReference picks the zapped content of a receipt. An "e" tag wins over an "a" tag.
// Address references take their relay hint from the tag, or fallbackRelay.
func ResolveReference(receipt *nostr.Event, fallbackRelay string) (Reference, error) {
	if tag, ok := FirstTag(receipt.Tags, "e"); ok {
		if len(tag) < 2 || tag[1] == "" {
			return Reference{}, fmt.Errorf("%w: empty e tag", ErrMalformedReference)
		}
		return Reference{Kind: RefDirect, EventID: tag[1]}, nil
	}

	tag, ok := FirstTag(receipt.Tags, "a")
	if !ok {
		return Reference{}, ErrNoReference
	}
	if len(tag) < 2 {
		return Reference{}, fmt.Errorf("%w: empty a tag", ErrMalformedReference)
	}

	// the identifier may itself contain colons
	parts := strings.SplitN(tag[1], ":", 3)
	if len(parts) != 3 {
		return Reference{}, fmt.Errorf("%w: a tag %q", ErrMalformedReference, tag[1])
	}
	kind, err := strconv.Atoi(parts[0])
	if err != nil || kind < 0 {
		return Reference{}, fmt.Errorf("%w: kind %q", ErrMalformedReference, parts[0])
	}
	if parts[1] == "" {
		return Reference{}, fmt.Errorf("%w: empty pubkey", ErrMalformedReference)
	}

	hint := ""
	if len(tag) > 2 {
		hint = tag[2]
	}

	return Reference{
		Kind: RefAddressed,
		Address: nostr.EntityPointer{
			PublicKey:  parts[1],
			Kind:       kind,
			Identifier: parts[2],
			Relays:     []string{internalnostr.RelayHint(hint, fallbackRelay)},
		},
	}, nil
}

// Encode renders the reference as a NIP-19 identifier: note1 for events, naddr1 for addresses
func (r Reference) Encode() (string, error) {
	switch r.Kind {
	case RefDirect:
		return nip19.EncodeNote(r.EventID)
	case RefAddressed:
		return nip19.EncodeEntity(r.Address.PublicKey, r.Address.Kind, r.Address.Identifier, r.Address.Relays)
	default:
		return "", ErrNoReference
	}
}

// Resolver resolves and encodes receipt references, logging failures instead of returning them
type Resolver struct {
	relayURL string
	logger   *ops.Logger
	metrics  *ops.Metrics
}

// NewResolver creates a resolver that falls back to relayURL for address hints
func NewResolver(relayURL string, logger *ops.Logger, metrics *ops.Metrics) *Resolver {
	return &Resolver{
		relayURL: relayURL,
		logger:   logger,
		metrics:  metrics,
	}
}

// Resolve returns the encoded reference and its kind, or "" and RefNone on failure
func (r *Resolver) Resolve(receipt *nostr.Event) (string, RefKind) {
	ref, err := ResolveReference(receipt, r.relayURL)
	if err == nil {
		var code string
		if code, err = ref.Encode(); err == nil {
			return code, ref.Kind
		}
	}

	r.metrics.DecodeFailure("reference")
	r.logger.LogDecodeFailure("reference", receipt.ID, err, receipt.String())
	return "", RefNone
}
