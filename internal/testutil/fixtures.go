package testutil

import (
	"bytes"
	"crypto/sha256"
	"strings"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
	"github.com/nbd-wtf/go-nostr"
)

var (
	PayerKey     = strings.Repeat("a1", 32)
	RecipientKey = strings.Repeat("b2", 32)
	ServiceKey   = strings.Repeat("c3", 32)
	AuthorKey    = strings.Repeat("d4", 32)
)

// EventID returns a deterministic 32-byte hex id built from a single hex digit
func EventID(digit byte) string {
	return strings.Repeat(string(digit), 64)
}

var invoiceKey, _ = btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x11}, 32))

// Invoice returns a signed mainnet bolt11 invoice for msat millisatoshis.
// Zero leaves the amount out.
func Invoice(t testing.TB, msat int64) string {
	t.Helper()

	opts := []func(*zpay32.Invoice){zpay32.Description("zap")}
	if msat > 0 {
		opts = append(opts, zpay32.Amount(lnwire.MilliSatoshi(msat)))
	}

	var hash [32]byte
	inv, err := zpay32.NewInvoice(&chaincfg.MainNetParams, hash, time.Unix(1700000000, 0), opts...)
	if err != nil {
		t.Fatalf("failed to build invoice: %v", err)
	}

	encoded, err := inv.Encode(zpay32.MessageSigner{
		SignCompact: func(msg []byte) ([]byte, error) {
			digest := sha256.Sum256(msg)
			return ecdsa.SignCompact(invoiceKey, digest[:], true), nil
		},
	})
	if err != nil {
		t.Fatalf("failed to encode invoice: %v", err)
	}
	return encoded
}

// ZapRequest returns the JSON of a kind 9734 zap request
func ZapRequest(pubkey, comment string, anon bool) string {
	req := nostr.Event{
		ID:        EventID('f'),
		PubKey:    pubkey,
		CreatedAt: 1700000000,
		Kind:      nostr.KindZapRequest,
		Tags:      nostr.Tags{{"p", RecipientKey}, {"relays", "wss://relay.test"}},
		Content:   comment,
	}
	if anon {
		req.Tags = append(req.Tags, nostr.Tag{"anon"})
	}
	return req.String()
}

// Receipt returns a kind 9735 event carrying the given tags
func Receipt(id string, tags ...nostr.Tag) *nostr.Event {
	return &nostr.Event{
		ID:        id,
		PubKey:    ServiceKey,
		CreatedAt: 1700000100,
		Kind:      nostr.KindZap,
		Tags:      nostr.Tags(tags),
	}
}
