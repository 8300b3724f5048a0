package zaps

import (
	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	"github.com/sandwichfarm/zaptop/internal/ops"
)

// Zap is one normalized payment rebuilt from a receipt
type Zap struct {
	ReceiptID  string  // nevent1 of the receipt, "" when it cannot be encoded
	Payer      string  // npub1 of the zap request author, "" when unknown
	AmountMsat int64   // 0 when the invoice does not decode
	AmountSats int64   // AmountMsat truncated to whole sats
	Comment    *string // nil without a zap request
	Target     string  // note1 or naddr1, "" when unresolvable
	TargetKind RefKind
	Anonymous  bool
}

// Normalizer turns buffered receipts into zaps
type Normalizer struct {
	relayURL string
	amounts  *AmountDecoder
	refs     *Resolver
	logger   *ops.Logger
	metrics  *ops.Metrics
}

// NewNormalizer creates a normalizer for receipts fetched from relayURL
func NewNormalizer(relayURL string, logger *ops.Logger, metrics *ops.Metrics) *Normalizer {
	return &Normalizer{
		relayURL: relayURL,
		amounts:  NewAmountDecoder(logger, metrics),
		refs:     NewResolver(relayURL, logger, metrics),
		logger:   logger,
		metrics:  metrics,
	}
}

// Normalize returns one zap per receipt, in the same order
func (n *Normalizer) Normalize(receipts []*nostr.Event) []Zap {
	out := make([]Zap, 0, len(receipts))
	for _, receipt := range receipts {
		out = append(out, n.normalize(receipt))
	}
	return out
}

func (n *Normalizer) normalize(receipt *nostr.Event) Zap {
	var zap Zap

	req, err := ParseZapRequest(receipt)
	if err != nil {
		n.metrics.DecodeFailure("request")
		n.logger.LogDecodeFailure("request", receipt.ID, err, receipt.String())
	}

	if req != nil {
		comment := req.Content
		zap.Comment = &comment
		zap.Anonymous = IsAnonymous(req)

		if npub, err := nip19.EncodePublicKey(Payer(req)); err == nil {
			zap.Payer = npub
		} else {
			n.metrics.DecodeFailure("payer")
			n.logger.LogDecodeFailure("payer", receipt.ID, err, "")
		}
	}

	// a missing bolt11 tag decodes as an empty invoice, which yields 0
	invoice, _ := TagValue(receipt.Tags, "bolt11")
	zap.AmountMsat = n.amounts.MilliSats(receipt.ID, invoice)
	zap.AmountSats = zap.AmountMsat / msatPerSat

	zap.Target, zap.TargetKind = n.refs.Resolve(receipt)

	if id, err := nip19.EncodeEvent(receipt.ID, []string{n.relayURL}, receipt.PubKey); err == nil {
		zap.ReceiptID = id
	}

	return zap
}
