package zaps

import (
	"errors"

	"github.com/nbd-wtf/go-nostr"

	"github.com/sandwichfarm/zaptop/internal/ops"
)

var (
	ErrWrongKind   = errors.New("not a zap receipt")
	ErrSelfZap     = errors.New("payer zapped themselves")
	ErrNoRecipient = errors.New("receipt has no recipient")
	ErrDuplicate   = errors.New("receipt already seen")
)

// RejectReason maps a validation error to a short label for logs and metrics
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrWrongKind):
		return "wrong_kind"
	case errors.Is(err, ErrNoReference):
		return "no_reference"
	case errors.Is(err, ErrSelfZap):
		return "self_zap"
	case errors.Is(err, ErrNoRecipient):
		return "no_recipient"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	default:
		return "other"
	}
}

// Validator decides whether a receipt is worth keeping
type Validator struct {
	// RequireRecipient rejects receipts that have no "p" tag
	RequireRecipient bool
}

// Check returns nil for an eligible receipt, or the reason it is not
func (v Validator) Check(receipt *nostr.Event) error {
	if receipt.Kind != nostr.KindZap {
		return ErrWrongKind
	}
	if !HasReference(receipt) {
		return ErrNoReference
	}

	recipient, hasRecipient := TagValue(receipt.Tags, "p")
	if !hasRecipient {
		if v.RequireRecipient {
			return ErrNoRecipient
		}
		return nil
	}

	// an unreadable request leaves the payer unknown, which is never a self-zap
	if req, err := ParseZapRequest(receipt); err == nil && Payer(req) == recipient {
		return ErrSelfZap
	}

	return nil
}

// Collector buffers eligible receipts in arrival order until they are drained
type Collector struct {
	validator Validator
	logger    *ops.Logger
	metrics   *ops.Metrics

	seen     map[string]struct{}
	receipts []*nostr.Event
	received int
}

// NewCollector creates a collector that filters with validator
func NewCollector(validator Validator, logger *ops.Logger, metrics *ops.Metrics) *Collector {
	return &Collector{
		validator: validator,
		logger:    logger,
		metrics:   metrics,
		seen:      make(map[string]struct{}),
	}
}

// Accept validates a receipt and keeps it when eligible.
// Rejections are expected and only logged at debug level.
func (c *Collector) Accept(receipt *nostr.Event) bool {
	c.received++
	c.metrics.Received()

	err := c.validator.Check(receipt)
	if err == nil {
		if _, dup := c.seen[receipt.ID]; dup {
			err = ErrDuplicate
		}
	}
	if err != nil {
		reason := RejectReason(err)
		c.metrics.Rejected(reason)
		c.logger.LogRejection(receipt.ID, reason)
		return false
	}

	c.seen[receipt.ID] = struct{}{}
	c.receipts = append(c.receipts, receipt)
	c.metrics.Accepted()
	return true
}

// Received returns how many receipts were offered so far
func (c *Collector) Received() int {
	return c.received
}

// Drain hands off the buffered receipts and resets the buffer
func (c *Collector) Drain() []*nostr.Event {
	out := c.receipts
	c.receipts = nil
	return out
}
