package zaps

import (
	"github.com/sandwichfarm/zaptop/internal/bolt11"
	"github.com/sandwichfarm/zaptop/internal/ops"
)

const msatPerSat = 1000

// DecodeMilliSats returns the amount of a bolt11 invoice in millisatoshis
func DecodeMilliSats(invoice string) (int64, error) {
	return bolt11.MilliSatoshis(invoice)
}

// DecodeAmount returns the amount of a bolt11 invoice in whole satoshis
func DecodeAmount(invoice string) (int64, error) {
	msat, err := DecodeMilliSats(invoice)
	if err != nil {
		return 0, err
	}
	return msat / msatPerSat, nil
}

// AmountDecoder turns invoices into amounts, falling back to 0 on any failure
type AmountDecoder struct {
	logger  *ops.Logger
	metrics *ops.Metrics
}

// NewAmountDecoder creates an amount decoder reporting failures to logger and metrics
func NewAmountDecoder(logger *ops.Logger, metrics *ops.Metrics) *AmountDecoder {
	return &AmountDecoder{
		logger:  logger,
		metrics: metrics,
	}
}

// MilliSats decodes invoice for the receipt eventID
func (d *AmountDecoder) MilliSats(eventID, invoice string) int64 {
	msat, err := DecodeMilliSats(invoice)
	if err != nil {
		d.metrics.DecodeFailure("amount")
		d.logger.LogDecodeFailure("amount", eventID, err, "")
		return 0
	}
	return msat
}

// Sats is MilliSats in whole satoshis
func (d *AmountDecoder) Sats(eventID, invoice string) int64 {
	return d.MilliSats(eventID, invoice) / msatPerSat
}
