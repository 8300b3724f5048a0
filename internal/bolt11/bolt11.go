package bolt11

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/zpay32"
)

var (
	ErrInvalidInvoice = errors.New("invalid bolt11 invoice")
	ErrNoAmount       = errors.New("invoice has no amount")
)

// network prefixes after "ln", longest first so bcrt is not read as bc
var networks = []struct {
	prefix string
	params *chaincfg.Params
}{
	{"bcrt", &chaincfg.RegressionNetParams},
	{"bc", &chaincfg.MainNetParams},
	{"tbs", &chaincfg.SigNetParams},
	{"tb", &chaincfg.TestNet3Params},
	{"sb", &chaincfg.SimNetParams},
}

// Network returns the chain parameters an invoice was issued for
func Network(invoice string) (*chaincfg.Params, error) {
	invoice = normalize(invoice)
	if !strings.HasPrefix(invoice, "ln") {
		return nil, fmt.Errorf("%w: missing ln prefix", ErrInvalidInvoice)
	}
	for _, n := range networks {
		if strings.HasPrefix(invoice[2:], n.prefix) {
			return n.params, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown network", ErrInvalidInvoice)
}

// Decode parses and verifies a bolt11 invoice, with or without a lightning: prefix
func Decode(invoice string) (*zpay32.Invoice, error) {
	invoice = normalize(invoice)
	if invoice == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidInvoice)
	}

	params, err := Network(invoice)
	if err != nil {
		return nil, err
	}

	inv, err := zpay32.Decode(invoice, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
	}
	return inv, nil
}

// MilliSatoshis returns the invoice amount in millisatoshis
func MilliSatoshis(invoice string) (int64, error) {
	inv, err := Decode(invoice)
	if err != nil {
		return 0, err
	}
	if inv.MilliSat == nil {
		return 0, ErrNoAmount
	}
	msat := uint64(*inv.MilliSat)
	if msat > math.MaxInt64 {
		return 0, fmt.Errorf("%w: amount overflows", ErrInvalidInvoice)
	}
	return int64(msat), nil
}

func normalize(invoice string) string {
	invoice = strings.ToLower(strings.TrimSpace(invoice))
	return strings.TrimPrefix(invoice, "lightning:")
}
