package bolt11

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Invoices from the BOLT-11 test vectors
const (
	donationInvoice = "lnbc1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqdpl2pkx2ctnv5sxxmmwwd5kgetjypeh2ursdae8g6twvus8g6rfwvs8qun0dfjkxaq8rkx3yf5tcsyz3d73gafnh3cax9rn449d9p5uxz9ezhhypd0elx87sjle52x86fux2ypatgddc6k63n7erqz25le42c4u4ecky03ylcqca784w"
	coffeeInvoice   = "lnbc2500u1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqdq5xysxxatsyp3k7enxv4jsxqzpuaztrnwngzn3kdzw5hydlzf03qdgm2hdq27cqv3agm2awhz5se903vruatfhq77w3ls4evs3ch9zw97j25emudupq63nyw24cg27h2rspfj9srp"
	secretInvoice   = "lnbc2500u1pvjluezsp5zyg3zyg3zyg3zyg3zyg3zyg3zyg3zyg3zyg3zyg3zyg3zyg3zygspp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqdq5xysxxatsyp3k7enxv4jsxqzpu9qrsgquk0rl77nj30yxdy8j9vdx85fkpmdla2087ne0xh8nhedh8w27kyke0lp53ut353s06fv3qfegext0eh0ymjpf39tuven09sam30g4vgpfna3rh"
	hashInvoice     = "lnbc20m1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqhp58yjmdan79s6qqdhdzgynm4zwqd5d7xmw5fk98klysy043l2ahrqscc6gd6ql3jrc5yzme8v4ntcewwz5cnw92tz0pc8qcuufvq7khhr8wpald05e92xw006sq94mg8v2ndf4sefvf9sygkshp5zfem29trqq2yxxz7"
	testnetInvoice  = "lntb20m1pvjluezhp58yjmdan79s6qqdhdzgynm4zwqd5d7xmw5fk98klysy043l2ahrqspp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqfpp3x9et2e20v6pu37c5d9vax37wxq72un98kmzzhznpurw9sgl2v0nklu2g4d0keph5t7tj9tcqd8rexnd07ux4uv2cjvcqwaxgj7v4uwn5wmypjd5n69z2xm3xgksg28nwht7f6zspwp3f9t"
	featuresInvoice = "lnbc25m1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqdq5vdhkven9v5sxyetpdeessp5zyg3zyg3zyg3zyg3zyg3zyg3zyg3zyg3zyg3zyg3zyg3zyg3zygs9q5sqqqqqqqqqqqqqqqqsgq2a25dxl5hrntdtn6zvydt7d66hyzsyhqs4wdynavys42xgl6sgx9c4g7me86a27t07mdtfry458rtjr0v92cnmswpsjscgt2vcse3sgpz3uapa"
)

func TestMilliSatoshis(t *testing.T) {
	tests := []struct {
		name    string
		invoice string
		msat    int64
	}{
		{name: "micro", invoice: coffeeInvoice, msat: 250_000_000},
		{name: "uppercase", invoice: strings.ToUpper(coffeeInvoice), msat: 250_000_000},
		{name: "lightning uri", invoice: "lightning:" + coffeeInvoice, msat: 250_000_000},
		{name: "payment secret", invoice: secretInvoice, msat: 250_000_000},
		{name: "milli with description hash", invoice: hashInvoice, msat: 2_000_000_000},
		{name: "testnet with fallback", invoice: testnetInvoice, msat: 2_000_000_000},
		{name: "feature bits", invoice: featuresInvoice, msat: 2_500_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msat, err := MilliSatoshis(tt.invoice)
			require.NoError(t, err)
			assert.Equal(t, tt.msat, msat)
		})
	}
}

func TestMilliSatoshisNoAmount(t *testing.T) {
	_, err := MilliSatoshis(donationInvoice)
	assert.ErrorIs(t, err, ErrNoAmount)
}

func TestDecode(t *testing.T) {
	inv, err := Decode(coffeeInvoice)
	require.NoError(t, err)

	require.NotNil(t, inv.Description)
	assert.Equal(t, "1 cup coffee", *inv.Description)
	assert.Equal(t, int64(1496314658), inv.Timestamp.Unix())
	require.NotNil(t, inv.Destination)
	assert.Equal(t, "03e7156ae33b0a208d0744199163177e909e80176e55d97a2f221ede0f934dd9ad",
		hex.EncodeToString(inv.Destination.SerializeCompressed()))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		invoice string
	}{
		{name: "empty", invoice: ""},
		{name: "whitespace", invoice: "   "},
		{name: "not an invoice", invoice: "hello"},
		{name: "no ln prefix", invoice: "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"},
		{name: "unknown network", invoice: "lnxy2500u1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypq"},
		{name: "bad checksum", invoice: coffeeInvoice[:len(coffeeInvoice)-1] + "q"},
		{name: "truncated", invoice: coffeeInvoice[:40]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.invoice)
			assert.ErrorIs(t, err, ErrInvalidInvoice)
		})
	}
}

func TestNetwork(t *testing.T) {
	tests := []struct {
		invoice  string
		expected *chaincfg.Params
	}{
		{invoice: "lnbc2500u1", expected: &chaincfg.MainNetParams},
		{invoice: "lnbc1p", expected: &chaincfg.MainNetParams},
		{invoice: "lntb20m1", expected: &chaincfg.TestNet3Params},
		{invoice: "lnbcrt50n1", expected: &chaincfg.RegressionNetParams},
		{invoice: "lntbs10u1", expected: &chaincfg.SigNetParams},
		{invoice: "lnsb1u1", expected: &chaincfg.SimNetParams},
	}

	for _, tt := range tests {
		t.Run(tt.invoice, func(t *testing.T) {
			params, err := Network(tt.invoice)
			require.NoError(t, err)
			assert.Equal(t, tt.expected.Name, params.Name)
		})
	}
}

func TestDecodeDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		msat, err := MilliSatoshis(hashInvoice)
		require.NoError(t, err)
		assert.Equal(t, int64(2_000_000_000), msat)
	}
}
