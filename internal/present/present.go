package present

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/sandwichfarm/zaptop/internal/config"
	"github.com/sandwichfarm/zaptop/internal/zaps"
)

const (
	anonymousPayer = "Anonymous"
	schemePrefix   = "nostr:"
	blockTrailer   = "\n\n\n\n\n"
)

// Presenter writes one block per zap to w
type Presenter struct {
	w           io.Writer
	gatewayURL  string
	showReceipt bool
}

// New creates a presenter using the output options of cfg
func New(w io.Writer, cfg *config.Output) *Presenter {
	return &Presenter{
		w:           w,
		gatewayURL:  cfg.GatewayURL,
		showReceipt: cfg.ShowReceipt,
	}
}

// Render writes zaps in the order given, which is smallest amount first after ranking
func (p *Presenter) Render(list []zaps.Zap) error {
	for _, z := range list {
		if err := p.render(z); err != nil {
			return fmt.Errorf("failed to write zap %s: %w", z.ReceiptID, err)
		}
	}
	return nil
}

func (p *Presenter) render(z zaps.Zap) error {
	if p.showReceipt && z.ReceiptID != "" {
		if _, err := fmt.Fprintln(p.w, z.ReceiptID); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(p.w, "%s zapped ⚡️%s sats\n\n%s%s%s",
		Payer(z), humanize.Comma(z.AmountSats), Comment(z), p.Link(z), blockTrailer)
	return err
}

// Payer returns the payer line prefix: "Anonymous" or a nostr: URI
func Payer(z zaps.Zap) string {
	if z.Anonymous {
		return anonymousPayer
	}
	return schemePrefix + z.Payer
}

// Comment returns the quoted comment block, or "" when there is nothing to quote
func Comment(z zaps.Zap) string {
	if z.Comment == nil || *z.Comment == "" {
		return ""
	}
	return `"` + *z.Comment + "\"\n\n"
}

// Link points at the zapped content: a web gateway for addresses, a nostr: URI otherwise
func (p *Presenter) Link(z zaps.Zap) string {
	if z.TargetKind == zaps.RefAddressed {
		return p.gatewayURL + z.Target
	}
	return schemePrefix + z.Target
}
