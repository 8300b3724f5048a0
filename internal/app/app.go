package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/sandwichfarm/zaptop/internal/config"
	internalnostr "github.com/sandwichfarm/zaptop/internal/nostr"
	"github.com/sandwichfarm/zaptop/internal/ops"
	"github.com/sandwichfarm/zaptop/internal/present"
	"github.com/sandwichfarm/zaptop/internal/zaps"
)

// Source streams stored receipts from one relay
type Source interface {
	URL() string
	Stream(ctx context.Context, filter nostr.Filter, onEvent func(*nostr.Event)) error
	Close() error
}

// Dialer opens a Source for the configured relay
type Dialer func(ctx context.Context, cfg *config.Relay, logger *ops.Logger) (Source, error)

// DialRelay is the Dialer backed by a real relay connection
func DialRelay(ctx context.Context, cfg *config.Relay, logger *ops.Logger) (Source, error) {
	client, err := internalnostr.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Summary counts what happened to the receipts of a run
type Summary struct {
	Received  int
	Accepted  int
	Rejected  int
	Presented int
}

// Runner executes the pipeline once
type Runner struct {
	cfg     *config.Config
	dial    Dialer
	out     io.Writer
	logger  *ops.Logger
	metrics *ops.Metrics
	now     func() time.Time
}

// NewRunner creates a runner writing results to out
func NewRunner(cfg *config.Config, dial Dialer, out io.Writer, logger *ops.Logger, metrics *ops.Metrics) *Runner {
	if dial == nil {
		dial = DialRelay
	}
	if logger == nil {
		logger = ops.Default()
	}
	return &Runner{
		cfg:     cfg,
		dial:    dial,
		out:     out,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Run connects, collects receipts until end of stored events, then ranks and prints them.
// Nothing is printed when connecting or streaming fails.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	start := r.now()

	source, err := r.dial(ctx, &r.cfg.Relay, r.logger.WithComponent("relay"))
	if err != nil {
		return summary, err
	}
	defer func() {
		if err := source.Close(); err != nil {
			r.logger.Warn("failed to close relay", "relay", source.URL(), "error", err)
		}
	}()

	collector := zaps.NewCollector(
		zaps.Validator{RequireRecipient: r.cfg.Query.RequireRecipient},
		r.logger.WithComponent("collector"),
		r.metrics,
	)

	filter := internalnostr.ReceiptFilter(start, r.cfg.Query.Lookback)
	if err := source.Stream(ctx, filter, func(evt *nostr.Event) { collector.Accept(evt) }); err != nil {
		return summary, fmt.Errorf("failed to stream receipts from %s: %w", source.URL(), err)
	}

	receipts := collector.Drain()
	summary.Received = collector.Received()
	summary.Accepted = len(receipts)
	summary.Rejected = summary.Received - summary.Accepted

	normalizer := zaps.NewNormalizer(source.URL(), r.logger.WithComponent("normalizer"), r.metrics)
	ranked := zaps.Rank(normalizer.Normalize(receipts), r.cfg.Query.Limit)

	if err := present.New(r.out, &r.cfg.Output).Render(ranked); err != nil {
		return summary, err
	}
	summary.Presented = len(ranked)

	finished := r.now()
	duration := finished.Sub(start)
	r.logger.LogRunSummary(source.URL(), summary.Received, summary.Accepted, summary.Presented, duration)

	r.metrics.Finish(summary.Presented, duration, finished)
	if r.metrics != nil && r.cfg.Metrics.Textfile != "" {
		if err := r.metrics.WriteTextfile(r.cfg.Metrics.Textfile); err != nil {
			r.logger.Warn("metrics not written", "path", r.cfg.Metrics.Textfile, "error", err)
		}
	}

	return summary, nil
}

// Run is a shorthand for NewRunner(...).Run(ctx)
func Run(ctx context.Context, cfg *config.Config, dial Dialer, out io.Writer, logger *ops.Logger, metrics *ops.Metrics) (Summary, error) {
	return NewRunner(cfg, dial, out, logger, metrics).Run(ctx)
}
