package nostr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/sandwichfarm/zaptop/internal/config"
	"github.com/sandwichfarm/zaptop/internal/ops"
)

var (
	ErrEOSETimeout        = errors.New("timed out waiting for end of stored events")
	ErrSubscriptionClosed = errors.New("subscription closed before end of stored events")
)

// Client is a session with a single relay
type Client struct {
	relay  *nostr.Relay
	config *config.Relay
	logger *ops.Logger
}

// Connect opens a session with the relay named in the configuration
func Connect(ctx context.Context, cfg *config.Relay, logger *ops.Logger) (*Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()

	relay, err := nostr.RelayConnect(connectCtx, cfg.URL)
	if err != nil {
		logger.LogRelayConnection(cfg.URL, false, err)
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URL, err)
	}
	logger.LogRelayConnection(relay.URL, true, nil)

	return &Client{
		relay:  relay,
		config: cfg,
		logger: logger,
	}, nil
}

// URL returns the normalized address of the connected relay
func (c *Client) URL() string {
	return c.relay.URL
}

// Stream subscribes with filter and hands every stored event to onEvent in delivery order.
// It returns nil once the relay signals end of stored events.
func (c *Client) Stream(ctx context.Context, filter nostr.Filter, onEvent func(*nostr.Event)) error {
	sub, err := c.relay.Subscribe(ctx, nostr.Filters{filter})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Unsub()

	var timeout <-chan time.Time
	if d := c.config.EOSETimeout(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}

	count := 0
	for {
		select {
		case evt, ok := <-sub.Events:
			if !ok {
				return ErrSubscriptionClosed
			}
			count++
			onEvent(evt)
		case <-sub.EndOfStoredEvents:
			c.logger.Debug("end of stored events",
				"relay", c.relay.URL,
				"events", count)
			return nil
		case reason := <-sub.ClosedReason:
			return fmt.Errorf("relay closed subscription: %s", reason)
		case <-timeout:
			return ErrEOSETimeout
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close closes the relay connection
func (c *Client) Close() error {
	err := c.relay.Close()
	c.logger.LogRelayConnection(c.relay.URL, false, nil)
	return err
}

// ReceiptFilter requests zap receipts published within lookback of now
func ReceiptFilter(now time.Time, lookback time.Duration) nostr.Filter {
	since := nostr.Timestamp(now.Add(-lookback).Unix())
	return nostr.Filter{
		Kinds: []int{nostr.KindZap},
		Since: &since,
	}
}
