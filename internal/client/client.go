package client

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/NooraWael/maze-wars/internal/dispatch"
	"github.com/NooraWael/maze-wars/internal/logger"
	"github.com/NooraWael/maze-wars/internal/packetlog"
	"github.com/NooraWael/maze-wars/internal/proto"
	"github.com/NooraWael/maze-wars/internal/session"
	"github.com/NooraWael/maze-wars/internal/state"
	"github.com/NooraWael/maze-wars/internal/transport"
)

const (
	// The server never announces disconnects, so roster entries are swept
	// once they go quiet.
	rosterMaxAge     = 5 * time.Minute
	rosterSweepEvery = 30 * time.Second
)

type Config struct {
	// ServerAddr is recorded in logs and telemetry; the transport channel
	// already holds the live connection.
	ServerAddr string
}

// Handler consumes the event stream: one call per inbound datagram, in
// receipt order, from the receive goroutine.
type Handler func(dispatch.Event)

// Client ties the session gate, the codec, and the duplex channel into one
// game session against one server.
type Client struct {
	cfg   Config
	runID string
	log   zerolog.Logger

	sess   *session.State
	ch     *transport.Channel
	pl     *packetlog.Logger
	roster *state.Roster

	onEvent Handler

	sent     atomic.Uint64
	received atomic.Uint64
}

type Stats struct {
	Joined        bool
	Sent          uint64
	Received      uint64
	PlayersOnline int
}

func New(cfg Config, runID string, ch *transport.Channel, pl *packetlog.Logger, roster *state.Roster, onEvent Handler) (*Client, error) {
	if ch == nil {
		return nil, errors.New("client: transport channel nil")
	}
	return &Client{
		cfg:     cfg,
		runID:   runID,
		log:     logger.New("client"),
		sess:    session.New(),
		ch:      ch,
		pl:      pl,
		roster:  roster,
		onEvent: onEvent,
	}, nil
}

func (c *Client) Joined() bool { return c.sess.Joined() }

func (c *Client) Stats() Stats {
	out := Stats{
		Joined:   c.sess.Joined(),
		Sent:     c.sent.Load(),
		Received: c.received.Load(),
	}
	if c.roster != nil {
		out.PlayersOnline = c.roster.Count()
	}
	return out
}

// Send transmits one client message. The join gate runs first: anything but
// JoinGame is rejected until a JoinGame send has locally succeeded. A failed
// send never changes session state; the caller may retry.
func (c *Client) Send(msg proto.ClientMessage) error {
	if err := c.sess.Guard(msg); err != nil {
		return err
	}
	b, err := proto.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Tag(), err)
	}
	if err := c.ch.Send(b); err != nil {
		c.pl.Log(packetlog.Record{
			RunID:     c.runID,
			Timestamp: proto.NowTS(),
			Type:      "udp",
			Direction: "out",
			Remote:    c.cfg.ServerAddr,
			Length:    len(b),
			Tag:       msg.Tag(),
			Message:   fmt.Sprintf("err=%v", err),
		})
		return fmt.Errorf("send %s: %w", msg.Tag(), err)
	}

	if _, ok := msg.(proto.JoinGame); ok {
		// No join acknowledgment exists on the wire: the session counts as
		// joined the moment the datagram leaves this process.
		c.sess.MarkJoined()
	}

	c.sent.Add(1)
	c.log.Debug().Str("tag", msg.Tag()).Int("len", len(b)).Msg("datagram sent")
	c.pl.Log(packetlog.Record{
		RunID:     c.runID,
		Timestamp: proto.NowTS(),
		Type:      "udp",
		Direction: "out",
		Remote:    c.cfg.ServerAddr,
		Length:    len(b),
		Tag:       msg.Tag(),
	})
	return nil
}

// Run drives the receive path until ctx is cancelled or the transport fails
// fatally. Decode failures are reported through the event stream and the loop
// keeps going; only transport-level errors end it.
func (c *Client) Run(ctx context.Context) error {
	c.log.Info().Str("server", c.cfg.ServerAddr).Msg("receive loop starting")
	c.pl.Log(packetlog.Record{
		RunID:     c.runID,
		Timestamp: proto.NowTS(),
		Type:      "startup",
		Remote:    c.cfg.ServerAddr,
		Message:   "receive loop start",
	})

	go c.rosterSweeper(ctx)

	err := c.ch.Run(ctx, c.handleDatagram)
	if err != nil && !errors.Is(err, context.Canceled) {
		c.log.Error().Err(err).Msg("receive loop terminated")
		return err
	}
	c.log.Info().Msg("receive loop stopped")
	return err
}

func (c *Client) rosterSweeper(ctx context.Context) {
	if c.roster == nil {
		return
	}
	t := time.NewTicker(rosterSweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			for _, id := range c.roster.SweepStale(now.UTC(), rosterMaxAge) {
				c.log.Debug().Uint32("player_id", id).Msg("roster entry went stale")
			}
		}
	}
}

func (c *Client) handleDatagram(b []byte) {
	c.received.Add(1)

	msg, err := proto.Decode(b)
	if err != nil {
		// Bad inbound data never stops the receive path.
		c.log.Warn().Err(err).Int("len", len(b)).Msg("undecodable datagram")
		c.pl.Log(packetlog.Record{
			RunID:     c.runID,
			Timestamp: proto.NowTS(),
			Type:      "udp",
			Direction: "in",
			Remote:    c.cfg.ServerAddr,
			Length:    len(b),
			Message:   fmt.Sprintf("err=%v payload_hex=%s", err, proto.ToHex(truncate(b, 128))),
		})
		if c.onEvent != nil {
			c.onEvent(dispatch.DecodeFailure(err))
		}
		return
	}

	if u, ok := msg.(proto.Unknown); ok {
		c.log.Warn().Str("tag", u.RawTag).Msg("unrecognized server message")
	} else {
		c.log.Debug().Str("tag", msg.Tag()).Int("len", len(b)).Msg("datagram received")
	}

	if c.roster != nil {
		c.roster.Apply(time.Now().UTC(), msg)
	}
	c.pl.Log(packetlog.Record{
		RunID:     c.runID,
		Timestamp: proto.NowTS(),
		Type:      "udp",
		Direction: "in",
		Remote:    c.cfg.ServerAddr,
		Length:    len(b),
		Tag:       msg.Tag(),
	})

	if c.onEvent != nil {
		c.onEvent(dispatch.Describe(msg))
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
