package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSendTimeout: the transport did not accept the datagram within the send
// deadline. UDP accepts writes almost always, so hitting this usually means a
// saturated local stack; the caller may retry.
var ErrSendTimeout = errors.New("transport: send deadline elapsed")

const (
	defaultSendTimeout = time.Second
	defaultIdleRetry   = 100 * time.Millisecond

	// Bound on how long Close waits for an active receive loop to notice
	// cancellation before releasing the socket anyway.
	closeWait = 2 * time.Second

	maxDatagram = 64 * 1024
)

type Config struct {
	// RemoteAddr is the server host:port. The socket is connected, so the
	// channel only ever exchanges datagrams with this one peer.
	RemoteAddr string

	SendTimeout time.Duration // 0 means defaultSendTimeout
	IdleRetry   time.Duration // 0 means defaultIdleRetry
}

// Channel owns one UDP socket shared by a sender path and a receiver path.
// Concurrent Send and Run are safe (independent syscalls on one descriptor);
// what needs care is shutdown: the socket is released exactly once, and only
// after the receive loop has had a chance to stop using it.
type Channel struct {
	conn *net.UDPConn

	sendTimeout time.Duration
	idleRetry   time.Duration

	running   atomic.Bool
	done      chan struct{} // closed when Run exits
	closeOnce sync.Once
}

// Dial binds an ephemeral local port and connects it to the remote address.
func Dial(cfg Config) (*Channel, error) {
	raddr, err := net.ResolveUDPAddr("udp", cfg.RemoteAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %q: %w", cfg.RemoteAddr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %q: %w", cfg.RemoteAddr, err)
	}

	c := &Channel{
		conn:        conn,
		sendTimeout: cfg.SendTimeout,
		idleRetry:   cfg.IdleRetry,
		done:        make(chan struct{}),
	}
	if c.sendTimeout <= 0 {
		c.sendTimeout = defaultSendTimeout
	}
	if c.idleRetry <= 0 {
		c.idleRetry = defaultIdleRetry
	}
	return c, nil
}

func (c *Channel) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *Channel) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// Send hands one datagram to the transport within the send deadline.
// Success means accepted by the local stack, never received by the peer.
func (c *Channel) Send(b []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.sendTimeout)); err != nil {
		return fmt.Errorf("transport: set send deadline: %w", err)
	}
	if _, err := c.conn.Write(b); err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return fmt.Errorf("%w (after %v)", ErrSendTimeout, c.sendTimeout)
		}
		return fmt.Errorf("transport: send %d bytes: %w", len(b), err)
	}
	return nil
}

// Run reads datagrams until ctx is cancelled or the socket fails fatally.
// Each complete datagram is handed to onDatagram as its own copy.
//
// The read deadline doubles as the idle pause: when nothing is pending the
// read times out after the idle-retry interval and the loop re-checks ctx,
// so cancellation is observed within one interval. Returns context.Canceled
// on cancellation; any other return is a terminal transport error and the
// whole session needs a restart.
func (c *Channel) Run(ctx context.Context, onDatagram func([]byte)) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("transport: receive loop already started")
	}
	defer close(c.done)

	buf := make([]byte, maxDatagram)
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		if err := c.conn.SetReadDeadline(time.Now().Add(c.idleRetry)); err != nil {
			return fmt.Errorf("transport: set read deadline: %w", err)
		}
		n, err := c.conn.Read(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				// Close raced the final read; treat like cancellation.
				return context.Canceled
			}
			return fmt.Errorf("transport: receive: %w", err)
		}
		if n == 0 {
			continue
		}
		d := make([]byte, n)
		copy(d, buf[:n])
		onDatagram(d)
	}
}

// Close releases the socket exactly once. If a receive loop was started, Close
// first waits (bounded by closeWait) for it to exit so the descriptor is never
// pulled out from under an in-flight read. Cancel Run's context before calling.
func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.running.Load() {
			select {
			case <-c.done:
			case <-time.After(closeWait):
			}
		}
		err = c.conn.Close()
	})
	return err
}
