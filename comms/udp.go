// Package comms provides a minimal datagram transport for exchanging
// serialized artifact records with the base station. It is deliberately
// dumb: one socket, named peers, no delivery guarantees. Confirmation of
// a report, if any, comes back as an ordinary inbound datagram.
package comms

import (
	"context"
	"net"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

const maxDatagramSize = 65507

// Client sends datagrams to named peers and hands inbound datagrams to a
// bound handler. It satisfies the reporter's notion of a comms client.
type Client struct {
	conn  *net.UDPConn
	peers map[string]*net.UDPAddr

	mu      sync.RWMutex
	handler func(src string, data []byte)

	logger golog.Logger

	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewClient listens on listenAddr and resolves the given name->address
// peer table once, up front.
func NewClient(listenAddr string, peers map[string]string, logger golog.Logger) (*Client, error) {
	laddr, err := net.ResolveUDPAddr("udp", listenAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "bad listen address %q", listenAddr)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, errors.Wrap(err, "cannot listen for datagrams")
	}
	resolved := make(map[string]*net.UDPAddr, len(peers))
	for name, addr := range peers {
		uaddr, err := net.ResolveUDPAddr("udp", addr)
		if err != nil {
			goutils.UncheckedError(conn.Close())
			return nil, errors.Wrapf(err, "bad address %q for peer %q", addr, name)
		}
		resolved[name] = uaddr
	}

	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	c := &Client{
		conn:       conn,
		peers:      resolved,
		logger:     logger,
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}
	c.activeBackgroundWorkers.Add(1)
	goutils.PanicCapturingGo(func() {
		defer c.activeBackgroundWorkers.Done()
		c.readLoop()
	})
	return c, nil
}

// Send submits one datagram to the named peer.
func (c *Client) Send(ctx context.Context, dst string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr, ok := c.peers[dst]
	if !ok {
		return errors.Errorf("unknown peer %q", dst)
	}
	if _, err := c.conn.WriteToUDP(data, addr); err != nil {
		return errors.Wrapf(err, "cannot send to %q", dst)
	}
	return nil
}

// Bind registers the handler invoked for each inbound datagram. The
// handler runs on the read loop, one datagram at a time.
func (c *Client) Bind(handler func(src string, data []byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// Close stops the read loop and closes the socket.
func (c *Client) Close(ctx context.Context) error {
	c.cancelFunc()
	err := c.conn.Close()
	c.activeBackgroundWorkers.Wait()
	return err
}

func (c *Client) readLoop() {
	buf := make([]byte, maxDatagramSize)
	for {
		n, remote, err := c.conn.ReadFromUDP(buf)
		if err != nil {
			if c.cancelCtx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			c.logger.Errorw("error reading datagram", "error", err)
			continue
		}
		c.mu.RLock()
		handler := c.handler
		c.mu.RUnlock()
		if handler == nil {
			continue
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		handler(remote.String(), data)
	}
}
