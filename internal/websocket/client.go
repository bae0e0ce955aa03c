package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	maxMessageSize = 64 << 10
)

// InboundFunc handles one text frame read from a client.
type InboundFunc func(ctx context.Context, c *Client, data []byte)

// Client represents a single WebSocket connection.
type Client struct {
	hub        *Hub
	conn       *ws.Conn
	businessID int64
	inbound    InboundFunc
	send       chan []byte
}

// NewClient creates a Client tied to hub and conn. businessID 0 subscribes
// to every business. inbound may be nil, in which case reads are discarded.
func NewClient(hub *Hub, conn *ws.Conn, businessID int64, inbound InboundFunc) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		businessID: businessID,
		inbound:    inbound,
		send:       make(chan []byte, sendBufferSize),
	}
}

func (c *Client) BusinessID() int64 { return c.businessID }

// Send queues msg for this client only.
func (c *Client) Send(msg Message) bool {
	return c.hub.SendTo(c, msg)
}

// Run registers the client, starts the write pump, and runs the read pump.
// It blocks until the connection is closed, then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.conn.SetReadLimit(maxMessageSize)
	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump returns on error (connection close), which triggers cleanup.
func (c *Client) readPump(ctx context.Context) {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		if c.inbound != nil && typ == ws.MessageText {
			c.inbound(ctx, c, data)
		}
	}
}

// writePump drains the send channel and writes messages to the WebSocket.
// It also sends periodic pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
