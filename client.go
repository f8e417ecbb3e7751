package main

import (
	"fmt"
	"log"
	"net"
	"time"
)

// Client holds the identity and registration state of one connected peer.
// ID stands in for a raw file descriptor: Go's net.Conn does not expose one,
// so a monotonically increasing ID plays the same role (unique per
// connection, used as the map key in Server.clients).
type Client struct {
	ID uint64

	Conn *Conn

	// IP is the remote address captured at accept time, used to synthesize
	// nick!user@ip sender masks.
	IP string

	Nick     string
	User     string
	RealName string

	// PassOK is true once PASS has been accepted.
	PassOK bool

	// Registered latches true exactly when PassOK && Nick != "" && User !=
	// "". It never clears afterward.
	Registered bool

	// Out is the outbound message queue; writeLoop drains it to the socket.
	// Buffered so a slow reader never blocks a broadcast: a full queue simply
	// means the client is torn down rather than stalling the event loop.
	Out chan Message

	Server *Server

	LastActivity time.Time
}

const outQueueSize = 256

// newClient creates a Client wrapping an already-accepted connection. It
// does not register the client with the server; callers do that once they
// have assigned an ID.
func newClient(s *Server, id uint64, conn net.Conn) *Client {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}

	return &Client{
		ID:           id,
		Conn:         newConn(conn),
		IP:           host,
		Out:          make(chan Message, outQueueSize),
		Server:       s,
		LastActivity: time.Now(),
	}
}

func (c *Client) String() string {
	return fmt.Sprintf("client %d (%s)", c.ID, c.IP)
}

// Mask renders the nick!user@ip sender prefix used to attribute messages to
// this client on the wire.
func (c *Client) Mask() string {
	return fmt.Sprintf("%s!%s@%s", c.Nick, c.User, c.IP)
}

// send queues a message for delivery to this client. It never blocks the
// caller (the event loop): if the outbound queue is full the client is
// considered unresponsive and is torn down instead.
func (c *Client) send(m Message) {
	select {
	case c.Out <- m:
	default:
		log.Printf("%s: output queue full, disconnecting", c)
		go func() { c.Server.events <- event{kind: eventDead, client: c} }()
	}
}

// readLoop blocks on the connection's socket reads, feeding complete lines
// into the server's single event channel. It never touches Server state
// directly; all of that happens on the Server.Run goroutine once the event
// is received, keeping state mutation strictly single-threaded.
func (c *Client) readLoop() {
	for {
		lines, err := c.Conn.ReadLines()
		for _, line := range lines {
			c.Server.events <- event{kind: eventLine, client: c, line: line}
		}
		if err != nil {
			c.Server.events <- event{kind: eventDead, client: c}
			return
		}
	}
}

// writeLoop drains the client's outbound queue to the socket. It exits once
// Out is closed by the event loop during teardown.
func (c *Client) writeLoop() {
	for m := range c.Out {
		if err := c.Conn.WriteLine(m.Encode()); err != nil {
			c.Server.events <- event{kind: eventDead, client: c}
		}
	}
}
