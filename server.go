package main

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/pkg/errors"
)

// serverName is the literal token this server identifies itself as in every
// prefix and numeric reply (":server <code> ...").
const serverName = "server"

type eventKind int

const (
	eventNewConn eventKind = iota
	eventLine
	eventDead
)

// event is the one type flowing through Server.events. Every goroutine in
// the process other than Run's own only ever sends events; Run is the sole
// reader, and the sole mutator of clients/channels, keeping state mutation
// single-threaded.
type event struct {
	kind   eventKind
	conn   net.Conn
	client *Client
	line   string
}

// Server owns every Client and Channel exclusively. Channels hold
// non-owning references to Client values; Clients hold no reference to
// Channel at all — all lookups go through these two maps.
type Server struct {
	Password string

	clients  map[uint64]*Client
	channels map[string]*Channel

	// order preserves the sequence connections were accepted in.
	order []uint64

	nextID uint64

	events chan event

	listener net.Listener
}

// NewServer creates a Server ready to Listen and Run. No client or channel
// exists until connections arrive.
func NewServer(password string) *Server {
	return &Server{
		Password: password,
		clients:  map[uint64]*Client{},
		channels: map[string]*Channel{},
		events:   make(chan event, 256),
	}
}

// Listen opens the TCP listening socket on INADDR_ANY. net.Listen already
// sets SO_REUSEADDR on Unix targets and binds with a listen backlog chosen
// by the runtime (the stdlib does not expose a literal backlog override
// without dropping to raw syscalls, which would buy no testable behavior
// difference here). Setup failures are fatal and are wrapped with
// pkg/errors so main's log.Fatal shows a causal chain rather than a bare
// message.
func (s *Server) Listen(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return errors.Wrapf(err, "failed to listen on port %d", port)
	}
	s.listener = ln
	return nil
}

// Run is the event loop: it accepts new connections on its own goroutine,
// and otherwise does nothing but read from s.events and react, until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) {
	go s.acceptLoop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return
		case ev := <-s.events:
			s.handleEvent(ev)
		}
	}
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Listener closed during shutdown; stop quietly.
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("accept error: %s", err)
			continue
		}
		s.events <- event{kind: eventNewConn, conn: conn}
	}
}

func (s *Server) handleEvent(ev event) {
	switch ev.kind {
	case eventNewConn:
		s.addClient(ev.conn)
	case eventLine:
		// The client may have been torn down between sending this event and
		// it being processed (e.g. two lines arrived, the first caused a
		// protocol-fatal disconnect). Ignore messages from clients we no
		// longer know about.
		if _, ok := s.clients[ev.client.ID]; !ok {
			return
		}
		s.dispatchLine(ev.client, ev.line)
	case eventDead:
		s.disconnect(ev.client)
	}
}

// addClient accepts one new connection: allocates its Client record, wires
// up its reader/writer goroutines, and adds it to the registry.
func (s *Server) addClient(conn net.Conn) {
	id := s.nextID
	s.nextID++

	c := newClient(s, id, conn)
	s.clients[id] = c
	s.order = append(s.order, id)

	go c.readLoop()
	go c.writeLoop()

	log.Printf("%s: connected", c)
}

// disconnect fully tears a client down: sweep every channel (dropping
// membership, operator, and invited references) before deleting the
// Client itself, so no channel can ever observe a dangling back-reference.
// This is the generic teardown used for socket errors, a full output
// queue, and server shutdown — it never broadcasts anything. The QUIT
// command has its own broadcast-then-teardown sequence (cmdQuit) and calls
// this only for the non-broadcasting part.
func (s *Server) disconnect(c *Client) {
	if _, ok := s.clients[c.ID]; !ok {
		return
	}

	for _, ch := range s.memberChannels(c) {
		ch.RemoveMember(c)
		if ch.Empty() {
			delete(s.channels, ch.Name)
		}
	}

	delete(s.clients, c.ID)
	for i, id := range s.order {
		if id == c.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	close(c.Out)
	if err := c.Conn.Close(); err != nil {
		log.Printf("%s: close error: %s", c, err)
	}

	log.Printf("%s: disconnected", c)
}

// memberChannels returns every channel c currently belongs to.
func (s *Server) memberChannels(c *Client) []*Channel {
	var chans []*Channel
	for _, ch := range s.channels {
		if ch.HasMember(c) {
			chans = append(chans, ch)
		}
	}
	return chans
}

// clientByNick looks up a registered client by nickname. Comparison is
// exact (no case folding), matching what is assigned at NICK time.
func (s *Server) clientByNick(nick string) *Client {
	for _, c := range s.clients {
		if c.Registered && c.Nick == nick {
			return c
		}
	}
	return nil
}

// nickInUse reports whether nick is already claimed by any connected
// client (registered or mid-handshake). Uniqueness is enforced at
// assignment time.
func (s *Server) nickInUse(nick string) bool {
	for _, c := range s.clients {
		if c.Nick == nick {
			return true
		}
	}
	return false
}

// broadcast sends m to every member of ch, including sender if it is a
// member, in membership order. A broadcast to N members attempts all N
// writes before any other event is processed, since sends are non-blocking
// queue pushes performed synchronously within the single event-loop
// goroutine.
func (s *Server) broadcast(ch *Channel, m Message) {
	for _, member := range ch.Members {
		member.send(m)
	}
}

// broadcastExcept is broadcast but skipping one client (typically the
// client that caused the event and is leaving/departed).
func (s *Server) broadcastExcept(ch *Channel, except *Client, m Message) {
	for _, member := range ch.Members {
		if member == except {
			continue
		}
		member.send(m)
	}
}

// shutdown closes the listening socket and every client connection. Run
// calls it once its context is cancelled, which main does on SIGINT or
// SIGTERM.
func (s *Server) shutdown() {
	if err := s.listener.Close(); err != nil {
		log.Printf("error closing listener: %s", err)
	}
	// Copy the order slice since disconnect mutates it.
	ids := append([]uint64(nil), s.order...)
	for _, id := range ids {
		if c, ok := s.clients[id]; ok {
			s.disconnect(c)
		}
	}
}
