package main

import (
	"net"
	"strings"
)

// readBufSize is the fixed staging buffer each read into the socket uses.
const readBufSize = 4096

// Conn pairs a TCP connection with the line framer that turns its byte
// stream into protocol lines. It is the thing each Client owns; Server
// never talks to net.Conn directly.
type Conn struct {
	conn   net.Conn
	framer Framer
}

func newConn(c net.Conn) *Conn {
	return &Conn{conn: c}
}

// ReadLines performs one read of up to readBufSize bytes, frames it, and
// returns every complete line produced. A non-nil error (including a
// zero-length read, which surfaces as io.EOF) always accompanies the final
// call for this connection; any lines returned alongside it are still
// valid and should be dispatched before tearing the client down.
func (c *Conn) ReadLines() ([]string, error) {
	buf := make([]byte, readBufSize)
	n, err := c.conn.Read(buf)
	if n > 0 {
		c.framer.Append(buf[:n])
	}
	return c.framer.Drain(), err
}

// WriteLine writes one reply line, appending CRLF if the caller didn't
// already include it.
func (c *Conn) WriteLine(line string) error {
	if !strings.HasSuffix(line, "\r\n") {
		line += "\r\n"
	}
	_, err := c.conn.Write([]byte(line))
	return err
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
