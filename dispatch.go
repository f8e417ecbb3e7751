package main

import "fmt"

// dispatchLine is the single entry point from the event loop for one framed
// line of client input. It implements the registration gate: unregistered
// clients may only speak PASS/NICK/USER; everyone else routes through the
// registered-verb table.
func (s *Server) dispatchLine(c *Client, raw string) {
	line := trim(raw)
	if line == "" {
		return
	}

	m := ParseMessage(line)
	if m.Verb == "" {
		return
	}

	if !c.Registered {
		s.handleUnregistered(c, m)
		return
	}

	s.handleRegistered(c, m)
}

// handleUnregistered implements the registration gate table.
func (s *Server) handleUnregistered(c *Client, m Message) {
	switch m.Verb {
	case "PASS":
		s.cmdPass(c, m)
	case "NICK":
		s.cmdNickPreReg(c, m)
	case "USER":
		s.cmdUserPreReg(c, m)
	default:
		s.numeric(c, errNotRegistered, "You have not registered")
		return
	}

	s.maybeCompleteRegistration(c)
}

// maybeCompleteRegistration flips Registered once pass_ok, nickname, and
// username all hold. The transition is latched: once true, it is never
// re-evaluated or cleared.
func (s *Server) maybeCompleteRegistration(c *Client) {
	if c.Registered {
		return
	}
	if !c.PassOK || c.Nick == "" || c.User == "" {
		return
	}

	c.Registered = true
	s.numeric(c, rplWelcome, fmt.Sprintf("Welcome to the IRC server %s!", c.Nick))
}

// handleRegistered routes a registered client's verb to its handler, or
// replies 421 for anything not in the supported list.
func (s *Server) handleRegistered(c *Client, m Message) {
	switch m.Verb {
	case "JOIN":
		s.cmdJoin(c, m)
	case "PRIVMSG":
		s.cmdPrivmsg(c, m)
	case "KICK":
		s.cmdKick(c, m)
	case "PART":
		s.cmdPart(c, m)
	case "TOPIC":
		s.cmdTopic(c, m)
	case "MODE":
		s.cmdMode(c, m)
	case "INVITE":
		s.cmdInvite(c, m)
	case "QUIT":
		s.cmdQuit(c, m)
	case "PING":
		s.cmdPing(c, m)
	default:
		s.numeric(c, errUnknownCmd, m.Verb, "Unknown command")
	}
}
