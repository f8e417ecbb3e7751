package main

// cmdPrivmsg handles PRIVMSG to either a channel or a single nickname.
func (s *Server) cmdPrivmsg(c *Client, m Message) {
	if len(m.Params) < 2 {
		s.numeric(c, errNeedMoreParam, "PRIVMSG", "Not enough parameters")
		return
	}

	target, text := m.Params[0], m.Params[1]

	if len(target) > 0 && target[0] == '#' {
		ch, ok := s.channels[target]
		if !ok {
			s.numeric(c, errNoSuchChannel, target, "No such channel")
			return
		}
		if !ch.HasMember(c) {
			s.numeric(c, errCannotSendTo, target, "Cannot send to channel")
			return
		}

		s.broadcastExcept(ch, c, Message{
			Prefix: c.Mask(),
			Verb:   "PRIVMSG",
			Params: []string{target, text},
		})
		return
	}

	recipient := s.clientByNick(target)
	if recipient == nil {
		s.numeric(c, errNoSuchNick, target, "No such nick/channel")
		return
	}

	recipient.send(Message{
		Prefix: c.Mask(),
		Verb:   "PRIVMSG",
		Params: []string{target, text},
	})
}

// cmdQuit handles QUIT: broadcasts a QUIT line to every channel the client
// is in (one copy per other member, the quitter excluded), then tears the
// connection down fully. The broadcast is specific to the QUIT command
// itself — an abrupt disconnect (socket error, full output queue) reaches
// disconnect directly and never fabricates this line.
func (s *Server) cmdQuit(c *Client, m Message) {
	reason := "Quit"
	if len(m.Params) >= 1 {
		reason = m.Params[0]
	}

	if c.Registered {
		for _, ch := range s.memberChannels(c) {
			s.broadcastExcept(ch, c, Message{
				Prefix: c.Mask(),
				Verb:   "QUIT",
				Params: []string{reason},
			})
		}
	}

	s.disconnect(c)
}

// cmdPing replies PONG with the server name and the client's token.
func (s *Server) cmdPing(c *Client, m Message) {
	token := ""
	if len(m.Params) >= 1 {
		token = m.Params[0]
	}
	c.send(Message{
		Prefix: serverName,
		Verb:   "PONG",
		Params: []string{serverName, token},
	})
}
