package main

// cmdPass handles PASS during the pre-registration handshake. A wrong
// password does not advance pass_ok; a missing parameter is just a
// parameter-count error, not a password mismatch.
func (s *Server) cmdPass(c *Client, m Message) {
	if len(m.Params) < 1 {
		s.numeric(c, errNeedMoreParam, "PASS", "Not enough parameters")
		return
	}

	if m.Params[0] != s.Password {
		s.numeric(c, errPasswdMismat, "Password incorrect")
		return
	}

	c.PassOK = true
}

// cmdNickPreReg handles NICK before registration completes.
func (s *Server) cmdNickPreReg(c *Client, m Message) {
	if len(m.Params) < 1 || m.Params[0] == "" {
		s.numeric(c, errNoNicknameGiv, "No nickname given")
		return
	}

	nick := m.Params[0]
	if s.nickInUse(nick) {
		s.numericTarget(c, errNickInUse, nick, "Nickname is already in use")
		return
	}

	c.Nick = nick
}

// cmdUserPreReg handles USER before registration completes. The grammar is
// "USER <u> _ _ <r>": four parameters, of which only the first and last
// (username, realname) are retained.
func (s *Server) cmdUserPreReg(c *Client, m Message) {
	if len(m.Params) < 4 {
		s.numeric(c, errNeedMoreParam, "USER", "Not enough parameters")
		return
	}

	c.User = m.Params[0]
	c.RealName = m.Params[3]
}
