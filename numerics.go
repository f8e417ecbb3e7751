package main

// Numeric reply codes the server sends.
const (
	rplWelcome       = "001"
	rplChannelModeIs = "324"
	rplNoTopic       = "331"
	rplTopic         = "332"
	rplInviting      = "341"
	rplNamReply      = "353"
	rplEndOfNames    = "366"
	errNoSuchNick    = "401"
	errNoSuchChannel = "403"
	errCannotSendTo  = "404"
	errUnknownCmd    = "421"
	errNoNicknameGiv = "431"
	errNickInUse     = "433"
	errUserNotInChan = "441"
	errNotOnChannel  = "442"
	errUserOnChannel = "443"
	errNotRegistered = "451"
	errNeedMoreParam = "461"
	errPasswdMismat  = "464"
	errChannelIsFull = "471"
	errInviteOnly    = "473"
	errBadChannelKey = "475"
	errChanOPrivsNee = "482"
)

// numeric sends a numeric reply to c. The client's current nickname (or "*"
// before one is assigned) is always the first parameter after the code.
func (s *Server) numeric(c *Client, code string, params ...string) {
	nick := c.Nick
	if nick == "" {
		nick = "*"
	}
	s.numericTarget(c, code, nick, params...)
}

// numericTarget is numeric with an explicit first parameter, for replies
// such as 433 where the wire convention shows the
// offending nickname itself rather than the client's current one — e.g.
// ":server 433 alice :Nickname is already in use", sent to a client that
// never successfully acquired "alice".
func (s *Server) numericTarget(c *Client, code, target string, params ...string) {
	all := make([]string, 0, len(params)+1)
	all = append(all, target)
	all = append(all, params...)

	c.send(Message{
		Prefix: serverName,
		Verb:   code,
		Params: all,
	})
}
