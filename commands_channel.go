package main

import (
	"strconv"
	"strings"
)

// cmdJoin implements JOIN. Creating a channel always succeeds
// unconditionally; joining an existing one enforces key, invite-only, and
// user-cap checks in that priority order.
func (s *Server) cmdJoin(c *Client, m Message) {
	if len(m.Params) < 1 || m.Params[0] == "" {
		s.numeric(c, errNeedMoreParam, "JOIN", "Not enough parameters")
		return
	}

	name := m.Params[0]
	if name[0] != '#' {
		name = "#" + name
	}

	key := ""
	if len(m.Params) >= 2 {
		key = m.Params[1]
	}

	ch, exists := s.channels[name]
	if !exists {
		ch = NewChannel(name, c)
		s.channels[name] = ch
	} else {
		if ch.Password != "" && key != ch.Password {
			s.numeric(c, errBadChannelKey, name, "Cannot join channel (+k)")
			return
		}
		if ch.InviteOnly && !ch.IsInvited(c) {
			s.numeric(c, errInviteOnly, name, "Cannot join channel (+i)")
			return
		}
		if ch.UserLimit > 0 && len(ch.Members) >= ch.UserLimit {
			s.numeric(c, errChannelIsFull, name, "Cannot join channel (+l)")
			return
		}
		ch.addMember(c)
	}

	s.broadcast(ch, Message{Prefix: c.Mask(), Verb: "JOIN", Params: []string{name}})

	if ch.Topic != "" {
		s.numeric(c, rplTopic, name, ch.Topic)
	}

	s.numeric(c, rplNamReply, "=", name, namesReply(ch))
	s.numeric(c, rplEndOfNames, name, "End of /NAMES list.")
}

// namesReply renders the space-separated, trailing-space-terminated member
// list for a NAMES (353) reply, with "@" marking operators.
func namesReply(ch *Channel) string {
	var b strings.Builder
	for _, member := range ch.Members {
		if ch.IsOperator(member) {
			b.WriteByte('@')
		}
		b.WriteString(member.Nick)
		b.WriteByte(' ')
	}
	return b.String()
}

// cmdPart implements PART.
func (s *Server) cmdPart(c *Client, m Message) {
	if len(m.Params) < 1 {
		s.numeric(c, errNeedMoreParam, "PART", "Not enough parameters")
		return
	}

	name := m.Params[0]
	reason := "Leaving"
	if len(m.Params) >= 2 {
		reason = m.Params[1]
	}

	ch, ok := s.channels[name]
	if !ok {
		s.numeric(c, errNoSuchChannel, name, "No such channel")
		return
	}
	if !ch.HasMember(c) {
		s.numeric(c, errNotOnChannel, name, "You're not on that channel")
		return
	}

	s.broadcast(ch, Message{Prefix: c.Mask(), Verb: "PART", Params: []string{name, reason}})
	ch.RemoveMember(c)
	if ch.Empty() {
		delete(s.channels, name)
	}
}

// cmdTopic implements TOPIC: one parameter queries, two sets.
func (s *Server) cmdTopic(c *Client, m Message) {
	if len(m.Params) < 1 {
		s.numeric(c, errNeedMoreParam, "TOPIC", "Not enough parameters")
		return
	}

	name := m.Params[0]
	ch, ok := s.channels[name]
	if !ok {
		s.numeric(c, errNoSuchChannel, name, "No such channel")
		return
	}
	if !ch.HasMember(c) {
		s.numeric(c, errNotOnChannel, name, "You're not on that channel")
		return
	}

	if len(m.Params) == 1 {
		if ch.Topic == "" {
			s.numeric(c, rplNoTopic, name, "No topic is set")
			return
		}
		s.numeric(c, rplTopic, name, ch.Topic)
		return
	}

	if ch.TopicRestricted && !ch.IsOperator(c) {
		s.numeric(c, errChanOPrivsNee, name, "You're not channel operator")
		return
	}

	ch.Topic = m.Params[1]
	s.broadcast(ch, Message{Prefix: c.Mask(), Verb: "TOPIC", Params: []string{name, ch.Topic}})
}

// cmdMode implements MODE. Non-channel targets are silently ignored. A
// query (one parameter) reports the current flags; a
// mutation (two or more) requires operator rights for the whole command,
// and is applied letter-by-letter with each effective change broadcast as
// its own MODE line.
func (s *Server) cmdMode(c *Client, m Message) {
	if len(m.Params) < 1 {
		s.numeric(c, errNeedMoreParam, "MODE", "Not enough parameters")
		return
	}

	name := m.Params[0]
	if len(name) == 0 || name[0] != '#' {
		return
	}

	ch, ok := s.channels[name]
	if !ok {
		s.numeric(c, errNoSuchChannel, name, "No such channel")
		return
	}

	if len(m.Params) == 1 {
		s.numeric(c, rplChannelModeIs, name, ch.ModeString())
		return
	}

	if !ch.IsOperator(c) {
		s.numeric(c, errChanOPrivsNee, name, "You're not channel operator")
		return
	}

	modeStr := m.Params[1]
	args := m.Params[2:]
	argIdx := 0
	nextArg := func() (string, bool) {
		if argIdx >= len(args) {
			return "", false
		}
		v := args[argIdx]
		argIdx++
		return v, true
	}

	sign := byte('+')
	for i := 0; i < len(modeStr); i++ {
		letter := modeStr[i]
		if letter == '+' || letter == '-' {
			sign = letter
			continue
		}

		switch letter {
		case 'i':
			ch.InviteOnly = sign == '+'
			s.broadcastModeChange(ch, c, sign, 'i', "")

		case 't':
			ch.TopicRestricted = sign == '+'
			s.broadcastModeChange(ch, c, sign, 't', "")

		case 'k':
			if sign == '+' {
				arg, ok := nextArg()
				if !ok {
					continue
				}
				ch.Password = arg
				s.broadcastModeChange(ch, c, sign, 'k', arg)
			} else {
				ch.Password = ""
				s.broadcastModeChange(ch, c, sign, 'k', "")
			}

		case 'l':
			if sign == '+' {
				arg, ok := nextArg()
				if !ok {
					continue
				}
				n, err := strconv.Atoi(arg)
				if err != nil {
					continue
				}
				ch.UserLimit = n
				s.broadcastModeChange(ch, c, sign, 'l', arg)
			} else {
				ch.UserLimit = 0
				s.broadcastModeChange(ch, c, sign, 'l', "")
			}

		case 'o':
			arg, ok := nextArg()
			if !ok {
				continue
			}
			target := s.clientByNick(arg)
			if target == nil || !ch.HasMember(target) {
				s.numeric(c, errUserNotInChan, arg, name, "They aren't on that channel")
				continue
			}
			if sign == '+' {
				ch.Operators[target] = struct{}{}
			} else {
				delete(ch.Operators, target)
			}
			s.broadcastModeChange(ch, c, sign, 'o', arg)

		default:
			// Unknown mode letters are ignored.
		}
	}
}

// broadcastModeChange sends one MODE line for a single effective change.
func (s *Server) broadcastModeChange(ch *Channel, setter *Client, sign byte, letter byte, arg string) {
	params := []string{ch.Name, string(sign) + string(letter)}
	if arg != "" {
		params = append(params, arg)
	}
	s.broadcast(ch, Message{Prefix: setter.Mask(), Verb: "MODE", Params: params})
}

// cmdInvite implements INVITE.
func (s *Server) cmdInvite(c *Client, m Message) {
	if len(m.Params) < 2 {
		s.numeric(c, errNeedMoreParam, "INVITE", "Not enough parameters")
		return
	}

	nick, name := m.Params[0], m.Params[1]

	target := s.clientByNick(nick)
	if target == nil {
		s.numeric(c, errNoSuchNick, nick, "No such nick/channel")
		return
	}

	ch, ok := s.channels[name]
	if !ok {
		s.numeric(c, errNoSuchChannel, name, "No such channel")
		return
	}
	if !ch.HasMember(c) {
		s.numeric(c, errNotOnChannel, name, "You're not on that channel")
		return
	}
	if ch.InviteOnly && !ch.IsOperator(c) {
		s.numeric(c, errChanOPrivsNee, name, "You're not channel operator")
		return
	}
	if ch.HasMember(target) {
		s.numeric(c, errUserOnChannel, nick, name, "is already on channel")
		return
	}

	ch.Invited[target] = struct{}{}
	s.numeric(c, rplInviting, name, nick)
	target.send(Message{Prefix: c.Mask(), Verb: "INVITE", Params: []string{nick, name}})
}

// cmdKick implements KICK.
func (s *Server) cmdKick(c *Client, m Message) {
	if len(m.Params) < 2 {
		s.numeric(c, errNeedMoreParam, "KICK", "Not enough parameters")
		return
	}

	name, nick := m.Params[0], m.Params[1]
	reason := "No reason given"
	if len(m.Params) >= 3 {
		reason = m.Params[2]
	}

	ch, ok := s.channels[name]
	if !ok {
		s.numeric(c, errNoSuchChannel, name, "No such channel")
		return
	}
	if !ch.IsOperator(c) {
		s.numeric(c, errChanOPrivsNee, name, "You're not channel operator")
		return
	}
	target := s.clientByNick(nick)
	if target == nil {
		s.numeric(c, errNoSuchNick, nick, "No such nick/channel")
		return
	}
	if !ch.HasMember(target) {
		s.numeric(c, errUserNotInChan, nick, name, "They aren't on that channel")
		return
	}

	s.broadcast(ch, Message{Prefix: c.Mask(), Verb: "KICK", Params: []string{name, nick, reason}})
	ch.RemoveMember(target)
	// A channel with no members left behind is pruned here too, not just on
	// PART, so KICK of the last member still leaves no empty channel around.
	if ch.Empty() {
		delete(s.channels, name)
	}
}
