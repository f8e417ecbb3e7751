package main

// Channel is a named multicast group with membership and modal policy.
//
// Membership order is significant: it is observable through NAMES (353)
// replies, so Members is kept as an ordered, duplicate-free slice rather
// than a map. Operators and Invited are subsets tracked as sets since their
// order is never observed on the wire.
type Channel struct {
	Name string

	// Members holds clients in join order. No client appears twice.
	Members []*Client

	// Operators is the subset of Members with operator privilege.
	Operators map[*Client]struct{}

	// Invited holds clients permitted to bypass invite-only. Joining does not
	// remove a client from it; only RemoveMember does.
	Invited map[*Client]struct{}

	Topic string

	// Password is the channel key. Empty means no key is required.
	Password string

	InviteOnly      bool
	TopicRestricted bool

	// UserLimit is the member cap. Zero means uncapped.
	UserLimit int
}

// NewChannel creates a channel with the creator already joined as its sole
// operator. Topic is restricted to operators by default; everything else
// starts off, with no member cap.
func NewChannel(name string, creator *Client) *Channel {
	ch := &Channel{
		Name:            name,
		Operators:       map[*Client]struct{}{},
		Invited:         map[*Client]struct{}{},
		TopicRestricted: true,
	}
	ch.addMember(creator)
	ch.Operators[creator] = struct{}{}
	return ch
}

// HasMember reports whether c is currently a member.
func (ch *Channel) HasMember(c *Client) bool {
	for _, m := range ch.Members {
		if m == c {
			return true
		}
	}
	return false
}

// IsOperator reports whether c holds operator rights in this channel.
func (ch *Channel) IsOperator(c *Client) bool {
	_, ok := ch.Operators[c]
	return ok
}

// IsInvited reports whether c is in the invited set.
func (ch *Channel) IsInvited(c *Client) bool {
	_, ok := ch.Invited[c]
	return ok
}

// addMember appends c to Members if it is not already present. It does not
// grant operator rights; callers do that separately.
func (ch *Channel) addMember(c *Client) {
	if ch.HasMember(c) {
		return
	}
	ch.Members = append(ch.Members, c)
}

// RemoveMember drops c from Members, Operators, and Invited. It is the one
// place membership, operator rights, and invitations are all revoked
// together, used by PART, KICK, and full client teardown alike.
func (ch *Channel) RemoveMember(c *Client) {
	for i, m := range ch.Members {
		if m == c {
			ch.Members = append(ch.Members[:i], ch.Members[i+1:]...)
			break
		}
	}
	delete(ch.Operators, c)
	delete(ch.Invited, c)
}

// Empty reports whether the channel has no members left and should be
// garbage collected.
func (ch *Channel) Empty() bool {
	return len(ch.Members) == 0
}

// ModeString renders the active simple mode flags as "+" followed by any of
// "itkl" that are set, for the MODE query reply (324).
func (ch *Channel) ModeString() string {
	s := "+"
	if ch.InviteOnly {
		s += "i"
	}
	if ch.TopicRestricted {
		s += "t"
	}
	if ch.Password != "" {
		s += "k"
	}
	if ch.UserLimit > 0 {
		s += "l"
	}
	return s
}
