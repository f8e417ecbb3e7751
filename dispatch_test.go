package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// drain non-blockingly collects every message currently queued on a
// client's Out channel, in order.
func drain(c *Client) []Message {
	var msgs []Message
	for {
		select {
		case m := <-c.Out:
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

// newDispatchClient creates a Client wired to a fake server without any
// real network connection, for exercising dispatchLine directly.
func newDispatchClient(s *Server, id uint64, ip string) *Client {
	c := &Client{
		ID:     id,
		IP:     ip,
		Out:    make(chan Message, 64),
		Server: s,
	}
	s.clients[id] = c
	s.order = append(s.order, id)
	return c
}

func newTestServer() *Server {
	return NewServer("pw")
}

// TestScenarioRegistration exercises the full PASS/NICK/USER handshake.
func TestScenarioRegistration(t *testing.T) {
	s := newTestServer()
	alice := newDispatchClient(s, 1, "127.0.0.1")

	s.dispatchLine(alice, "PASS pw")
	s.dispatchLine(alice, "NICK alice")
	s.dispatchLine(alice, "USER a 0 * :A")

	msgs := drain(alice)
	require.Len(t, msgs, 1)
	require.Equal(t, ":server 001 alice :Welcome to the IRC server alice!", msgs[0].Encode())
	require.True(t, alice.Registered)
}

// TestScenarioNickCollision checks that a taken nickname is rejected
// with the attempted nick shown, not the client's still-blank one.
func TestScenarioNickCollision(t *testing.T) {
	s := newTestServer()
	alice := newDispatchClient(s, 1, "127.0.0.1")
	s.dispatchLine(alice, "PASS pw")
	s.dispatchLine(alice, "NICK alice")
	s.dispatchLine(alice, "USER a 0 * :A")
	drain(alice)

	bob := newDispatchClient(s, 2, "127.0.0.1")
	s.dispatchLine(bob, "PASS pw")
	s.dispatchLine(bob, "NICK alice")

	msgs := drain(bob)
	require.Len(t, msgs, 1)
	require.Equal(t, ":server 433 alice :Nickname is already in use", msgs[0].Encode())
	require.False(t, bob.Registered)
}

func registerClient(s *Server, id uint64, ip, nick, user string) *Client {
	c := newDispatchClient(s, id, ip)
	s.dispatchLine(c, "PASS pw")
	s.dispatchLine(c, "NICK "+nick)
	s.dispatchLine(c, "USER "+user+" 0 * :"+user)
	drain(c)
	return c
}

// TestScenarioJoinCreatesChannel checks that JOINing a channel that
// doesn't exist yet creates it with the joiner as operator.
func TestScenarioJoinCreatesChannel(t *testing.T) {
	s := newTestServer()
	alice := registerClient(s, 1, "127.0.0.1", "alice", "a")

	s.dispatchLine(alice, "JOIN #x")

	msgs := drain(alice)
	require.Len(t, msgs, 3, "want JOIN, 353, 366")
	require.Equal(t, "JOIN", msgs[0].Verb)
	require.Equal(t, "#x", msgs[0].Params[0])
	require.Equal(t, ":server 353 alice = #x :@alice ", msgs[1].Encode())
	require.Equal(t, rplEndOfNames, msgs[2].Verb)

	ch, ok := s.channels["#x"]
	require.True(t, ok, "#x was not created")
	require.True(t, ch.IsOperator(alice))
}

// TestScenarioKeyEnforcement checks that a keyed channel rejects the
// wrong key and accepts the right one.
func TestScenarioKeyEnforcement(t *testing.T) {
	s := newTestServer()
	alice := registerClient(s, 1, "127.0.0.1", "alice", "a")
	s.dispatchLine(alice, "JOIN #x")
	drain(alice)

	s.dispatchLine(alice, "MODE #x +k secret")
	drain(alice)

	bob := registerClient(s, 2, "127.0.0.1", "bob", "b")
	s.dispatchLine(bob, "JOIN #x wrong")
	msgs := drain(bob)
	require.Len(t, msgs, 1)
	require.Equal(t, errBadChannelKey, msgs[0].Verb)

	s.dispatchLine(bob, "JOIN #x secret")
	msgs = drain(bob)
	require.NotEmpty(t, msgs)
	require.Equal(t, "JOIN", msgs[0].Verb)
	require.True(t, s.channels["#x"].HasMember(bob))
}

// TestScenarioKick checks that KICK removes the target and broadcasts
// one KICK line to every member, the kicked client included.
func TestScenarioKick(t *testing.T) {
	s := newTestServer()
	alice := registerClient(s, 1, "10.0.0.1", "alice", "a")
	s.dispatchLine(alice, "JOIN #x")
	drain(alice)

	bob := registerClient(s, 2, "10.0.0.2", "bob", "b")
	s.dispatchLine(bob, "JOIN #x")
	drain(alice)
	drain(bob)

	s.dispatchLine(alice, "KICK #x bob :bye")

	want := ":alice!a@10.0.0.1 KICK #x bob :bye"
	aliceMsgs := drain(alice)
	bobMsgs := drain(bob)

	require.Len(t, aliceMsgs, 1)
	require.Equal(t, want, aliceMsgs[0].Encode())
	require.Len(t, bobMsgs, 1)
	require.Equal(t, want, bobMsgs[0].Encode())
	require.False(t, s.channels["#x"].HasMember(bob))
}

// TestScenarioInviteOnlyBypass checks that an invited client can join
// an invite-only channel while an uninvited one is rejected.
func TestScenarioInviteOnlyBypass(t *testing.T) {
	s := newTestServer()
	alice := registerClient(s, 1, "127.0.0.1", "alice", "a")
	s.dispatchLine(alice, "JOIN #x")
	drain(alice)

	s.dispatchLine(alice, "MODE #x +i")
	drain(alice)

	carol := registerClient(s, 2, "127.0.0.1", "carol", "c")

	s.dispatchLine(alice, "INVITE carol #x")
	drain(alice)
	drain(carol)

	s.dispatchLine(carol, "JOIN #x")
	msgs := drain(carol)
	require.NotEmpty(t, msgs)
	require.Equal(t, "JOIN", msgs[0].Verb)

	dave := registerClient(s, 3, "127.0.0.1", "dave", "d")
	s.dispatchLine(dave, "JOIN #x")
	msgs = drain(dave)
	require.Len(t, msgs, 1)
	require.Equal(t, errInviteOnly, msgs[0].Verb)
}

func TestUnregisteredOtherVerbGets451(t *testing.T) {
	s := newTestServer()
	alice := newDispatchClient(s, 1, "127.0.0.1")

	s.dispatchLine(alice, "JOIN #x")

	msgs := drain(alice)
	require.Len(t, msgs, 1)
	require.Equal(t, errNotRegistered, msgs[0].Verb)
}

func TestRegisteredUnknownVerbGets421(t *testing.T) {
	s := newTestServer()
	alice := registerClient(s, 1, "127.0.0.1", "alice", "a")

	s.dispatchLine(alice, "FROBNICATE")

	msgs := drain(alice)
	require.Len(t, msgs, 1)
	require.Equal(t, errUnknownCmd, msgs[0].Verb)
}

func TestUserLimitBoundary(t *testing.T) {
	s := newTestServer()
	alice := registerClient(s, 1, "127.0.0.1", "alice", "a")
	s.dispatchLine(alice, "JOIN #x")
	drain(alice)
	s.dispatchLine(alice, "MODE #x +l 2")
	drain(alice)

	bob := registerClient(s, 2, "127.0.0.1", "bob", "b")
	s.dispatchLine(bob, "JOIN #x")
	msgs := drain(bob)
	require.NotEmpty(t, msgs, "2nd of 2 limit should succeed")
	require.Equal(t, "JOIN", msgs[0].Verb)

	carol := registerClient(s, 3, "127.0.0.1", "carol", "c")
	s.dispatchLine(carol, "JOIN #x")
	msgs = drain(carol)
	require.Len(t, msgs, 1, "3rd, over 2 limit, should get 471")
	require.Equal(t, errChannelIsFull, msgs[0].Verb)
}

func TestPartDeletesEmptyChannelThenRecreatable(t *testing.T) {
	s := newTestServer()
	alice := registerClient(s, 1, "127.0.0.1", "alice", "a")
	s.dispatchLine(alice, "JOIN #x")
	drain(alice)

	s.dispatchLine(alice, "PART #x")
	drain(alice)

	_, ok := s.channels["#x"]
	require.False(t, ok, "#x should have been deleted once empty")

	s.dispatchLine(alice, "JOIN #x")
	drain(alice)

	ch := s.channels["#x"]
	require.NotNil(t, ch)
	require.True(t, ch.IsOperator(alice), "rejoining #x should recreate it with alice as operator")
}
