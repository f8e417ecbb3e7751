package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFramerBasicCRLF(t *testing.T) {
	var f Framer
	f.Append([]byte("NICK alice\r\nUSER a 0 * :A\r\n"))

	require.Equal(t, []string{"NICK alice", "USER a 0 * :A"}, f.Drain())
}

func TestFramerBareLF(t *testing.T) {
	var f Framer
	f.Append([]byte("PING\n"))

	require.Equal(t, []string{"PING"}, f.Drain())
}

func TestFramerPartialLineRetained(t *testing.T) {
	var f Framer
	f.Append([]byte("NICK al"))

	require.Empty(t, f.Drain(), "partial line should not be emitted")
	require.True(t, f.Pending(), "partial bytes should be retained")

	f.Append([]byte("ice\r\n"))
	require.Equal(t, []string{"NICK alice"}, f.Drain())
}

func TestFramerEmptyLinesEmitted(t *testing.T) {
	var f Framer
	f.Append([]byte("\r\n\r\nPING\r\n"))

	require.Equal(t, []string{"", "", "PING"}, f.Drain())
}

// TestFramerAssociative checks the framing law: drain(append(append(a,
// b))) == drain(append(a)) ++ drain(append(b)) when a ends on a line
// boundary.
func TestFramerAssociative(t *testing.T) {
	a := []byte("JOIN #x\r\n")
	b := []byte("PART #x\r\n")

	var combined Framer
	combined.Append(a)
	combined.Append(b)
	gotCombined := combined.Drain()

	var fa, fb Framer
	fa.Append(a)
	part1 := fa.Drain()
	fb.Append(b)
	part2 := fb.Drain()
	gotSeparate := append(part1, part2...)

	require.Equal(t, gotSeparate, gotCombined)
}

func TestFramerNoTerminatorNoDuplication(t *testing.T) {
	var f Framer
	f.Append([]byte("A\rB\n"))

	require.Equal(t, []string{"A\rB"}, f.Drain(),
		"mid-line CR is literal, not a terminator")
}
