package main

// Framer accumulates raw bytes read from a connection and splits them into
// protocol lines. Lines are terminated by CRLF or a bare LF; a lone CR
// immediately preceding an LF is folded into that terminator rather than
// treated as a separate empty line.
//
// A Framer retains a partial trailing line across calls: Drain only ever
// removes bytes up to and including a terminator it has actually seen.
type Framer struct {
	buf []byte
}

// Append adds newly read bytes to the accumulator.
func (f *Framer) Append(b []byte) {
	f.buf = append(f.buf, b...)
}

// Drain extracts every complete line currently buffered, in order, removing
// them (and their terminators) from the accumulator. Any partial line left
// over stays buffered for the next Append/Drain round.
func (f *Framer) Drain() []string {
	var lines []string

	for {
		idx := indexLineEnd(f.buf)
		if idx == -1 {
			break
		}

		end := idx
		termLen := 1
		if f.buf[idx] == '\r' {
			// CR found; it only counts as a terminator if followed by LF.
			// indexLineEnd only returns a CR index when that holds.
			termLen = 2
		}

		lines = append(lines, string(f.buf[:end]))
		f.buf = f.buf[end+termLen:]
	}

	return lines
}

// indexLineEnd returns the index of the start of the first line terminator
// in buf (the index of '\r' for a CRLF pair, or the index of a bare '\n'),
// or -1 if no complete terminator is present yet.
func indexLineEnd(buf []byte) int {
	for i := 0; i < len(buf); i++ {
		switch buf[i] {
		case '\n':
			return i
		case '\r':
			if i+1 < len(buf) && buf[i+1] == '\n' {
				return i
			}
			// A lone '\r' not yet followed by anything is not a terminator on
			// its own; keep scanning. If it's followed by a non-'\n' byte it is
			// just an ordinary byte in the line.
		}
	}
	return -1
}

// Pending reports whether any unframed bytes remain buffered.
func (f *Framer) Pending() bool {
	return len(f.buf) > 0
}
