package main

import "strings"

// upper ASCII-uppercases every byte; used for case-insensitive verb
// comparison.
func upper(s string) string {
	return strings.ToUpper(s)
}

// trim drops leading and trailing ASCII whitespace.
func trim(s string) string {
	return strings.Trim(s, " \t\r\n")
}
