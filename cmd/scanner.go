package cmd

import (
	"regexp"
	"strings"
	"unicode"
)

// Scanner is a cursor over a single line of shell input.
// Patterns are matched against the unread part of the input and must be anchored with ^.
type Scanner struct {
	input string
	pos   int
}

func NewScanner(input string) *Scanner {
	return &Scanner{
		input: strings.TrimSpace(input),
	}
}

// Input returns the complete trimmed input.
func (s *Scanner) Input() string {
	return s.input
}

// Match reports whether pattern matches at the cursor without consuming anything.
func (s *Scanner) Match(pattern *regexp.Regexp) bool {
	loc := pattern.FindStringIndex(s.input[s.pos:])
	return loc != nil && loc[0] == 0
}

// Scan consumes pattern at the cursor together with any whitespace after it.
// It returns the first capture group if the pattern has one, otherwise the whole match.
func (s *Scanner) Scan(pattern *regexp.Regexp) (string, bool) {
	rest := s.input[s.pos:]
	loc := pattern.FindStringSubmatchIndex(rest)
	if loc == nil || loc[0] != 0 {
		return "", false
	}

	value := rest[loc[0]:loc[1]]
	if len(loc) >= 4 && loc[2] >= 0 {
		value = rest[loc[2]:loc[3]]
	}

	s.pos += loc[1]
	s.skipSpace()
	return value, true
}

// Remaining consumes and returns the rest of the input.
func (s *Scanner) Remaining() string {
	rest := strings.TrimSpace(s.input[s.pos:])
	s.pos = len(s.input)
	return rest
}

// EOF reports whether the whole input has been consumed.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.input)
}

// Reset moves the cursor back to the start of the input.
func (s *Scanner) Reset() {
	s.pos = 0
}

func (s *Scanner) skipSpace() {
	s.pos += len(s.input[s.pos:]) - len(strings.TrimLeftFunc(s.input[s.pos:], unicode.IsSpace))
}
