package hibiki

import (
	"fmt"
	"regexp"
	"strings"
)

// multiplierPattern matches a trailing repeat marker such as (x3).
var multiplierPattern = regexp.MustCompile(`\s*\(x(\d)\)$`)

// Stanza is a named section of a song: a [Name] header followed by lines of
// lyrics and chords, closed by a blank line.
type Stanza struct {
	Text         string
	StartingLine int

	name  string
	lines []*Line
}

// NewStanza parses the header and body of text. startingLine is the 1-based
// line number of the header within the document.
func NewStanza(text string, startingLine int) *Stanza {
	s := &Stanza{Text: text, StartingLine: startingLine}

	rows := strings.Split(text, "\n")
	s.name = strings.TrimSpace(strings.NewReplacer("[", "", "]", "").Replace(rows[0]))

	for i, row := range rows[1:] {
		number := startingLine + 1 + i

		row = strings.TrimSpace(row)
		if row == "" {
			continue
		}

		repeat := 1
		if m := multiplierPattern.FindStringSubmatchIndex(row); m != nil {
			repeat = int(row[m[2]] - '0')
			row = row[:m[0]]
		}

		for range repeat {
			s.lines = append(s.lines, &Line{Text: row, Number: number, Stanza: s})
		}
	}

	return s
}

// Name is the header text without brackets.
func (s *Stanza) Name() string {
	return s.name
}

// Lines returns the body lines, with repeated lines already expanded.
func (s *Stanza) Lines() []*Line {
	return s.lines
}

// IsEmpty reports whether the stanza has no body, which makes it a reprise
// of an earlier stanza with the same name.
func (s *Stanza) IsEmpty() bool {
	return len(s.lines) == 0
}

func (s *Stanza) String() string {
	return fmt.Sprintf("<Stanza [%s] at line %d>", s.name, s.StartingLine)
}
