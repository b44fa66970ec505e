package hibiki

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Line is a single lyric line with inline {chord} annotations.
type Line struct {
	Text   string
	Number int
	// Stanza is the section the line belongs to, nil for standalone lines.
	Stanza *Stanza
}

// NewLine creates a standalone line; number is only used in error reports.
func NewLine(text string, number int) *Line {
	return &Line{Text: text, Number: number}
}

func (l *Line) String() string {
	return fmt.Sprintf("<Line %d: %q>", l.Number, l.Text)
}

// Split separates chords from lyric fragments so that every chord is paired
// with the fragment it sits above:
//
//	[C        F          D      ]
//	["I like " "potatoes" "a lot"]
//
// The two returned slices always have the same length.
func (l *Line) Split() ([]Slot, []string, error) {
	var (
		chords []Slot
		lyrics []string
	)

	// lyrics before the first chord get a Space so the chord lands after them
	if i := strings.IndexByte(l.Text, '{'); i > 0 {
		chords = append(chords, Space(utf8.RuneCountInString(l.Text[:i])))
	}

	var currentChord, currentLyric strings.Builder
	inChord := false
	column := 0

	for _, r := range l.Text {
		column++

		switch {
		case inChord && r == '{':
			return nil, nil, l.syntaxError(column, "chord opened inside another chord")
		case inChord && r == '}':
			inChord = false
			chords = append(chords, NewChord(currentChord.String()))
			currentChord.Reset()
		case inChord:
			currentChord.WriteRune(r)
		case r == '}':
			return nil, nil, l.syntaxError(column, "chord closed without being opened")
		case r == '{':
			inChord = true
			if currentLyric.Len() > 0 {
				lyrics = append(lyrics, currentLyric.String())
				currentLyric.Reset()
			}
		default:
			currentLyric.WriteRune(r)
		}
	}

	if inChord {
		return nil, nil, l.syntaxError(column+1, "chord not closed before the end of the line")
	}

	if currentLyric.Len() > 0 {
		lyrics = append(lyrics, currentLyric.String())
	}

	// A line without chords, or whose first chord comes after some lyrics.
	if len(lyrics) > len(chords) {
		chords = append([]Slot{Space(utf8.RuneCountInString(lyrics[0]))}, chords...)
	}

	// Lone chords at the end of the line sit above nothing.
	for len(chords) > len(lyrics) {
		lyrics = append(lyrics, "")
	}

	if len(chords) != len(lyrics) {
		return nil, nil, fmt.Errorf("line %d: split produced %d chords for %d lyric fragments", l.Number, len(chords), len(lyrics))
	}

	return chords, lyrics, nil
}

func (l *Line) syntaxError(column int, reason string) *ChordSyntaxError {
	err := &ChordSyntaxError{
		Line:   l.Number,
		Column: column,
		Text:   l.Text,
		Reason: reason,
	}
	if l.Stanza != nil {
		err.Section = l.Stanza.Name()
	}
	return err
}

// column is one aligned chord/lyric pair, both padded to the same width.
type column struct {
	chord string
	lyric string
}

func align(chords []Slot, lyrics []string) []column {
	columns := make([]column, 0, len(chords))

	// a leading Space already has the width of its fragment
	if len(chords) > 0 {
		if space, ok := chords[0].(Space); ok {
			columns = append(columns, column{chord: space.TabRepr(), lyric: lyrics[0]})
			chords, lyrics = chords[1:], lyrics[1:]
		}
	}

	for i, chord := range chords {
		c := chord.TabRepr()
		lyric := lyrics[i]
		chordWidth := utf8.RuneCountInString(c)
		lyricWidth := utf8.RuneCountInString(lyric)

		switch {
		case chordWidth > lyricWidth:
			lyric += strings.Repeat(" ", chordWidth-lyricWidth)
		case lyricWidth > chordWidth:
			c += strings.Repeat(" ", lyricWidth-chordWidth)
		}
		columns = append(columns, column{chord: c, lyric: lyric})
	}

	return columns
}

// RenderSplit returns the chord track and the lyric track of the line,
// each with trailing whitespace removed.
func (l *Line) RenderSplit() (string, string, error) {
	chords, lyrics, err := l.Split()
	if err != nil {
		return "", "", err
	}

	var chordTrack, lyricTrack strings.Builder
	for _, col := range align(chords, lyrics) {
		chordTrack.WriteString(col.chord)
		lyricTrack.WriteString(col.lyric)
	}

	return strings.TrimRightFunc(chordTrack.String(), unicode.IsSpace),
		strings.TrimRightFunc(lyricTrack.String(), unicode.IsSpace),
		nil
}

// Render returns the chord track above the lyric track, newline terminated.
func (l *Line) Render() (string, error) {
	chords, lyrics, err := l.RenderSplit()
	if err != nil {
		return "", err
	}
	return chords + "\n" + lyrics + "\n", nil
}
