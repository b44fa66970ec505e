package hibiki

import (
	"fmt"
	"strings"
)

// Chord is a bracketed annotation found within a Line.
//
// Any text is accepted: {Q#m7} is as valid as {Am}. Only the modifier syntax
// is interpreted, and it changes how the chord is displayed and measured.
type Chord struct {
	// Text is the raw content between the braces.
	Text string
	// Symbol is the displayed form of Text after modifiers are applied.
	Symbol string

	Sustained bool
	Chucked   bool
	NonChord  bool
	PalmMuted bool

	// HammerInto is the chord this one is hammered into, nil otherwise.
	HammerInto *Chord
}

// NewChord parses modifiers out of text. It never fails.
func NewChord(text string) *Chord {
	c := &Chord{Text: text, Symbol: text}
	c.applyModifiers()
	return c
}

func (c *Chord) applyModifiers() {
	text := c.Text

	if len(text) >= 2 && strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		c.Sustained = true
		c.Symbol = "(" + text[1:len(text)-1] + ")"
	}
	if strings.HasSuffix(text, "|") {
		c.Chucked = true
		c.Symbol = strings.TrimSuffix(text, "|") + "|"
	}
	if strings.ReplaceAll(text, ".", "") == "NC" {
		c.NonChord = true
		c.Symbol = "N.C."
	}
	if strings.HasSuffix(text, "_") {
		c.PalmMuted = true
		c.Symbol = strings.TrimSuffix(text, "_") + "_"
	}
	// each split strictly shortens the remaining text, so the chain ends
	if pre, post, found := strings.Cut(text, "h"); found {
		c.HammerInto = NewChord(post)
		c.Symbol = pre + "h" + c.HammerInto.Symbol
	}
}

// Note returns the symbol without modifier punctuation.
func (c *Chord) Note() string {
	switch {
	case (c.Chucked || c.PalmMuted) && c.Symbol != "":
		return c.Symbol[:len(c.Symbol)-1]
	case c.Sustained && len(c.Symbol) >= 2:
		return c.Symbol[1 : len(c.Symbol)-1]
	case c.NonChord:
		return "N.C."
	default:
		return c.Symbol
	}
}

// TabRepr is the chord as it is written on the chord track, including the
// space that keeps adjacent chords apart.
func (c *Chord) TabRepr() string {
	return c.Symbol + " "
}

func (c *Chord) String() string {
	return fmt.Sprintf("<Chord: %s>", c.Symbol)
}

func (*Chord) slot() {}

// Slot is one column of the chord track: either a *Chord or a Space.
type Slot interface {
	TabRepr() string
	slot()
}

// Space stands in for a missing chord so the chord and lyric sequences of a
// line keep the same length. Its value is the width in columns.
type Space int

func (s Space) TabRepr() string {
	if s <= 0 {
		return ""
	}
	return strings.Repeat(" ", int(s))
}

func (s Space) String() string {
	return fmt.Sprintf("<Space: %d>", int(s))
}

func (Space) slot() {}
