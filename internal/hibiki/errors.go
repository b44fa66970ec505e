package hibiki

import (
	"errors"
	"fmt"
)

// ErrDocument is matched (via errors.Is) by every error caused by a defect
// in the source document, as opposed to an I/O or internal failure.
var ErrDocument = errors.New("hibiki: invalid document")

// ChordSyntaxError reports unbalanced chord brackets within a single line.
type ChordSyntaxError struct {
	Line    int
	Column  int
	Section string
	Text    string
	Reason  string
}

func (e *ChordSyntaxError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("chord syntax error in [%s] at line %d, column %d: %s", e.Section, e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("chord syntax error at line %d, column %d: %s", e.Line, e.Column, e.Reason)
}

func (e *ChordSyntaxError) Is(target error) bool { return target == ErrDocument }

// StanzaSyntaxError reports a section header opened before the previous
// section was closed by a blank line.
type StanzaSyntaxError struct {
	Line   int
	Reason string
}

func (e *StanzaSyntaxError) Error() string {
	return fmt.Sprintf("stanza syntax error at line %d: %s", e.Line, e.Reason)
}

func (e *StanzaSyntaxError) Is(target error) bool { return target == ErrDocument }

// EmptyStanzaError reports a header-only section whose name was never
// defined with a body earlier in the document.
type EmptyStanzaError struct {
	Stanza *Stanza
}

func (e *EmptyStanzaError) Error() string {
	return fmt.Sprintf("section [%s] at line %d is empty and was never defined before", e.Stanza.Name(), e.Stanza.StartingLine)
}

func (e *EmptyStanzaError) Is(target error) bool { return target == ErrDocument }

// RedefinedStanzaError reports a second section with a body under a name
// that already has one.
type RedefinedStanzaError struct {
	Stanza   *Stanza
	Previous *Stanza
}

func (e *RedefinedStanzaError) Error() string {
	return fmt.Sprintf("section [%s] at line %d redefines the section at line %d",
		e.Stanza.Name(), e.Stanza.StartingLine, e.Previous.StartingLine)
}

func (e *RedefinedStanzaError) Is(target error) bool { return target == ErrDocument }

// RecallError reports a (@name) reference to a recall that has not been
// saved yet.
type RecallError struct {
	Line int
	Name string
}

func (e *RecallError) Error() string {
	return fmt.Sprintf("recall (@%s) at line %d was never saved", e.Name, e.Line)
}

func (e *RecallError) Is(target error) bool { return target == ErrDocument }
