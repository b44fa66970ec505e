package hibiki

import (
	"strings"
)

// DefaultSectionBreaks is the number of blank lines written after a section.
const DefaultSectionBreaks = 2

// Tab is a whole chord sheet.
//
// Rendering keeps no state between calls: recalls and section definitions
// are scoped to a single Render.
type Tab struct {
	Text string
}

// NewTab normalises line endings and makes sure the text ends with a blank
// line so the last section is always closed.
func NewTab(text string) *Tab {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasSuffix(text, "\n\n") {
		text += "\n\n"
	}
	return &Tab{Text: text}
}

// Render renders text with the given number of blank lines between sections.
func Render(text string, sectionBreaks int) (string, error) {
	return NewTab(text).Render(sectionBreaks)
}

// Stanzas splits the sheet into sections after resolving recalls.
func (t *Tab) Stanzas() ([]*Stanza, error) {
	lines, err := resolveRecalls(t.Text)
	if err != nil {
		return nil, err
	}

	var (
		stanzas   []*Stanza
		current   strings.Builder
		startedAt int
		inStanza  bool
	)

	closeStanza := func() {
		current.WriteString("\n")
		stanzas = append(stanzas, NewStanza(current.String(), startedAt))
		current.Reset()
		inStanza = false
	}

	for i, line := range lines {
		number := i + 1

		switch {
		case !inStanza:
			// anything between sections is ignored
			if strings.HasPrefix(line, "[") {
				startedAt = number
				current.WriteString(line + "\n")
				inStanza = true
			}
		case strings.HasPrefix(line, "["):
			return nil, &StanzaSyntaxError{Line: number, Reason: "new section started before the previous one was closed"}
		case line == "":
			// whitespace-only lines stay in the body and are skipped there
			closeStanza()
		default:
			current.WriteString(line + "\n")
		}
	}

	if inStanza {
		closeStanza()
	}

	return stanzas, nil
}

// Render renders every section in document order. An empty section repeats
// the earlier section with the same name; a section with a body may only be
// defined once.
func (t *Tab) Render(sectionBreaks int) (string, error) {
	stanzas, err := t.Stanzas()
	if err != nil {
		return "", err
	}

	if sectionBreaks < 0 {
		sectionBreaks = 0
	}
	separator := strings.Repeat("\n", sectionBreaks)

	previous := make(map[string]*Stanza)
	var out strings.Builder

	for _, stanza := range stanzas {
		name := stanza.Name()
		defined, ok := previous[name]

		if stanza.IsEmpty() {
			if !ok {
				return "", &EmptyStanzaError{Stanza: stanza}
			}
			stanza = defined
		} else {
			if ok {
				return "", &RedefinedStanzaError{Stanza: stanza, Previous: defined}
			}
			previous[name] = stanza
		}

		out.WriteString("[" + name + "]\n")
		for _, line := range stanza.Lines() {
			rendered, err := line.Render()
			if err != nil {
				return "", err
			}
			out.WriteString(rendered)
		}
		out.WriteString(separator)
	}

	return out.String(), nil
}
