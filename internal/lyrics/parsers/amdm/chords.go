package amdm

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

var (
	chordTokenRegex  = regexp.MustCompile(`^\(?[A-H][#b]?(?:maj|min|m|dim|aug|sus|add|M|\+|°)?\d*(?:(?:sus|add|maj|dim|aug|[#b+-])\d*)*(?:/[A-H][#b]?)?\)?$`)
	fillerTokenRegex = regexp.MustCompile(`^(?:x\d+|\|+|-+|N\.?C\.?)$`)
	tokenRegex       = regexp.MustCompile(`\S+`)
)

// chordAt is a chord name and the rune column it starts at.
type chordAt struct {
	column int
	name   string
}

// isChordLine reports whether every token of line is a chord name or a
// filler such as "|" or "x2", with at least one chord.
func isChordLine(line string) bool {
	tokens := strings.Fields(line)
	chords := 0
	for _, token := range tokens {
		switch {
		case chordTokenRegex.MatchString(token):
			chords++
		case fillerTokenRegex.MatchString(token):
		default:
			return false
		}
	}
	return chords > 0
}

func chordPositions(line string) []chordAt {
	var positions []chordAt
	for _, loc := range tokenRegex.FindAllStringIndex(line, -1) {
		token := line[loc[0]:loc[1]]
		if fillerTokenRegex.MatchString(token) && !strings.HasPrefix(token, "N") {
			continue
		}
		positions = append(positions, chordAt{
			column: utf8.RuneCountInString(line[:loc[0]]),
			name:   token,
		})
	}
	return positions
}

// mergeChordLine writes the chords of a chord line into the lyric line
// below it, each {chord} inserted at the column it was printed above.
func mergeChordLine(chordLine, lyric string) string {
	runes := []rune(lyric)
	positions := chordPositions(chordLine)

	// right to left so earlier columns stay valid
	for i := len(positions) - 1; i >= 0; i-- {
		pos := positions[i]
		for len(runes) < pos.column {
			runes = append(runes, ' ')
		}
		runes = slices.Insert(runes, pos.column, []rune("{"+pos.name+"}")...)
	}

	return strings.TrimRight(string(runes), " \t")
}
