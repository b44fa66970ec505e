package amdm

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	sectionMarkerRegex   = regexp.MustCompile(`^\[([^\]]+)\]:?\s*(.*)$`)
	chordSeparatorRegex  = regexp.MustCompile(`^[\s\|]*$`)
	commentArtifactRegex = regexp.MustCompile(`/\*[^*]*\*?`)
	lyricCleaner         = strings.NewReplacer("{", "", "}", "", "*", "", "[", "(", "]", ")")
)

type section struct {
	name  string
	lines []string
}

// processTextLines converts the plain text of a chord sheet, with chord
// lines printed above lyric lines, into hibiki source
func (p *Parser) processTextLines(cleanText string) string {
	rows := strings.Split(strings.ReplaceAll(cleanText, "\r\n", "\n"), "\n")

	var (
		sections []*section
		current  *section
		skipping bool
	)

	add := func(line string) {
		if skipping || strings.TrimSpace(line) == "" {
			return
		}
		if current == nil {
			current = &section{name: p.config.DefaultSection}
			sections = append(sections, current)
		}
		current.lines = append(current.lines, line)
	}

	for i := 0; i < len(rows); i++ {
		row := strings.TrimRight(rows[i], " \t")
		trimmed := strings.TrimSpace(row)

		if chordSeparatorRegex.MatchString(trimmed) {
			continue
		}

		if m := sectionMarkerRegex.FindStringSubmatch(trimmed); m != nil {
			name := strings.TrimSpace(strings.TrimSuffix(m[1], ":"))
			if name == "" {
				name = p.config.DefaultSection
			}
			skipping = p.isSkipped(name)
			current = &section{name: name}
			if !skipping {
				sections = append(sections, current)
			}
			// "[Вступление]: Am F C G" keeps its chords
			if m[2] != "" {
				rows[i] = m[2]
				i--
			}
			continue
		}

		if isChordLine(trimmed) {
			lyric := ""
			if i+1 < len(rows) {
				next := strings.TrimRight(rows[i+1], " \t")
				nextTrimmed := strings.TrimSpace(next)
				if nextTrimmed != "" && !isChordLine(nextTrimmed) && !sectionMarkerRegex.MatchString(nextTrimmed) {
					lyric = cleanLyric(next)
					i++
				}
			}
			add(mergeChordLine(row, lyric))
			continue
		}

		add(strings.TrimSpace(cleanLyric(row)))
	}

	return p.finalCleanup(assemble(sections))
}

func cleanLyric(line string) string {
	line = commentArtifactRegex.ReplaceAllString(line, "")
	return lyricCleaner.Replace(line)
}

func (p *Parser) isSkipped(name string) bool {
	return slices.ContainsFunc(p.config.SkipSections, func(s SectionType) bool {
		return strings.EqualFold(string(s), name)
	})
}

// assemble writes sections as hibiki stanzas. A name that comes back with
// the same body becomes a bare header, a name that comes back with a
// different body is numbered.
func assemble(sections []*section) string {
	defined := make(map[string]string)
	var out strings.Builder

	for _, s := range sections {
		name := s.name
		body := strings.Join(s.lines, "\n")
		previous, ok := defined[name]

		switch {
		case len(s.lines) == 0 && !ok:
			continue
		case len(s.lines) == 0 || previous == body:
			out.WriteString("[" + name + "]\n\n")
			continue
		case ok:
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s %d", name, n)
				if _, taken := defined[candidate]; !taken {
					name = candidate
					break
				}
			}
		}

		defined[name] = body
		out.WriteString("[" + name + "]\n" + body + "\n\n")
	}

	return out.String()
}
