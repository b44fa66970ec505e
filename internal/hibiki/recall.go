package hibiki

import (
	"regexp"
	"strings"
)

var (
	// recallSavePattern matches a trailing (=name) marker that saves the line.
	recallSavePattern = regexp.MustCompile(`\(=([\p{L}\p{N}_]+)\)\s*$`)
	// recallOutPattern matches a (@name) reference to a saved line.
	recallOutPattern = regexp.MustCompile(`\(@([\p{L}\p{N}_]+)\)`)
)

// resolveRecalls splits text into lines, replacing every (@name) reference
// with the line saved earlier under name and stripping (=name) markers.
// Lines are processed top to bottom, so a reference must follow its save.
func resolveRecalls(text string) ([]string, error) {
	recalls := make(map[string]string)
	rows := strings.Split(text, "\n")
	out := make([]string, 0, len(rows))

	for i, row := range rows {
		var missing string
		row = recallOutPattern.ReplaceAllStringFunc(row, func(ref string) string {
			name := ref[2 : len(ref)-1]
			saved, ok := recalls[name]
			if !ok && missing == "" {
				missing = name
			}
			return saved
		})
		if missing != "" {
			return nil, &RecallError{Line: i + 1, Name: missing}
		}

		if m := recallSavePattern.FindStringSubmatchIndex(row); m != nil {
			name := row[m[2]:m[3]]
			row = row[:m[0]]
			recalls[name] = row
		}

		out = append(out, row)
	}

	return out, nil
}
