package wizard

import (
	"fmt"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml"

	"github.com/itsameandrea/muesliup/internal/messages"
)

// Change describes one key assignment to apply to config.toml.
// Value must be a string, bool, or int.
type Change struct {
	Section string
	Key     string
	Value   any
}

// Patch applies changes to TOML content by line splicing. Users hand-edit
// muesli's config.toml, so setup never rewrites the file wholesale: an
// existing key is replaced in place keeping its indentation and inline
// comment, a missing key is inserted at the end of its owning section, and a
// missing section is appended to the document. Every untouched line survives
// byte for byte.
func Patch(content string, changes []Change) (string, error) {
	if _, err := toml.LoadBytes([]byte(content)); err != nil {
		return "", fmt.Errorf(messages.WizardParseConfigFailedFmt, err)
	}
	doc := parseTomlDocument(content)
	for _, change := range changes {
		doc.set(change.Section, change.Key, formatTomlValue(change.Value))
	}
	return doc.render(), nil
}

// tomlDocument is a line-level view of a TOML file: the lines before the
// first table header, then the table blocks in file order. Rendering a
// document parsed from content reproduces content exactly.
type tomlDocument struct {
	preamble []string
	blocks   []*tomlBlock
}

// tomlBlock is a table header line plus the lines that follow it up to the
// next header.
type tomlBlock struct {
	name  string
	array bool
	lines []string
}

func parseTomlDocument(content string) *tomlDocument {
	doc := &tomlDocument{}
	var current *tomlBlock
	for _, line := range strings.Split(content, "\n") {
		if name, array, ok := parseTomlHeader(line); ok {
			current = &tomlBlock{name: name, array: array, lines: []string{line}}
			doc.blocks = append(doc.blocks, current)
			continue
		}
		if current == nil {
			doc.preamble = append(doc.preamble, line)
			continue
		}
		current.lines = append(current.lines, line)
	}
	return doc
}

func (d *tomlDocument) render() string {
	lines := make([]string, 0, len(d.preamble))
	lines = append(lines, d.preamble...)
	for _, b := range d.blocks {
		lines = append(lines, b.lines...)
	}
	return strings.Join(lines, "\n")
}

// set replaces or inserts key in the named section, appending the section
// when the document does not have it yet. A name taken by an array of
// tables is left alone: appending a plain table of the same name would make
// the document invalid.
func (d *tomlDocument) set(section, key, value string) {
	arrayTaken := false
	for _, b := range d.blocks {
		if b.name != section {
			continue
		}
		if b.array {
			arrayTaken = true
			continue
		}
		b.setKey(key, value)
		return
	}
	if arrayTaken {
		return
	}
	d.blocks = append(d.blocks, &tomlBlock{
		name:  section,
		lines: []string{"[" + section + "]", key + " = " + value, ""},
	})
}

// setKey rewrites the first line assigning key, preferring an uncommented
// assignment over a commented-out one (which gets uncommented). When the
// block has no line for the key, a new line is inserted after the block's
// last non-blank line.
func (b *tomlBlock) setKey(key, value string) {
	at := -1
	var base keyLine
	for i := 1; i < len(b.lines); i++ {
		parsed, ok := parseKeyLine(b.lines[i], key)
		if !ok {
			continue
		}
		if !parsed.commented {
			at, base = i, parsed
			break
		}
		if at == -1 {
			at, base = i, parsed
		}
	}
	if at >= 0 {
		b.lines[at] = buildKeyLine(base, key, value)
		return
	}
	b.insert(key + " = " + value)
}

// insert places line after the last non-blank line of the block, leaving
// blank separator lines at the block end where they were.
func (b *tomlBlock) insert(line string) {
	at := len(b.lines)
	for at > 1 && strings.TrimSpace(b.lines[at-1]) == "" {
		at--
	}
	b.lines = append(b.lines[:at], append([]string{line}, b.lines[at:]...)...)
}

// keyLine carries the pieces of a key assignment line that survive a value
// rewrite: indentation, the commented-out marker, and any inline comment.
type keyLine struct {
	indent        string
	commented     bool
	inlineComment string
}

// parseKeyLine reports whether line assigns key, either directly or behind a
// comment marker.
func parseKeyLine(line, key string) (keyLine, bool) {
	indentLen := len(line) - len(strings.TrimLeft(line, " \t"))
	indent := line[:indentLen]
	trimmed := line[indentLen:]
	commented := false
	if strings.HasPrefix(trimmed, "#") {
		commented = true
		trimmed = strings.TrimLeft(strings.TrimPrefix(trimmed, "#"), " \t")
	}
	if !strings.HasPrefix(trimmed, key) {
		return keyLine{}, false
	}
	rest := strings.TrimSpace(trimmed[len(key):])
	if !strings.HasPrefix(rest, "=") {
		return keyLine{}, false
	}
	comment := ""
	if ci := commentIndex(trimmed); ci >= 0 {
		comment = strings.TrimSpace(trimmed[ci:])
	}
	return keyLine{indent: indent, commented: commented, inlineComment: comment}, true
}

// buildKeyLine renders a key assignment reusing base's indentation and
// inline comment.
func buildKeyLine(base keyLine, key, value string) string {
	line := base.indent + key + " = " + value
	if base.inlineComment != "" {
		line += " " + base.inlineComment
	}
	return line
}

// parseTomlHeader detects a table header line and extracts the table name.
// Handles inline comments like `[section] # comment`. Array-of-table headers
// also start a block so key edits never cross into them.
func parseTomlHeader(line string) (name string, array bool, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false, false
	}
	if ci := commentIndex(trimmed); ci >= 0 {
		trimmed = strings.TrimSpace(trimmed[:ci])
	}
	if strings.HasPrefix(trimmed, "[[") && strings.HasSuffix(trimmed, "]]") {
		name = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(trimmed, "[["), "]]"))
		return name, true, name != ""
	}
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		name = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]"))
		return name, false, name != ""
	}
	return "", false, false
}

// commentIndex returns the byte offset of the first # that starts a comment
// in line, or -1. Hashes inside single- or double-quoted strings do not
// count. The scan is per line; multiline strings are not handled.
func commentIndex(line string) int {
	inDouble := false
	inSingle := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inDouble:
			switch c {
			case '\\':
				i++
			case '"':
				inDouble = false
			}
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
		case c == '"':
			inDouble = true
		case c == '\'':
			inSingle = true
		case c == '#':
			return i
		}
	}
	return -1
}

// formatTomlValue converts a scalar into a TOML literal.
func formatTomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
