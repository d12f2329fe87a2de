package patcher

import (
	"regexp"
	"strings"
)

const (
	defaultIndentStep = "  "
	blankChars        = " \t\r\n"
	jsonStringPattern = `"(?:[^"\\]|\\.)*"`
)

// DependencyEntry is a single "name": "version" pair inside a manifest section.
type DependencyEntry struct {
	Name    string
	Version string
}

// String renders the entry the way it is written into a manifest.
func (e DependencyEntry) String() string {
	return `"` + e.Name + `": "` + e.Version + `"`
}

// section bounds a named object inside a manifest.
type section struct {
	labelStart int // opening quote of the label
	open       int // opening brace
	close      int // matching closing brace
}

func (s section) body(text string) string {
	return text[s.open+1 : s.close]
}

func (s section) replaceBody(text, body string) string {
	return text[:s.open+1] + body + text[s.close:]
}

// locateSection finds the object labelled name. A label at the top level of
// the document wins over nested ones; when none is top level, the first
// label outside a string is used. It reports false when the label is missing
// or its object never closes.
func locateSection(text, name string) (section, bool) {
	pattern := regexp.MustCompile(`"` + regexp.QuoteMeta(name) + `"\s*:\s*\{`)
	matches := pattern.FindAllStringIndex(text, -1)

	chosen := -1
	for i, match := range matches {
		if !OutsideString(text, match[0]) {
			continue
		}
		if DepthAt(text, match[0]) == 1 {
			chosen = i
			break
		}
		if chosen < 0 {
			chosen = i
		}
	}
	if chosen < 0 {
		return section{}, false
	}

	open := matches[chosen][1] - 1
	end, ok := FindObjectEnd(text, open)
	if !ok {
		return section{}, false
	}
	return section{labelStart: matches[chosen][0], open: open, close: end}, true
}

// topLevelMatches returns the matches of pattern that start outside any
// string and directly inside body (not in a nested object).
func topLevelMatches(body string, pattern *regexp.Regexp) [][]int {
	var result [][]int
	for _, match := range pattern.FindAllStringSubmatchIndex(body, -1) {
		if OutsideString(body, match[0]) && DepthAt(body, match[0]) == 0 {
			result = append(result, match)
		}
	}
	return result
}

func keyPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`"` + regexp.QuoteMeta(name) + `"\s*:`)
}

// HasEntry reports whether the section holds a key called name.
func HasEntry(text, sectionName, name string) bool {
	sec, ok := locateSection(text, sectionName)
	if !ok {
		return false
	}
	return len(topLevelMatches(sec.body(text), keyPattern(name))) > 0
}

// lineIndent returns the whitespace that precedes idx on its line, or an
// empty string when idx is not the first non-blank character of the line.
func lineIndent(text string, idx int) string {
	start := idx
	for start > 0 && (text[start-1] == ' ' || text[start-1] == '\t') {
		start--
	}
	if start > 0 && text[start-1] != '\n' {
		return ""
	}
	return text[start:idx]
}

var entryIndentPattern = regexp.MustCompile(`\n([ \t]*)"[^"]+"\s*:`)

// Insert adds "name": "version" as the last entry of the section. It does
// nothing when the section is missing, never closes, or already holds name.
func Insert(text, sectionName, name, version string) (string, bool) {
	sec, ok := locateSection(text, sectionName)
	if !ok {
		return text, false
	}
	body := sec.body(text)
	if len(topLevelMatches(body, keyPattern(name))) > 0 {
		return text, false
	}

	baseIndent := lineIndent(text, sec.labelStart)
	itemIndent := baseIndent + defaultIndentStep
	if match := entryIndentPattern.FindStringSubmatch(body); match != nil {
		itemIndent = match[1]
	}
	entry := DependencyEntry{Name: name, Version: version}.String()

	var newBody string
	if strings.TrimSpace(body) == "" {
		newBody = "\n" + itemIndent + entry + "\n" + baseIndent
	} else {
		content := strings.TrimRight(body, blankChars)
		separator := ","
		if strings.HasSuffix(content, ",") {
			separator = ""
		}
		newBody = content + separator + "\n" + itemIndent + entry + body[len(content):]
	}
	return sec.replaceBody(text, newBody), true
}

var trailingCommaPattern = regexp.MustCompile(`,\s*$`)

// stripLastComma removes a trailing comma from the last non-blank line and
// reports whether it did.
func stripLastComma(lines []string) bool {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		stripped := trailingCommaPattern.ReplaceAllString(lines[i], "")
		if stripped == lines[i] {
			return false
		}
		lines[i] = stripped
		return true
	}
	return false
}

// Remove drops every line of the section that consists of exactly one
// "name": "<string>" entry and keeps the new last entry free of a trailing
// comma. Entries sharing a line with other entries are left to ForceRemove.
func Remove(text, sectionName, name string) (string, bool) {
	sec, ok := locateSection(text, sectionName)
	if !ok {
		return text, false
	}

	entryLine := regexp.MustCompile(
		`^\s*"` + regexp.QuoteMeta(name) + `"\s*:\s*` + jsonStringPattern + `\s*,?\s*$`,
	)
	lines := strings.Split(sec.body(text), "\n")
	kept := make([]string, 0, len(lines))
	removed := false
	for _, line := range lines {
		if entryLine.MatchString(line) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return text, false
	}

	stripLastComma(kept)
	return sec.replaceBody(text, strings.Join(kept, "\n")), true
}

// ForceRemove deletes "name": "<string>" tokens wherever they sit in the
// section, together with one adjacent comma. It handles inline objects such
// as {"a": "1", "b": "2"} that the line-based Remove cannot split.
func ForceRemove(text, sectionName, name string) (string, bool) {
	sec, ok := locateSection(text, sectionName)
	if !ok {
		return text, false
	}

	token := regexp.MustCompile(`"` + regexp.QuoteMeta(name) + `"\s*:\s*` + jsonStringPattern)
	body := sec.body(text)
	removed := false
	for {
		matches := topLevelMatches(body, token)
		if len(matches) == 0 {
			break
		}
		body = cutToken(body, matches[0][0], matches[0][1])
		removed = true
	}
	if !removed {
		return text, false
	}

	lines := strings.Split(body, "\n")
	stripLastComma(lines)
	return sec.replaceBody(text, strings.Join(lines, "\n")), true
}

// cutToken removes body[start:end] and the comma that separates it from its
// neighbour, then drops the line if nothing but whitespace is left on it.
func cutToken(body string, start, end int) string {
	rest := body[end:]
	afterBlank := strings.TrimLeft(rest, blankChars)
	if strings.HasPrefix(afterBlank, ",") {
		end += len(rest) - len(afterBlank) + 1
		for end < len(body) && (body[end] == ' ' || body[end] == '\t') {
			end++
		}
	} else {
		head := strings.TrimRight(body[:start], blankChars)
		if strings.HasSuffix(head, ",") {
			start = len(head) - 1
		}
	}
	result := body[:start] + body[end:]

	lineStart := strings.LastIndex(result[:start], "\n") + 1
	lineEnd := strings.Index(result[start:], "\n")
	if lineStart == 0 || lineEnd < 0 {
		return result
	}
	lineEnd += start
	if strings.TrimSpace(result[lineStart:lineEnd]) != "" {
		return result
	}
	return result[:lineStart] + result[lineEnd+1:]
}

// RemoveAnywhereByLine deletes every standalone "name": "value" line of the
// whole document, regardless of the object it belongs to. Each object that
// lost a line has the comma after its new last entry removed.
func RemoveAnywhereByLine(text, name string) (string, bool) {
	pattern := regexp.MustCompile(
		`(?m)^[ \t]*"` + regexp.QuoteMeta(name) + `"[ \t]*:[ \t]*"[^"\n]+"[ \t]*,?[ \t]*(?:\r?\n|\z)`,
	)
	matches := pattern.FindAllStringIndex(text, -1)
	updated := text
	for i := len(matches) - 1; i >= 0; i-- {
		start, end := matches[i][0], matches[i][1]
		open := enclosingObject(updated, start)
		updated = updated[:start] + updated[end:]
		if open >= 0 {
			updated = stripDanglingComma(updated, open)
		}
	}
	return updated, updated != text
}

// enclosingObject returns the index of the brace opening the innermost
// object that contains idx, or -1 at the top level.
func enclosingObject(text string, idx int) int {
	for open := idx - 1; open >= 0; open-- {
		if text[open] != openBrace || !OutsideString(text, open) {
			continue
		}
		if end, ok := FindObjectEnd(text, open); ok && end >= idx {
			return open
		}
	}
	return -1
}

// stripDanglingComma removes a comma standing right before the brace that
// closes the object opened at open.
func stripDanglingComma(text string, open int) string {
	end, ok := FindObjectEnd(text, open)
	if !ok {
		return text
	}
	head := strings.TrimRight(text[open+1:end], blankChars)
	if !strings.HasSuffix(head, ",") {
		return text
	}
	comma := open + len(head)
	return text[:comma] + text[comma+1:]
}

// RepairTrailingComma removes a dangling comma after the last entry of the
// section.
func RepairTrailingComma(text, sectionName string) (string, bool) {
	sec, ok := locateSection(text, sectionName)
	if !ok {
		return text, false
	}
	lines := strings.Split(sec.body(text), "\n")
	if !stripLastComma(lines) {
		return text, false
	}
	return sec.replaceBody(text, strings.Join(lines, "\n")), true
}

// Update rewrites the value of an existing "name" entry in place.
func Update(text, sectionName, name, version string) (string, bool) {
	sec, ok := locateSection(text, sectionName)
	if !ok {
		return text, false
	}

	pattern := regexp.MustCompile(`"` + regexp.QuoteMeta(name) + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	body := sec.body(text)
	matches := topLevelMatches(body, pattern)
	if len(matches) == 0 {
		return text, false
	}
	valueStart, valueEnd := matches[0][2], matches[0][3]
	if body[valueStart:valueEnd] == version {
		return text, false
	}
	return sec.replaceBody(text, body[:valueStart]+version+body[valueEnd:]), true
}
