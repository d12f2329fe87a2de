package patcher

import (
	"regexp"
	"strconv"
	"strings"
)

// Substitution is a single fixed edit on configuration text. Apply returns
// the content unchanged when the target state is already present.
type Substitution interface {
	Apply(content string) string
}

// ApplyAll runs the substitutions in order and reports whether anything
// changed.
func ApplyAll(content string, rules []Substitution) (string, bool) {
	updated := content
	for _, rule := range rules {
		updated = rule.Apply(updated)
	}
	return updated, updated != content
}

// Rename replaces every whole-word occurrence of From with To.
type Rename struct {
	From string
	To   string
}

func (r Rename) Apply(content string) string {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(r.From) + `\b`)
	return pattern.ReplaceAllString(content, r.To)
}

// SetBool forces every `Option: true|false` to Value.
type SetBool struct {
	Option string
	Value  bool
}

func (s SetBool) Apply(content string) string {
	pattern := regexp.MustCompile(`(\b` + regexp.QuoteMeta(s.Option) + `:\s*)(?:true|false)\b`)
	return pattern.ReplaceAllString(content, "${1}"+strconv.FormatBool(s.Value))
}

// ReplaceBlock swaps the first occurrence of Old for New, unless New is
// already there.
type ReplaceBlock struct {
	Old string
	New string
}

func (r ReplaceBlock) Apply(content string) string {
	if strings.Contains(content, r.New) {
		return content
	}
	return strings.Replace(content, r.Old, r.New, 1)
}

// EnsureMarker writes Marker right after the first Anchor, unless Sentinel is
// already present.
type EnsureMarker struct {
	Anchor   string
	Marker   string
	Sentinel string
}

func (e EnsureMarker) Apply(content string) string {
	if strings.Contains(content, e.Sentinel) {
		return content
	}
	return strings.Replace(content, e.Anchor, e.Anchor+e.Marker, 1)
}

// EnsureListEntries appends the missing Entries, single-quoted, to the first
// `Key: [...]` list.
type EnsureListEntries struct {
	Key     string
	Entries []string
}

func (e EnsureListEntries) Apply(content string) string {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(e.Key) + `:\s*\[([^\]]*)\]`)
	match := pattern.FindStringSubmatchIndex(content)
	if match == nil {
		return content
	}

	items := content[match[2]:match[3]]
	for _, entry := range e.Entries {
		if strings.Contains(items, "'"+entry+"'") || strings.Contains(items, `"`+entry+`"`) {
			continue
		}
		if strings.TrimSpace(items) == "" {
			items = "'" + entry + "'"
			continue
		}
		items = strings.TrimRight(items, blankChars) + ", '" + entry + "'"
	}
	return content[:match[2]] + items + content[match[3]:]
}

// EnsureSubBlock inserts Block right after the first Anchor match when the
// content mentions Require and does not contain Absent yet.
type EnsureSubBlock struct {
	Anchor  *regexp.Regexp
	Require string
	Absent  string
	Block   string
}

func (e EnsureSubBlock) Apply(content string) string {
	if strings.Contains(content, e.Absent) || !strings.Contains(content, e.Require) {
		return content
	}
	match := e.Anchor.FindStringIndex(content)
	if match == nil {
		return content
	}
	return content[:match[1]] + e.Block + content[match[1]:]
}

// ReplaceSubBlock replaces the `Key: { ... },` object that directly follows
// the first Anchor match with Block. The object end is found with
// FindBlockEnd, so nested objects are replaced as a whole and braces inside
// string literals do not count. Nothing happens
// when Block is already present.
type ReplaceSubBlock struct {
	Anchor *regexp.Regexp
	Key    string
	Block  string
}

func (r ReplaceSubBlock) Apply(content string) string {
	if strings.Contains(content, r.Block) {
		return content
	}
	anchor := r.Anchor.FindStringIndex(content)
	if anchor == nil {
		return content
	}

	head := regexp.MustCompile(`^\s*\n\s*` + regexp.QuoteMeta(r.Key) + `:\s*\{`)
	rest := content[anchor[1]:]
	opening := head.FindStringIndex(rest)
	if opening == nil {
		return content
	}
	open := anchor[1] + opening[1] - 1
	end, ok := FindBlockEnd(content, open)
	if !ok {
		return content
	}

	tail := regexp.MustCompile(`^\s*,`).FindStringIndex(content[end+1:])
	if tail == nil {
		return content
	}
	return content[:anchor[1]] + r.Block + content[end+1+tail[1]:]
}
