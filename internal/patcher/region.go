package patcher

import "strings"

const (
	jsonQuotes   = `"`
	scriptQuotes = "\"'`"

	openBrace  = '{'
	closeBrace = '}'
	quote      = '"'
	backslash  = '\\'
)

// FindObjectEnd returns the index of the brace that closes the object opened
// at start. Braces inside double-quoted strings are ignored, and a backslash
// escapes the next character inside a string. The second return value is
// false when the text ends before the nesting depth returns to zero.
func FindObjectEnd(text string, start int) (int, bool) {
	return findClosingBrace(text, start, jsonQuotes)
}

// FindBlockEnd is FindObjectEnd for JavaScript and TypeScript source, where
// strings may also be single-quoted or template literals. Substitutions
// inside template literals are not tracked.
func FindBlockEnd(text string, start int) (int, bool) {
	return findClosingBrace(text, start, scriptQuotes)
}

func findClosingBrace(text string, start int, quotes string) (int, bool) {
	if start < 0 || start >= len(text) || text[start] != openBrace {
		return -1, false
	}

	depth := 0
	var open byte
	escaped := false
	for idx := start; idx < len(text); idx++ {
		char := text[idx]
		if open != 0 {
			switch {
			case escaped:
				escaped = false
			case char == backslash:
				escaped = true
			case char == open:
				open = 0
			}
			continue
		}

		switch {
		case strings.IndexByte(quotes, char) >= 0:
			open = char
		case char == openBrace:
			depth++
		case char == closeBrace:
			depth--
			if depth == 0 {
				return idx, true
			}
		}
	}
	return -1, false
}

// scanState walks text up to (not including) end and reports whether end sits
// inside a string literal and how many objects are open at that point.
func scanState(text string, end int) (bool, int) {
	depth := 0
	inString := false
	escaped := false
	for idx := 0; idx < end && idx < len(text); idx++ {
		char := text[idx]
		if inString {
			switch {
			case escaped:
				escaped = false
			case char == backslash:
				escaped = true
			case char == quote:
				inString = false
			}
			continue
		}
		switch char {
		case quote:
			inString = true
		case openBrace:
			depth++
		case closeBrace:
			depth--
		}
	}
	return inString, depth
}

// OutsideString reports whether idx is outside every string literal of text.
func OutsideString(text string, idx int) bool {
	inString, _ := scanState(text, idx)
	return !inString
}

// DepthAt returns how many objects are open right before idx.
func DepthAt(text string, idx int) int {
	_, depth := scanState(text, idx)
	return depth
}
