package patcher

import (
	"regexp"
	"strings"
)

// ImportRewrite moves grouped imports from SourcePrefix/<pack> to one import
// per symbol under TargetPrefix/<pack>/<symbol>.
type ImportRewrite struct {
	SourcePrefix string
	TargetPrefix string
}

// ImportSymbol is one entry of a grouped import clause.
type ImportSymbol struct {
	Name  string
	Alias string
}

// ImportStatement is a grouped import clause taken apart.
type ImportStatement struct {
	TypeOnly bool
	Pack     string
	Symbols  []ImportSymbol
	Comment  string
}

func (r ImportRewrite) pattern() *regexp.Regexp {
	return regexp.MustCompile(
		`(?m)^import\s+(?P<type>type\s+)?\{\s*(?P<names>[^}]+)\s*\}\s*from\s*['"]` +
			regexp.QuoteMeta(r.SourcePrefix) +
			`/(?P<pack>[^'"/]+)['"];?[ \t]*(?P<comment>//.*)?$`,
	)
}

// ParseImportSymbols splits "A, B as C," into symbols, dropping empty entries.
func ParseImportSymbols(names string) []ImportSymbol {
	var symbols []ImportSymbol
	for _, entry := range strings.Split(names, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if original, alias, found := strings.Cut(entry, " as "); found {
			symbols = append(symbols, ImportSymbol{
				Name:  strings.TrimSpace(original),
				Alias: strings.TrimSpace(alias),
			})
			continue
		}
		symbols = append(symbols, ImportSymbol{Name: entry})
	}
	return symbols
}

// Render produces one import line per symbol, in source order.
func (s ImportStatement) Render(targetPrefix string) string {
	typeClause := ""
	if s.TypeOnly {
		typeClause = "type "
	}

	lines := make([]string, 0, len(s.Symbols))
	for _, symbol := range s.Symbols {
		spec := symbol.Name
		if symbol.Alias != "" {
			spec += " as " + symbol.Alias
		}
		lines = append(lines,
			"import "+typeClause+"{ "+spec+" } from \""+targetPrefix+"/"+s.Pack+"/"+symbol.Name+"\";",
		)
	}
	if s.Comment != "" && len(lines) > 0 {
		lines[len(lines)-1] += " " + s.Comment
	}
	return strings.Join(lines, "\n")
}

// RegroupImports rewrites every grouped import from the source prefix.
// Statements already pointing at per-symbol paths are not matched again.
func RegroupImports(content string, rewrite ImportRewrite) (string, bool) {
	pattern := rewrite.pattern()
	updated := pattern.ReplaceAllStringFunc(content, func(line string) string {
		match := pattern.FindStringSubmatch(line)
		stmt := ImportStatement{
			TypeOnly: match[pattern.SubexpIndex("type")] != "",
			Pack:     match[pattern.SubexpIndex("pack")],
			Symbols:  ParseImportSymbols(match[pattern.SubexpIndex("names")]),
			Comment:  strings.TrimSpace(match[pattern.SubexpIndex("comment")]),
		}
		if len(stmt.Symbols) == 0 {
			return line
		}
		return stmt.Render(rewrite.TargetPrefix)
	})
	return updated, updated != content
}
