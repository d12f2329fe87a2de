package patcher

import (
	"regexp"
	"strings"
)

// GuardRule pairs a handler registration call with the call that clears
// previous registrations for the same channel.
type GuardRule struct {
	Registration string // e.g. "ipcMain.handle"
	Guard        string // e.g. "ipcMain.removeHandler"
}

// GuardPolicy decides which registrations receive a guard. Only channels
// matching one of the AllowList patterns are touched: clearing every handler
// of an arbitrary channel could drop registrations made elsewhere.
type GuardPolicy struct {
	Rules     []GuardRule
	AllowList []*regexp.Regexp
}

// Allows reports whether channel matches the allow-list.
func (p GuardPolicy) Allows(channel string) bool {
	for _, pattern := range p.AllowList {
		if pattern.MatchString(channel) {
			return true
		}
	}
	return false
}

// GuardedRegistration is a registration line that needs a guard in front.
type GuardedRegistration struct {
	Rule    GuardRule
	Channel string
	Quote   string
	Indent  string
}

// GuardCall renders the guard statement for the registration.
func (g GuardedRegistration) GuardCall() string {
	return g.Indent + g.Rule.Guard + "(" + g.Quote + g.Channel + g.Quote + ");"
}

// guardedBy reports whether line already calls the rule's guard for channel,
// with either quote style.
func guardedBy(line string, rule GuardRule, channel string) bool {
	return strings.Contains(line, rule.Guard+"('"+channel+"')") ||
		strings.Contains(line, rule.Guard+"(\""+channel+"\")")
}

type compiledRule struct {
	rule    GuardRule
	pattern *regexp.Regexp
}

func (p GuardPolicy) compile() []compiledRule {
	compiled := make([]compiledRule, 0, len(p.Rules))
	for _, rule := range p.Rules {
		compiled = append(compiled, compiledRule{
			rule: rule,
			pattern: regexp.MustCompile(
				`^(?P<indent>\s*)` + regexp.QuoteMeta(rule.Registration) +
					`\(\s*(?P<quote>['"])(?P<channel>[^'"]+)['"]`,
			),
		})
	}
	return compiled
}

func (p GuardPolicy) match(rules []compiledRule, line string) (GuardedRegistration, bool) {
	for _, candidate := range rules {
		match := candidate.pattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		return GuardedRegistration{
			Rule:    candidate.rule,
			Channel: match[candidate.pattern.SubexpIndex("channel")],
			Quote:   match[candidate.pattern.SubexpIndex("quote")],
			Indent:  match[candidate.pattern.SubexpIndex("indent")],
		}, true
	}
	return GuardedRegistration{}, false
}

// lastNonBlank returns the last line that is not whitespace only.
func lastNonBlank(lines []string) (string, bool) {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i], true
		}
	}
	return "", false
}

// InsertGuards puts a guard call right before every allowed registration
// whose previous non-blank line is not already that guard.
func InsertGuards(content string, policy GuardPolicy) (string, bool) {
	rules := policy.compile()
	lines := strings.Split(content, "\n")
	updated := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		registration, ok := policy.match(rules, line)
		if ok && policy.Allows(registration.Channel) {
			previous, found := lastNonBlank(updated)
			if !found || !guardedBy(previous, registration.Rule, registration.Channel) {
				guard := registration.GuardCall()
				if strings.HasSuffix(line, "\r") {
					guard += "\r"
				}
				updated = append(updated, guard)
				changed = true
			}
		}
		updated = append(updated, line)
	}

	if !changed {
		return content, false
	}
	return strings.Join(updated, "\n"), true
}
