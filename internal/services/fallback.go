package services

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultRuleName is reported by Match when no keyword rule fired.
const DefaultRuleName = "default"

// FallbackRule fires when the message contains any of its keywords.
type FallbackRule struct {
	Name      string   `toml:"name"`
	Keywords  []string `toml:"keywords"`
	Responses []string `toml:"responses"`
}

// FallbackRules is an ordered rule table; the first matching rule wins.
type FallbackRules struct {
	Default []string       `toml:"default"`
	Rules   []FallbackRule `toml:"rule"`
}

// LoadFallbackRules returns the built-in rules, or the rules decoded from a
// TOML file when path is set.
func LoadFallbackRules(path string) (FallbackRules, error) {
	if strings.TrimSpace(path) == "" {
		return defaultFallbackRules(), nil
	}

	var rules FallbackRules
	if _, err := toml.DecodeFile(path, &rules); err != nil {
		return FallbackRules{}, fmt.Errorf("failed to decode fallback rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return FallbackRules{}, err
	}
	return rules, nil
}

// Validate makes sure Respond can always produce a non-empty reply.
func (r FallbackRules) Validate() error {
	if len(r.Rules) == 0 {
		return fmt.Errorf("fallback rules: at least one rule is required")
	}
	if !hasText(r.Default) {
		return fmt.Errorf("fallback rules: default responses are required")
	}
	for i, rule := range r.Rules {
		if strings.TrimSpace(rule.Name) == "" {
			return fmt.Errorf("fallback rules: rule %d has no name", i)
		}
		if !hasText(rule.Keywords) {
			return fmt.Errorf("fallback rules: rule %q has no keywords", rule.Name)
		}
		if !hasText(rule.Responses) {
			return fmt.Errorf("fallback rules: rule %q has no responses", rule.Name)
		}
	}
	return nil
}

func hasText(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// FallbackResponder picks a canned reply by keyword. It holds no state
// besides the immutable rule table.
type FallbackResponder struct {
	rules FallbackRules
	intn  func(n int) int
}

// NewFallbackResponder copies the rules and lower-cases their keywords.
// intn selects a candidate index in [0, n); nil uses math/rand/v2.
func NewFallbackResponder(rules FallbackRules, intn func(n int) int) *FallbackResponder {
	if intn == nil {
		intn = rand.IntN
	}

	normalized := FallbackRules{
		Default: append([]string(nil), rules.Default...),
		Rules:   make([]FallbackRule, 0, len(rules.Rules)),
	}
	for _, rule := range rules.Rules {
		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			keywords = append(keywords, strings.ToLower(kw))
		}
		normalized.Rules = append(normalized.Rules, FallbackRule{
			Name:      rule.Name,
			Keywords:  keywords,
			Responses: append([]string(nil), rule.Responses...),
		})
	}

	return &FallbackResponder{rules: normalized, intn: intn}
}

// Respond returns a canned reply for message.
func (f *FallbackResponder) Respond(message string) string {
	_, reply := f.Match(message)
	return reply
}

// Match returns the name of the rule that fired together with the reply.
func (f *FallbackResponder) Match(message string) (string, string) {
	lower := strings.ToLower(message)

	for _, rule := range f.rules.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Name, f.pick(rule.Responses)
			}
		}
	}
	return DefaultRuleName, f.pick(f.rules.Default)
}

// Candidates lists the replies a rule can produce; used by tests and tooling.
func (f *FallbackResponder) Candidates(name string) []string {
	if name == DefaultRuleName {
		return append([]string(nil), f.rules.Default...)
	}
	for _, rule := range f.rules.Rules {
		if rule.Name == name {
			return append([]string(nil), rule.Responses...)
		}
	}
	return nil
}

func (f *FallbackResponder) pick(candidates []string) string {
	if len(candidates) == 0 {
		return ErrorReply
	}
	i := f.intn(len(candidates))
	if i < 0 || i >= len(candidates) {
		i = 0
	}
	return candidates[i]
}
