// Package parser classifies raw rule strings and turns them into RuleTokens.
// Intentionally dumb: the grammar is a fixed punctuation shape, no
// expression language.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

// Grammar punctuation.
const (
	minus     = '-'
	caret     = "^"
	bar       = "|"
	chanceSep = '?'
	scopeSep  = '@'
)

// DefaultChance is the chance of a rule without a "?" suffix.
const DefaultChance = 100

// ParseError reports a rule string that could not be tokenized.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed rule %q: %s", e.Raw, e.Reason)
}

// Classify maps the punctuation shape of a rule to its operation kind.
// The table is evaluated top to bottom; the first matching row wins.
func Classify(raw string) types.Kind {
	body, _, _, _, _ := splitSuffixes(strings.TrimSpace(raw))
	return classifyBody(body)
}

func classifyBody(body string) types.Kind {
	hasMinus := strings.HasPrefix(body, string(minus))
	hasCaret := strings.Contains(body, caret)
	bars := strings.Count(body, bar)

	switch {
	case !hasMinus && !hasCaret && bars == 1:
		return types.Add
	case hasMinus && !hasCaret && bars == 1:
		return types.Remove
	case hasMinus && !hasCaret && bars == 0:
		return types.RemoveAll
	case !hasMinus && hasCaret && bars == 2:
		return types.Replace
	case !hasMinus && hasCaret && bars <= 1:
		return types.ReplaceAll
	}
	return types.Error
}

// Parse classifies and tokenizes raw in one step.
func Parse(raw string, target types.Identifier, origin string) (types.RuleToken, error) {
	return tokenize(raw, target, origin, Classify(raw))
}

// Tokenize parses raw, already classified as kind, into a RuleToken for the
// given target container. Any problem yields an Error token; Tokenize never
// panics.
func Tokenize(raw string, target types.Identifier, origin string, kind types.Kind) types.RuleToken {
	tok, err := tokenize(raw, target, origin, kind)
	if err != nil {
		slog.Warn("dropping rule", "file", origin, "target", target.String(), "err", err)
	}
	return tok
}

func tokenize(raw string, target types.Identifier, origin string, kind types.Kind) (types.RuleToken, error) {
	tok := types.RuleToken{
		Kind:     types.Error,
		Filename: origin,
		Target:   target,
		Chance:   DefaultChance,
		Raw:      raw,
	}
	fail := func(format string, args ...any) (types.RuleToken, error) {
		tok.Kind = types.Error
		return tok, &ParseError{Raw: raw, Reason: fmt.Sprintf(format, args...)}
	}

	body, chance, hasChance, location, keyword := splitSuffixes(strings.TrimSpace(raw))
	if body == "" {
		return fail("empty rule")
	}
	if actual := classifyBody(body); actual != kind {
		return fail("shape is %s, not %s", actual, kind)
	}

	// Suffixes.
	if hasChance {
		n, err := strconv.Atoi(chance)
		if err != nil || n < 1 || n > 100 {
			return fail("chance %q must be an integer in [1,100]", chance)
		}
		tok.Chance = n
	}
	if location != "" {
		id, err := types.ParseIdentifier(location)
		if err != nil {
			return fail("location: %v", err)
		}
		tok.Location = id
	}
	if keyword != "" {
		id, err := types.ParseIdentifier(keyword)
		if err != nil {
			return fail("location keyword: %v", err)
		}
		tok.LocationKeyword = id
	}

	var err error
	switch kind {
	case types.Add:
		tok.Source, tok.Count, err = identifierAndCount(body, true)

	case types.Remove:
		tok.Source, tok.Count, err = identifierAndCount(body[1:], true)

	case types.RemoveAll:
		tok.Source, err = types.ParseIdentifier(body[1:])

	case types.Replace:
		lhs, rhs, _ := strings.Cut(body, caret)
		if tok.Source, tok.Count, err = identifierAndCount(lhs, true); err != nil {
			break
		}
		tok.With, tok.WithCount, err = identifierAndCount(rhs, true)

	case types.ReplaceAll:
		lhs, rhs, _ := strings.Cut(body, caret)
		if strings.Contains(lhs, bar) {
			return fail("replace-all takes no count on the replaced item")
		}
		if tok.Source, err = types.ParseIdentifier(lhs); err != nil {
			break
		}
		tok.With, tok.WithCount, err = identifierAndCount(rhs, false)

	default:
		return fail("unrecognised rule shape")
	}
	if err != nil {
		return fail("%v", err)
	}

	tok.Kind = kind
	return tok, nil
}

// identifierAndCount splits "Id|n". When required is false a missing "|n"
// yields a zero count.
func identifierAndCount(s string, required bool) (types.Identifier, int, error) {
	idText, countText, hasBar := strings.Cut(s, bar)
	id, err := types.ParseIdentifier(idText)
	if err != nil {
		return types.Identifier{}, 0, err
	}
	if !hasBar {
		if required {
			return types.Identifier{}, 0, fmt.Errorf("%s: missing count", id)
		}
		return id, 0, nil
	}
	n, err := parseCount(countText)
	if err != nil {
		return types.Identifier{}, 0, fmt.Errorf("%s: %w", id, err)
	}
	return id, n, nil
}

// parseCount reads a count the way C's strtol does with base 0: decimal,
// 0x hex or leading-zero octal. Counts must be positive.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("count %d must be at least 1", n)
	}
	return int(n), nil
}

// splitSuffixes cuts the optional "?chance" and "@location[@keyword]"
// suffixes off a rule. Either suffix may come first.
func splitSuffixes(s string) (body, chance string, hasChance bool, location, keyword string) {
	body = s
	if i := strings.IndexByte(body, chanceSep); i >= 0 {
		hasChance = true
		end := len(body)
		if j := strings.IndexByte(body[i+1:], scopeSep); j >= 0 {
			end = i + 1 + j
		}
		chance = strings.TrimSpace(body[i+1 : end])
		body = body[:i] + body[end:]
	}
	if i := strings.IndexByte(body, scopeSep); i >= 0 {
		scope := body[i+1:]
		body = body[:i]
		location, keyword, _ = strings.Cut(scope, string(scopeSep))
		location = strings.TrimSpace(location)
		keyword = strings.TrimSpace(keyword)
	}
	return strings.TrimSpace(body), chance, hasChance, location, keyword
}
