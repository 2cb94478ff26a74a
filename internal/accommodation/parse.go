package accommodation

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// Placeholder replaces an element that has no usable "accommodation" field.
const Placeholder = "No accommodation provided"

// Strategy names the parsing path that recovered the array.
type Strategy string

const (
	StrategyDirect   Strategy = "direct"
	StrategyBracket  Strategy = "bracketed_array"
	StrategyLineScan Strategy = "line_scan"
)

var (
	errNotArray    = errors.New("reply is JSON but not an array")
	errNoBrackets  = errors.New("no bracket-delimited array in reply")
	errNoFragments = errors.New("no accommodation fragments in reply")
)

// accommodationFragment matches "accommodation": "<text>" with escaped quotes allowed in <text>.
var accommodationFragment = regexp.MustCompile(`"accommodation"\s*:\s*"((?:[^"\\]|\\.)*)"`)

type parser struct {
	name  Strategy
	parse func(raw string) ([]any, error)
}

// chain is applied in order; the first success wins.
var chain = []parser{
	{StrategyDirect, tryDirectParse},
	{StrategyBracket, tryExtractBracketedArray},
	{StrategyLineScan, tryLineScan},
}

// tryDirectParse parses the whole reply as a JSON array.
func tryDirectParse(raw string) ([]any, error) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &v); err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, errNotArray
	}
	return arr, nil
}

// tryExtractBracketedArray parses the span from the first '[' to the last ']'.
func tryExtractBracketedArray(raw string) ([]any, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, errNoBrackets
	}
	return tryDirectParse(raw[start : end+1])
}

// tryLineScan rebuilds the list from "accommodation": "..." fragments.
func tryLineScan(raw string) ([]any, error) {
	matches := accommodationFragment.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil, errNoFragments
	}
	out := make([]any, 0, len(matches))
	for _, m := range matches {
		text := m[1]
		var unquoted string
		if err := json.Unmarshal([]byte(`"`+text+`"`), &unquoted); err == nil {
			text = unquoted
		}
		out = append(out, map[string]any{"accommodation": text})
	}
	return out, nil
}

// parseReply runs the strategy chain, recording every attempt in the trace.
func parseReply(raw string, tr *Trace) ([]any, Strategy, error) {
	for _, p := range chain {
		items, err := p.parse(raw)
		if err != nil {
			tr.step("parse."+string(p.name), false, err.Error())
			continue
		}
		tr.step("parse."+string(p.name), true, "")
		return items, p.name, nil
	}
	return nil, "", errors.New("unparseable response")
}

// extractAccommodations keeps order and length; bad elements become Placeholder.
func extractAccommodations(items []any) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = Placeholder
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := obj["accommodation"].(string); ok && strings.TrimSpace(s) != "" {
			out[i] = s
		}
	}
	return out
}
