package accommodation

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenItems() []string {
	out := make([]string, 10)
	for i := range out {
		out[i] = fmt.Sprintf("Accommodation number %d", i+1)
	}
	return out
}

func replyJSON(t *testing.T, items []string) string {
	t.Helper()
	objs := make([]map[string]string, len(items))
	for i, s := range items {
		objs[i] = map[string]string{"accommodation": s}
	}
	b, err := json.MarshalIndent(objs, "", "  ")
	require.NoError(t, err)
	return string(b)
}

func TestParseReply_Direct(t *testing.T) {
	want := tenItems()
	tr := &Trace{}

	items, strategy, err := parseReply(replyJSON(t, want), tr)

	require.NoError(t, err)
	assert.Equal(t, StrategyDirect, strategy)
	assert.Equal(t, want, extractAccommodations(items))
	require.Len(t, tr.Steps, 1)
	assert.True(t, tr.Steps[0].OK)
}

func TestParseReply_BracketFallback(t *testing.T) {
	want := tenItems()
	raw := "Here is the list:\n" + replyJSON(t, want) + "\nEnjoy."
	tr := &Trace{}

	items, strategy, err := parseReply(raw, tr)

	require.NoError(t, err)
	assert.Equal(t, StrategyBracket, strategy)
	assert.Equal(t, want, extractAccommodations(items))
	require.Len(t, tr.Steps, 2)
	assert.False(t, tr.Steps[0].OK)
	assert.Equal(t, "parse.direct", tr.Steps[0].Name)
	assert.True(t, tr.Steps[1].OK)
}

func TestParseReply_CodeFence(t *testing.T) {
	raw := "```json\n[{\"accommodation\": \"Extended exam time\"}]\n```"

	items, strategy, err := parseReply(raw, &Trace{})

	require.NoError(t, err)
	assert.Equal(t, StrategyBracket, strategy)
	assert.Equal(t, []string{"Extended exam time"}, extractAccommodations(items))
}

func TestParseReply_LineScanFallback(t *testing.T) {
	// Truncated reply: the closing bracket never arrives.
	raw := `[
  {"accommodation": "Quiet testing room"},
  {"accommodation": "Lecture recordings with \"captions\""},
  {"accommodation": "Flexible deadl`
	tr := &Trace{}

	items, strategy, err := parseReply(raw, tr)

	require.NoError(t, err)
	assert.Equal(t, StrategyLineScan, strategy)
	assert.Equal(t, []string{"Quiet testing room", `Lecture recordings with "captions"`}, extractAccommodations(items))
	require.Len(t, tr.Steps, 3)
}

func TestParseReply_Unparseable(t *testing.T) {
	tr := &Trace{}

	_, _, err := parseReply("I'm sorry, I can't help with that.", tr)

	require.Error(t, err)
	assert.Equal(t, "unparseable response", err.Error())
	require.Len(t, tr.Steps, 3)
	for _, s := range tr.Steps {
		assert.False(t, s.OK, s.Name)
	}
}

func TestTryDirectParse_ObjectIsNotArray(t *testing.T) {
	_, err := tryDirectParse(`{"accommodations": []}`)
	assert.ErrorIs(t, err, errNotArray)
}

func TestParseReply_ObjectWrappingArray(t *testing.T) {
	raw := `{"accommodations": [{"accommodation": "Note taker"}]}`

	items, strategy, err := parseReply(raw, &Trace{})

	require.NoError(t, err)
	assert.Equal(t, StrategyBracket, strategy)
	assert.Equal(t, []string{"Note taker"}, extractAccommodations(items))
}

func TestTryExtractBracketedArray_NoBrackets(t *testing.T) {
	_, err := tryExtractBracketedArray("] backwards [")
	assert.ErrorIs(t, err, errNoBrackets)
}

func TestExtractAccommodations_Placeholder(t *testing.T) {
	items := []any{
		map[string]any{"accommodation": "Keep me"},
		map[string]any{"other": "x"},
		map[string]any{"accommodation": 42.0},
		map[string]any{"accommodation": "   "},
		"bare string",
		nil,
	}

	got := extractAccommodations(items)

	assert.Equal(t, []string{"Keep me", Placeholder, Placeholder, Placeholder, Placeholder, Placeholder}, got)
}

func TestTryLineScan_NoFragments(t *testing.T) {
	_, err := tryLineScan(strings.Repeat("nothing here\n", 3))
	assert.ErrorIs(t, err, errNoFragments)
}
