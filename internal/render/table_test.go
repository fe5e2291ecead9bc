package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/Hanaasagi/wordseg/internal/provenance"
	"github.com/Hanaasagi/wordseg/internal/suggest"
	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/langmodel"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
	"github.com/Hanaasagi/wordseg/pkg/segsearch"
)

func TestParseColor(t *testing.T) {
	c, err := ParseColor("green")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := color.New(color.FgGreen)
	expected.EnableColor()
	if got, want := c.FgString("foo"), expected.Sprint("foo"); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestParseColor_RGB(t *testing.T) {
	c, err := ParseColor("#1b1cbf")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// RGB format should be "\x1b[38;2;27;28;191mfoo\x1b[0m"
	if got := c.FgString("foo"); !strings.Contains(got, "27;28;191") {
		t.Errorf("Expected RGB color with 27;28;191, got %q", got)
	}
}

func TestParseColor_Unknown(t *testing.T) {
	for _, name := range []string{"wat", "#1b1cbj"} {
		if _, err := ParseColor(name); err == nil {
			t.Errorf("Expected error for %q", name)
		}
	}
}

func TestNewPalette(t *testing.T) {
	p, err := NewPalette(map[string]string{"system": "magenta"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	magenta, _ := ParseColor("magenta")
	if got, want := p.Paint("system", "cat"), magenta.FgString("cat"); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got := p.Paint("unknown", "cat"); got != "cat" {
		t.Errorf("Expected unpainted text, got %q", got)
	}

	if _, err := NewPalette(map[string]string{"user": "wat"}); err == nil {
		t.Errorf("Expected error for unknown color")
	}
}

func TestPlain(t *testing.T) {
	green, _ := ParseColor("green")
	text := green.FgString("foo") + " bar\n" + green.FgString("baz")

	if got := Plain(text); got != "foo bar\nbaz" {
		t.Errorf("Expected %q, got %q", "foo bar\nbaz", got)
	}
	if got := Plain("plain"); got != "plain" {
		t.Errorf("Expected %q, got %q", "plain", got)
	}
}

func TestPlain_BoldReset(t *testing.T) {
	// fatih/color closes bold with SGR 22, which the parser rejects
	text := headerStyle.Sprint("word1") + " " + dimStyle.Sprint("(no result)")
	if got := Plain(text); got != "word1 (no result)" {
		t.Errorf("Expected %q, got %q", "word1 (no result)", got)
	}

	text = "\x1b[1;97mword1\x1b[22;0m \x1b[90m(no result)\x1b[0m\nnext"
	if got := Plain(text); got != "word1 (no result)\nnext" {
		t.Errorf("Expected %q, got %q", "word1 (no result)\nnext", got)
	}
}

func TestPad(t *testing.T) {
	if got := pad("a", 3); got != "a  " {
		t.Errorf("Expected %q, got %q", "a  ", got)
	}
	// wide runes take two columns
	if got := pad("字", 3); got != "字 " {
		t.Errorf("Expected %q, got %q", "字 ", got)
	}
	if got := pad("abcd", 2); got != "abcd" {
		t.Errorf("Expected %q, got %q", "abcd", got)
	}
}

func testResult() *segsearch.Result {
	metrics := segsearch.NewMetrics()
	metrics.StopReason = segsearch.StopExhausted
	return &segsearch.Result{
		Best: &langmodel.WordChoice{Text: "me", Permuter: dawg.MatchSystem, Cost: 1.25},
		Raw:  &langmodel.WordChoice{Text: "rne", Permuter: dawg.MatchNone, Cost: 3},
		Steps: []segsearch.Step{
			{Unichar: "m", Span: ratings.Coord{Col: 0, Row: 1}, Rating: 2.2, Certainty: -2.2, Cost: 1, Permuter: "system"},
			{Unichar: "e", Span: ratings.Coord{Col: 2, Row: 2}, Rating: 1, Certainty: -1, Cost: 1.25, Permuter: "system"},
		},
		Metrics: metrics,
	}
}

func TestRenderer_Result_Plain(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, WithColor(false)).Result("word1", testResult())
	out := buf.String()

	if strings.Contains(out, "\x1b[") {
		t.Errorf("Expected no escape sequences, got %q", out)
	}
	for _, want := range []string{"word1 me", "raw rne", "stop=exhausted", "(0,1)", "(2,2)", "permuter"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %q", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 5 {
		t.Errorf("Expected 5 lines, got %d", lines)
	}
}

func TestRenderer_Result_Color(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, WithColor(true)).Result("word1", testResult())

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("Expected escape sequences, got %q", buf.String())
	}
}

func TestRenderer_Result_NoBest(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, WithColor(false)).Result("blank", &segsearch.Result{Metrics: segsearch.NewMetrics()})

	if got := buf.String(); got != "blank (no result)\n" {
		t.Errorf("Expected %q, got %q", "blank (no result)\n", got)
	}
}

func TestRenderer_Result_Truncates(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, WithColor(false), WithWidth(20)).Result("word1", testResult())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for _, line := range lines[2:] {
		if w := len([]rune(line)); w > 20 {
			t.Errorf("Expected at most 20 columns, got %d in %q", w, line)
		}
	}
}

func TestRenderer_Runs(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, WithColor(false), WithWidth(200)).Runs([]provenance.Run{{
		RunID:           "8c1c7d4e-0000-4000-8000-000000000001",
		Word:            "me",
		Result:          "me",
		StopReason:      "exhausted",
		Classifications: 1234,
		Elapsed:         1500 * time.Microsecond,
		CreatedAt:       time.Now().Add(-2 * time.Hour),
	}})
	out := buf.String()

	for _, want := range []string{"8c1c7d4e-0000-4000-8000-000000000001", "exhausted", "1,234", "1.5ms", "2 hours ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %q", want, out)
		}
	}
}

func TestRenderer_Runs_Empty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, WithColor(false)).Runs(nil)

	if got := buf.String(); got != "no recorded runs\n" {
		t.Errorf("Expected %q, got %q", "no recorded runs\n", got)
	}
}

func TestRenderer_Choices(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, WithColor(false)).Choices([]provenance.Choice{
		{Kind: provenance.KindBest, Text: "me", Permuter: "system", Cost: 1.25, State: []uint8{2, 1}},
	})

	if got := buf.String(); !strings.Contains(got, "best me [system cost=1.250") || !strings.Contains(got, "state=[2 1]") {
		t.Errorf("Expected choice line, got %q", got)
	}
}

func TestRenderer_Match(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, WithColor(false)).Match("cat", "system")

	if got := buf.String(); got != "cat system\n" {
		t.Errorf("Expected %q, got %q", "cat system\n", got)
	}

	buf.Reset()
	New(&buf, WithColor(false)).Match("\x1b[31mcat\x1b[0m", "none")
	if got := buf.String(); got != "cat none\n" {
		t.Errorf("Expected %q, got %q", "cat none\n", got)
	}
}

func TestRenderer_Suggestions(t *testing.T) {
	suggestions := []suggest.Suggestion{
		{Word: "cat", Indices: []int{0, 2}},
		{Word: "cart", Indices: []int{0, 3}},
	}

	var buf bytes.Buffer
	New(&buf, WithColor(false)).Suggestions(suggestions)
	if got := buf.String(); got != "  did you mean cat, cart\n" {
		t.Errorf("Expected %q, got %q", "  did you mean cat, cart\n", got)
	}

	buf.Reset()
	New(&buf, WithColor(true)).Suggestions(suggestions)
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("Expected highlighted characters, got %q", buf.String())
	}

	buf.Reset()
	New(&buf).Suggestions(nil)
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}
