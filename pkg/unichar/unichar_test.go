package unichar

import (
	"testing"
)

func TestClasses(t *testing.T) {
	if !IsAlpha("a") || !IsAlpha("Ж") || IsAlpha("7") {
		t.Errorf("IsAlpha misclassified a basic letter or digit")
	}
	if !IsDigit("7") || IsDigit("a") {
		t.Errorf("IsDigit misclassified")
	}
	if !IsLower("q") || IsLower("Q") {
		t.Errorf("IsLower misclassified")
	}
	if !IsUpper("Q") || IsUpper("q") || IsUpper("1") {
		t.Errorf("IsUpper misclassified")
	}
	if !IsPunct(".") || !IsPunct("'") || IsPunct("$") {
		t.Errorf("IsPunct misclassified")
	}
	if IsAlpha("") || IsDigit("") || IsPunct("") {
		t.Errorf("Expected empty unichar to have no class")
	}
}

func TestScriptOf(t *testing.T) {
	tests := map[string]Script{
		"a":  ScriptLatin,
		"7":  ScriptCommon,
		".":  ScriptCommon,
		"字": ScriptHan,
		"ひ": ScriptHiragana,
		"カ": ScriptKatakana,
		"Ж":  Script("Cyrillic"),
	}
	for in, want := range tests {
		if got := ScriptOf(in); got != want {
			t.Errorf("ScriptOf(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestOtherCase(t *testing.T) {
	if got := OtherCase("a"); got != "A" {
		t.Errorf("Expected A, got %q", got)
	}
	if got := OtherCase("Ä"); got != "ä" {
		t.Errorf("Expected ä, got %q", got)
	}
	if got := OtherCase("5"); got != "5" {
		t.Errorf("Expected digit unchanged, got %q", got)
	}
}

func TestSizesDistinct(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"i", "I", false},
		{"L", "l", false},
		{"a", "A", true},
		{"O", "o", true},
		{"a", "b", true},
		{"a", "a", false},
		{"1", "l", true},
	}
	for _, tt := range tests {
		if got := SizesDistinct(tt.a, tt.b); got != tt.want {
			t.Errorf("SizesDistinct(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("ﬁ")
	if len(got) != 2 || got[0] != "f" || got[1] != "i" {
		t.Errorf("Expected ligature to expand to [f i], got %v", got)
	}
	if got := Normalize("’"); len(got) != 1 || got[0] != "'" {
		t.Errorf("Expected apostrophe to fold, got %v", got)
	}
	if got := Normalize("—"); len(got) != 1 || got[0] != "-" {
		t.Errorf("Expected dash to fold, got %v", got)
	}
	if got := Normalize("é"); len(got) != 1 || got[0] != "é" {
		t.Errorf("Expected composed é, got %v", got)
	}
}

func TestSteps(t *testing.T) {
	if n := StepCount("ﬁx"); n != 2 {
		t.Errorf("Expected 2 steps, got %d", n)
	}
	if s := TrimSteps("héllo", 2); s != "llo" {
		t.Errorf("Expected llo, got %q", s)
	}
	if s := TrimSteps("ab", 5); s != "" {
		t.Errorf("Expected empty string, got %q", s)
	}
	steps := Steps("aé")
	if len(steps) != 2 || steps[1] != "é" {
		t.Errorf("Expected [a é], got %v", steps)
	}
}
