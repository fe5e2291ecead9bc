// Package unichar answers character-class questions about the unichars a
// classifier emits. A unichar is a short string: usually one rune, sometimes
// a ligature or a base+combining sequence.
package unichar

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Script identifies the writing system of a unichar
type Script string

const (
	ScriptCommon   Script = "Common"
	ScriptLatin    Script = "Latin"
	ScriptHan      Script = "Han"
	ScriptHiragana Script = "Hiragana"
	ScriptKatakana Script = "Katakana"
	ScriptUnknown  Script = "Unknown"
)

// firstRune returns the first rune of s, utf8.RuneError for empty input
func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// IsAlpha reports whether the unichar starts with a letter
func IsAlpha(s string) bool {
	return s != "" && unicode.IsLetter(firstRune(s))
}

// IsDigit reports whether the unichar starts with a decimal digit
func IsDigit(s string) bool {
	return s != "" && unicode.IsDigit(firstRune(s))
}

// IsAlnum reports whether the unichar is a letter or a digit
func IsAlnum(s string) bool {
	return IsAlpha(s) || IsDigit(s)
}

// IsLower reports whether the unichar is a lower-case letter
func IsLower(s string) bool {
	return s != "" && unicode.IsLower(firstRune(s))
}

// IsUpper reports whether the unichar is an upper-case or title-case letter
func IsUpper(s string) bool {
	if s == "" {
		return false
	}
	r := firstRune(s)
	return unicode.IsUpper(r) || unicode.IsTitle(r)
}

// IsPunct reports whether the unichar is punctuation. Symbols such as '$' or
// '+' are not punctuation.
func IsPunct(s string) bool {
	return s != "" && unicode.IsPunct(firstRune(s))
}

// IsHyphen reports whether the unichar is a hyphen-like dash
func IsHyphen(s string) bool {
	switch s {
	case "-", "‐", "‑", "‒", "–", "—", "\u00ad":
		return true
	}
	return false
}

// IsApostrophe reports whether the unichar is one of the apostrophe shapes
func IsApostrophe(s string) bool {
	switch s {
	case "'", "’", "‘", "`", "\u00b4":
		return true
	}
	return false
}

// scriptTables lists the scripts checked by ScriptOf, most frequent first
var scriptTables = []struct {
	name  Script
	table *unicode.RangeTable
}{
	{ScriptLatin, unicode.Latin},
	{ScriptHan, unicode.Han},
	{ScriptHiragana, unicode.Hiragana},
	{ScriptKatakana, unicode.Katakana},
}

// ScriptOf returns the script of the unichar's first rune. Digits,
// punctuation and symbols belong to the Common script.
func ScriptOf(s string) Script {
	if s == "" {
		return ScriptCommon
	}
	r := firstRune(s)
	if unicode.Is(unicode.Common, r) || unicode.Is(unicode.Inherited, r) {
		return ScriptCommon
	}
	for _, st := range scriptTables {
		if unicode.Is(st.table, r) {
			return st.name
		}
	}
	for name, table := range unicode.Scripts {
		if unicode.Is(table, r) {
			return Script(name)
		}
	}
	return ScriptUnknown
}

// OtherCase returns the case variant of a letter, or s itself when the unichar
// has no case.
func OtherCase(s string) string {
	switch {
	case IsLower(s):
		return cases.Upper(language.Und).String(s)
	case IsUpper(s):
		return cases.Lower(language.Und).String(s)
	}
	return s
}

// ascenderLetters reach the cap height in lower case
const ascenderLetters = "bdfhijklt"

// SizesDistinct reports whether two unichars can be told apart by height on
// the line. Case variants of letters with ascenders share the cap height.
func SizesDistinct(a, b string) bool {
	if a == b {
		return false
	}
	if OtherCase(a) != b {
		return true
	}
	lower := a
	if IsUpper(a) {
		lower = b
	}
	return utf8.RuneCountInString(lower) != 1 || !strings.ContainsRune(ascenderLetters, firstRune(lower))
}

// Normalize returns the compatibility-normalized forms a dictionary should be
// queried with. Apostrophe and hyphen shapes fold to their ASCII form, and
// ligatures expand to their components, so "ﬁ" yields ["f", "i"].
func Normalize(s string) []string {
	switch {
	case IsApostrophe(s):
		return []string{"'"}
	case IsHyphen(s):
		return []string{"-"}
	}
	n := norm.NFKC.String(s)
	if n == "" {
		return []string{s}
	}
	parts := make([]string, 0, utf8.RuneCountInString(n))
	for _, r := range n {
		if unicode.Is(unicode.Mn, r) && len(parts) > 0 {
			parts[len(parts)-1] += string(r)
			continue
		}
		parts = append(parts, string(r))
	}
	return parts
}

// Steps splits a unichar into its utf8 steps (one string per rune)
func Steps(s string) []string {
	steps := make([]string, 0, len(s))
	for _, r := range s {
		steps = append(steps, string(r))
	}
	return steps
}

// StepCount returns the number of utf8 steps of s
func StepCount(s string) int {
	return utf8.RuneCountInString(s)
}

// TrimSteps drops the first n utf8 steps of s
func TrimSteps(s string, n int) string {
	for n > 0 && s != "" {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		n--
	}
	return s
}

// Join concatenates unichars into a word
func Join(unichars []string) string {
	return strings.Join(unichars, "")
}
