package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testFixture = "../../internal/fixture/testdata/words.yaml"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCommand(&app{})
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestLoadConfigFromFile_Missing(t *testing.T) {
	config, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if config.Search.FutileBudget != 20 {
		t.Errorf("Expected futile budget 20, got %d", config.Search.FutileBudget)
	}
	if !config.Dictionary.Numbers {
		t.Errorf("Expected number patterns enabled by default")
	}
	if config.Output.Color != "auto" {
		t.Errorf("Expected color auto, got %q", config.Output.Color)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
[search]
futile_budget = 5
cache_ttl = "1m"

[language_model]
max_viterbi_list_size = 50
fixed_pitch = true

[penalties]
punc = 0.5

[ngram]
enabled = true
order = 3

[output]
color = "never"
`)
	config, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	driver := config.DriverConfig()
	if driver.FutileBudget != 5 {
		t.Errorf("Expected futile budget 5, got %d", driver.FutileBudget)
	}
	if driver.StabilityWindow != 2 {
		t.Errorf("Expected default stability window 2, got %d", driver.StabilityWindow)
	}

	lm := config.LanguageModelConfig()
	if lm.MaxViterbiListSize != 50 {
		t.Errorf("Expected max viterbi list size 50, got %d", lm.MaxViterbiListSize)
	}
	if !lm.FixedPitch {
		t.Errorf("Expected fixed pitch enabled")
	}
	if lm.Penalties.Punc != 0.5 {
		t.Errorf("Expected punc penalty 0.5, got %v", lm.Penalties.Punc)
	}
	if lm.Penalties.Case != 0.1 {
		t.Errorf("Expected default case penalty 0.1, got %v", lm.Penalties.Case)
	}
	if !lm.NgramEnabled || lm.NgramOrder != 3 {
		t.Errorf("Expected n-gram order 3 enabled, got %v %d", lm.NgramEnabled, lm.NgramOrder)
	}

	ttl, err := config.CacheTTL()
	if err != nil || ttl.Minutes() != 1 {
		t.Errorf("Expected cache ttl 1m, got %v (%v)", ttl, err)
	}
}

func TestLoadConfigFromFile_Invalid(t *testing.T) {
	if _, err := LoadConfigFromFile(writeConfig(t, "[search\n")); err == nil {
		t.Errorf("Expected error for invalid TOML")
	}
}

func TestBuildModel(t *testing.T) {
	config := NewDefaultConfig()
	config.Ngram.Enabled = true
	config.Ngram.Order = 3

	file, err := loadFixtures([]string{testFixture})
	if err != nil {
		t.Fatalf("Failed to load fixture: %v", err)
	}
	model, err := buildModel(config, file.Dictionary, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if model.Dictionary() == nil {
		t.Errorf("Expected a dictionary")
	}
	if !model.NgramEnabled() {
		t.Errorf("Expected n-gram scoring enabled")
	}

	config.Ngram.Enabled = false
	model, err = buildModel(config, nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if model.NgramEnabled() {
		t.Errorf("Expected n-gram scoring disabled")
	}
}

func TestBuildDictionary_WordLists(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "user.txt")
	if err := os.WriteFile(list, []byte("# words\nfoo\n\nbar\n"), 0o644); err != nil {
		t.Fatalf("Failed to write word list: %v", err)
	}

	config := NewDefaultConfig()
	config.Dictionary.User = []string{list}
	d, err := buildDictionary(config, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(d.User) != 2 || d.User[0] != "foo" || d.User[1] != "bar" {
		t.Errorf("Expected [foo bar], got %v", d.User)
	}

	config.Dictionary.System = []string{filepath.Join(dir, "missing.txt")}
	if _, err := buildDictionary(config, nil); err == nil {
		t.Errorf("Expected error for missing word list")
	}
}

func TestSearchCommand(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := execute(t, "search", "-c", cfg, "--color", "never", "-f", testFixture)
	if err != nil {
		t.Fatalf("Expected no error, got %v: %s", err, out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("Expected plain output, got %q", out)
	}
	for _, want := range []string{"me ", "cat ", "2 words"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %q", want, out)
		}
	}
}

func TestSearchCommand_JSON(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := execute(t, "search", "-c", cfg, "--json", "-j", "1", "-f", testFixture)
	if err != nil {
		t.Fatalf("Expected no error, got %v: %s", err, out)
	}

	var results []struct {
		Name   string `json:"name"`
		Prev   string `json:"prev"`
		Result struct {
			Metrics struct {
				RunID string `json:"run_id"`
			} `json:"metrics"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("Expected JSON output, got %v: %s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Name != "me" || results[1].Name != "cat" || results[1].Prev != "me" {
		t.Errorf("Expected words in fixture order, got %+v", results)
	}
	if results[0].Result.Metrics.RunID == "" {
		t.Errorf("Expected a run id")
	}
}

func TestSearchCommand_MissingFixture(t *testing.T) {
	cfg := writeConfig(t, "")
	if _, err := execute(t, "search", "-c", cfg, "-f", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Expected error for missing fixture")
	}
	if _, err := execute(t, "search", "-c", cfg); err == nil {
		t.Errorf("Expected error without fixtures")
	}
}

func TestRunsCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "store", "runs.db")
	cfg := writeConfig(t, "[store]\npath = \""+filepath.ToSlash(db)+"\"\n")

	out, err := execute(t, "runs", "-c", cfg, "--color", "never")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "no recorded runs") {
		t.Errorf("Expected empty run list, got %q", out)
	}

	if out, err := execute(t, "search", "-c", cfg, "--color", "never", "--record", "-f", testFixture); err != nil {
		t.Fatalf("Expected no error, got %v: %s", err, out)
	}

	out, err = execute(t, "runs", "-c", cfg, "--color", "never")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// header plus one line per word
	if lines := strings.Count(out, "\n"); lines != 3 {
		t.Errorf("Expected 3 lines, got %d: %q", lines, out)
	}

	if _, err := execute(t, "runs", "show", "-c", cfg, "missing-run"); err == nil {
		t.Errorf("Expected error for unknown run")
	}
	if _, err := execute(t, "runs", "rm", "-c", cfg, "missing-run"); err == nil {
		t.Errorf("Expected error deleting unknown run")
	}
}

func TestDictCheckCommand(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := execute(t, "dict", "check", "-c", cfg, "--color", "never", "-f", testFixture, "cat", "dog", "42", "ct")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, want := range []string{"cat system\n", "dog none\n", "42 number\n", "ct none\n  did you mean cat\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %q", want, out)
		}
	}
}
