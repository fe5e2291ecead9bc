package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Hanaasagi/wordseg/internal/fixture"
	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/langmodel"
	"github.com/Hanaasagi/wordseg/pkg/ngram"
)

// loadFixtures reads and merges fixture files in order
func loadFixtures(paths []string) (*fixture.File, error) {
	merged := &fixture.File{}
	for _, path := range paths {
		f, err := fixture.Load(path)
		if err != nil {
			return nil, err
		}
		merged.Merge(f)
	}
	return merged, nil
}

func readWordLists(paths []string) ([]string, error) {
	var words []string
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening word list: %w", err)
		}
		list, err := dawg.ReadWordList(f)
		f.Close() // nolint: errcheck
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		words = append(words, list...)
	}
	return words, nil
}

// buildDictionary combines the configured word lists with the dictionary
// bundled in the fixtures
func buildDictionary(cfg *Config, bundled *fixture.Dictionary) (*fixture.Dictionary, error) {
	d := &fixture.Dictionary{
		Numbers:     cfg.Dictionary.Numbers,
		Ambiguities: append([]string(nil), cfg.Dictionary.Ambiguities...),
	}
	for _, list := range []struct {
		paths []string
		dst   *[]string
	}{
		{cfg.Dictionary.System, &d.System},
		{cfg.Dictionary.Frequent, &d.Frequent},
		{cfg.Dictionary.User, &d.User},
	} {
		words, err := readWordLists(list.paths)
		if err != nil {
			return nil, err
		}
		*list.dst = words
	}
	if bundled != nil {
		merged := &fixture.File{Dictionary: d}
		merged.Merge(&fixture.File{Dictionary: bundled})
		d = merged.Dictionary
	}
	return d, nil
}

// buildNgramModel trains the character model, nil when n-grams are disabled
func buildNgramModel(cfg *Config, d *fixture.Dictionary) (*ngram.CharModel, error) {
	if !cfg.Ngram.Enabled {
		return nil, nil
	}
	var m *ngram.CharModel
	if cfg.Ngram.English {
		m = ngram.NewEnglishModel(cfg.Ngram.Order)
	} else {
		m = ngram.NewCharModel(ngram.WithOrder(cfg.Ngram.Order))
	}
	for _, path := range cfg.Ngram.Corpus {
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading corpus: %w", err)
		}
		m.Train(string(text))
	}
	for _, text := range d.Corpus {
		m.Train(text)
	}
	return m, nil
}

// buildModel creates the language model for a set of fixtures
func buildModel(cfg *Config, bundled *fixture.Dictionary, logger *slog.Logger) (*langmodel.Model, error) {
	d, err := buildDictionary(cfg, bundled)
	if err != nil {
		return nil, err
	}

	opts := []langmodel.Option{
		langmodel.WithConfig(cfg.LanguageModelConfig()),
		langmodel.WithLogger(logger),
	}
	if lex := d.Lexicon(dawg.WithCaseFolding(cfg.Dictionary.CaseFolding)); lex != nil {
		opts = append(opts, langmodel.WithDictionary(lex))
	}
	if cfg.Dictionary.Punctuation {
		opts = append(opts, langmodel.WithPunctuation(dawg.NewPuncTrie(dawg.DefaultPuncPatterns)))
	}
	ambigs, err := d.AmbigTable()
	if err != nil {
		return nil, err
	}
	if ambigs != nil {
		opts = append(opts, langmodel.WithAmbiguities(ambigs))
	}
	nm, err := buildNgramModel(cfg, d)
	if err != nil {
		return nil, err
	}
	if nm != nil {
		opts = append(opts, langmodel.WithNgramModel(nm))
	}

	slog.Debug("Built language model",
		"system", len(d.System),
		"frequent", len(d.Frequent),
		"user", len(d.User),
		"ambiguities", len(d.Ambiguities),
		"ngram", nm != nil,
	)
	return langmodel.NewModel(opts...), nil
}
