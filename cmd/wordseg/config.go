package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Hanaasagi/wordseg/pkg/langmodel"
	"github.com/Hanaasagi/wordseg/pkg/segsearch"
)

type Config struct {
	Search        SearchConfig        `toml:"search"`
	LanguageModel LanguageModelConfig `toml:"language_model"`
	Penalties     langmodel.Penalties `toml:"penalties"`
	Ngram         NgramConfig         `toml:"ngram"`
	Dictionary    DictionaryConfig    `toml:"dictionary"`
	Output        OutputConfig        `toml:"output"`
	Store         StoreConfig         `toml:"store"`
}

type SearchConfig struct {
	FutileBudget    int  `toml:"futile_budget"`
	StabilityWindow int  `toml:"stability_window"`
	MaxPainPoints   int  `toml:"max_pain_points"`
	MaxHeapSize     int  `toml:"max_heap_size"`
	Bandwidth       int  `toml:"bandwidth"`
	Concurrency     int  `toml:"concurrency"`
	Cache           bool `toml:"cache"`
	// CacheTTL is a Go duration string, e.g. "10m"
	CacheTTL string `toml:"cache_ttl"`
}

type LanguageModelConfig struct {
	MaxViterbiListSize      int     `toml:"max_viterbi_list_size"`
	MaxPrunable             int     `toml:"max_prunable"`
	MinCompoundLength       int     `toml:"min_compound_length"`
	SigmoidalCertainty      bool    `toml:"sigmoidal_certainty"`
	FixedPitch              bool    `toml:"fixed_pitch"`
	FixedPitchMinGap        float64 `toml:"fixed_pitch_min_gap"`
	MaxCharWhRatio          float64 `toml:"max_char_wh_ratio"`
	XHeightMaxEntropy       int     `toml:"x_height_max_entropy"`
	PartialDictionaryCredit bool    `toml:"partial_dictionary_credit"`
	ForgiveInconsistency    bool    `toml:"forgive_dictionary_inconsistency"`
	EarlyDiscard            bool    `toml:"early_discard"`
	DictCertainty           float64 `toml:"dict_certainty"`
	NonDictCertainty        float64 `toml:"non_dict_certainty"`
}

type NgramConfig struct {
	Enabled          bool     `toml:"enabled"`
	Order            int      `toml:"order"`
	English          bool     `toml:"english"`
	Corpus           []string `toml:"corpus"`
	ScaleFactor      float64  `toml:"scale_factor"`
	SmallProb        float64  `toml:"small_prob"`
	UseOnlyFirstStep bool     `toml:"use_only_first_step"`
}

type DictionaryConfig struct {
	// System, Frequent and User are word list files, one word per line
	System      []string `toml:"system"`
	Frequent    []string `toml:"frequent"`
	User        []string `toml:"user"`
	Numbers     bool     `toml:"numbers"`
	Punctuation bool     `toml:"punctuation"`
	CaseFolding bool     `toml:"case_folding"`
	Ambiguities []string `toml:"ambiguities"`
}

type OutputConfig struct {
	// Color is "auto", "always" or "never"
	Color  string            `toml:"color"`
	Width  int               `toml:"width"`
	Colors map[string]string `toml:"colors"`
}

type StoreConfig struct {
	// Path of the SQLite database, empty for $XDG_DATA_HOME/wordseg/runs.db
	Path   string `toml:"path"`
	Record bool   `toml:"record"`
}

func NewDefaultConfig() *Config {
	lm := langmodel.DefaultConfig()
	driver := segsearch.DefaultConfig()
	return &Config{
		Search: SearchConfig{
			FutileBudget:    driver.FutileBudget,
			StabilityWindow: driver.StabilityWindow,
			MaxPainPoints:   driver.MaxPainPoints,
			MaxHeapSize:     driver.MaxHeapSize,
			Bandwidth:       driver.Bandwidth,
			Concurrency:     4,
			Cache:           false,
			CacheTTL:        segsearch.DefaultCacheTTL.String(),
		},
		LanguageModel: LanguageModelConfig{
			MaxViterbiListSize:      lm.MaxViterbiListSize,
			MaxPrunable:             lm.MaxPrunable,
			MinCompoundLength:       lm.MinCompoundLength,
			SigmoidalCertainty:      lm.UseSigmoidalCertainty,
			FixedPitch:              lm.FixedPitch,
			FixedPitchMinGap:        lm.FixedPitchMinGap,
			MaxCharWhRatio:          lm.MaxCharWhRatio,
			XHeightMaxEntropy:       lm.XHeightMaxEntropy,
			PartialDictionaryCredit: lm.PartialDictionaryCredit,
			ForgiveInconsistency:    lm.ForgiveDictionaryInconsistency,
			EarlyDiscard:            lm.EarlyDiscard,
			DictCertainty:           lm.DictCertainty,
			NonDictCertainty:        lm.NonDictCertainty,
		},
		Penalties: lm.Penalties,
		Ngram: NgramConfig{
			Enabled:     false,
			Order:       lm.NgramOrder,
			English:     true,
			Corpus:      []string{},
			ScaleFactor: lm.NgramScaleFactor,
			SmallProb:   lm.NgramSmallProb,
		},
		Dictionary: DictionaryConfig{
			Numbers:     true,
			Punctuation: true,
			CaseFolding: true,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

func LoadConfigFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil // no config file, return defaults
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}

	return config, nil
}

// LanguageModelConfig returns the language model configuration
func (c *Config) LanguageModelConfig() langmodel.Config {
	cfg := langmodel.DefaultConfig()
	lm := c.LanguageModel
	cfg.MaxViterbiListSize = lm.MaxViterbiListSize
	cfg.MaxPrunable = lm.MaxPrunable
	cfg.MinCompoundLength = lm.MinCompoundLength
	cfg.UseSigmoidalCertainty = lm.SigmoidalCertainty
	cfg.FixedPitch = lm.FixedPitch
	cfg.FixedPitchMinGap = lm.FixedPitchMinGap
	cfg.MaxCharWhRatio = lm.MaxCharWhRatio
	cfg.XHeightMaxEntropy = lm.XHeightMaxEntropy
	cfg.PartialDictionaryCredit = lm.PartialDictionaryCredit
	cfg.ForgiveDictionaryInconsistency = lm.ForgiveInconsistency
	cfg.EarlyDiscard = lm.EarlyDiscard
	cfg.DictCertainty = lm.DictCertainty
	cfg.NonDictCertainty = lm.NonDictCertainty
	cfg.Penalties = c.Penalties

	cfg.NgramEnabled = c.Ngram.Enabled
	cfg.NgramOrder = c.Ngram.Order
	cfg.NgramScaleFactor = c.Ngram.ScaleFactor
	cfg.NgramSmallProb = c.Ngram.SmallProb
	cfg.NgramUseOnlyFirstStep = c.Ngram.UseOnlyFirstStep
	return cfg
}

// DriverConfig returns the search driver configuration
func (c *Config) DriverConfig() segsearch.Config {
	return segsearch.Config{
		FutileBudget:    c.Search.FutileBudget,
		StabilityWindow: c.Search.StabilityWindow,
		MaxPainPoints:   c.Search.MaxPainPoints,
		MaxHeapSize:     c.Search.MaxHeapSize,
		Bandwidth:       c.Search.Bandwidth,
	}
}

// CacheTTL parses the classifier cache lifetime
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Search.CacheTTL == "" {
		return segsearch.DefaultCacheTTL, nil
	}
	ttl, err := time.ParseDuration(c.Search.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache_ttl: %w", err)
	}
	return ttl, nil
}
