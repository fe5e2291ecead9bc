package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Hanaasagi/wordseg/cmd"
	"github.com/Hanaasagi/wordseg/internal/fixture"
	"github.com/Hanaasagi/wordseg/pkg/segsearch"
)

// searchFlags holds the flags of the search command
type searchFlags struct {
	fixtures      []string
	json          bool
	record        bool
	check         bool
	concurrency   int
	cache         bool
	futileBudget  int
	maxPainPoints int
	ngram         bool
	fixedPitch    bool
}

// wordResult is the JSON form of a searched word
type wordResult struct {
	Name    string            `json:"name"`
	Prev    string            `json:"prev,omitempty"`
	Expect  string            `json:"expect,omitempty"`
	Matched *bool             `json:"matched,omitempty"`
	Result  *segsearch.Result `json:"result"`
}

func newSearchCommand(a *app) *cobra.Command {
	flags := &searchFlags{}
	c := &cobra.Command{
		Use:     "search -f FIXTURE...",
		Short:   "Search the words of fixture files",
		GroupID: cmd.GroupSearch,
		Example: `  wordseg search -f words.yaml
  wordseg search -f words.yaml -f more.yaml --json
  wordseg search -f words.yaml --record --check`,
		RunE: func(c *cobra.Command, args []string) error {
			applySearchFlags(c, a.config, flags)
			return runSearch(c.Context(), a, flags)
		},
	}

	f := c.Flags()
	f.StringArrayVarP(&flags.fixtures, "fixture", "f", nil, "Fixture file with words and classifier output (repeatable)")
	f.BoolVar(&flags.json, "json", false, "Print results as JSON")
	f.BoolVar(&flags.record, "record", false, "Record runs in the run store")
	f.BoolVar(&flags.check, "check", false, "Fail when a result differs from the expected text")
	f.IntVarP(&flags.concurrency, "jobs", "j", 0, "Number of words searched concurrently")
	f.BoolVar(&flags.cache, "cache", false, "Share classifications between words by fragment box")
	f.IntVar(&flags.futileBudget, "futile-budget", 0, "Classifications allowed without improving the best choice")
	f.IntVar(&flags.maxPainPoints, "max-pain-points", 0, "Maximum number of pain points per word")
	f.BoolVar(&flags.ngram, "ngram", false, "Score paths with the character n-gram model")
	f.BoolVar(&flags.fixedPitch, "fixed-pitch", false, "Use the fixed-pitch shape model")
	_ = c.MarkFlagRequired("fixture")
	return c
}

// applySearchFlags overrides the config with the flags set on the command line
func applySearchFlags(c *cobra.Command, config *Config, flags *searchFlags) {
	f := c.Flags()
	if f.Changed("jobs") {
		config.Search.Concurrency = flags.concurrency
	}
	if f.Changed("cache") {
		config.Search.Cache = flags.cache
	}
	if f.Changed("futile-budget") {
		config.Search.FutileBudget = flags.futileBudget
	}
	if f.Changed("max-pain-points") {
		config.Search.MaxPainPoints = flags.maxPainPoints
	}
	if f.Changed("ngram") {
		config.Ngram.Enabled = flags.ngram
	}
	if f.Changed("fixed-pitch") {
		config.LanguageModel.FixedPitch = flags.fixedPitch
	}
	if f.Changed("record") {
		config.Store.Record = flags.record
	}
}

// searchWords searches every fixture word, at most concurrency at a time.
// Results keep the order of the words.
func searchWords(ctx context.Context, driver *segsearch.Driver, words []fixture.Word, concurrency int) ([]*segsearch.Result, error) {
	results := make([]*segsearch.Result, len(words))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i := range words {
		w := &words[i]
		g.Go(func() error {
			res, err := driver.Search(ctx, &w.Word, w.Prev)
			if err != nil {
				return fmt.Errorf("word %s: %w", w.Name, err)
			}
			slog.Info("Searched word",
				"word", w.Name,
				"result", res.Text(),
				"stop", res.Metrics.StopReason,
				"classifications", res.Metrics.Classifications,
			)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runSearch(ctx context.Context, a *app, flags *searchFlags) error {
	config := a.config
	file, err := loadFixtures(flags.fixtures)
	if err != nil {
		return err
	}
	if len(file.Words) == 0 {
		return errors.New("no words in fixtures")
	}

	model, err := buildModel(config, file.Dictionary, slog.Default())
	if err != nil {
		return err
	}

	var classifier segsearch.Classifier = file.Classifier()
	var cached *segsearch.CachedClassifier
	if config.Search.Cache {
		ttl, err := config.CacheTTL()
		if err != nil {
			return err
		}
		cached = segsearch.NewCachedClassifier(classifier, ttl)
		classifier = cached
	}
	driver := segsearch.New(model, classifier, segsearch.WithConfig(config.DriverConfig()))

	start := time.Now()
	results, err := searchWords(ctx, driver, file.Words, config.Search.Concurrency)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if config.Store.Record {
		if err := recordResults(ctx, a.storePath(), file.Words, results); err != nil {
			return err
		}
	}

	mismatched := 0
	out := make([]wordResult, len(results))
	for i, res := range results {
		w := file.Words[i]
		out[i] = wordResult{Name: w.Name, Prev: w.Prev, Expect: w.Expect, Result: res}
		if w.Expect != "" {
			matched := res.Text() == w.Expect
			out[i].Matched = &matched
			if !matched {
				mismatched++
			}
		}
	}

	if flags.json {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
	} else {
		r, err := a.renderer()
		if err != nil {
			return err
		}
		for _, wr := range out {
			r.Result(wr.Name, wr.Result)
			if wr.Matched != nil && !*wr.Matched {
				fmt.Fprintf(a.out, "  expected %q\n", wr.Expect)
			}
		}
		fmt.Fprintln(a.out, summary(results, mismatched, elapsed, cached))
	}

	if flags.check && mismatched > 0 {
		return fmt.Errorf("%d of %d words differ from the expected text", mismatched, len(results))
	}
	return nil
}

// summary describes the totals of a search
func summary(results []*segsearch.Result, mismatched int, elapsed time.Duration, cached *segsearch.CachedClassifier) string {
	var classifications, painPoints int64
	for _, res := range results {
		classifications += int64(res.Metrics.Classifications)
		painPoints += int64(res.Metrics.TotalPainPoints())
	}
	s := fmt.Sprintf("%s words, %s classifications, %s pain points in %s",
		humanize.Comma(int64(len(results))),
		humanize.Comma(classifications),
		humanize.Comma(painPoints),
		elapsed.Round(time.Millisecond),
	)
	if mismatched > 0 {
		s += fmt.Sprintf(", %d unexpected", mismatched)
	}
	if cached != nil {
		hits, misses := cached.Stats()
		s += fmt.Sprintf(", cache %s hits / %s misses", humanize.Comma(hits), humanize.Comma(misses))
	}
	return s
}

func recordResults(ctx context.Context, path string, words []fixture.Word, results []*segsearch.Result) error {
	store, err := openStore(path)
	if err != nil {
		return err
	}
	defer store.Close() // nolint: errcheck

	for i, res := range results {
		if err := store.Record(ctx, words[i].Name, words[i].Prev, res); err != nil {
			return fmt.Errorf("recording %s: %w", words[i].Name, err)
		}
	}
	slog.Info("Recorded runs", "count", len(results), "path", path)
	return nil
}
