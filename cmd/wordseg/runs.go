package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Hanaasagi/wordseg/cmd"
	"github.com/Hanaasagi/wordseg/internal/provenance"
	"github.com/Hanaasagi/wordseg/internal/suggest"
	"github.com/Hanaasagi/wordseg/pkg/dawg"
)

func openStore(path string) (*provenance.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return provenance.Open(path)
}

func newRunsCommand(a *app) *cobra.Command {
	var limit int
	runsCmd := &cobra.Command{
		Use:     "runs",
		Short:   "List recorded runs",
		GroupID: cmd.GroupStore,
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			store, err := openStore(a.storePath())
			if err != nil {
				return err
			}
			defer store.Close() // nolint: errcheck

			runs, err := store.Runs(c.Context(), limit)
			if err != nil {
				return err
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			r.Runs(runs)
			return nil
		},
	}
	runsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs, 0 for all")

	showCmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show the choices and path of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			store, err := openStore(a.storePath())
			if err != nil {
				return err
			}
			defer store.Close() // nolint: errcheck

			choices, err := store.Choices(c.Context(), args[0])
			if err != nil {
				return err
			}
			steps, err := store.Steps(c.Context(), args[0])
			if err != nil {
				return err
			}
			if len(choices) == 0 && len(steps) == 0 {
				return fmt.Errorf("run %s not found or has no result", args[0])
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			r.Choices(choices)
			r.Steps(steps)
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm RUN_ID...",
		Aliases: []string{"delete"},
		Short:   "Delete recorded runs",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			store, err := openStore(a.storePath())
			if err != nil {
				return err
			}
			defer store.Close() // nolint: errcheck

			for _, id := range args {
				if err := store.Delete(c.Context(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}

	runsCmd.AddCommand(showCmd, rmCmd)
	return runsCmd
}

func newDictCommand(a *app) *cobra.Command {
	dictCmd := &cobra.Command{
		Use:     "dict",
		Short:   "Inspect the dictionary",
		GroupID: cmd.GroupSearch,
	}

	var (
		fixtures []string
		suggestN int
	)
	checkCmd := &cobra.Command{
		Use:   "check WORD...",
		Short: "Print the dictionary permuter of words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			file, err := loadFixtures(fixtures)
			if err != nil {
				return err
			}
			d, err := buildDictionary(a.config, file.Dictionary)
			if err != nil {
				return err
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}

			lex := d.Lexicon(dawg.WithCaseFolding(a.config.Dictionary.CaseFolding))
			matcher := suggest.New(suggest.WithCaseSensitive(!a.config.Dictionary.CaseFolding))
			words := slices.Concat(d.System, d.Frequent, d.User)
			for _, word := range args {
				match := dawg.MatchNone
				if lex != nil {
					match = dawg.WordMatch(lex, word)
				}
				r.Match(word, match.String())
				if match == dawg.MatchNone && suggestN > 0 {
					r.Suggestions(matcher.Suggest(word, words, suggestN))
				}
			}
			return nil
		},
	}
	checkCmd.Flags().IntVarP(&suggestN, "suggest", "s", 3, "Suggest up to n dictionary words for unknown words")
	checkCmd.Flags().StringArrayVarP(&fixtures, "fixture", "f", nil, "Fixture file whose dictionary is added (repeatable)")

	dictCmd.AddCommand(checkCmd)
	return dictCmd
}
