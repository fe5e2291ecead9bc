package fixture

import (
	"fmt"

	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/ngram"
)

// Dictionary is the language model bundle of a fixture
type Dictionary struct {
	System   []string `yaml:"system"`
	Frequent []string `yaml:"frequent"`
	User     []string `yaml:"user"`

	// Numbers adds the default number patterns
	Numbers bool `yaml:"numbers"`

	// Ambiguities are "from -> to" confusions, e.g. "rn -> m"
	Ambiguities []string `yaml:"ambiguities"`

	// Corpus trains the character n-gram model
	Corpus []string `yaml:"corpus"`
}

func (d *Dictionary) merge(o *Dictionary) {
	d.System = append(d.System, o.System...)
	d.Frequent = append(d.Frequent, o.Frequent...)
	d.User = append(d.User, o.User...)
	d.Numbers = d.Numbers || o.Numbers
	d.Ambiguities = append(d.Ambiguities, o.Ambiguities...)
	d.Corpus = append(d.Corpus, o.Corpus...)
}

// Lexicon builds the dictionary tries, nil when the bundle has no words or
// number patterns
func (d *Dictionary) Lexicon(opts ...dawg.LexiconOption) *dawg.Lexicon {
	if d == nil {
		return nil
	}
	var tries []*dawg.Trie
	for _, list := range []struct {
		kind  dawg.DictionaryMatch
		words []string
	}{
		{dawg.MatchSystem, d.System},
		{dawg.MatchFrequent, d.Frequent},
		{dawg.MatchUser, d.User},
	} {
		if len(list.words) > 0 {
			tries = append(tries, dawg.BuildTrie(list.kind, list.words))
		}
	}
	if d.Numbers {
		tries = append(tries, dawg.NewNumberTrie(dawg.DefaultNumberPatterns))
	}
	if len(tries) == 0 {
		return nil
	}
	return dawg.NewLexicon(tries, opts...)
}

// AmbigTable parses the ambiguities, nil when there are none
func (d *Dictionary) AmbigTable() (*dawg.AmbigTable, error) {
	if d == nil || len(d.Ambiguities) == 0 {
		return nil, nil
	}
	ambigs := make([]dawg.Ambig, 0, len(d.Ambiguities))
	for _, s := range d.Ambiguities {
		a, ok := dawg.ParseAmbig(s)
		if !ok {
			return nil, fmt.Errorf("invalid ambiguity %q", s)
		}
		ambigs = append(ambigs, a)
	}
	return dawg.NewAmbigTable(ambigs), nil
}

// NgramModel trains a character model of the given order on the corpus,
// nil when the corpus is empty
func (d *Dictionary) NgramModel(order int) *ngram.CharModel {
	if d == nil || len(d.Corpus) == 0 {
		return nil
	}
	m := ngram.NewCharModel(ngram.WithOrder(order))
	for _, text := range d.Corpus {
		m.Train(text)
	}
	return m
}
