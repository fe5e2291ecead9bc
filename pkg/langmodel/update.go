package langmodel

import (
	"math"

	"github.com/Hanaasagi/wordseg/pkg/blob"
	"github.com/Hanaasagi/wordseg/pkg/dawg"
	"github.com/Hanaasagi/wordseg/pkg/ratings"
	"github.com/Hanaasagi/wordseg/pkg/unichar"
)

// UpdateState extends the paths ending at fragment col-1 with every
// hypothesis of cell (col,row). Unless justClassified is set only parents
// marked Updated are extended. It reports whether any entry was added.
func (m *Model) UpdateState(b *Bundle, justClassified bool, col, row int) (bool, error) {
	hyps, ok := b.Matrix.Get(col, row)
	if !ok || len(hyps) == 0 {
		return false, nil
	}
	coord := ratings.Coord{Col: col, Row: row}
	wordEnd := row == b.Matrix.Dimension()-1

	var parents []EntryHandle
	var competing map[EntryHandle]*Entry
	hasAlnumMix := false
	if col > 0 {
		parents = b.Parents(col)
		if len(parents) == 0 {
			return false, nil
		}
		mixed, err := m.setTopParentLowerUpperDigit(b, parents)
		if err != nil {
			return false, err
		}
		hasAlnumMix = mixed
		if competing, err = competingParents(b, parents); err != nil {
			return false, err
		}
	}
	xHeight := blob.DefaultXHeight
	if b.Word != nil && b.Word.XHeight > 0 {
		xHeight = b.Word.XHeight
	}
	firstLower, firstUpper, firstDigit, cellMixed := topLowerUpperDigit(hyps)
	if !cellMixed {
		hasAlnumMix = false
	}

	denom := 1.0
	if m.cfg.NgramEnabled {
		denom = m.ComputeDenom(hyps)
	}

	changed := false
	for i, h := range hyps {
		flags := FlagXHeightConsistent
		if i == 0 || !changed {
			flags |= FlagSmallestRating
		}
		if i == firstLower {
			flags |= FlagLowerCase
		}
		if i == firstUpper {
			flags |= FlagUpperCase
		}
		if i == firstDigit {
			flags |= FlagDigit
		}

		if col == 0 {
			if hasBetterCaseVariant(hyps, i) {
				continue
			}
			// at the start of a word an upper-case letter is as good as a lower-case one
			if i == firstUpper {
				flags |= FlagLowerCase
			}
			added, err := m.addEntry(b, flags, denom, wordEnd, coord, i, h, nil, NilHandle)
			if err != nil {
				return changed, err
			}
			if !added {
				b.discarded++
			}
			changed = changed || added
			continue
		}

		prunableSeen := 0
		for _, ph := range parents {
			parent, err := b.Entry(ph)
			if err != nil {
				return changed, err
			}
			if !justClassified && !parent.Updated {
				continue
			}
			pflags := flags
			if flags&FlagUpperCase != 0 && !unichar.IsAlnum(parent.Hyp.Unichar) {
				pflags |= FlagLowerCase
			}
			pflags &= parent.TopChoice

			// digits and letters only bind to each other as top choices
			if unichar.IsDigit(h.Unichar) && unichar.IsAlpha(parent.Hyp.Unichar) && (hasAlnumMix || pflags == 0) {
				continue
			}
			if unichar.IsAlpha(h.Unichar) && unichar.IsDigit(parent.Hyp.Unichar) && (hasAlnumMix || pflags == 0) {
				continue
			}
			// the other case of the parent letter sits better with h
			if other := competing[ph]; other != nil && unichar.SizesDistinct(parent.Hyp.Unichar, other.Hyp.Unichar) &&
				h.PosAndSizeAgree(other.Hyp, xHeight) && !h.PosAndSizeAgree(parent.Hyp, xHeight) {
				continue
			}

			if m.PrunablePath(parent) {
				prunableSeen++
				if prunableSeen > m.cfg.MaxPrunable || (m.cfg.NgramEnabled && parent.Ngram != nil && parent.Ngram.Pruned) {
					continue
				}
			}
			if !unichar.IsAlnum(parent.Hyp.Unichar) && hasBetterCaseVariant(hyps, i) {
				continue
			}

			added, err := m.addEntry(b, pflags, denom, wordEnd, coord, i, h, parent, ph)
			if err != nil {
				return changed, err
			}
			if !added {
				b.discarded++
			}
			changed = changed || added
		}
	}
	return changed, nil
}

// topLowerUpperDigit returns the index of the first lower-case, upper-case
// and digit hypothesis, each falling back to the first hypothesis, and
// whether the cell mixes letters with digits.
func topLowerUpperDigit(hyps []ratings.Hypothesis) (lower, upper, digit int, mixed bool) {
	lower, upper, digit = -1, -1, -1
	for i, h := range hyps {
		if lower < 0 && unichar.IsLower(h.Unichar) {
			lower = i
		}
		if upper < 0 && unichar.IsAlpha(h.Unichar) && !unichar.IsLower(h.Unichar) {
			upper = i
		}
		if digit < 0 && unichar.IsDigit(h.Unichar) {
			digit = i
		}
	}
	mixed = (lower >= 0 || upper >= 0) && digit >= 0
	lower, upper, digit = max(lower, 0), max(upper, 0), max(digit, 0)
	return lower, upper, digit, mixed
}

// hasBetterCaseVariant reports whether the other case of hyps[i] is rated
// better and the two cannot be told apart by size, leaving the classifier
// to decide between them.
func hasBetterCaseVariant(hyps []ratings.Hypothesis, i int) bool {
	u := hyps[i].Unichar
	other := unichar.OtherCase(u)
	if other == u || unichar.SizesDistinct(u, other) {
		return false
	}
	for _, h := range hyps[:i] {
		if h.Unichar == other {
			return true
		}
	}
	return false
}

// competingParents maps every letter parent to the cheapest parent holding
// its other case
func competingParents(b *Bundle, parents []EntryHandle) (map[EntryHandle]*Entry, error) {
	entries := make([]*Entry, len(parents))
	cheapest := make(map[string]*Entry, len(parents))
	for i, ph := range parents {
		e, err := b.Entry(ph)
		if err != nil {
			return nil, err
		}
		entries[i] = e
		if _, ok := cheapest[e.Hyp.Unichar]; !ok {
			cheapest[e.Hyp.Unichar] = e
		}
	}
	var out map[EntryHandle]*Entry
	for i, e := range entries {
		u := e.Hyp.Unichar
		if !unichar.IsAlpha(u) {
			continue
		}
		if other, ok := cheapest[unichar.OtherCase(u)]; ok && other.Hyp.Unichar != u {
			if out == nil {
				out = make(map[EntryHandle]*Entry)
			}
			out[parents[i]] = other
		}
	}
	return out, nil
}

// setTopParentLowerUpperDigit marks the best-rated lower-case, upper-case,
// digit and overall parent with the matching top-choice flag. It reports
// whether the parents mix letters with digits.
func (m *Model) setTopParentLowerUpperDigit(b *Bundle, parents []EntryHandle) (bool, error) {
	var top, topLower, topUpper, topDigit *Entry
	for _, ph := range parents {
		e, err := b.Entry(ph)
		if err != nil {
			return false, err
		}
		u, r := e.Hyp.Unichar, e.Hyp.Rating
		switch {
		case unichar.IsLower(u):
			if topLower == nil || r < topLower.Hyp.Rating {
				topLower = e
			}
		case unichar.IsAlpha(u):
			if topUpper == nil || r < topUpper.Hyp.Rating {
				topUpper = e
			}
		case unichar.IsDigit(u):
			if topDigit == nil || r < topDigit.Hyp.Rating {
				topDigit = e
			}
		}
		if top == nil || r < top.Hyp.Rating {
			top = e
		}
	}
	if top == nil {
		return false, nil
	}
	mixed := (topLower != nil || topUpper != nil) && topDigit != nil
	if topLower == nil {
		topLower = top
	}
	if topUpper == nil {
		topUpper = top
	}
	if topDigit == nil {
		topDigit = top
	}
	topLower.TopChoice |= FlagLowerCase
	topUpper.TopChoice |= FlagUpperCase
	topDigit.TopChoice |= FlagDigit
	top.TopChoice |= FlagSmallestRating

	// a compound marker carrying any alnum flag gets them all, so "I-295" can bind
	caseFlags := FlagLowerCase | FlagUpperCase | FlagDigit
	if m.dict != nil && m.dict.IsCompoundMarker(top.Hyp.Unichar) && top.TopChoice&caseFlags != 0 {
		top.TopChoice |= caseFlags
	}
	return mixed, nil
}

// addEntry creates the entry for hypothesis h of coord extending parent and
// inserts it into the cell state when the language model keeps it.
func (m *Model) addEntry(b *Bundle, flags TopChoiceFlags, denom float64, wordEnd bool, coord ratings.Coord, hypIndex int, h ratings.Hypothesis, parent *Entry, parentHandle EntryHandle) (bool, error) {
	cell := b.cellOrNew(coord)
	if cell.HypLen(hypIndex) >= m.cfg.MaxViterbiListSize {
		return false, nil
	}

	ratingsSum, length := h.Rating, 1
	if parent != nil {
		ratingsSum += parent.RatingsSum
		length += parent.Length
	}
	// a complete path costs at least its ratings sum
	if m.cfg.EarlyDiscard && !m.cfg.NgramEnabled {
		if best := b.best.best; best != nil && ratingsSum > best.Cost {
			return false, nil
		}
	}

	dr := m.generateDawgInfo(b, wordEnd, h, parent)
	outline := m.OutlineLength(h)
	var ng *NgramInfo
	if m.cfg.NgramEnabled {
		ng = m.generateNgramInfo(b, h, denom, outline, parent)
	}
	liked := dr.info != nil || (ng != nil && !ng.Pruned)
	if !liked && flags == 0 {
		return false, nil
	}

	var parentState *ConsistencyState
	var parentHyp *ratings.Hypothesis
	if parent != nil {
		parentState = &parent.Consistency
		parentHyp = &parent.Hyp
	}
	cons := m.tracker.ExtendXHeight(parentState, h)
	if cons.InconsistentXHeight() {
		flags &^= FlagXHeightConsistent
	}
	if !liked && flags == 0 {
		return false, nil
	}
	gap := 0.0
	if parent != nil && b.Word != nil {
		gap = b.Word.Gap(coord.Col - 1)
	}
	m.tracker.Fill(&cons, parentHyp, Step{Hyp: h, Gap: gap, WordEnd: wordEnd})
	if dr.info != nil {
		cons.InvalidPunc = false
	}

	var parentAssoc *AssociateStats
	parentLength := 0
	if parent != nil {
		parentAssoc = &parent.Associate
		parentLength = parent.Length
	}
	terminalPunct := unichar.IsPunct(h.Unichar) && (coord.Col == 0 || wordEnd)
	assoc := ComputeAssociateStats(b.Word, coord.Col, coord.Row, parentAssoc, parentLength,
		m.AssociateParams(b.fixedPitch, m.cfg.MaxCharWhRatio), terminalPunct)
	if parent != nil {
		assoc.ShapeCost += parent.Associate.ShapeCost
		assoc.BadShape = assoc.BadShape || parent.Associate.BadShape
	}

	e := Entry{
		Parent:        parentHandle,
		Cell:          coord,
		HypIndex:      hypIndex,
		Hyp:           h,
		RatingsSum:    ratingsSum,
		Length:        length,
		MinCertainty:  h.Certainty,
		OutlineLength: outline,
		DictChars:     dr.dictChars,
		walkStart:     dr.walkStart,
		committed:     dr.committed,
		Consistency:   cons,
		Associate:     assoc,
		Dawg:          dr.info,
		Ngram:         ng,
		TopChoice:     flags,
		Updated:       true,
	}
	if parent != nil {
		e.MinCertainty = min(parent.MinCertainty, h.Certainty)
		e.OutlineLength += parent.OutlineLength
	}
	e.Cost = m.AdjustedPathCost(&e)

	if e.TopChoice != 0 && cell.HypLen(hypIndex) > 0 {
		if err := m.generateTopChoiceInfo(b, cell, &e); err != nil {
			return false, err
		}
	}

	keep := e.TopChoice != 0 || liked
	if flags&FlagSmallestRating == 0 && cons.InconsistentScript {
		keep = false
	}
	if !keep {
		return false, nil
	}
	if m.PrunablePath(&e) && cell.PrunableLen(hypIndex) >= m.cfg.MaxPrunable && e.Cost >= cell.PrunableMaxCost(hypIndex) {
		return false, nil
	}

	handle := b.arena.Alloc(e)
	stored, err := b.arena.Get(handle)
	if err != nil {
		return false, err
	}
	if wordEnd {
		if _, err := m.Consider(b, handle, true); err != nil {
			return false, err
		}
	}
	if err := cell.insert(handle, hypIndex, stored.Cost, m.cfg.MaxViterbiListSize); err != nil {
		return false, err
	}
	if err := m.rebalance(b, cell, handle, stored); err != nil {
		return false, err
	}
	return true, nil
}

// generateTopChoiceInfo clears the flags of e already held by a cheaper
// entry of the same hypothesis
func (m *Model) generateTopChoiceInfo(b *Bundle, cell *CellState, e *Entry) error {
	for i, h := range cell.entries {
		if e.TopChoice == 0 || e.Cost < cell.costs[i] {
			break
		}
		if cell.hyps[i] != e.HypIndex {
			continue
		}
		sibling, err := b.arena.Get(h)
		if err != nil {
			return err
		}
		e.TopChoice &^= sibling.TopChoice
	}
	return nil
}

// rebalance clears the flags the added entry took over from costlier
// entries of its hypothesis, evicts prunable entries beyond the quota and
// recomputes the cost a new prunable entry must beat.
func (m *Model) rebalance(b *Bundle, cell *CellState, added EntryHandle, addedEntry *Entry) error {
	k := m.cfg.MaxPrunable
	seen := 0
	q := cell.quota(addedEntry.HypIndex)
	q.prunableMaxCost = math.MaxFloat64
	for i := 0; i < len(cell.entries); {
		if cell.hyps[i] != addedEntry.HypIndex {
			i++
			continue
		}
		h := cell.entries[i]
		e, err := b.arena.Get(h)
		if err != nil {
			return err
		}
		if h != added && e.TopChoice != 0 && e.Cost > addedEntry.Cost {
			e.TopChoice &^= addedEntry.TopChoice
		}
		if m.PrunablePath(e) {
			if seen == k {
				cell.remove(i)
				continue
			}
			seen++
			if seen == k {
				q.prunableMaxCost = cell.costs[i]
			}
		}
		i++
	}
	q.prunable = seen
	return nil
}

// PrunablePath reports whether an entry may be dropped for capacity: it holds
// no top-choice flag and is not inside a word list
func (m *Model) PrunablePath(e *Entry) bool {
	if e.TopChoice != 0 {
		return false
	}
	return e.Dawg == nil || !e.Dawg.Permuter.IsWordList()
}

// AcceptablePath reports whether a path may end the search: it is backed by
// the dictionary or the n-gram model, or is consistent
func (m *Model) AcceptablePath(e *Entry) bool {
	return e.Dawg != nil || m.EntryConsistent(e) || (e.Ngram != nil && !e.Ngram.Pruned)
}

// EntryConsistent reports whether the path of an entry is consistent.
// Dictionary paths only need consistent case when dictionary inconsistency
// is forgiven.
func (m *Model) EntryConsistent(e *Entry) bool {
	if e.Dawg != nil && m.cfg.ForgiveDictionaryInconsistency && e.Consistency.NumInconsistentCase() == 0 {
		return true
	}
	return e.Consistency.Consistent()
}

// ProblematicPath reports whether the last character of a path is where it
// went wrong: it broke consistency, left the dictionary, fell out of the
// n-gram model, or put a non-alphanumeric character inside a word.
func (m *Model) ProblematicPath(b *Bundle, e *Entry) (bool, error) {
	var parent *Entry
	if !e.Parent.IsNil() {
		p, err := b.Entry(e.Parent)
		if err != nil {
			return false, err
		}
		parent = p
	}
	if !m.EntryConsistent(e) && (parent == nil || m.EntryConsistent(parent)) {
		return true, nil
	}
	if e.Dawg == nil && (parent == nil || parent.Dawg != nil) {
		return true, nil
	}
	wordEnd := e.Cell.Row == b.Matrix.Dimension()-1
	if parent != nil && !wordEnd {
		u := e.Hyp.Unichar
		inNumber := unichar.IsDigit(u) && e.Permuter() == dawg.MatchNumber
		if !unichar.IsAlpha(u) && !inNumber {
			return true, nil
		}
	}
	if e.Ngram != nil && e.Ngram.Pruned && (parent == nil || parent.Ngram == nil || !parent.Ngram.Pruned) {
		return true, nil
	}
	return false, nil
}
