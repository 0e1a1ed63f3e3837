package schedule

import "math/rand"

// span is a contiguous run of words [from, to) inside one line.
type span struct {
	line int
	from int
	to   int
}

// unit is the atom of assignment: every word in it gets the same owner.
// A section-level unit at DifficultySection spans several lines.
type unit struct {
	chorus bool
	spans  []span
}

// segment cuts the flattened song into ordered assignment units at the
// requested difficulty. Chorus sections never split below line granularity:
// at DifficultySection the whole chorus is one unit, at every finer level
// each chorus line is its own unit. Empty sections and empty lines are
// skipped.
func segment(lines []Line, sections []SectionInfo, difficulty Difficulty, r *rand.Rand) []unit {
	var units []unit
	next := 0
	for _, sec := range sections {
		if sec.LineCount <= 0 {
			continue
		}
		end := next + sec.LineCount
		if end > len(lines) {
			end = len(lines)
		}
		chorus := sec.ChunkType == ChunkChorus

		switch {
		case chorus && difficulty == DifficultySection:
			if u := sectionUnit(lines, next, end, true); len(u.spans) > 0 {
				units = append(units, u)
			}
		case chorus:
			for li := next; li < end; li++ {
				if len(lines[li].Words) == 0 {
					continue
				}
				units = append(units, unit{chorus: true, spans: []span{{li, 0, len(lines[li].Words)}}})
			}
		case difficulty == DifficultySection:
			if u := sectionUnit(lines, next, end, false); len(u.spans) > 0 {
				units = append(units, u)
			}
		default:
			for li := next; li < end; li++ {
				units = append(units, lineUnits(lines[li].Words, li, difficulty, r)...)
			}
		}
		next = end
	}
	return units
}

// sectionUnit collapses lines [from, end) into a single unit.
func sectionUnit(lines []Line, from, end int, chorus bool) unit {
	u := unit{chorus: chorus}
	for li := from; li < end; li++ {
		if len(lines[li].Words) == 0 {
			continue
		}
		u.spans = append(u.spans, span{li, 0, len(lines[li].Words)})
	}
	return u
}

// lineUnits splits one assignable line at line, phrase or word granularity.
func lineUnits(words []Word, li int, difficulty Difficulty, r *rand.Rand) []unit {
	n := len(words)
	if n == 0 {
		return nil
	}
	switch difficulty {
	case DifficultyLine:
		return []unit{{spans: []span{{li, 0, n}}}}
	case DifficultyWord:
		units := make([]unit, 0, n)
		for i := 0; i < n; i++ {
			units = append(units, unit{spans: []span{{li, i, i + 1}}})
		}
		return units
	default: // DifficultyPhrase
		var units []unit
		for from := 0; from < n; {
			take := phraseLen(r, n-from)
			units = append(units, unit{spans: []span{{li, from, from + take}}})
			from += take
		}
		return units
	}
}

// phraseLen picks the next phrase length for a line with remaining words
// left. Runs are 2-3 words; a lone 1-word unit only happens when the whole
// remainder is one word, since 4 forces 2+2 and longer remainders never
// draw a length that would strand a single word.
func phraseLen(r *rand.Rand, remaining int) int {
	switch {
	case remaining <= 3:
		return remaining
	case remaining == 4:
		return 2
	default:
		return 2 + r.Intn(2)
	}
}
