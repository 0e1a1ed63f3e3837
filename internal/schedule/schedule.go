// Package schedule partitions a song's timed lyrics into units and deals
// each unit to one player, or to everyone for chorus sections. The whole
// pipeline is pure: given the same lines, sections, player count,
// difficulty and seed it returns an identical assignment every time.
package schedule

import (
	"errors"
	"fmt"
)

// ErrPlayerCount is returned when the caller asks for an assignment with
// fewer than one player. The UI keeps counts inside its own 2-6 bounds;
// this is the hard floor below which the result would be garbage.
var ErrPlayerCount = errors.New("player count must be at least 1")

// Generate runs the segmenter and allocator over the flattened song and
// returns a fresh PlayerAssignment. A mismatch between the section line
// counts and the actual line count degrades to one assignable section over
// the whole song rather than crashing mid-game; use timing.Validate
// upstream to catch that early. An empty song returns an empty assignment.
func Generate(lines []Line, sections []SectionInfo, playerCount int, difficulty Difficulty, seed int64) (PlayerAssignment, error) {
	if playerCount < 1 {
		return PlayerAssignment{}, fmt.Errorf("%w, got %d", ErrPlayerCount, playerCount)
	}
	if difficulty < DifficultySection || difficulty > DifficultyWord {
		return PlayerAssignment{}, fmt.Errorf("unknown difficulty %d", difficulty)
	}

	sections = normalizeSections(lines, sections)
	assignment := blankAssignment(lines)

	r := newRand(seed)
	units := segment(lines, sections, difficulty, r)
	players := newCycle(playerCount, r)

	for _, u := range units {
		owner := Everyone
		if !u.chorus {
			owner = players.next()
		}
		for _, sp := range u.spans {
			words := assignment.Lines[sp.line].Words
			for i := sp.from; i < sp.to; i++ {
				words[i].Owner = owner
			}
		}
	}
	return assignment, nil
}

// normalizeSections returns the sections unchanged when their line counts
// partition the song exactly, and otherwise falls back to a single
// assignable section covering everything.
func normalizeSections(lines []Line, sections []SectionInfo) []SectionInfo {
	total := 0
	for _, sec := range sections {
		if sec.LineCount > 0 {
			total += sec.LineCount
		}
	}
	if total == len(lines) {
		return sections
	}
	return []SectionInfo{{LineCount: len(lines), ChunkType: "verse"}}
}

// blankAssignment copies every input word into place with an Everyone
// owner; the allocator overwrites owners unit by unit. Lines with no words
// keep an empty entry so LineIndex stays aligned with the input.
func blankAssignment(lines []Line) PlayerAssignment {
	assignment := PlayerAssignment{Lines: make([]AssignedLine, len(lines))}
	for i, line := range lines {
		assigned := AssignedLine{LineIndex: i}
		if len(line.Words) > 0 {
			assigned.Words = make([]AssignedWord, len(line.Words))
			for j, w := range line.Words {
				assigned.Words[j] = AssignedWord{Word: w, Owner: Everyone}
			}
		}
		assignment.Lines[i] = assigned
	}
	return assignment
}
