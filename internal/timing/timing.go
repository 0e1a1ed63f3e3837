// Package timing decodes the timed-lyrics JSON the transcription pipeline
// produces per song and checks the invariants the scheduler relies on.
package timing

import (
	"encoding/json"
	"fmt"

	"github.com/sukalov/karaokemadness/internal/schedule"
)

// Song is the timed-lyrics payload stored with each songbook entry: the
// flattened lines with word timestamps and the section metadata that
// partitions them.
type Song struct {
	Lines    []schedule.Line        `json:"lines"`
	Sections []schedule.SectionInfo `json:"sections"`
}

// Parse decodes and validates a timed-lyrics document. Callers that want
// the degraded single-section behavior instead of an error should decode
// themselves and let schedule.Generate normalize.
func Parse(data []byte) (*Song, error) {
	var song Song
	if err := json.Unmarshal(data, &song); err != nil {
		return nil, fmt.Errorf("failed to decode timed lyrics: %w", err)
	}
	if err := Validate(song.Lines, song.Sections); err != nil {
		return nil, err
	}
	return &song, nil
}

// Validate checks the timing-source contract: non-empty lines, ordered
// non-overlapping word intervals, and section line counts that partition
// the line sequence exactly.
func Validate(lines []schedule.Line, sections []schedule.SectionInfo) error {
	for i, line := range lines {
		if len(line.Words) == 0 {
			return fmt.Errorf("line %d has no words", i)
		}
		var prevEnd int64
		for j, w := range line.Words {
			if w.StartMs >= w.EndMs {
				return fmt.Errorf("line %d word %d: start %dms is not before end %dms", i, j, w.StartMs, w.EndMs)
			}
			if j > 0 && w.StartMs < prevEnd {
				return fmt.Errorf("line %d word %d overlaps the previous word", i, j)
			}
			prevEnd = w.EndMs
		}
	}

	total := 0
	for i, sec := range sections {
		if sec.LineCount < 0 {
			return fmt.Errorf("section %d has negative line count", i)
		}
		total += sec.LineCount
	}
	if total != len(lines) {
		return fmt.Errorf("sections cover %d lines, song has %d", total, len(lines))
	}
	return nil
}

// WordCount totals the words across all lines.
func (s *Song) WordCount() int {
	count := 0
	for _, line := range s.Lines {
		count += len(line.Words)
	}
	return count
}

// DurationMs is the time span from the first word's start to the last
// word's end, zero for an empty song.
func (s *Song) DurationMs() int64 {
	if len(s.Lines) == 0 {
		return 0
	}
	first := s.Lines[0].Words[0].StartMs
	lastLine := s.Lines[len(s.Lines)-1]
	last := lastLine.Words[len(lastLine.Words)-1].EndMs
	return last - first
}
