package schedule

// ComputeStats derives the end-of-game summary from a finished assignment.
// playerNames must have one entry per player index. Everyone-owned words
// belong to the ensemble and are excluded from every individual count; a
// tie for most words goes to the lowest player index. Pure: calling it
// twice on the same assignment returns identical results.
func ComputeStats(assignment PlayerAssignment, playerNames []string) GameStats {
	stats := GameStats{
		WordCounts:      make([]int, len(playerNames)),
		TotalDurationMs: make([]int64, len(playerNames)),
	}

	for _, line := range assignment.Lines {
		for _, w := range line.Words {
			if w.Owner < 0 || w.Owner >= len(playerNames) {
				continue
			}
			stats.WordCounts[w.Owner]++
			stats.TotalDurationMs[w.Owner] += w.EndMs - w.StartMs
		}
	}

	for i, count := range stats.WordCounts {
		if i == 0 || count > stats.MostWords.Count {
			stats.MostWords = MostWords{Name: playerNames[i], Count: count}
		}
	}
	return stats
}

// EveryoneWordCount counts the ensemble words of an assignment, the ones no
// individual count includes.
func EveryoneWordCount(assignment PlayerAssignment) int {
	count := 0
	for _, line := range assignment.Lines {
		for _, w := range line.Words {
			if w.Owner == Everyone {
				count++
			}
		}
	}
	return count
}
