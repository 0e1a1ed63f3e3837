package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	t.Run("counts words and durations per player", func(t *testing.T) {
		assignment := PlayerAssignment{Lines: []AssignedLine{
			{LineIndex: 0, Words: []AssignedWord{
				{Word: Word{Word: "la", StartMs: 0, EndMs: 300}, Owner: 0},
				{Word: Word{Word: "la", StartMs: 300, EndMs: 700}, Owner: 0},
				{Word: Word{Word: "laa", StartMs: 700, EndMs: 1500}, Owner: 1},
			}},
			{LineIndex: 1, Words: []AssignedWord{
				{Word: Word{Word: "oh", StartMs: 2000, EndMs: 2200}, Owner: Everyone},
				{Word: Word{Word: "oh", StartMs: 2200, EndMs: 2500}, Owner: 1},
			}},
		}}

		stats := ComputeStats(assignment, []string{"dasha", "misha"})
		require.Equal(t, []int{2, 2}, stats.WordCounts)
		require.Equal(t, []int64{700, 1100}, stats.TotalDurationMs)
		require.Equal(t, MostWords{Name: "dasha", Count: 2}, stats.MostWords)
	})

	t.Run("stays consistent with a generated assignment", func(t *testing.T) {
		var lines []Line
		total := 0
		for i := 0; i < 10; i++ {
			lines = append(lines, makeLine(int64(i)*3000, 5))
			total += 5
		}
		sections := []SectionInfo{
			{LineCount: 7, ChunkType: "verse"},
			{LineCount: 3, ChunkType: ChunkChorus},
		}
		names := []string{"a", "b", "c"}

		assignment, err := Generate(lines, sections, len(names), DifficultyPhrase, 77)
		require.NoError(t, err)
		stats := ComputeStats(assignment, names)

		sum := 0
		maxCount := 0
		for _, c := range stats.WordCounts {
			sum += c
			if c > maxCount {
				maxCount = c
			}
		}
		require.Equal(t, total, sum+EveryoneWordCount(assignment))
		require.Equal(t, 15, EveryoneWordCount(assignment))
		require.Equal(t, maxCount, stats.MostWords.Count)
	})

	t.Run("credits a solo player with every assignable word", func(t *testing.T) {
		lines, sections := testSong()
		assignment, err := Generate(lines, sections, 1, DifficultyLine, 9)
		require.NoError(t, err)

		stats := ComputeStats(assignment, []string{"solo"})
		require.Equal(t, []int{24}, stats.WordCounts)
		require.Equal(t, MostWords{Name: "solo", Count: 24}, stats.MostWords)
	})

	t.Run("breaks ties toward the lowest player index", func(t *testing.T) {
		assignment := PlayerAssignment{Lines: []AssignedLine{
			{Words: []AssignedWord{
				{Word: Word{StartMs: 0, EndMs: 100}, Owner: 1},
				{Word: Word{StartMs: 100, EndMs: 200}, Owner: 0},
			}},
		}}
		stats := ComputeStats(assignment, []string{"first", "second"})
		require.Equal(t, "first", stats.MostWords.Name)
	})

	t.Run("returns zeroes for an empty assignment", func(t *testing.T) {
		stats := ComputeStats(PlayerAssignment{}, []string{"a", "b"})
		require.Equal(t, []int{0, 0}, stats.WordCounts)
		require.Equal(t, []int64{0, 0}, stats.TotalDurationMs)
		require.Equal(t, MostWords{Name: "a", Count: 0}, stats.MostWords)
	})

	t.Run("is repeatable on the same assignment", func(t *testing.T) {
		lines, sections := testSong()
		assignment, err := Generate(lines, sections, 2, DifficultyWord, 13)
		require.NoError(t, err)
		names := []string{"x", "y"}
		require.Equal(t, ComputeStats(assignment, names), ComputeStats(assignment, names))
	})
}
