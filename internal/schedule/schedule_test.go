package schedule

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// makeLine builds a line of n timed words starting at base milliseconds.
func makeLine(base int64, n int) Line {
	line := Line{}
	for i := 0; i < n; i++ {
		start := base + int64(i)*500
		line.Words = append(line.Words, Word{
			Word:    fmt.Sprintf("w%d", i),
			StartMs: start,
			EndMs:   start + 400,
		})
	}
	return line
}

// testSong is the reference song: two verses of three 4-word lines each,
// then a chorus of two 4-word lines.
func testSong() ([]Line, []SectionInfo) {
	var lines []Line
	for i := 0; i < 8; i++ {
		lines = append(lines, makeLine(int64(i)*3000, 4))
	}
	sections := []SectionInfo{
		{LineCount: 3, ChunkType: "verse"},
		{LineCount: 3, ChunkType: "verse"},
		{LineCount: 2, ChunkType: ChunkChorus},
	}
	return lines, sections
}

// lineOwner returns the single owner of a line, failing if the line mixes
// owners.
func lineOwner(t *testing.T, line AssignedLine) int {
	t.Helper()
	require.NotEmpty(t, line.Words)
	owner := line.Words[0].Owner
	for _, w := range line.Words {
		require.Equal(t, owner, w.Owner, "line %d mixes owners", line.LineIndex)
	}
	return owner
}

func TestGenerate(t *testing.T) {
	t.Run("is deterministic for a fixed seed", func(t *testing.T) {
		lines, sections := testSong()
		for difficulty := DifficultySection; difficulty <= DifficultyWord; difficulty++ {
			first, err := Generate(lines, sections, 3, difficulty, 12345)
			require.NoError(t, err)
			second, err := Generate(lines, sections, 3, difficulty, 12345)
			require.NoError(t, err)
			require.Equal(t, first, second, "difficulty %d", difficulty)
		}
	})

	t.Run("covers every input word exactly once", func(t *testing.T) {
		lines, sections := testSong()
		assignment, err := Generate(lines, sections, 4, DifficultyPhrase, 7)
		require.NoError(t, err)

		require.Len(t, assignment.Lines, len(lines))
		for i, line := range lines {
			require.Equal(t, i, assignment.Lines[i].LineIndex)
			require.Len(t, assignment.Lines[i].Words, len(line.Words))
			for j, w := range line.Words {
				require.Equal(t, w, assignment.Lines[i].Words[j].Word)
			}
		}
	})

	t.Run("keeps chorus lines owned by everyone at every difficulty", func(t *testing.T) {
		lines, sections := testSong()
		for difficulty := DifficultySection; difficulty <= DifficultyWord; difficulty++ {
			assignment, err := Generate(lines, sections, 3, difficulty, 99)
			require.NoError(t, err)
			for _, line := range assignment.Lines[6:] {
				for _, w := range line.Words {
					require.Equal(t, Everyone, w.Owner, "difficulty %d line %d", difficulty, line.LineIndex)
				}
			}
		}
	})

	t.Run("keeps owners inside the player range", func(t *testing.T) {
		lines, sections := testSong()
		for players := 1; players <= 6; players++ {
			assignment, err := Generate(lines, sections, players, DifficultyWord, 5)
			require.NoError(t, err)
			for _, line := range assignment.Lines {
				for _, w := range line.Words {
					if w.Owner != Everyone {
						require.GreaterOrEqual(t, w.Owner, 0)
						require.Less(t, w.Owner, players)
					}
				}
			}
		}
	})

	t.Run("gives whole sections a single owner at difficulty 0", func(t *testing.T) {
		lines, sections := testSong()
		assignment, err := Generate(lines, sections, 4, DifficultySection, 21)
		require.NoError(t, err)

		firstVerse := lineOwner(t, assignment.Lines[0])
		for _, line := range assignment.Lines[:3] {
			require.Equal(t, firstVerse, lineOwner(t, line))
		}
		secondVerse := lineOwner(t, assignment.Lines[3])
		for _, line := range assignment.Lines[3:6] {
			require.Equal(t, secondVerse, lineOwner(t, line))
		}
		require.NotEqual(t, Everyone, firstVerse)
		require.NotEqual(t, Everyone, secondVerse)
	})

	t.Run("bounds every fairness window at difficulty 1", func(t *testing.T) {
		var lines []Line
		for i := 0; i < 30; i++ {
			lines = append(lines, makeLine(int64(i)*3000, 4))
		}
		sections := []SectionInfo{{LineCount: 30, ChunkType: "verse"}}

		for players := 2; players <= 6; players++ {
			assignment, err := Generate(lines, sections, players, DifficultyLine, 1001)
			require.NoError(t, err)

			owners := make([]int, len(assignment.Lines))
			for i, line := range assignment.Lines {
				owners[i] = lineOwner(t, line)
			}
			for from := 0; from+players <= len(owners); from++ {
				perOwner := map[int]int{}
				for _, o := range owners[from : from+players] {
					perOwner[o]++
					require.LessOrEqual(t, perOwner[o], 2, "players %d window at %d", players, from)
				}
			}
			for i := 1; i < len(owners); i++ {
				require.NotEqual(t, owners[i-1], owners[i], "players %d repeats at line %d", players, i)
			}
		}
	})

	t.Run("splits assignable lines into 2-3 word phrases at difficulty 2", func(t *testing.T) {
		var lines []Line
		for n := 1; n <= 12; n++ {
			lines = append(lines, makeLine(int64(n)*5000, n))
		}
		sections := []SectionInfo{{LineCount: 12, ChunkType: "verse"}}

		assignment, err := Generate(lines, sections, 4, DifficultyPhrase, 4242)
		require.NoError(t, err)

		// With more than one player consecutive units never share an owner,
		// so runs of equal owners inside a line are exactly the phrase units.
		for _, line := range assignment.Lines {
			runs := ownerRuns(line)
			if len(line.Words) == 1 {
				require.Equal(t, []int{1}, runs)
				continue
			}
			for _, run := range runs {
				require.GreaterOrEqual(t, run, 2, "line %d runs %v", line.LineIndex, runs)
				require.LessOrEqual(t, run, 3, "line %d runs %v", line.LineIndex, runs)
			}
		}
	})

	t.Run("changes owner on every word at difficulty 3", func(t *testing.T) {
		lines := []Line{makeLine(0, 9)}
		sections := []SectionInfo{{LineCount: 1, ChunkType: "verse"}}

		assignment, err := Generate(lines, sections, 3, DifficultyWord, 8)
		require.NoError(t, err)
		words := assignment.Lines[0].Words
		for i := 1; i < len(words); i++ {
			require.NotEqual(t, words[i-1].Owner, words[i].Owner)
		}
	})

	t.Run("assigns everything to player zero when playing solo", func(t *testing.T) {
		lines, sections := testSong()
		assignment, err := Generate(lines, sections, 1, DifficultyLine, 3)
		require.NoError(t, err)
		for _, line := range assignment.Lines[:6] {
			require.Equal(t, 0, lineOwner(t, line))
		}
	})

	t.Run("splits the reference song evenly for seed 42", func(t *testing.T) {
		lines, sections := testSong()
		assignment, err := Generate(lines, sections, 2, DifficultyLine, 42)
		require.NoError(t, err)

		perOwner := map[int]int{}
		for _, line := range assignment.Lines[:6] {
			perOwner[lineOwner(t, line)]++
		}
		require.Equal(t, map[int]int{0: 3, 1: 3}, perOwner)
		for _, line := range assignment.Lines[6:] {
			require.Equal(t, Everyone, lineOwner(t, line))
		}

		again, err := Generate(lines, sections, 2, DifficultyLine, 42)
		require.NoError(t, err)
		require.Equal(t, assignment, again)
	})

	t.Run("returns an empty assignment for an empty song", func(t *testing.T) {
		assignment, err := Generate(nil, nil, 2, DifficultyLine, 42)
		require.NoError(t, err)
		require.Empty(t, assignment.Lines)
	})

	t.Run("rejects a player count below one", func(t *testing.T) {
		lines, sections := testSong()
		_, err := Generate(lines, sections, 0, DifficultyLine, 1)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrPlayerCount))
	})

	t.Run("rejects an unknown difficulty", func(t *testing.T) {
		lines, sections := testSong()
		_, err := Generate(lines, sections, 2, Difficulty(4), 1)
		require.Error(t, err)
	})

	t.Run("treats a broken section partition as one assignable section", func(t *testing.T) {
		lines, _ := testSong()
		broken := []SectionInfo{
			{LineCount: 5, ChunkType: "verse"},
			{LineCount: 99, ChunkType: ChunkChorus},
		}
		assignment, err := Generate(lines, broken, 3, DifficultyLine, 6)
		require.NoError(t, err)
		for _, line := range assignment.Lines {
			require.NotEqual(t, Everyone, lineOwner(t, line))
		}
	})

	t.Run("skips zero-count sections and empty lines", func(t *testing.T) {
		lines := []Line{makeLine(0, 4), {}, makeLine(6000, 4)}
		sections := []SectionInfo{
			{LineCount: 0, ChunkType: "intro"},
			{LineCount: 2, ChunkType: "verse"},
			{LineCount: 1, ChunkType: "verse"},
		}
		assignment, err := Generate(lines, sections, 2, DifficultyLine, 11)
		require.NoError(t, err)
		require.Len(t, assignment.Lines, 3)
		require.Empty(t, assignment.Lines[1].Words)
	})

	t.Run("treats unknown chunk types as assignable", func(t *testing.T) {
		lines := []Line{makeLine(0, 4), makeLine(3000, 4)}
		sections := []SectionInfo{{LineCount: 2, ChunkType: "drop"}}
		assignment, err := Generate(lines, sections, 2, DifficultyLine, 17)
		require.NoError(t, err)
		for _, line := range assignment.Lines {
			require.NotEqual(t, Everyone, lineOwner(t, line))
		}
	})

	t.Run("reshuffles independently for a new seed", func(t *testing.T) {
		var lines []Line
		for i := 0; i < 20; i++ {
			lines = append(lines, makeLine(int64(i)*3000, 4))
		}
		sections := []SectionInfo{{LineCount: 20, ChunkType: "verse"}}

		first, err := Generate(lines, sections, 4, DifficultyLine, 1)
		require.NoError(t, err)
		second, err := Generate(lines, sections, 4, DifficultyLine, 2)
		require.NoError(t, err)
		require.NotEqual(t, first, second)
	})
}

// ownerRuns collapses a line's words into lengths of consecutive
// same-owner runs.
func ownerRuns(line AssignedLine) []int {
	var runs []int
	for i, w := range line.Words {
		if i == 0 || w.Owner != line.Words[i-1].Owner {
			runs = append(runs, 1)
			continue
		}
		runs[len(runs)-1]++
	}
	return runs
}
