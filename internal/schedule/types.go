package schedule

// Word is a single timed lyric word. Times are milliseconds from the start
// of the audio track, with StartMs < EndMs.
type Word struct {
	Word    string `json:"word"`
	StartMs int64  `json:"startMs"`
	EndMs   int64  `json:"endMs"`
}

// Line is one lyric line of the flattened song. Repeated choruses appear as
// separate lines; the timing source has already merged them upstream.
type Line struct {
	Words []Word `json:"words"`
}

// SectionInfo describes one structural section of the song (verse, chorus,
// bridge...). The LineCount values of all sections partition the flattened
// line sequence in order.
type SectionInfo struct {
	LineCount int    `json:"lineCount"`
	ChunkType string `json:"chunkType"`
}

// ChunkChorus marks sections that are always sung by everyone. Any other
// chunk type is assignable.
const ChunkChorus = "chorus"

// Everyone is the sentinel owner for words the whole group sings together.
const Everyone = -1

// Difficulty selects the granularity of assignment units.
type Difficulty int

const (
	DifficultySection Difficulty = iota // one owner per song section
	DifficultyLine                      // one owner per line
	DifficultyPhrase                    // one owner per 2-3 word run
	DifficultyWord                      // one owner per word
)

// AssignedWord is a Word stamped with its owner: a player index in
// [0, playerCount) or Everyone.
type AssignedWord struct {
	Word
	Owner int `json:"owner"`
}

// AssignedLine carries one input line with owners attached. LineIndex is the
// position in the original flattened sequence and is the stable identifier
// used for seek and section-boundary lookups.
type AssignedLine struct {
	LineIndex int            `json:"lineIndex"`
	Words     []AssignedWord `json:"words"`
}

// PlayerAssignment is the output of Generate: one AssignedLine per input
// line, same order. It never mutates after creation; a reshuffle or
// difficulty change produces a brand-new value.
type PlayerAssignment struct {
	Lines []AssignedLine `json:"lines"`
}

// MostWords names the player with the highest word count.
type MostWords struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GameStats is the end-of-game summary derived from a PlayerAssignment.
// Everyone-owned words are ensemble segments and count for nobody.
type GameStats struct {
	WordCounts      []int     `json:"wordCounts"`
	TotalDurationMs []int64   `json:"totalDurationMs"`
	MostWords       MostWords `json:"mostWords"`
}
