package timing

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sukalov/karaokemadness/internal/schedule"
)

const sampleJSON = `{
	"lines": [
		{"words": [
			{"word": "hello", "startMs": 100, "endMs": 400},
			{"word": "darkness", "startMs": 450, "endMs": 900}
		]},
		{"words": [
			{"word": "my", "startMs": 1200, "endMs": 1400},
			{"word": "old", "startMs": 1400, "endMs": 1700},
			{"word": "friend", "startMs": 1750, "endMs": 2300}
		]}
	],
	"sections": [{"lineCount": 2, "chunkType": "verse"}]
}`

func TestParse(t *testing.T) {
	t.Run("decodes a valid document", func(t *testing.T) {
		song, err := Parse([]byte(sampleJSON))
		require.NoError(t, err)
		require.Len(t, song.Lines, 2)
		require.Equal(t, "darkness", song.Lines[0].Words[1].Word)
		require.Equal(t, 5, song.WordCount())
		require.Equal(t, int64(2200), song.DurationMs())
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := Parse([]byte(`{"lines": [`))
		require.Error(t, err)
	})

	t.Run("rejects a bad section partition", func(t *testing.T) {
		bad := `{"lines": [{"words": [{"word": "a", "startMs": 0, "endMs": 100}]}],
			"sections": [{"lineCount": 3, "chunkType": "verse"}]}`
		_, err := Parse([]byte(bad))
		require.Error(t, err)
		require.Contains(t, err.Error(), "sections cover")
	})
}

func TestValidate(t *testing.T) {
	line := func(words ...schedule.Word) schedule.Line { return schedule.Line{Words: words} }

	t.Run("rejects an empty line", func(t *testing.T) {
		err := Validate([]schedule.Line{line()}, []schedule.SectionInfo{{LineCount: 1}})
		require.Error(t, err)
	})

	t.Run("rejects an inverted word interval", func(t *testing.T) {
		err := Validate(
			[]schedule.Line{line(schedule.Word{Word: "x", StartMs: 500, EndMs: 500})},
			[]schedule.SectionInfo{{LineCount: 1}},
		)
		require.Error(t, err)
	})

	t.Run("rejects overlapping words in a line", func(t *testing.T) {
		err := Validate(
			[]schedule.Line{line(
				schedule.Word{Word: "a", StartMs: 0, EndMs: 600},
				schedule.Word{Word: "b", StartMs: 400, EndMs: 900},
			)},
			[]schedule.SectionInfo{{LineCount: 1}},
		)
		require.Error(t, err)
	})

	t.Run("accepts an empty song with no sections", func(t *testing.T) {
		require.NoError(t, Validate(nil, nil))
	})
}
