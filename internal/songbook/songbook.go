package songbook

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sukalov/karaokemadness/internal/db"
	"github.com/sukalov/karaokemadness/internal/timing"
)

// Entry is a songbook song with its timed lyrics already parsed, ready for
// the scheduler.
type Entry struct {
	Song   db.Song
	Timing *timing.Song
}

type Catalog struct {
	mu      sync.RWMutex
	entries []Entry
}

var catalog = &Catalog{}

// Init loads the songbook once at startup. Songs whose timed lyrics fail
// validation are kept out of the catalog; the caller decides whether that
// is fatal.
func Init(ctx context.Context) (skipped []string, err error) {
	songs, err := db.AllSongs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load songbook: %w", err)
	}

	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	catalog.entries = nil
	for _, song := range songs {
		parsed, parseErr := timing.Parse([]byte(song.TimedLyrics))
		if parseErr != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", song.ID, parseErr))
			continue
		}
		catalog.entries = append(catalog.entries, Entry{Song: song, Timing: parsed})
	}
	return skipped, nil
}

func FindSongByID(id string) (Entry, bool) {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	for _, entry := range catalog.entries {
		if entry.Song.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}

func All() []Entry {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	entries := make([]Entry, len(catalog.entries))
	copy(entries, catalog.entries)
	return entries
}

func FormatSongName(e Entry) string {
	artist := "неизвестен"
	if e.Song.Artist.Valid {
		artist = e.Song.Artist.String
	}
	return strings.TrimSpace(fmt.Sprintf("%s - %s", artist, e.Song.Title))
}

// IncrementPlays records a finished playthrough.
func IncrementPlays(id string) error {
	return db.IncrementPlays(id)
}
