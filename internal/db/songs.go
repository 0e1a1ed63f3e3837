package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Song is one row of the songs table. TimedLyrics holds the word-timestamp
// JSON the transcription pipeline produced for the track.
type Song struct {
	ID          string
	Title       string
	Artist      sql.NullString
	TimedLyrics string
	Plays       int
}

// AllSongs loads the whole songbook.
func AllSongs(ctx context.Context) ([]Song, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := Database.QueryContext(ctx, "SELECT id, title, artist, timed_lyrics, plays FROM songs")
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.TimedLyrics, &song.Plays); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return songs, nil
}

// IncrementPlays bumps the play counter after a finished game.
func IncrementPlays(songID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `UPDATE songs SET plays = plays + 1 WHERE id = ?`
	result, err := Database.ExecContext(ctx, query, songID)
	if err != nil {
		return fmt.Errorf("failed to increment play counter: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no song found with id: %s", songID)
	}

	return nil
}

// UpsertSong writes a song row, replacing the timed lyrics if it exists.
// Used by the timing-check CLI to import validated files.
func UpsertSong(ctx context.Context, song Song) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `INSERT INTO songs (id, title, artist, timed_lyrics, plays)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, artist = excluded.artist, timed_lyrics = excluded.timed_lyrics`
	if _, err := Database.ExecContext(ctx, query, song.ID, song.Title, song.Artist, song.TimedLyrics); err != nil {
		return fmt.Errorf("failed to upsert song %s: %w", song.ID, err)
	}
	return nil
}
