package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sukalov/hibiki/internal/logger"
)

// ErrSongNotFound is returned for unknown song IDs.
var ErrSongNotFound = errors.New("song not found")

type Song struct {
	ID         string
	Category   string
	Title      string
	Link       string
	Artist     sql.NullString
	ArtistName sql.NullString
	// Source is the chord sheet in hibiki notation.
	Source  string
	Counter int
}

const schema = `
CREATE TABLE IF NOT EXISTS songbook (
	id          TEXT PRIMARY KEY,
	category    TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL,
	artist      TEXT,
	artist_name TEXT,
	link        TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT '',
	counter     INTEGER NOT NULL DEFAULT 0
)`

// Songbook is an in-memory copy of the songbook table.
type Songbook struct {
	db    *sql.DB
	songs []Song
	mu    sync.RWMutex
}

func NewSongbook(database *sql.DB) *Songbook {
	return &Songbook{db: database}
}

// EnsureSchema creates the songbook table if it does not exist yet.
func (s *Songbook) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create songbook table: %w", err)
	}
	return nil
}

// Load replaces the in-memory songs with the contents of the table.
func (s *Songbook) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, title, artist, artist_name, link, source, counter FROM songbook ORDER BY title`)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Category, &song.Title, &song.Artist, &song.ArtistName, &song.Link, &song.Source, &song.Counter); err != nil {
			logger.Warn(fmt.Sprintf("error scanning songbook row: %v", err))
			continue
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error during rows iteration: %w", err)
	}

	s.mu.Lock()
	s.songs = songs
	s.mu.Unlock()

	logger.Debug(fmt.Sprintf("songbook loaded: %d songs", len(songs)))
	return nil
}

// Len is the number of loaded songs.
func (s *Songbook) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.songs)
}

func (s *Songbook) FindSongByID(id string) (Song, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, song := range s.songs {
		if song.ID == id {
			return song, true
		}
	}
	return Song{}, false
}

// SearchSongs returns songs whose title or artist contains query,
// ignoring case.
func (s *Songbook) SearchSongs(query string) []Song {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Song
	for _, song := range s.songs {
		haystack := strings.ToLower(strings.Join([]string{song.Title, song.Artist.String, song.ArtistName.String}, " "))
		if strings.Contains(haystack, query) {
			results = append(results, song)
		}
	}
	return results
}

func (s *Songbook) FormatSongName(song Song) string {
	var parts []string
	if song.ArtistName.Valid {
		parts = append(parts, song.ArtistName.String+" ")
	}
	if song.Artist.Valid {
		parts = append(parts, song.Artist.String+" - ")
	}
	parts = append(parts, song.Title)

	return strings.TrimSpace(strings.Join(parts, ""))
}

// Add inserts song with a fresh ID and returns the stored copy.
func (s *Songbook) Add(ctx context.Context, song Song) (Song, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	song.ID = uuid.NewString()
	song.Counter = 0

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO songbook (id, category, title, artist, artist_name, link, source, counter) VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		song.ID, song.Category, song.Title, song.Artist, song.ArtistName, song.Link, song.Source)
	if err != nil {
		return Song{}, fmt.Errorf("failed to insert song: %w", err)
	}

	s.mu.Lock()
	s.songs = append(s.songs, song)
	s.mu.Unlock()

	return song, nil
}

// UpdateSource replaces the chord sheet of a song.
func (s *Songbook) UpdateSource(ctx context.Context, songID, source string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `UPDATE songbook SET source = ? WHERE id = ?`, source, songID)
	if err != nil {
		return fmt.Errorf("failed to update song source: %w", err)
	}
	if err := requireRow(result, songID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.songs {
		if s.songs[i].ID == songID {
			s.songs[i].Source = source
		}
	}
	return nil
}

func (s *Songbook) IncrementSongCounter(ctx context.Context, songID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `UPDATE songbook SET counter = counter + 1 WHERE id = ?`, songID)
	if err != nil {
		return fmt.Errorf("failed to increment song counter: %w", err)
	}
	if err := requireRow(result, songID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.songs {
		if s.songs[i].ID == songID {
			s.songs[i].Counter++
		}
	}
	return nil
}

func requireRow(result sql.Result, songID string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrSongNotFound, songID)
	}
	return nil
}
