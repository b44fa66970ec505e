package lyrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sukalov/hibiki/internal/db"
	"github.com/sukalov/hibiki/internal/hibiki"
	"github.com/sukalov/hibiki/internal/logger"
	"github.com/sukalov/hibiki/internal/lyrics/parsers/amdm"
	"github.com/sukalov/hibiki/internal/redis"
)

// ErrNoSource is returned for songs that have no chord sheet yet.
var ErrNoSource = errors.New("song has no chord sheet")

// LyricsResult represents an imported chord sheet
type LyricsResult struct {
	URL string `json:"url"`
	// Text is hibiki source.
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Cache stores rendered sheets by key.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// SongStore looks songs up for RenderSong.
type SongStore interface {
	FindSongByID(id string) (db.Song, bool)
	IncrementSongCounter(ctx context.Context, songID string) error
}

// Importer fetches a chord page and converts it to hibiki source.
type Importer interface {
	ExtractLyricsFromAmdm(ctx context.Context, url string) (*amdm.LyricsResult, error)
}

// Service renders chord sheets and imports them from supported sites
type Service struct {
	amdmParser Importer
	cache      Cache
	songs      SongStore
}

// NewService creates a new lyrics service. cache and songs may be nil; a nil
// importer means the amdm.ru parser.
func NewService(cache Cache, songs SongStore, importer Importer) *Service {
	if importer == nil {
		importer = amdm.NewParser()
	}
	return &Service{
		amdmParser: importer,
		cache:      cache,
		songs:      songs,
	}
}

// Render renders hibiki source, going through the cache when there is one.
// Document errors are returned as they are and never cached.
func (s *Service) Render(ctx context.Context, source string, sectionBreaks int) (string, error) {
	key := redis.RenderKey(source, sectionBreaks)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn(fmt.Sprintf("render cache lookup failed: %v", err))
		case ok:
			logger.Debug(fmt.Sprintf("render cache hit %s", key))
			return cached, nil
		}
	}

	rendered, err := hibiki.Render(source, sectionBreaks)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rendered); err != nil {
			logger.Warn(fmt.Sprintf("render cache store failed: %v", err))
		}
	}

	return rendered, nil
}

// RenderSong renders the chord sheet of a songbook entry and counts the view.
func (s *Service) RenderSong(ctx context.Context, id string, sectionBreaks int) (db.Song, string, error) {
	if s.songs == nil {
		return db.Song{}, "", fmt.Errorf("songbook is not configured")
	}

	song, ok := s.songs.FindSongByID(id)
	if !ok {
		return db.Song{}, "", fmt.Errorf("%w: %s", db.ErrSongNotFound, id)
	}
	if strings.TrimSpace(song.Source) == "" {
		return song, "", fmt.Errorf("%w: %s", ErrNoSource, id)
	}

	rendered, err := s.Render(ctx, song.Source, sectionBreaks)
	if err != nil {
		return song, "", fmt.Errorf("song %s: %w", id, err)
	}

	if err := s.songs.IncrementSongCounter(ctx, song.ID); err != nil {
		logger.Warn(fmt.Sprintf("failed to increment counter for song %s: %v", song.ID, err))
	}

	return song, rendered, nil
}

// Import extracts a chord sheet from a URL based on the site it points to
func (s *Service) Import(ctx context.Context, url string) (*LyricsResult, error) {
	logger.Debug(fmt.Sprintf("Import called with URL: %s", url))

	if strings.Contains(url, "amdm.ru") {
		return s.importFromAmdm(ctx, url)
	}

	logger.Error(fmt.Sprintf("Unsupported URL source: %s", url))
	return nil, fmt.Errorf("unsupported URL source: %s", url)
}

func (s *Service) importFromAmdm(ctx context.Context, url string) (*LyricsResult, error) {
	result, err := s.amdmParser.ExtractLyricsFromAmdm(ctx, url)
	if err != nil {
		logger.Error(fmt.Sprintf("amdm import failed for URL: %s\nError: %v", url, err))
		return nil, err
	}

	logger.Debug(fmt.Sprintf("amdm import succeeded for URL: %s\nSheet length: %d chars", url, len(result.Text)))

	return &LyricsResult{
		URL:       result.URL,
		Text:      result.Text,
		Source:    "amdm.ru",
		FetchedAt: result.FetchedAt,
	}, nil
}
