package lyrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukalov/hibiki/internal/db"
	"github.com/sukalov/hibiki/internal/hibiki"
	"github.com/sukalov/hibiki/internal/lyrics/parsers/amdm"
	"github.com/sukalov/hibiki/internal/redis"
)

type memoryCache struct {
	values map[string]string
	gets   int
	sets   int
	err    error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.gets++
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string) error {
	c.sets++
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	return nil
}

type fakeSongs struct {
	songs  map[string]db.Song
	counts map[string]int
}

func (f *fakeSongs) FindSongByID(id string) (db.Song, bool) {
	song, ok := f.songs[id]
	return song, ok
}

func (f *fakeSongs) IncrementSongCounter(_ context.Context, songID string) error {
	f.counts[songID]++
	return nil
}

type fakeImporter struct {
	result *amdm.LyricsResult
	err    error
	urls   []string
}

func (f *fakeImporter) ExtractLyricsFromAmdm(_ context.Context, url string) (*amdm.LyricsResult, error) {
	f.urls = append(f.urls, url)
	return f.result, f.err
}

const source = "[Verse]\nI like {C}potatoes\n"

func TestService_Render(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	s := NewService(cache, nil, &fakeImporter{})

	first, err := s.Render(ctx, source, 1)
	require.NoError(t, err)
	assert.Equal(t, "[Verse]\n       C\nI like potatoes\n\n", first)
	assert.Equal(t, first, cache.values[redis.RenderKey(source, 1)])

	second, err := s.Render(ctx, source, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)
}

func TestService_RenderDocumentError(t *testing.T) {
	cache := newMemoryCache()
	s := NewService(cache, nil, &fakeImporter{})

	_, err := s.Render(context.Background(), "[Verse]\n{C\n", 2)
	require.Error(t, err)

	var syntaxErr *hibiki.ChordSyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
	assert.ErrorIs(t, err, hibiki.ErrDocument)
	assert.Empty(t, cache.values)
}

func TestService_RenderCacheFailure(t *testing.T) {
	cache := newMemoryCache()
	cache.err = errors.New("connection refused")
	s := NewService(cache, nil, &fakeImporter{})

	rendered, err := s.Render(context.Background(), source, 2)
	require.NoError(t, err)
	assert.Equal(t, "[Verse]\n       C\nI like potatoes\n\n\n", rendered)
}

func TestService_RenderWithoutCache(t *testing.T) {
	s := NewService(nil, nil, &fakeImporter{})

	rendered, err := s.Render(context.Background(), source, 0)
	require.NoError(t, err)
	assert.Equal(t, "[Verse]\n       C\nI like potatoes\n", rendered)
}

func TestService_RenderSong(t *testing.T) {
	songs := &fakeSongs{
		songs: map[string]db.Song{
			"1": {ID: "1", Title: "Potatoes", Source: source},
			"2": {ID: "2", Title: "Empty"},
		},
		counts: make(map[string]int),
	}
	s := NewService(nil, songs, &fakeImporter{})
	ctx := context.Background()

	song, rendered, err := s.RenderSong(ctx, "1", 2)
	require.NoError(t, err)
	assert.Equal(t, "Potatoes", song.Title)
	assert.Equal(t, "[Verse]\n       C\nI like potatoes\n\n\n", rendered)
	assert.Equal(t, 1, songs.counts["1"])

	_, _, err = s.RenderSong(ctx, "2", 2)
	assert.ErrorIs(t, err, ErrNoSource)

	_, _, err = s.RenderSong(ctx, "3", 2)
	assert.ErrorIs(t, err, db.ErrSongNotFound)
	assert.Zero(t, songs.counts["3"])

	_, rendered, err = s.RenderSong(ctx, "1", 0)
	require.NoError(t, err)
	assert.Equal(t, "[Verse]\n       C\nI like potatoes\n", rendered)
}

func TestService_RenderSongWithoutSongbook(t *testing.T) {
	_, _, err := NewService(nil, nil, &fakeImporter{}).RenderSong(context.Background(), "1", 2)
	assert.Error(t, err)
}

func TestService_Import(t *testing.T) {
	fetched := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	importer := &fakeImporter{result: &amdm.LyricsResult{
		URL:       "https://amdm.ru/akkordi/song/1/",
		Text:      source,
		FetchedAt: fetched,
		Success:   true,
	}}
	s := NewService(nil, nil, importer)

	result, err := s.Import(context.Background(), "https://amdm.ru/akkordi/song/1/")
	require.NoError(t, err)
	assert.Equal(t, &LyricsResult{
		URL:       "https://amdm.ru/akkordi/song/1/",
		Text:      source,
		Source:    "amdm.ru",
		FetchedAt: fetched,
	}, result)

	_, err = s.Import(context.Background(), "https://example.com/song")
	assert.Error(t, err)
	assert.Len(t, importer.urls, 1)

	importer.err = errors.New("HTTP error! status: 404")
	_, err = s.Import(context.Background(), "https://amdm.ru/missing/")
	assert.EqualError(t, err, "HTTP error! status: 404")
}
