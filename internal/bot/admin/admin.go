package admin

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sukalov/hibiki/internal/bot"
	"github.com/sukalov/hibiki/internal/db"
	"github.com/sukalov/hibiki/internal/logger"
	"github.com/sukalov/hibiki/internal/lyrics"
)

// SongEditor is the part of the songbook admins can change.
type SongEditor interface {
	Load(ctx context.Context) error
	Len() int
	Add(ctx context.Context, song db.Song) (db.Song, error)
	UpdateSource(ctx context.Context, songID, source string) error
	FormatSongName(song db.Song) string
}

// Importer converts a chord page into hibiki source.
type Importer interface {
	Import(ctx context.Context, url string) (*lyrics.LyricsResult, error)
}

type AdminHandlers struct {
	songs    SongEditor
	importer Importer
	admins   map[string]bool
}

func NewAdminHandlers(songs SongEditor, importer Importer, adminUsernames []string) *AdminHandlers {
	admins := make(map[string]bool)
	for _, username := range adminUsernames {
		admins[strings.TrimPrefix(username, "@")] = true
	}

	return &AdminHandlers{
		songs:    songs,
		importer: importer,
		admins:   admins,
	}
}

// CommandHandlers returns the admin commands, each refusing non-admins.
func (h *AdminHandlers) CommandHandlers() map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{
		"reload":    h.onlyAdmins(h.reloadHandler),
		"addsong":   h.onlyAdmins(h.addSongHandler),
		"setsource": h.onlyAdmins(h.setSourceHandler),
	}
}

func (h *AdminHandlers) onlyAdmins(handler bot.HandlerFunc) bot.HandlerFunc {
	return func(b *bot.Bot, update tgbotapi.Update) error {
		message := update.Message
		if message.From == nil || !h.admins[message.From.UserName] {
			return b.SendMessage(message.Chat.ID, "вы не админ")
		}
		return handler(b, update)
	}
}

func (h *AdminHandlers) reloadHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	loadErr := h.songs.Load(context.Background())
	if err := logger.LogWithErr("songbook reload", loadErr); err != nil {
		_ = b.SendMessage(chatID, fmt.Sprintf("ошибка при загрузке сонгбука: %v", loadErr))
		return err
	}
	return b.SendMessage(chatID, fmt.Sprintf("сонгбук перезагружен, песен: %d", h.songs.Len()))
}

// addSongHandler handles /addsong <url> <artist - title>.
func (h *AdminHandlers) addSongHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	url, title, ok := strings.Cut(strings.TrimSpace(update.Message.CommandArguments()), " ")
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		return b.SendMessage(chatID, "формат: /addsong <ссылка> <артист - название>")
	}

	result, err := h.importer.Import(context.Background(), url)
	if err != nil {
		return b.SendMessage(chatID, fmt.Sprintf("не получилось перевести аккорды: %v", err))
	}

	song := parseTitle(title)
	song.Link = url
	song.Source = result.Text

	added, err := h.songs.Add(context.Background(), song)
	if err != nil {
		_ = b.SendMessage(chatID, fmt.Sprintf("ошибка при сохранении: %v", err))
		return err
	}

	return b.SendMessage(chatID, fmt.Sprintf("добавлена песня %s\n\n/song %s", h.songs.FormatSongName(added), added.ID))
}

// setSourceHandler handles /setsource <id> <url>.
func (h *AdminHandlers) setSourceHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	fields := strings.Fields(update.Message.CommandArguments())
	if len(fields) != 2 {
		return b.SendMessage(chatID, "формат: /setsource <id> <ссылка>")
	}

	result, err := h.importer.Import(context.Background(), fields[1])
	if err != nil {
		return b.SendMessage(chatID, fmt.Sprintf("не получилось перевести аккорды: %v", err))
	}

	if err := h.songs.UpdateSource(context.Background(), fields[0], result.Text); err != nil {
		return b.SendMessage(chatID, fmt.Sprintf("ошибка при сохранении: %v", err))
	}
	return b.SendMessage(chatID, "аккорды обновлены")
}

// parseTitle splits "Artist - Title"; without a dash the whole text is the
// title.
func parseTitle(text string) db.Song {
	artist, title, ok := strings.Cut(text, " - ")
	if !ok {
		return db.Song{Title: strings.TrimSpace(text)}
	}
	return db.Song{
		Title:  strings.TrimSpace(title),
		Artist: sql.NullString{String: strings.TrimSpace(artist), Valid: true},
	}
}
