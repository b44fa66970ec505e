package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sukalov/hibiki/internal/bot"
	"github.com/sukalov/hibiki/internal/bot/common"
	"github.com/sukalov/hibiki/internal/db"
	"github.com/sukalov/hibiki/internal/hibiki"
	"github.com/sukalov/hibiki/internal/lyrics"
	"github.com/sukalov/hibiki/internal/state"
	"github.com/sukalov/hibiki/internal/users"
)

// maxSearchResults keeps the result keyboard a reasonable size.
const maxSearchResults = 10

// SheetService renders and imports chord sheets.
type SheetService interface {
	Render(ctx context.Context, source string, sectionBreaks int) (string, error)
	RenderSong(ctx context.Context, id string, sectionBreaks int) (db.Song, string, error)
	Import(ctx context.Context, url string) (*lyrics.LyricsResult, error)
}

// SongIndex searches the songbook.
type SongIndex interface {
	SearchSongs(query string) []db.Song
	FormatSongName(song db.Song) string
}

type ClientHandlers struct {
	service     SheetService
	songs       SongIndex
	sessions    *users.SessionManager
	preferences *state.Preferences
}

// NewClientHandlers creates the handlers of the public bot. songs may be nil
// when no songbook is configured.
func NewClientHandlers(service SheetService, songs SongIndex, sessions *users.SessionManager, preferences *state.Preferences) *ClientHandlers {
	return &ClientHandlers{
		service:     service,
		songs:       songs,
		sessions:    sessions,
		preferences: preferences,
	}
}

func (h *ClientHandlers) CommandHandlers() map[string]bot.HandlerFunc {
	commandHandlers := common.GetCommandHandlers(h.preferences)
	commandHandlers["start"] = h.startHandler
	commandHandlers["song"] = h.songHandler
	commandHandlers["find"] = h.findHandler
	commandHandlers["import"] = h.importHandler
	commandHandlers["cancel"] = h.cancelHandler
	return commandHandlers
}

func (h *ClientHandlers) MessageHandlers() []bot.HandlerFunc {
	return []bot.HandlerFunc{h.messageHandler}
}

func (h *ClientHandlers) CallbackHandlers() map[string]bot.HandlerFunc {
	callbackHandlers := common.GetCallbackHandlers()
	callbackHandlers["song"] = h.songCallbackHandler
	return callbackHandlers
}

// startHandler answers /start and deep links of the form /start <song id>.
func (h *ClientHandlers) startHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if songID := strings.TrimSpace(message.CommandArguments()); songID != "" {
		return h.sendSong(b, message.Chat.ID, songID)
	}
	return b.SendMessage(message.Chat.ID, "привет!\n\n"+common.HelpText)
}

func (h *ClientHandlers) songHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	songID := strings.TrimSpace(message.CommandArguments())
	if songID == "" {
		return b.SendMessage(message.Chat.ID, "напишите id песни: /song <id>")
	}
	return h.sendSong(b, message.Chat.ID, songID)
}

func (h *ClientHandlers) findHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	query := strings.TrimSpace(message.CommandArguments())
	if query == "" {
		h.sessions.SetStage(message.Chat.ID, message.From.UserName, users.StageAwaitingQuery)
		return b.SendMessage(message.Chat.ID, "напишите название песни или артиста")
	}
	return h.search(b, message.Chat.ID, query)
}

func (h *ClientHandlers) importHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	url := strings.TrimSpace(message.CommandArguments())
	if url == "" {
		h.sessions.SetStage(message.Chat.ID, message.From.UserName, users.StageAwaitingURL)
		return b.SendMessage(message.Chat.ID, "пришлите ссылку на песню с amdm.ru")
	}
	return h.importURL(b, message.Chat.ID, url)
}

// cancelHandler drops a pending /find or /import question.
func (h *ClientHandlers) cancelHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	session, ok := h.sessions.Get(chatID)
	if !ok {
		return b.SendMessage(chatID, "нечего отменять")
	}

	h.sessions.SetStage(chatID, session.Username, users.StageIdle)
	switch session.Stage {
	case users.StageAwaitingQuery:
		return b.SendMessage(chatID, "поиск отменён")
	case users.StageAwaitingURL:
		return b.SendMessage(chatID, "импорт отменён")
	}
	return b.SendMessage(chatID, "отменено")
}

func (h *ClientHandlers) songCallbackHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	if err := b.AnswerCallback(query, ""); err != nil {
		return err
	}
	if query.Message == nil {
		return nil
	}
	return h.sendSong(b, query.Message.Chat.ID, strings.TrimPrefix(query.Data, "song:"))
}

// messageHandler renders plain text, unless the chat was asked for a search
// query or a link.
func (h *ClientHandlers) messageHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if message == nil || strings.TrimSpace(message.Text) == "" {
		return nil
	}
	if message.IsCommand() {
		return b.SendMessage(message.Chat.ID, "этого я не понимаю...\n\n/help")
	}

	switch h.sessions.Take(message.Chat.ID) {
	case users.StageAwaitingQuery:
		return h.search(b, message.Chat.ID, message.Text)
	case users.StageAwaitingURL:
		return h.importURL(b, message.Chat.ID, strings.TrimSpace(message.Text))
	}

	return h.renderText(b, message.Chat.ID, message.Text)
}

func (h *ClientHandlers) renderText(b *bot.Bot, chatID int64, text string) error {
	rendered, err := h.service.Render(context.Background(), text, h.preferences.SectionBreaks(chatID))
	if err != nil {
		if errors.Is(err, hibiki.ErrDocument) {
			return b.SendMessage(chatID, "ошибка в тексте: "+err.Error())
		}
		_ = b.SendMessage(chatID, "произошла ошибка, попробуйте позже")
		return err
	}

	if strings.TrimSpace(rendered) == "" {
		return b.SendMessage(chatID, "не нашёл ни одного раздела. начните текст с [названия]\n\n/help")
	}
	return b.SendCode(chatID, rendered)
}

func (h *ClientHandlers) sendSong(b *bot.Bot, chatID int64, songID string) error {
	song, rendered, err := h.service.RenderSong(context.Background(), songID, h.preferences.SectionBreaks(chatID))
	switch {
	case errors.Is(err, db.ErrSongNotFound):
		return b.SendMessage(chatID, "извините, песни с таким id нет")
	case errors.Is(err, lyrics.ErrNoSource):
		return b.SendMessage(chatID, "у этой песни пока нет аккордов")
	case errors.Is(err, hibiki.ErrDocument):
		return b.SendMessage(chatID, "в аккордах этой песни ошибка: "+err.Error())
	case err != nil:
		_ = b.SendMessage(chatID, "произошла ошибка при поиске песни")
		return err
	}

	if err := b.SendMessage(chatID, h.songName(song)); err != nil {
		return err
	}
	return b.SendCode(chatID, rendered)
}

func (h *ClientHandlers) search(b *bot.Bot, chatID int64, query string) error {
	if h.songs == nil {
		return b.SendMessage(chatID, "сонгбук не подключён")
	}

	text, keyboard, found := searchResults(h.songs.SearchSongs(query), h.songName)
	if !found {
		return b.SendMessage(chatID, "ничего не найдено")
	}
	return b.SendMessageWithButtons(chatID, text, keyboard)
}

func (h *ClientHandlers) importURL(b *bot.Bot, chatID int64, url string) error {
	result, err := h.service.Import(context.Background(), url)
	if err != nil {
		return b.SendMessage(chatID, "не получилось перевести аккорды: "+err.Error())
	}
	if strings.TrimSpace(result.Text) == "" {
		return b.SendMessage(chatID, "на странице не нашлось аккордов")
	}
	return b.SendCode(chatID, result.Text)
}

func (h *ClientHandlers) songName(song db.Song) string {
	if h.songs == nil {
		return song.Title
	}
	return h.songs.FormatSongName(song)
}

// searchResults builds the reply to a search: one button per song, at most
// maxSearchResults of them.
func searchResults(results []db.Song, name func(db.Song) string) (string, tgbotapi.InlineKeyboardMarkup, bool) {
	if len(results) == 0 {
		return "", tgbotapi.InlineKeyboardMarkup{}, false
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, song := range results {
		if len(rows) >= maxSearchResults {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name(song), "song:"+song.ID),
		))
	}

	text := "найденные песни:"
	if len(results) > maxSearchResults {
		text += fmt.Sprintf("\n(показаны первые %d из %d)", maxSearchResults, len(results))
	}
	return text, tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// SetupHandlers starts clientBot with the public handlers plus extra
// commands, such as the admin ones. The returned channel is closed once the
// bot has stopped and every handler has returned.
func SetupHandlers(clientBot *bot.Bot, handlers *ClientHandlers, extra map[string]bot.HandlerFunc) <-chan struct{} {
	commandHandlers := handlers.CommandHandlers()
	for name, handler := range extra {
		commandHandlers[name] = handler
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		clientBot.Start(
			commandHandlers,
			handlers.MessageHandlers(),
			handlers.CallbackHandlers(),
		)
	}()
	return done
}
