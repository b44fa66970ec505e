package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sukalov/hibiki/internal/bot"
	"github.com/sukalov/hibiki/internal/state"
)

const HelpText = `пришлите текст с аккордами в фигурных скобках, и я расставлю аккорды над строчками:

[Куплет]
{Am}Песен ещ{F}ё ненаписанных

раздел начинается с [названия], разделы разделяются пустой строкой. пустой [раздел] с тем же названием повторяет его целиком, (x2) в конце строки повторяет строку

/song <id> - песня из сонгбука
/find <запрос> - поиск по сонгбуку
/import <ссылка> - перевести аккорды с amdm.ru
/cancel - отменить поиск или импорт
/breaks <0-5> - сколько пустых строк оставлять между разделами`

type CommonHandlers struct {
	preferences *state.Preferences
}

// GetCommandHandlers returns the commands every bot answers.
func GetCommandHandlers(preferences *state.Preferences) map[string]bot.HandlerFunc {
	handlers := newCommonHandlers(preferences)
	return map[string]bot.HandlerFunc{
		"help":   handlers.helpHandler,
		"breaks": handlers.breaksHandler,
	}
}

// GetCallbackHandlers returns common callback handlers
func GetCallbackHandlers() map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{}
}

func newCommonHandlers(preferences *state.Preferences) *CommonHandlers {
	return &CommonHandlers{
		preferences: preferences,
	}
}

func (h *CommonHandlers) helpHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessage(update.Message.Chat.ID, HelpText)
}

func (h *CommonHandlers) breaksHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	args := strings.TrimSpace(message.CommandArguments())

	if args == "" {
		return b.SendMessage(message.Chat.ID,
			fmt.Sprintf("сейчас между разделами %d пустых строк", h.preferences.SectionBreaks(message.Chat.ID)))
	}

	n, err := strconv.Atoi(args)
	if err != nil || n < 0 || n > state.MaxSectionBreaks {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("нужно число от 0 до %d", state.MaxSectionBreaks))
	}

	if err := h.preferences.SetSectionBreaks(context.Background(), message.Chat.ID, n); err != nil {
		return b.SendMessage(message.Chat.ID, "не получилось сохранить настройку")
	}
	return b.SendMessage(message.Chat.ID, fmt.Sprintf("готово, теперь %d", n))
}
