package bot

import (
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sukalov/hibiki/internal/logger"
	"github.com/sukalov/hibiki/internal/utils"
)

// MessageLimit is the longest text Telegram accepts in one message.
const MessageLimit = 4096

// codeChunkSize leaves room under MessageLimit for chunks that end up a
// little longer after line breaking. Both count UTF-16 code units.
const codeChunkSize = 4000

// API is the part of tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	StopReceivingUpdates()
}

// HandlerFunc handles one update.
type HandlerFunc = func(b *Bot, update tgbotapi.Update) error

// Bot represents a configurable Telegram bot
type Bot struct {
	Client     API
	updateChan tgbotapi.UpdatesChannel
	stopChan   chan struct{}
	name       string
	username   string
	stopOnce   sync.Once
}

// New creates a new bot instance
func New(name, token string) (*Bot, error) {
	botClient, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan := botClient.GetUpdatesChan(updateConfig)

	b := NewWithAPI(name, botClient, updateChan)
	b.username = botClient.Self.UserName
	return b, nil
}

// NewWithAPI wraps an existing client. updates may be nil when the bot is
// only used to send messages.
func NewWithAPI(name string, client API, updates tgbotapi.UpdatesChannel) *Bot {
	return &Bot{
		Client:     client,
		updateChan: updates,
		stopChan:   make(chan struct{}),
		name:       name,
	}
}

// Start processes updates with the given handlers until Stop is called.
// Commands are matched by name, callbacks by the part of their data before
// the first ':'.
func (b *Bot) Start(
	commandHandlers map[string]HandlerFunc,
	messageHandlers []HandlerFunc,
	callbackHandlers map[string]HandlerFunc,
) {
	logger.Info(fmt.Sprintf("[%s] authorized on account %s", b.name, b.username))

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case update, ok := <-b.updateChan:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.ProcessUpdate(update, commandHandlers, messageHandlers, callbackHandlers)
			}()
		case <-b.stopChan:
			return
		}
	}
}

// ProcessUpdate dispatches a single update to the matching handler.
func (b *Bot) ProcessUpdate(
	update tgbotapi.Update,
	commandHandlers map[string]HandlerFunc,
	messageHandlers []HandlerFunc,
	callbackHandlers map[string]HandlerFunc,
) {
	if update.Message != nil && update.Message.IsCommand() {
		if handler, exists := commandHandlers[update.Message.Command()]; exists {
			if err := handler(b, update); err != nil {
				logger.Error(fmt.Sprintf("[%s] command handler error: %v", b.name, err))
			}
			return
		}
	}

	if update.CallbackQuery != nil {
		key, _, _ := strings.Cut(update.CallbackQuery.Data, ":")
		if handler, exists := callbackHandlers[key]; exists {
			if err := handler(b, update); err != nil {
				logger.Error(fmt.Sprintf("[%s] callback handler error: %v", b.name, err))
			}
		}
		return
	}

	for _, handler := range messageHandlers {
		if err := handler(b, update); err != nil {
			logger.Error(fmt.Sprintf("[%s] message handler error: %v", b.name, err))
		}
	}
}

// Stop halts the bot
func (b *Bot) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.Client.StopReceivingUpdates()
	})
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithButtons(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := b.Client.Send(msg)
	return err
}

// SendCode sends text in monospace, split over as many messages as needed.
// Lines are kept whole where possible so chord columns stay aligned.
func (b *Bot) SendCode(chatID int64, text string) error {
	for _, chunk := range utils.ChunkLines(text, codeChunkSize) {
		chunk = strings.TrimRight(chunk, "\n")
		if chunk == "" {
			continue
		}
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.Entities = []tgbotapi.MessageEntity{{
			Type:   "pre",
			Offset: 0,
			Length: utils.UTF16Len(chunk),
		}}
		if _, err := b.Client.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

// AnswerCallback stops the loading indicator on a pressed inline button.
func (b *Bot) AnswerCallback(query *tgbotapi.CallbackQuery, text string) error {
	_, err := b.Client.Request(tgbotapi.NewCallback(query.ID, text))
	return err
}
