// Package bottest provides a fake Telegram API and update builders for
// handler tests.
package bottest

import (
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// FakeAPI records everything sent through it.
type FakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	stopped  bool

	// SendErr is returned by every Send when set.
	SendErr error
}

func (f *FakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.SendErr
}

func (f *FakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *FakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *FakeAPI) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// Messages returns the sent text messages in order.
func (f *FakeAPI) Messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var messages []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// Texts returns the text of every sent message.
func (f *FakeAPI) Texts() []string {
	var texts []string
	for _, msg := range f.Messages() {
		texts = append(texts, msg.Text)
	}
	return texts
}

// Callbacks returns the answered callback queries.
func (f *FakeAPI) Callbacks() []tgbotapi.CallbackConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var callbacks []tgbotapi.CallbackConfig
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			callbacks = append(callbacks, cb)
		}
	}
	return callbacks
}

// Reset forgets everything sent so far.
func (f *FakeAPI) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.requests = nil
}

// TextUpdate is a plain message from username in chatID.
func TextUpdate(chatID int64, username, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: chatID},
			From: &tgbotapi.User{ID: chatID, UserName: username},
		},
	}
}

// CommandUpdate is a message starting with a /command.
func CommandUpdate(chatID int64, username, text string) tgbotapi.Update {
	update := TextUpdate(chatID, username, text)
	command, _, _ := strings.Cut(text, " ")
	update.Message.Entities = []tgbotapi.MessageEntity{{
		Type:   "bot_command",
		Offset: 0,
		Length: len(command),
	}}
	return update
}

// CallbackUpdate is a press on an inline button carrying data.
func CallbackUpdate(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "callback",
			From: &tgbotapi.User{ID: chatID},
			Message: &tgbotapi.Message{
				Chat: &tgbotapi.Chat{ID: chatID},
			},
			Data: data,
		},
	}
}
