package bot

import (
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukalov/hibiki/internal/bot/bottest"
	"github.com/sukalov/hibiki/internal/utils"
)

func TestProcessUpdate(t *testing.T) {
	var calls []string
	record := func(name string) HandlerFunc {
		return func(b *Bot, update tgbotapi.Update) error {
			calls = append(calls, name)
			return nil
		}
	}

	commands := map[string]HandlerFunc{"song": record("song")}
	messages := []HandlerFunc{record("message")}
	callbacks := map[string]HandlerFunc{"song": record("callback")}

	b := NewWithAPI("test", &bottest.FakeAPI{}, nil)

	b.ProcessUpdate(bottest.CommandUpdate(1, "anna", "/song 42"), commands, messages, callbacks)
	b.ProcessUpdate(bottest.CommandUpdate(1, "anna", "/unknown"), commands, messages, callbacks)
	b.ProcessUpdate(bottest.TextUpdate(1, "anna", "[Verse]"), commands, messages, callbacks)
	b.ProcessUpdate(bottest.CallbackUpdate(1, "song:42"), commands, messages, callbacks)
	b.ProcessUpdate(bottest.CallbackUpdate(1, "other"), commands, messages, callbacks)

	assert.Equal(t, []string{"song", "message", "message", "callback"}, calls)
}

func TestProcessUpdate_HandlerError(t *testing.T) {
	failing := func(b *Bot, update tgbotapi.Update) error { return errors.New("boom") }
	b := NewWithAPI("test", &bottest.FakeAPI{}, nil)

	assert.NotPanics(t, func() {
		b.ProcessUpdate(bottest.CommandUpdate(1, "anna", "/song"), map[string]HandlerFunc{"song": failing}, nil, nil)
		b.ProcessUpdate(bottest.TextUpdate(1, "anna", "hi"), nil, []HandlerFunc{failing}, nil)
	})
}

func TestSendCode(t *testing.T) {
	api := &bottest.FakeAPI{}
	b := NewWithAPI("test", api, nil)

	require.NoError(t, b.SendCode(5, "[Припев]\n  Am   G\nПропой 🎸\n\n\n"))

	messages := api.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, int64(5), messages[0].ChatID)
	assert.Equal(t, "[Припев]\n  Am   G\nПропой 🎸", messages[0].Text)
	require.Len(t, messages[0].Entities, 1)
	assert.Equal(t, "pre", messages[0].Entities[0].Type)
	// the guitar is two UTF-16 code units
	assert.Equal(t, 27, messages[0].Entities[0].Length)
}

func TestSendCode_Chunks(t *testing.T) {
	api := &bottest.FakeAPI{}
	b := NewWithAPI("test", api, nil)

	line := strings.Repeat("la ", 30) + "\n"
	text := strings.Repeat(line, 300)

	require.NoError(t, b.SendCode(1, text))

	messages := api.Messages()
	require.Greater(t, len(messages), 1)

	var joined strings.Builder
	for _, msg := range messages {
		assert.LessOrEqual(t, utils.UTF16Len(msg.Text), MessageLimit)
		assert.False(t, strings.HasSuffix(msg.Text, "\n"))
		joined.WriteString(msg.Text + "\n")
	}
	assert.Equal(t, text, joined.String())
}

func TestSendCode_ChunksEmoji(t *testing.T) {
	api := &bottest.FakeAPI{}
	b := NewWithAPI("test", api, nil)

	// 2100 guitars are 4200 UTF-16 units but only 2100 runes
	line := strings.Repeat("🎸", 30) + "\n"
	text := strings.Repeat(line, 70)

	require.NoError(t, b.SendCode(1, text))

	messages := api.Messages()
	require.Len(t, messages, 2)
	for _, msg := range messages {
		assert.LessOrEqual(t, utils.UTF16Len(msg.Text), MessageLimit)
		assert.Equal(t, utils.UTF16Len(msg.Text), msg.Entities[0].Length)
	}
}

func TestSendCode_Error(t *testing.T) {
	api := &bottest.FakeAPI{SendErr: errors.New("flood wait")}
	b := NewWithAPI("test", api, nil)

	assert.EqualError(t, b.SendCode(1, "text"), "flood wait")
}

func TestStartStop(t *testing.T) {
	api := &bottest.FakeAPI{}
	updates := make(chan tgbotapi.Update)
	b := NewWithAPI("test", api, updates)

	handled := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Start(nil, []HandlerFunc{func(b *Bot, update tgbotapi.Update) error {
			close(handled)
			return nil
		}}, nil)
	}()

	updates <- bottest.TextUpdate(1, "anna", "hi")
	<-handled

	b.Stop()
	b.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
	assert.True(t, api.Stopped())
}

func TestStart_ClosedUpdates(t *testing.T) {
	updates := make(chan tgbotapi.Update)
	close(updates)

	b := NewWithAPI("test", &bottest.FakeAPI{}, updates)
	b.Start(nil, nil, nil)
}
