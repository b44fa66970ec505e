package logger

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sukalov/hibiki/internal/utils/e"
)

var (
	mu           sync.RWMutex
	console      = zap.NewNop().Sugar()
	botClient    BotClient
	channelID    int64
	channelLevel = zapcore.InfoLevel
	pending      sync.WaitGroup
)

// BotClient delivers log lines to a Telegram channel.
type BotClient interface {
	SendMessage(chatID int64, text string) error
}

// Setup builds the console logger. level is a zap level name ("debug",
// "info", ...); development switches to the human readable encoder.
func Setup(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return e.Wrap("invalid log level", err)
	}

	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	l, err := config.Build()
	if err != nil {
		return e.Wrap("failed to build logger", err)
	}

	SetLogger(l)
	return nil
}

// SetLogger replaces the console logger.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	console = l.Sugar()
}

// SetChannel sets (or with a nil client, removes) the channel log sink.
func SetChannel(client BotClient, id int64) {
	mu.Lock()
	defer mu.Unlock()
	botClient = client
	channelID = id
}

func Info(message string) {
	sendLog(zapcore.InfoLevel, "ℹ️ INFO", message)
}

func Warn(message string) {
	sendLog(zapcore.WarnLevel, "⚠️ WARN", message)
}

func Error(message string) {
	sendLog(zapcore.ErrorLevel, "❌ ERROR", message)
}

func Debug(message string) {
	sendLog(zapcore.DebugLevel, "🔍 DEBUG", message)
}

func Success(message string) {
	sendLog(zapcore.InfoLevel, "✅ SUCCESS", message)
}

func sendLog(level zapcore.Level, prefix, message string) {
	mu.RLock()
	sugar, client, chatID := console, botClient, channelID
	mu.RUnlock()

	switch level {
	case zapcore.DebugLevel:
		sugar.Debug(message)
	case zapcore.WarnLevel:
		sugar.Warn(message)
	case zapcore.ErrorLevel:
		sugar.Error(message)
	default:
		sugar.Info(message)
	}

	if client == nil || level < channelLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	pending.Add(1)
	go func() {
		defer pending.Done()
		if err := client.SendMessage(chatID, logMessage); err != nil {
			sugar.Warnw("failed to send log to channel", "error", err, "log", logMessage)
		}
	}()
}

// LogWithErr logs message as Info when err is nil and as Error otherwise,
// returning err wrapped with message.
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	Error(fmt.Sprintf("%s\nError: %v", message, err))
	return e.Wrap(message, err)
}

// Sync waits for pending channel messages and flushes the console logger.
func Sync() {
	pending.Wait()

	mu.RLock()
	sugar := console
	mu.RUnlock()
	_ = sugar.Sync()
}
