package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/sukalov/hibiki/internal/logger"
)

// MaxSectionBreaks bounds the per-chat section break setting.
const MaxSectionBreaks = 5

// Store persists per-chat settings.
type Store interface {
	LoadSectionBreaks(ctx context.Context) (map[int64]int, error)
	SaveSectionBreaks(ctx context.Context, chatID int64, breaks int) error
}

// Preferences holds how each chat wants its sheets rendered.
type Preferences struct {
	mu       sync.RWMutex
	breaks   map[int64]int
	fallback int
	store    Store
}

// NewPreferences creates preferences backed by store, which may be nil.
// Chats without a setting get fallback.
func NewPreferences(store Store, fallback int) *Preferences {
	return &Preferences{
		breaks:   make(map[int64]int),
		fallback: fallback,
		store:    store,
	}
}

// Init loads the stored settings.
func (p *Preferences) Init(ctx context.Context) error {
	if p.store == nil {
		return nil
	}

	breaks, err := p.store.LoadSectionBreaks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for chatID, n := range breaks {
		p.breaks[chatID] = n
	}
	return nil
}

func (p *Preferences) SectionBreaks(chatID int64) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if n, ok := p.breaks[chatID]; ok {
		return n
	}
	return p.fallback
}

// SetSectionBreaks stores the setting for a chat. The in-memory value is kept
// even if the store fails.
func (p *Preferences) SetSectionBreaks(ctx context.Context, chatID int64, breaks int) error {
	if breaks < 0 || breaks > MaxSectionBreaks {
		return fmt.Errorf("section breaks must be between 0 and %d, got %d", MaxSectionBreaks, breaks)
	}

	p.mu.Lock()
	p.breaks[chatID] = breaks
	p.mu.Unlock()

	if p.store == nil {
		return nil
	}
	if err := p.store.SaveSectionBreaks(ctx, chatID, breaks); err != nil {
		logger.Warn(fmt.Sprintf("error happened while saving preferences to redis: %s", err))
		return err
	}
	return nil
}
