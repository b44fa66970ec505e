package amdm

import (
	"time"
)

// LyricsResult represents the extracted chord sheet
type LyricsResult struct {
	URL string `json:"url"`
	// Text is the sheet in hibiki notation.
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// SectionType represents different song sections as amdm.ru names them
type SectionType string

const (
	SectionVerse  SectionType = "Куплет"
	SectionChorus SectionType = "Припев"
	SectionBridge SectionType = "Переход"
	SectionIntro  SectionType = "Вступление"
	SectionSolo   SectionType = "Проигрыш"
	SectionOutro  SectionType = "Кода"
)

// ProcessingConfig holds configuration for text processing
type ProcessingConfig struct {
	// SkipSections are left out of the sheet entirely.
	SkipSections []SectionType
	// DefaultSection names lines that appear before the first section marker.
	DefaultSection string
}
