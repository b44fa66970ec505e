package amdm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sukalov/hibiki/internal/hibiki"
	"github.com/sukalov/hibiki/internal/logger"
)

// chordsBlockSelector finds <pre itemprop="chordsBlock" class="field__podbor_new podbor__text">
const chordsBlockSelector = `pre[itemprop="chordsBlock"].field__podbor_new.podbor__text`

// Parser handles the HTML parsing and chord sheet extraction
type Parser struct {
	client *Client
	config *ProcessingConfig
}

// NewParser creates a new AmDm parser
func NewParser() *Parser {
	return NewParserWithClient(NewClient())
}

// NewParserWithClient creates a parser that fetches pages through client
func NewParserWithClient(client *Client) *Parser {
	config := &ProcessingConfig{
		DefaultSection: "Текст",
	}

	return &Parser{
		client: client,
		config: config,
	}
}

// ExtractLyricsFromAmdm extracts a chord sheet from an AmDm.ru page and
// converts it to hibiki notation
func (p *Parser) ExtractLyricsFromAmdm(ctx context.Context, url string) (*LyricsResult, error) {
	logger.Debug(fmt.Sprintf("ExtractLyricsFromAmdm: Fetching page %s", url))

	html, err := p.client.FetchPage(ctx, url)
	if err != nil {
		logger.Error(fmt.Sprintf("ExtractLyricsFromAmdm: Failed to fetch page %s\nError: %v", url, err))
		return &LyricsResult{
			URL:     url,
			Success: false,
			Error:   err.Error(),
		}, err
	}

	logger.Debug(fmt.Sprintf("ExtractLyricsFromAmdm: Successfully fetched page %s (HTML length: %d chars)", url, len(html)))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Error(fmt.Sprintf("ExtractLyricsFromAmdm: Failed to parse HTML for %s\nError: %v", url, err))
		return &LyricsResult{
			URL:     url,
			Success: false,
			Error:   fmt.Sprintf("failed to parse HTML: %v", err),
		}, err
	}

	selection := doc.Find(chordsBlockSelector)
	if selection.Length() == 0 {
		logger.Error(fmt.Sprintf("ExtractLyricsFromAmdm: Target element not found for URL %s\nSearched for: %s", url, chordsBlockSelector))
		return &LyricsResult{
			URL:     url,
			Success: false,
			Error:   "Could not find target element with chords and lyrics",
		}, fmt.Errorf("target element not found")
	}

	originalHtml, err := selection.First().Html()
	if err != nil {
		return &LyricsResult{URL: url, Success: false, Error: err.Error()}, err
	}

	logger.Debug(fmt.Sprintf("ExtractLyricsFromAmdm: Extracted original HTML content (length: %d chars)", len(originalHtml)))

	source := p.processHtmlContent(originalHtml)

	// the conversion should always produce a renderable sheet
	if _, err := hibiki.Render(source, hibiki.DefaultSectionBreaks); err != nil {
		logger.Warn(fmt.Sprintf("ExtractLyricsFromAmdm: converted sheet for %s does not render: %v", url, err))
	}

	logger.Success(fmt.Sprintf("ExtractLyricsFromAmdm: converted %s (%d chars)", url, len(source)))

	return &LyricsResult{
		URL:       url,
		Text:      source,
		FetchedAt: time.Now(),
		Success:   true,
	}, nil
}
