package amdm

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// chord diagram blocks, not chord names
	chordDiagramRegex  = regexp.MustCompile(`(?s)<div[^>]*class="podbor__chord"[^>]*>.*?</div>`)
	authorCommentRegex = regexp.MustCompile(`(?s)<span[^>]*class="podbor__author-comment"[^>]*>.*?</span>`)
	blockCommentRegex  = regexp.MustCompile(`/\*[^*]*\*/`)
	openCommentRegex   = regexp.MustCompile(`(?m)/\*.*$`)
)

// processHtmlContent turns the inner HTML of the chords block into hibiki
// source
func (p *Parser) processHtmlContent(originalHtml string) string {
	processedHtml := chordDiagramRegex.ReplaceAllString(originalHtml, "\n")
	processedHtml = authorCommentRegex.ReplaceAllString(processedHtml, "")
	processedHtml = blockCommentRegex.ReplaceAllString(processedHtml, "")
	processedHtml = openCommentRegex.ReplaceAllString(processedHtml, "")

	// the fragment is wrapped in <pre> so goquery keeps its whitespace
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<pre>" + processedHtml + "</pre>"))
	if err != nil {
		return ""
	}

	return p.processTextLines(doc.Find("pre").First().Text())
}
