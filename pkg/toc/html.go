package toc

import (
	"bytes"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/docnav/pkg/utils"
)

// SelectorFunc picks the content selector for a parsed HTML document
type SelectorFunc func(doc *goquery.Document) string

// ExtractHTML narrows an HTML document to contentSelector (default "body"),
// converts that region to markdown and extracts its headings.
func ExtractHTML(html []byte, contentSelector string) (SectionIndex, error) {
	return ExtractHTMLFunc(html, func(*goquery.Document) string { return contentSelector })
}

// ExtractHTMLFunc is ExtractHTML with the selector chosen after parsing.
func ExtractHTMLFunc(html []byte, pick SelectorFunc) (SectionIndex, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: HTML document: %w", utils.ErrParsing, err)
	}

	contentSelector := pick(doc)
	if contentSelector == "" {
		contentSelector = "body"
	}

	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		return nil, fmt.Errorf("%w: '%s'", utils.ErrContentSelector, contentSelector)
	}

	// Chrome inside the content region would otherwise show up as headings.
	content.Find("script, style, nav, aside").Remove()

	contentHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, fmt.Errorf("%w: serializing content region: %w", utils.ErrParsing, err)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(contentHTML)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrMarkdownConvert, err)
	}

	return ExtractMarkdown([]byte(markdown)), nil
}
