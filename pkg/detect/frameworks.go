package detect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Signature describes how to recognise pages generated by one documentation framework
type Signature struct {
	Framework    Framework
	Selectors    []string // content region candidates, most specific first
	Attributes   []string // attributes whose presence identifies the framework
	Classes      []string // class names; a trailing '*' matches by prefix
	Scripts      []string // substrings of script src values
	HTMLPatterns []string // case-insensitive substrings of the raw page
}

// Matches reports whether doc carries any marker of this framework.
// html is the lowercased page source.
func (sig *Signature) Matches(doc *goquery.Document, html string) bool {
	for _, attr := range sig.Attributes {
		if doc.Find("["+attr+"]").Length() > 0 {
			return true
		}
	}
	for _, class := range sig.Classes {
		if hasClass(doc, class) {
			return true
		}
	}
	for _, pattern := range sig.Scripts {
		if hasScript(doc, pattern) {
			return true
		}
	}
	for _, pattern := range sig.HTMLPatterns {
		if strings.Contains(html, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

func hasClass(doc *goquery.Document, class string) bool {
	prefix, wildcard := strings.CutSuffix(class, "*")
	if !wildcard {
		return doc.Find("."+class).Length() > 0
	}
	found := false
	doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, c := range strings.Fields(s.AttrOr("class", "")) {
			if strings.HasPrefix(c, prefix) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func hasScript(doc *goquery.Document, pattern string) bool {
	found := false
	doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.AttrOr("src", ""), pattern) {
			found = true
			return false
		}
		return true
	})
	return found
}

// signatures lists known frameworks. Order matters: ReadTheDocs pages are
// usually Sphinx pages too, so it is checked first.
var signatures = []Signature{
	{
		Framework:    FrameworkDocusaurus,
		Selectors:    []string{".theme-doc-markdown", "article.markdown", "main article"},
		Attributes:   []string{"data-docusaurus", "data-docusaurus-root-container"},
		Classes:      []string{"docusaurus-wrapper", "theme-doc-markdown"},
		HTMLPatterns: []string{"__docusaurus"},
	},
	{
		Framework:    FrameworkMkDocs,
		Selectors:    []string{"article.md-content__inner", ".md-content article", ".md-content"},
		Attributes:   []string{"data-md-component", "data-md-color-scheme"},
		Classes:      []string{"md-content", "md-main"},
		HTMLPatterns: []string{"material for mkdocs"},
	},
	{
		Framework:    FrameworkNextra,
		Selectors:    []string{"article main", ".nextra-content", "main"},
		Classes:      []string{"nextra-sidebar*", "nextra-toc", "nextra-navbar"},
		HTMLPatterns: []string{"nextra-"},
	},
	{
		Framework:    FrameworkReadTheDocs,
		Selectors:    []string{".rst-content", "div[role='main']", ".document"},
		Classes:      []string{"rst-content", "wy-nav-content"},
		Scripts:      []string{"readthedocs"},
		HTMLPatterns: []string{"sphinx-rtd-theme", "readthedocs.io"},
	},
	{
		Framework:    FrameworkSphinx,
		Selectors:    []string{"article.bd-article", "div.body", "div.document"},
		Classes:      []string{"sphinxsidebar", "sphinx-tabs"},
		Scripts:      []string{"searchindex.js", "_static/sphinx"},
		HTMLPatterns: []string{"created using sphinx", "_static/alabaster"},
	},
	{
		Framework:    FrameworkGitBook,
		Selectors:    []string{"section.markdown-section", ".page-inner section"},
		Classes:      []string{"gitbook*", "markdown-section"},
		HTMLPatterns: []string{"gb-page"},
	},
}

// fallbackSelectors are tried in order when no framework is recognised
var fallbackSelectors = []string{"main", "article", "[role='main']", "body"}

// FrameworkSelectors returns the content candidates for a known framework, or nil.
func FrameworkSelectors(fw Framework) []string {
	for _, sig := range signatures {
		if sig.Framework == fw {
			return sig.Selectors
		}
	}
	return nil
}
