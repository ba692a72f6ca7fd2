package detect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/docnav/pkg/toc"
)

// Framework identifies the generator of an HTML document
type Framework string

const (
	FrameworkUnknown     Framework = "unknown"
	FrameworkDocusaurus  Framework = "docusaurus"
	FrameworkMkDocs      Framework = "mkdocs"
	FrameworkNextra      Framework = "nextra"
	FrameworkSphinx      Framework = "sphinx"
	FrameworkGitBook     Framework = "gitbook"
	FrameworkReadTheDocs Framework = "readthedocs"
)

// Result is the outcome of content selector detection for one document
type Result struct {
	Framework Framework
	Selector  string // a single CSS selector present in the document
	Fallback  bool   // true when no framework was recognised
}

// Detector picks content selectors for HTML documents whose collection is
// configured with the "auto" selector. The framework is detected once per
// collection; the concrete selector is resolved for every document.
type Detector struct {
	cache *frameworkCache
	log   *logrus.Entry
}

// NewDetector creates a detector with an empty per-collection cache
func NewDetector(log *logrus.Entry) *Detector {
	return &Detector{
		cache: newFrameworkCache(),
		log:   log,
	}
}

// Detect returns the content selector to use for doc, a document of collection key.
func (d *Detector) Detect(doc *goquery.Document, key string) Result {
	fw, ok := d.cache.get(key)
	if !ok {
		fw = detectFramework(doc)
		d.cache.set(key, fw)
		if fw == FrameworkUnknown {
			d.log.WithField("collection", key).Debug("No documentation framework recognised, using generic content selectors")
		} else {
			d.log.WithField("collection", key).Infof("Detected %s framework", fw)
		}
	}

	if fw != FrameworkUnknown {
		if sel := firstPresent(doc, FrameworkSelectors(fw)); sel != "" {
			return Result{Framework: fw, Selector: sel}
		}
		d.log.WithField("collection", key).Debugf("No %s content region in document, using generic content selectors", fw)
	}
	return Result{Framework: fw, Selector: firstPresent(doc, fallbackSelectors), Fallback: true}
}

// SelectorFunc adapts the detector to toc.ExtractHTMLFunc for collection key.
// Selectors other than "auto" are passed through unchanged.
func (d *Detector) SelectorFunc(key, selector string) toc.SelectorFunc {
	if !IsAutoSelector(selector) {
		return func(*goquery.Document) string { return selector }
	}
	return func(doc *goquery.Document) string {
		return d.Detect(doc, key).Selector
	}
}

// Reset forgets every cached framework, so changed collections are re-detected
func (d *Detector) Reset() {
	d.cache.clear()
}

func detectFramework(doc *goquery.Document) Framework {
	html, err := doc.Html()
	if err != nil {
		html = ""
	}
	html = strings.ToLower(html)
	for i := range signatures {
		if signatures[i].Matches(doc, html) {
			return signatures[i].Framework
		}
	}
	return FrameworkUnknown
}

// firstPresent returns the first candidate that matches an element of doc
func firstPresent(doc *goquery.Document, candidates []string) string {
	for _, sel := range candidates {
		if doc.Find(sel).Length() > 0 {
			return sel
		}
	}
	return ""
}

// IsAutoSelector reports whether selector asks for detection
func IsAutoSelector(selector string) bool {
	return strings.EqualFold(strings.TrimSpace(selector), "auto")
}
