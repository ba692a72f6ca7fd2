package toc

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/docnav/pkg/utils"
)

const sampleHTML = `<html><head><title>Docs</title></head>
<body>
  <nav><h2>Site Menu</h2></nav>
  <main>
    <h1>Overview</h1>
    <p>Intro.</p>
    <h2>Installation</h2>
    <p>Steps.</p>
    <h2>Installation</h2>
    <h5>Fine print</h5>
  </main>
</body></html>`

func TestExtractHTML_ContentSelector(t *testing.T) {
	idx, err := ExtractHTML([]byte(sampleHTML), "main")

	require.NoError(t, err)
	assert.Equal(t, []string{"overview", "installation", "installation-1"}, idx.IDs())
	assert.Equal(t, 1, idx[0].Level)
	assert.Equal(t, 2, idx[1].Level)
}

func TestExtractHTML_DefaultsToBodyAndDropsNav(t *testing.T) {
	idx, err := ExtractHTML([]byte(sampleHTML), "")

	require.NoError(t, err)
	assert.False(t, idx.Contains("site-menu"))
	assert.True(t, idx.Contains("overview"))
}

func TestExtractHTML_SelectorNotFound(t *testing.T) {
	_, err := ExtractHTML([]byte(sampleHTML), "article.docs")

	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrContentSelector)
}

func TestExtractHTMLFunc_SelectorChosenFromDocument(t *testing.T) {
	var sawTitle string
	idx, err := ExtractHTMLFunc([]byte(sampleHTML), func(doc *goquery.Document) string {
		sawTitle = doc.Find("title").Text()
		return "main"
	})

	require.NoError(t, err)
	assert.Equal(t, "Docs", sawTitle)
	assert.Equal(t, []string{"overview", "installation", "installation-1"}, idx.IDs())
}
