package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Sample</title>
  <link rel="stylesheet" href="/styles/main.css">
  <script src="/js/app.js"></script>
</head>
<body>
  <h1 id="top">Sample</h1>
  <a href="/guides">Guides</a>
  <a href="https://example.org/external#section">External</a>
  <a href="">empty is skipped</a>
  <a name="legacy-anchor">old style</a>
  <img src="/img/logo.png" alt="">
  <iframe src="/embed/widget"></iframe>
  <div id="content">
    <p id="top">duplicate id reported once</p>
  </div>
</body>
</html>`

func TestParseHTMLReferences(t *testing.T) {
	doc, err := ParseHTML([]byte(samplePage))
	require.NoError(t, err)

	hrefs := make(map[string]string)
	for _, ref := range doc.References {
		hrefs[ref.Href] = ref.Element
	}

	assert.Equal(t, "a", hrefs["/guides"])
	assert.Equal(t, "a", hrefs["https://example.org/external#section"])
	assert.Equal(t, "link", hrefs["/styles/main.css"])
	assert.Equal(t, "script", hrefs["/js/app.js"])
	assert.Equal(t, "img", hrefs["/img/logo.png"])
	assert.Equal(t, "iframe", hrefs["/embed/widget"])
	assert.NotContains(t, hrefs, "")
}

func TestParseHTMLAnchors(t *testing.T) {
	doc, err := ParseHTML([]byte(samplePage))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"top", "content", "legacy-anchor"}, doc.Anchors)
}

func TestParseCSS(t *testing.T) {
	css := `@import "base.css";
@import url("theme.css");
body { background: url(../img/bg.png); }
.icon { content: url( 'sprite.svg' ); }
.inline { background: url(data:image/png;base64,AAAA); }`

	doc := ParseCSS([]byte(css))

	hrefs := make([]string, 0, len(doc.References))
	for _, ref := range doc.References {
		hrefs = append(hrefs, ref.Href)
	}
	assert.ElementsMatch(t, []string{"base.css", "theme.css", "../img/bg.png", "sprite.svg"}, hrefs)
	assert.Empty(t, doc.Anchors)
}

func TestParseDispatch(t *testing.T) {
	doc, ok := Parse([]byte(samplePage), "text", "html")
	require.True(t, ok)
	assert.NotEmpty(t, doc.References)

	doc, ok = Parse([]byte("body{color:red}"), "text", "css")
	require.True(t, ok)
	assert.Empty(t, doc.References)

	doc, ok = Parse([]byte{0x89, 0x50, 0x4e, 0x47}, "image", "png")
	assert.False(t, ok)
	assert.Nil(t, doc)

	doc, ok = Parse([]byte("plain text"), "text", "plain")
	assert.False(t, ok)
	assert.Nil(t, doc)
}
