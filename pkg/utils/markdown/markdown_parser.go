package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Parser renders post bodies. Raw HTML is never passed through.
type Parser struct {
	md goldmark.Markdown
}

// New returns a parser with GFM, typographic quotes, heading ids and hard
// line breaks, plus any extra extensions.
func New(extra ...goldmark.Extender) *Parser {
	exts := append([]goldmark.Extender{extension.GFM, extension.Typographer}, extra...)
	return &Parser{md: goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)}
}

func (p *Parser) Parse(source string) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var posts = New()

// ParseMD renders source with the default post parser.
func ParseMD(source string) (string, error) {
	return posts.Parse(source)
}
