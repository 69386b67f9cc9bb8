package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer escapes raw HTML in descriptions (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Markdown converts a free-text description into safe HTML. Empty input
// renders nothing.
func Markdown(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		log.Warn().Err(err).Msg("failed to render markdown, falling back to escaped text")
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
