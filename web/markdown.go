package web

import (
	"bytes"
	"html/template"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// NoDescription is shown for tasks without a description
const NoDescription = "No description provided"

// newMarkdown renders GitHub flavoured markdown. Raw HTML in descriptions is not passed through.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
}

func (s *Server) renderMarkdown(source string) template.HTML {
	if source == "" {
		source = NoDescription
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(source), &buf); err != nil {
		log.Warn().Err(err).Msg("failed to render markdown")
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}
