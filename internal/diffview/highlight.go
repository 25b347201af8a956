package diffview

import (
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter colours source lines by the language of their file.
type Highlighter struct {
	style   *chroma.Style
	lexers  map[string]chroma.Lexer
	enabled bool
}

func NewHighlighter(styleName string, enabled bool) *Highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{style: style, lexers: make(map[string]chroma.Lexer), enabled: enabled}
}

// Language returns the lexer name for fileName, or "" when none matches.
func (h *Highlighter) Language(fileName string) string {
	lexer := h.lexerFor(fileName)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// Line highlights a single line of code (without its diff marker).
func (h *Highlighter) Line(text, fileName string) string {
	if h == nil || !h.enabled || text == "" {
		return text
	}
	lexer := h.lexerFor(fileName)
	if lexer == nil {
		return text
	}
	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}

	var b strings.Builder
	for _, token := range iterator.Tokens() {
		// Lexers may append a newline to single-line input.
		token.Value = strings.TrimRight(token.Value, "\n")
		b.WriteString(h.styleToken(token))
	}
	return b.String()
}

func (h *Highlighter) lexerFor(fileName string) chroma.Lexer {
	if fileName == "" || fileName == UnknownFile {
		return nil
	}
	if lexer, ok := h.lexers[fileName]; ok {
		return lexer
	}

	lexer := lexers.Match(path.Base(fileName))
	if lexer == nil {
		if ext := fileExtension(fileName); ext != "" {
			lexer = lexers.Get(ext)
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	h.lexers[fileName] = lexer
	return lexer
}

func (h *Highlighter) styleToken(token chroma.Token) string {
	entry := h.style.Get(token.Type)
	if !entry.Colour.IsSet() && entry.Bold != chroma.Yes && entry.Italic != chroma.Yes {
		return token.Value
	}

	s := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		s = s.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	return s.Render(token.Value)
}
