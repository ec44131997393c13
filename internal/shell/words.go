package shell

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Line is a command line split at the word being typed.
type Line struct {
	// Words holds the complete words of the last simple command, the command
	// name first. Environment assignments are not included.
	Words []string
	// Current is the partial word under the cursor, empty after whitespace.
	Current string
}

// Command returns the command name, or an empty string.
func (l Line) Command() string {
	if len(l.Words) == 0 {
		return l.Current
	}
	return l.Words[0]
}

// Args returns the words after the command name followed by the current word.
func (l Line) Args() []string {
	if len(l.Words) == 0 {
		return nil
	}
	args := make([]string, 0, len(l.Words))
	args = append(args, l.Words[1:]...)
	return append(args, l.Current)
}

// Split tokenizes the text before the cursor. Shell syntax is honoured when
// the text parses; otherwise it falls back to whitespace splitting so that
// unterminated quotes still produce words.
func Split(text string) Line {
	words, ok := parseWords(text)
	if !ok {
		words = strings.Fields(text)
	}
	if len(words) == 0 {
		return Line{}
	}
	if endsWithSpace(text) {
		return Line{Words: words}
	}
	var complete []string
	if len(words) > 1 {
		complete = words[:len(words)-1]
	}
	return Line{Words: complete, Current: words[len(words)-1]}
}

// LastToken returns the text after the final space, as used to size
// replacement ranges.
func LastToken(text string) string {
	if i := strings.LastIndex(text, " "); i >= 0 {
		return text[i+1:]
	}
	return text
}

func endsWithSpace(text string) bool {
	return strings.HasSuffix(text, " ") || strings.HasSuffix(text, "\t")
}

func parseWords(text string) ([]string, bool) {
	var last *syntax.CallExpr
	err := syntax.NewParser().Stmts(strings.NewReader(text), func(stmt *syntax.Stmt) bool {
		syntax.Walk(stmt, func(node syntax.Node) bool {
			if call, ok := node.(*syntax.CallExpr); ok {
				last = call
				return false
			}
			return true
		})
		return true
	})
	if err != nil {
		return nil, false
	}
	if last == nil {
		return nil, true
	}

	words := make([]string, 0, len(last.Args))
	for _, w := range last.Args {
		words = append(words, wordText(w))
	}
	return words, true
}

func wordText(w *syntax.Word) string {
	if lit := w.Lit(); lit != "" {
		return lit
	}
	var b strings.Builder
	for _, part := range w.Parts {
		writePart(&b, part)
	}
	return b.String()
}

func writePart(b *strings.Builder, part syntax.WordPart) {
	switch p := part.(type) {
	case *syntax.Lit:
		b.WriteString(p.Value)
	case *syntax.SglQuoted:
		b.WriteString(p.Value)
	case *syntax.DblQuoted:
		for _, inner := range p.Parts {
			writePart(b, inner)
		}
	default:
		_ = syntax.NewPrinter().Print(b, p)
	}
}
