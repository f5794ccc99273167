package compactor

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// span is a half-open byte range [start, stop) of the source.
type span struct {
	start, stop int
}

// StripMarkdownComments removes HTML comments from a Markdown document and
// drops blank lines. Comments inside code spans and fenced or indented code
// blocks are kept since goldmark does not report them as raw HTML. Passes
// repeat until the text stops changing.
func StripMarkdownComments(src string) string {
	out := stripMarkdownOnce(src)
	for out != src {
		src = out
		out = stripMarkdownOnce(src)
	}
	return out
}

func stripMarkdownOnce(src string) string {
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var spans []span
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.HTMLBlock:
			if node.HTMLBlockType != ast.HTMLBlockType2 {
				return ast.WalkSkipChildren, nil
			}
			lines := node.Lines()
			if lines.Len() == 0 {
				return ast.WalkSkipChildren, nil
			}
			start, stop := lines.At(0).Start, lines.At(lines.Len()-1).Stop
			if node.HasClosure() {
				stop = node.ClosureLine.Stop
			}
			// The block runs to the end of the closing line; only the
			// comment itself is cut so trailing text survives.
			for _, loc := range markupCommentRe.FindAllIndex(source[start:stop], -1) {
				spans = append(spans, span{start + loc[0], start + loc[1]})
			}
			return ast.WalkSkipChildren, nil

		case *ast.RawHTML:
			if node.Segments.Len() == 0 {
				return ast.WalkContinue, nil
			}
			first := node.Segments.At(0)
			if !strings.HasPrefix(string(first.Value(source)), "<!--") {
				return ast.WalkContinue, nil
			}
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				spans = append(spans, span{seg.Start, seg.Stop})
			}
		}
		return ast.WalkContinue, nil
	})

	return StripBlankLines(cut(source, spans))
}

// cut returns source with every span removed. Spans may overlap.
func cut(source []byte, spans []span) string {
	if len(spans) == 0 {
		return string(source)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s.start > pos {
			b.Write(source[pos:s.start])
		}
		if s.stop > pos {
			pos = s.stop
		}
	}
	if pos < len(source) {
		b.Write(source[pos:])
	}
	return b.String()
}
