// Package markdown flattens markdown-formatted LLM output into plain
// text suitable for chat platforms that render messages verbatim.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ToPlainText renders markdown source as plain text: formatting is
// dropped, link and emphasis text is kept, code blocks are kept as-is.
func ToPlainText(source string) string {
	src := []byte(source)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Paragraph-level nodes get a separating newline on exit.
			switch n.(type) {
			case *ast.Paragraph, *ast.Heading, *ast.ListItem:
				sb.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteString("\n")
			}
		case *ast.FencedCodeBlock:
			writeLines(&sb, src, node.Lines())
			sb.WriteString("\n")
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			writeLines(&sb, src, node.Lines())
			sb.WriteString("\n")
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					sb.Write(t.Segment.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			sb.Write(node.URL(src))
			return ast.WalkSkipChildren, nil
		case *ast.ThematicBreak:
			sb.WriteString("\n")
		}
		return ast.WalkContinue, nil
	})

	return collapseBlankLines(strings.TrimSpace(sb.String()))
}

func writeLines(sb *strings.Builder, src []byte, lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
}

// collapseBlankLines squeezes runs of 3+ newlines down to a blank line.
func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
