// Package markdown converts generic Markdown into Telegram's MarkdownV2
// dialect. The input is parsed into a block/inline tree and rendered node by
// node; literal text and URLs go through reserved-character escaping so the
// output satisfies Telegram's strict entity parser.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var parser = goldmark.New()

// Convert renders markdown as Telegram MarkdownV2. Blocks are separated by a
// blank line and the result is trimmed. Unsupported constructs (images, raw
// HTML, thematic breaks) render as empty strings.
func Convert(markdown string) string {
	source := []byte(markdown)
	doc := parser.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	for block := doc.FirstChild(); block != nil; block = block.NextSibling() {
		b.WriteString(renderBlock(block, source))
		b.WriteString("\n\n")
	}

	return strings.TrimSpace(b.String())
}

func renderBlock(n ast.Node, source []byte) string {
	switch n.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		return renderChildren(n, source)
	case ast.KindHeading:
		// Heading level is not representable in MarkdownV2; every level
		// renders as bold.
		return "*" + renderChildren(n, source) + "*"
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		code := strings.TrimRight(blockText(n, source), " \t\r\n")
		return "```\n" + Escape(code) + "\n```"
	case ast.KindList:
		return renderList(n.(*ast.List), source)
	default:
		return ""
	}
}

func renderList(list *ast.List, source []byte) string {
	var b strings.Builder
	index := 1
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		if list.IsOrdered() {
			b.WriteString(fmt.Sprintf("%d. ", index))
		} else {
			b.WriteString("• ")
		}
		for block := item.FirstChild(); block != nil; block = block.NextSibling() {
			b.WriteString(renderBlock(block, source))
		}
		b.WriteString("\n")
		index++
	}
	return b.String()
}

func renderChildren(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(renderInline(c, source))
	}
	return b.String()
}

func renderInline(n ast.Node, source []byte) string {
	switch n.Kind() {
	case ast.KindText:
		t := n.(*ast.Text)
		s := Escape(string(t.Segment.Value(source)))
		if t.SoftLineBreak() || t.HardLineBreak() {
			s += "\n"
		}
		return s
	case ast.KindString:
		return Escape(string(n.(*ast.String).Value))
	case ast.KindEmphasis:
		em := n.(*ast.Emphasis)
		delim := "_"
		if em.Level >= 2 {
			delim = "*"
		}
		return delim + renderChildren(n, source) + delim
	case ast.KindCodeSpan:
		return "`" + Escape(inlineText(n, source)) + "`"
	case ast.KindImage:
		// Telegram has no inline image syntax.
		return ""
	case ast.KindLink:
		link := n.(*ast.Link)
		return "[" + renderChildren(n, source) + "](" + Escape(string(link.Destination)) + ")"
	case ast.KindAutoLink:
		url := string(n.(*ast.AutoLink).URL(source))
		return "[" + Escape(url) + "](" + Escape(url) + ")"
	default:
		return ""
	}
}

// inlineText concatenates the raw text segments below n, without escaping.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return b.String()
}

// blockText concatenates the source lines of a code block.
func blockText(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(source))
	}
	return b.String()
}
