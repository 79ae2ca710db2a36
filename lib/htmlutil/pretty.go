package htmlutil

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const indentUnit = " "

// Prettify renders a document with one tag or text fragment per line,
// children indented one space deeper than their parent. whitespace-only
// text is dropped and the remaining text is trimmed.
func Prettify(node *html.Node) string {
	var out strings.Builder
	prettify(&out, node, 0)
	return out.String()
}

func writeLine(out *strings.Builder, depth int, line string) {
	out.WriteString(strings.Repeat(indentUnit, depth))
	out.WriteString(line)
	out.WriteString("\n")
}

func openTag(node *html.Node, selfClose bool) string {
	var tag strings.Builder
	tag.WriteString("<")
	tag.WriteString(node.Data)
	for _, attr := range node.Attr {
		key := attr.Key
		if attr.Namespace != "" {
			key = fmt.Sprintf("%s:%s", attr.Namespace, attr.Key)
		}
		tag.WriteString(fmt.Sprintf(` %s="%s"`, key, html.EscapeString(attr.Val)))
	}
	if selfClose {
		tag.WriteString("/")
	}
	tag.WriteString(">")
	return tag.String()
}

func isVoid(node *html.Node) bool {
	switch node.DataAtom {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Link, atom.Meta, atom.Source,
		atom.Track, atom.Wbr:
		return true
	}
	return false
}

func prettify(out *strings.Builder, node *html.Node, depth int) {
	switch node.Type {
	case html.DocumentNode:
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			prettify(out, child, depth)
		}
	case html.DoctypeNode:
		writeLine(out, depth, fmt.Sprintf("<!DOCTYPE %s>", node.Data))
	case html.CommentNode:
		writeLine(out, depth, fmt.Sprintf("<!--%s-->", node.Data))
	case html.TextNode:
		text := strings.TrimSpace(node.Data)
		if text == "" {
			return
		}
		if !isRawTextContainer(node.Parent) {
			text = html.EscapeString(text)
		}
		writeLine(out, depth, text)
	case html.ElementNode:
		if isVoid(node) {
			writeLine(out, depth, openTag(node, true))
			return
		}
		writeLine(out, depth, openTag(node, false))
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			prettify(out, child, depth+1)
		}
		writeLine(out, depth, fmt.Sprintf("</%s>", node.Data))
	}
}
