package htmlutil

import (
	"context"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var tracer = otel.Tracer("apiprobe.lib.htmlutil")

// text inside these elements is code, not content
func isRawTextContainer(node *html.Node) bool {
	if node == nil || node.Type != html.ElementNode {
		return false
	}
	switch node.DataAtom {
	case atom.Script, atom.Style, atom.Template, atom.Noscript:
		return true
	}
	return false
}

func collectStrippedText(node *html.Node, out *[]string) {
	if node == nil || isRawTextContainer(node) {
		return
	}
	if node.Type == html.TextNode {
		text := strings.TrimSpace(node.Data)
		if text != "" {
			*out = append(*out, text)
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectStrippedText(child, out)
	}
}

// StrippedText returns every text fragment under the selection with
// surrounding whitespace removed, empty fragments dropped, joined with
// `separator`.
func StrippedText(sel *goquery.Selection, separator string) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectStrippedText(n, &parts)
	}
	return strings.Join(parts, separator)
}

type Heading struct {
	Tag  string
	Text string
}

type Form struct {
	Action string
	Method string
}

// Page is the summary of an html document a probe report prints.
type Page struct {
	HasTitle bool
	Title    string
	Headings []Heading
	HasBody  bool
	BodyText string
	Forms    []Form
}

func Parse(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// Inspect extracts the title, h1-h3 headings, body text and forms of a
// document. attributes missing from a form are reported as `missing`.
func Inspect(ctx context.Context, doc *goquery.Document, missing string) Page {
	_, span := tracer.Start(ctx, "Inspect")
	defer span.End()

	page := Page{}

	title := doc.Find("title").First()
	if title.Length() > 0 {
		page.HasTitle = true
		page.Title = StrippedText(title, "")
	}

	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		page.Headings = append(page.Headings, Heading{
			Tag:  goquery.NodeName(s),
			Text: StrippedText(s, ""),
		})
	})

	body := doc.Find("body").First()
	if body.Length() > 0 {
		page.HasBody = true
		page.BodyText = StrippedText(body, " ")
	}

	doc.Find("form").Each(func(_ int, s *goquery.Selection) {
		page.Forms = append(page.Forms, Form{
			Action: s.AttrOr("action", missing),
			Method: s.AttrOr("method", missing),
		})
	})

	span.SetAttributes(
		attribute.Bool("title", page.HasTitle),
		attribute.Int("headings", len(page.Headings)),
		attribute.Int("forms", len(page.Forms)),
	)
	if !page.HasBody {
		span.SetStatus(codes.Error, "document has no body")
	}

	return page
}
