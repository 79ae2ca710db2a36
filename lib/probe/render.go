package probe

import (
	"apiprobe/lib/htmlutil"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

var Separator = strings.Repeat("=", 80)

const (
	truncatedMarker = "... (truncated)"
	missingValue    = "N/A"

	cookiePreviewLimit = 50
	headingTextLimit   = 100
	maxHeadings        = 10
	maxForms           = 5
	bodyTextLimit      = 1000
	rawTextLimit       = 2000
)

// truncate keeps the first `limit` characters of s.
func truncate(s string, limit int) (string, bool) {
	if utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i], true
		}
		count++
	}
	return s, false
}

func appendTruncated(lines []string, s string, limit int) []string {
	text, truncated := truncate(s, limit)
	lines = append(lines, text)
	if truncated {
		lines = append(lines, truncatedMarker)
	}
	return lines
}

func bodyText(body []byte) string {
	return strings.ToValidUTF8(string(body), "�")
}

func encodeJSON(value any) (string, error) {
	var buff bytes.Buffer
	encoder := json.NewEncoder(&buff)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(value)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(buff.String(), "\n"), nil
}

// RenderRequest previews what is about to be sent.
func RenderRequest(endpoint Endpoint, headers, cookies map[string]string) []string {
	lines := []string{
		Separator,
		fmt.Sprintf("TESTING ENDPOINT: %s", endpoint.Name),
		Separator,
		"",
		fmt.Sprintf("URL: %s", endpoint.Url),
		fmt.Sprintf("Method: %s", endpoint.Method),
		"",
		"Headers:",
	}
	for _, key := range sortedKeys(headers) {
		lines = append(lines, fmt.Sprintf("  %s: %s", key, headers[key]))
	}

	lines = append(lines, "", "Cookies:")
	if len(cookies) == 0 {
		lines = append(lines, "  (none)")
	}
	for _, key := range sortedKeys(cookies) {
		value, truncated := truncate(cookies[key], cookiePreviewLimit)
		if truncated {
			value += "..."
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", key, value))
	}

	if endpoint.Body != nil {
		lines = append(lines, "", "Request Body:")
		encoded, err := encodeJSON(endpoint.Body)
		if err != nil {
			lines = append(lines, fmt.Sprintf("<failed to encode request body: %s>", err.Error()))
		} else {
			lines = append(lines, encoded)
		}
	}

	return append(lines,
		"",
		Separator,
		"SENDING REQUEST...",
		Separator,
		"",
	)
}

// RenderResponse renders status, headers, the classified body and the
// verdict of a response.
func RenderResponse(ctx context.Context, res Response) []string {
	lines := []string{
		fmt.Sprintf("Response Status Code: %d", res.StatusCode),
		fmt.Sprintf("Response Reason: %s", res.Reason),
		"",
		"Response Headers:",
	}
	for _, key := range sortedKeys(res.Header) {
		lines = append(lines, fmt.Sprintf("  %s: %s", key, strings.Join(res.Header[key], ", ")))
	}

	lines = append(lines, "", "Response Body:")
	lines = append(lines, RenderBody(ctx, res.ContentType(), res.Body)...)
	return append(lines, RenderVerdict(res.StatusCode)...)
}

// RenderBody picks a rendering from the declared content type.
func RenderBody(ctx context.Context, contentType string, body []byte) []string {
	contentType = strings.ToLower(contentType)
	switch {
	case strings.Contains(contentType, "application/json"):
		return renderJSON(body)
	case strings.Contains(contentType, "text/html"):
		return renderHTML(ctx, body)
	}
	return renderRaw(contentType, body)
}

func renderJSON(body []byte) []string {
	pretty, err := prettyJSON(body)
	if err != nil {
		return []string{"[JSON Parse Error - Raw Response]", bodyText(body)}
	}
	return []string{"[JSON Response]", pretty}
}

func renderHTML(ctx context.Context, body []byte) []string {
	doc, err := htmlutil.Parse(bytes.NewReader(body))
	if err != nil {
		lines := []string{
			fmt.Sprintf("[Error parsing HTML: %s]", err.Error()),
			"[Raw HTML Response - First 2000 chars]:",
		}
		return appendTruncated(lines, bodyText(body), rawTextLimit)
	}

	page := htmlutil.Inspect(ctx, doc, missingValue)
	lines := []string{"[HTML Response - Parsed]"}

	if page.HasTitle {
		lines = append(lines, "", fmt.Sprintf("Page Title: %s", page.Title))
	}

	if len(page.Headings) > 0 {
		lines = append(lines, "", fmt.Sprintf("Headings Found (%d):", len(page.Headings)))
		for i, h := range page.Headings {
			if i >= maxHeadings {
				break
			}
			text, _ := truncate(h.Text, headingTextLimit)
			lines = append(lines, fmt.Sprintf("  %s: %s", h.Tag, text))
		}
	}

	if page.HasBody {
		lines = append(lines, "", "Body Text (first 1000 chars):")
		lines = appendTruncated(lines, page.BodyText, bodyTextLimit)
	}

	if len(page.Forms) > 0 {
		lines = append(lines, "", fmt.Sprintf("Forms Found (%d):", len(page.Forms)))
		for i, f := range page.Forms {
			if i >= maxForms {
				break
			}
			lines = append(lines, fmt.Sprintf("  Form %d: action=%s, method=%s", i+1, f.Action, f.Method))
		}
	}

	lines = append(lines, "", "[Prettified HTML - First 2000 chars]:")
	pretty := strings.TrimRight(htmlutil.Prettify(doc.Nodes[0]), "\n")
	return appendTruncated(lines, pretty, rawTextLimit)
}

func renderRaw(contentType string, body []byte) []string {
	lines := []string{
		fmt.Sprintf("[Unknown Content-Type: %s]", contentType),
		"[Raw Response - First 2000 chars]:",
	}
	return appendTruncated(lines, bodyText(body), rawTextLimit)
}

// RenderVerdict marks a response successful only on exactly 200.
func RenderVerdict(statusCode int) []string {
	verdict := fmt.Sprintf("✗ REQUEST FAILED WITH STATUS %d", statusCode)
	if statusCode == 200 {
		verdict = "✓ REQUEST SUCCESSFUL!"
	}
	return []string{
		"",
		Separator,
		verdict,
		Separator,
		"",
	}
}
